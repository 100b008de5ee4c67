package history

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spektr-org/datasynth/engine"
)

func sampleRows() engine.Dataset {
	return engine.Dataset{
		{{Key: "city", Value: engine.String("Pune")}, {Key: "pop", Value: engine.Number(7)}},
		{{Key: "city", Value: engine.String("Delhi")}, {Key: "pop", Value: engine.Number(32)}},
	}
}

var fixedNow = time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)

func TestNewItem(t *testing.T) {
	it := NewItem("Indian cities", sampleRows(), fixedNow)

	if _, err := uuid.Parse(it.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", it.ID, err)
	}
	if it.Timestamp != "3:04:05 PM" {
		t.Errorf("Timestamp = %q, want 3:04:05 PM", it.Timestamp)
	}
	if it.Description != "Indian cities" {
		t.Errorf("Description = %q", it.Description)
	}
}

func TestNewItemUntitled(t *testing.T) {
	it := NewItem("  ", nil, fixedNow)
	if it.Description != UntitledDescription {
		t.Errorf("Description = %q, want %q", it.Description, UntitledDescription)
	}
}

func TestNewItemIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewItem("x", nil, fixedNow).ID
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestStoreAddPrepends(t *testing.T) {
	s := NewStore()
	first := NewItem("first", sampleRows(), fixedNow)
	second := NewItem("second", sampleRows(), fixedNow.Add(time.Second))

	s.Add(first)
	s.Add(second)

	list := s.List()
	if len(list) != 2 || s.Len() != 2 {
		t.Fatalf("len = %d/%d, want 2", len(list), s.Len())
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("order = %s,%s; want newest first", list[0].Description, list[1].Description)
	}
}

func TestStoreSummaries(t *testing.T) {
	s := NewStore()
	first := NewItem("first", sampleRows(), fixedNow)
	second := NewItem("", sampleRows()[:1], fixedNow.Add(time.Second))
	s.Add(first)
	s.Add(second)

	got := s.Summaries()
	want := []Summary{
		{ID: second.ID, Description: UntitledDescription, Timestamp: "3:04:06 PM", Rows: 1},
		{ID: first.ID, Description: "first", Timestamp: "3:04:05 PM", Rows: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("summary %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	a := NewItem("a", nil, fixedNow)
	b := NewItem("b", nil, fixedNow)
	s.Add(a)
	s.Add(b)

	if !s.Remove(a.ID) {
		t.Error("Remove(a) = false")
	}
	if s.Remove(a.ID) {
		t.Error("second Remove(a) = true, want no-op")
	}
	if s.Remove("missing") {
		t.Error("Remove(missing) = true")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := NewStore()
	it := NewItem("copy", sampleRows(), fixedNow)
	s.Add(it)

	got, ok := s.Get(it.ID)
	if !ok {
		t.Fatal("Get: not found")
	}
	got.Rows[0][0].Value = engine.String("changed")
	got.Rows = got.Rows.WithCell(1, "pop", engine.Number(0))

	again, _ := s.Get(it.ID)
	if v := again.Rows[0].Get("city").String(); v != "Pune" {
		t.Errorf("stored row mutated: city = %q", v)
	}
	if v := again.Rows[1].Get("pop").String(); v != "32" {
		t.Errorf("stored row mutated: pop = %q", v)
	}
}

func TestStoreAddCopiesInput(t *testing.T) {
	s := NewStore()
	it := NewItem("copy", sampleRows(), fixedNow)
	s.Add(it)

	it.Rows[0][0].Value = engine.String("changed")

	got, _ := s.Get(it.ID)
	if v := got.Rows[0].Get("city").String(); v != "Pune" {
		t.Errorf("Add kept a reference: city = %q", v)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				it := NewItem("c", sampleRows(), fixedNow)
				s.Add(it)
				s.List()
				s.Get(it.ID)
			}
		}()
	}
	wg.Wait()
	if s.Len() != 200 {
		t.Errorf("Len = %d, want 200", s.Len())
	}
}
