// Package history keeps past generation results for the lifetime of the
// process, newest first.
package history

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spektr-org/datasynth/engine"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("history item not found")

// UntitledDescription names items generated from an empty description.
const UntitledDescription = "Untitled Dataset"

// TimestampLayout formats Item.Timestamp.
const TimestampLayout = "3:04:05 PM"

// Item is one past generation. Items are immutable once stored.
type Item struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Timestamp   string         `json:"timestamp"`
	CreatedAt   time.Time      `json:"createdAt"`
	Rows        engine.Dataset `json:"rows"`
}

// NewItem builds an item for rows generated at now. The id is a UUIDv7, so
// it sorts by generation time.
func NewItem(description string, rows engine.Dataset, now time.Time) Item {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	if strings.TrimSpace(description) == "" {
		description = UntitledDescription
	}
	return Item{
		ID:          id.String(),
		Description: description,
		Timestamp:   now.Format(TimestampLayout),
		CreatedAt:   now,
		Rows:        rows.Clone(),
	}
}

func (it Item) clone() Item {
	it.Rows = it.Rows.Clone()
	return it
}

// Store is an in-memory, newest-first list of items. It is safe for
// concurrent use. Items go in and come out as deep copies, so callers can
// never reach stored rows.
type Store struct {
	mu    sync.RWMutex
	items []Item
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add prepends a copy of item.
func (s *Store) Add(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]Item{item.clone()}, s.items...)
}

// Remove deletes the item with id and reports whether one was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of the item with id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it.clone(), true
		}
	}
	return Item{}, false
}

// List returns copies of all items, newest first.
func (s *Store) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.clone()
	}
	return out
}

// Summary describes an item without its rows.
type Summary struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	Rows        int    `json:"rows"`
}

// Summaries lists all items without copying their rows, newest first.
func (s *Store) Summaries() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, len(s.items))
	for i, it := range s.items {
		out[i] = Summary{
			ID:          it.ID,
			Description: it.Description,
			Timestamp:   it.Timestamp,
			Rows:        len(it.Rows),
		}
	}
	return out
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
