package engine

import (
	"errors"
	"testing"
)

func TestDefaultChartConfig(t *testing.T) {
	tests := []struct {
		name  string
		rows  Dataset
		wantX string
		wantY string
	}{
		{
			name:  "first numeric column",
			rows:  Dataset{row("name", "a", "city", "b", "age", "31")},
			wantX: "name",
			wantY: "age",
		},
		{
			name:  "numeric in a later row only",
			rows:  Dataset{row("name", "a", "score", "n/a"), row("name", "b", "score", 7)},
			wantX: "name",
			wantY: "score",
		},
		{
			name:  "no numeric falls back to second column",
			rows:  Dataset{row("name", "a", "city", "b", "team", "c")},
			wantX: "name",
			wantY: "city",
		},
		{
			name:  "single column",
			rows:  Dataset{row("name", "a")},
			wantX: "name",
			wantY: "name",
		},
		{
			name:  "first column numeric",
			rows:  Dataset{row("id", 1, "name", "a")},
			wantX: "id",
			wantY: "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultChartConfig(tt.rows, ChartBar)
			if cfg.XKey != tt.wantX || cfg.YKey != tt.wantY {
				t.Errorf("got x=%q y=%q, want x=%q y=%q", cfg.XKey, cfg.YKey, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestDefaultChartConfigEmpty(t *testing.T) {
	cfg := DefaultChartConfig(nil, "")
	if cfg.XKey != "" || cfg.YKey != "" || cfg.Type != ChartBar {
		t.Errorf("got %+v, want empty keys and bar", cfg)
	}
}

func TestReconcilePreservesValidKeys(t *testing.T) {
	rows := Dataset{row("name", "a", "city", "b", "age", 3)}
	cfg := ChartConfig{XKey: "city", YKey: "name", Type: ChartPie}

	got := cfg.Reconcile(rows)
	if got != cfg {
		t.Errorf("Reconcile = %+v, want unchanged %+v", got, cfg)
	}
}

func TestReconcileResetsStaleKeys(t *testing.T) {
	rows := Dataset{row("product", "a", "price", 3)}
	cfg := ChartConfig{XKey: "city", YKey: "price", Type: ChartLine}

	got := cfg.Reconcile(rows)
	want := ChartConfig{XKey: "product", YKey: "price", Type: ChartLine}
	if got != want {
		t.Errorf("Reconcile = %+v, want %+v", got, want)
	}
}

func TestValidate(t *testing.T) {
	rows := Dataset{row("a", 1, "b", 2)}

	if err := (ChartConfig{XKey: "a", YKey: "b", Type: ChartBar}).Validate(rows); err != nil {
		t.Errorf("valid config: %v", err)
	}
	err := (ChartConfig{XKey: "z", YKey: "b", Type: ChartBar}).Validate(rows)
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
	err = (ChartConfig{XKey: "a", YKey: "b", Type: "area"}).Validate(rows)
	if !errors.Is(err, ErrUnknownChartType) {
		t.Errorf("err = %v, want ErrUnknownChartType", err)
	}
}
