package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spektr-org/datasynth/engine"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasynth.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service.BaseURL != "http://localhost:8000" || cfg.Service.Timeout != 0 {
		t.Errorf("service = %+v", cfg.Service)
	}
	if cfg.Wizard.Region != "hi_IN" || cfg.Wizard.Rows != 20 {
		t.Errorf("wizard = %+v", cfg.Wizard)
	}
	if cfg.ChartType() != engine.ChartBar || cfg.TopN(engine.ChartPie) != 8 || cfg.TopN(engine.ChartLine) != 20 {
		t.Errorf("chart = %+v", cfg.Chart)
	}
	if cfg.Export.CSVName != "synthetic_data.csv" || cfg.Export.Sheet != "Data" {
		t.Errorf("export = %+v", cfg.Export)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
service:
  base_url: http://synth.internal:9000
  timeout: 45s
wizard:
  rows: 50
chart:
  type: pie
  pie_top_n: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service.BaseURL != "http://synth.internal:9000" || cfg.Service.Timeout != 45*time.Second {
		t.Errorf("service = %+v", cfg.Service)
	}
	if cfg.Wizard.Rows != 50 || cfg.Wizard.Region != "hi_IN" {
		t.Errorf("wizard = %+v (region should keep its default)", cfg.Wizard)
	}
	if cfg.ChartType() != engine.ChartPie || cfg.TopN(engine.ChartPie) != 5 || cfg.TopN(engine.ChartBar) != 20 {
		t.Errorf("chart = %+v", cfg.Chart)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "wizard:\n  region: en_US\n")
	t.Setenv(EnvRegion, "ja_JP")
	t.Setenv(EnvBaseURL, "http://env.test")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Wizard.Region != "ja_JP" || cfg.Service.BaseURL != "http://env.test" || cfg.Log.Level != "debug" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "wizard: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero rows", "wizard:\n  rows: 0\n", "wizard.rows"},
		{"negative cap", "chart:\n  bar_top_n: -1\n", "chart caps"},
		{"bad chart type", "chart:\n  type: radar\n", "chart.type"},
		{"bad log format", "log:\n  format: xml\n", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
