// Package config loads datasynth settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/export"
	"github.com/spektr-org/datasynth/remote"
	"github.com/spektr-org/datasynth/wizard"
)

// Environment overrides, applied after the file.
const (
	EnvBaseURL  = "DATASYNTH_BASE_URL"
	EnvRegion   = "DATASYNTH_REGION"
	EnvLogLevel = "DATASYNTH_LOG_LEVEL"
)

// Config is the top-level configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Wizard  WizardConfig  `yaml:"wizard"`
	Chart   ChartConfig   `yaml:"chart"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

// ServiceConfig locates the generation service.
type ServiceConfig struct {
	BaseURL string        `yaml:"base_url"` // default http://localhost:8000
	Timeout time.Duration `yaml:"timeout"`  // 0 = no client-side deadline
}

// WizardConfig sets generation parameters.
type WizardConfig struct {
	Region string `yaml:"region"` // locale code, e.g. hi_IN
	Rows   int    `yaml:"rows"`   // rows per generation
}

// ChartConfig sets the default chart and category caps.
type ChartConfig struct {
	Type    string `yaml:"type"`      // bar | line | pie
	PieTopN int    `yaml:"pie_top_n"` // 0 disables capping
	BarTopN int    `yaml:"bar_top_n"` // applies to bar and line
}

// ExportConfig names export artifacts.
type ExportConfig struct {
	CSVName  string `yaml:"csv_name"`
	XLSXName string `yaml:"xlsx_name"`
	Sheet    string `yaml:"sheet"`
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace | debug | info | warn | error
	Format string `yaml:"format"` // console | json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{BaseURL: remote.DefaultBaseURL},
		Wizard:  WizardConfig{Region: wizard.DefaultRegion, Rows: remote.DefaultRows},
		Chart: ChartConfig{
			Type:    string(engine.ChartBar),
			PieTopN: engine.DefaultPieTopN,
			BarTopN: engine.DefaultBarTopN,
		},
		Export: ExportConfig{
			CSVName:  export.DefaultCSVName,
			XLSXName: export.DefaultXLSXName,
			Sheet:    export.DefaultSheetName,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads the YAML config at path over the defaults, then applies
// environment overrides and validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv(EnvRegion); v != "" {
		c.Wizard.Region = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Service.BaseURL) == "" {
		errs = append(errs, errors.New("service.base_url is required"))
	}
	if c.Service.Timeout < 0 {
		errs = append(errs, fmt.Errorf("service.timeout must not be negative, got %s", c.Service.Timeout))
	}
	if c.Wizard.Rows <= 0 {
		errs = append(errs, fmt.Errorf("wizard.rows must be positive, got %d", c.Wizard.Rows))
	}
	if c.Chart.PieTopN < 0 || c.Chart.BarTopN < 0 {
		errs = append(errs, errors.New("chart caps must not be negative"))
	}
	if _, err := engine.ParseChartType(c.Chart.Type); err != nil {
		errs = append(errs, fmt.Errorf("chart.type: %w", err))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// ChartType returns the parsed default chart type.
func (c *Config) ChartType() engine.ChartType {
	t, err := engine.ParseChartType(c.Chart.Type)
	if err != nil {
		return engine.ChartBar
	}
	return t
}

// TopN returns the category cap for chart type t.
func (c *Config) TopN(t engine.ChartType) int {
	if t == engine.ChartPie {
		return c.Chart.PieTopN
	}
	return c.Chart.BarTopN
}
