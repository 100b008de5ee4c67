package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for BuildChart()
// ============================================================================

// Option configures chart building via functional options pattern.
type Option func(*config)

type config struct {
	TopN map[ChartType]int // category cap per chart type; <= 0 disables capping
}

// WithTopN overrides the category cap for one chart type.
// n <= 0 disables capping for that type.
func WithTopN(t ChartType, n int) Option {
	return func(c *config) {
		c.TopN[t] = n
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		TopN: map[ChartType]int{
			ChartBar:  DefaultBarTopN,
			ChartLine: DefaultBarTopN,
			ChartPie:  DefaultPieTopN,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
