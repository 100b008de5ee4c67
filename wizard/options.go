package wizard

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/remote"
)

// ============================================================================
// CONTROLLER OPTIONS — Functional options for New()
// ============================================================================

// Option configures a Controller.
type Option func(*options)

type options struct {
	rows      int
	region    string
	chartType engine.ChartType
	topN      map[engine.ChartType]int
	now       func() time.Time
	logger    *zerolog.Logger
}

// WithRows sets the number of rows requested per generation. n <= 0 keeps
// the default.
func WithRows(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.rows = n
		}
	}
}

// WithRegion sets the initial region. Unknown codes keep the default.
func WithRegion(code string) Option {
	return func(o *options) {
		if _, ok := LookupRegion(code); ok {
			o.region = code
		}
	}
}

// WithChartType sets the chart type used for new datasets.
func WithChartType(t engine.ChartType) Option {
	return func(o *options) {
		if _, err := engine.ParseChartType(string(t)); err == nil {
			o.chartType = t
		}
	}
}

// WithTopN overrides the category cap for one chart type.
func WithTopN(t engine.ChartType, n int) Option {
	return func(o *options) {
		o.topN[t] = n
	}
}

// WithClock replaces time.Now for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger. The default is the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &l
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		rows:      remote.DefaultRows,
		region:    DefaultRegion,
		chartType: engine.ChartBar,
		topN:      map[engine.ChartType]int{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) engineOptions() []engine.Option {
	out := make([]engine.Option, 0, len(o.topN))
	for t, n := range o.topN {
		out = append(out, engine.WithTopN(t, n))
	}
	return out
}
