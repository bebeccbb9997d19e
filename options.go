package pulse

import (
	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/pool"
	"github.com/researchwiseai/pulse-go/resource"
)

// DefaultPoolSize is the number of fn calls Generate keeps in flight.
const DefaultPoolSize = pool.DefaultSize

type generateOptions struct {
	poolSize         int
	axisHeaders      headers.Headers
	policy           pool.Policy
	controller       *resource.Controller
	logger           *Logger
	metricsCollector MetricsCollector
	skip             func(coords []int) bool
	runID            string
}

func defaultGenerateOptions() generateOptions {
	return generateOptions{
		poolSize:         DefaultPoolSize,
		policy:           pool.FailFast,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// GenerateOption configures Generate and GenerateSelf.
type GenerateOption func(*generateOptions)

// WithPoolSize sets how many fn calls may be in flight at once.
// Values < 1 fall back to DefaultPoolSize.
func WithPoolSize(n int) GenerateOption {
	return func(o *generateOptions) {
		if n < 1 {
			n = DefaultPoolSize
		}
		o.poolSize = n
	}
}

// WithAxisHeaders supplies the headers of the generated matrix, one
// Dimension per axis. Axes whose Dimension is nil get the default labels.
func WithAxisHeaders(h headers.Headers) GenerateOption {
	return func(o *generateOptions) {
		o.axisHeaders = h
	}
}

// WithFailurePolicy selects what a failing fn call does to the run.
// The default is pool.FailFast.
func WithFailurePolicy(p pool.Policy) GenerateOption {
	return func(o *generateOptions) {
		o.policy = p
	}
}

// WithController shares an in-flight and rate budget with other runs.
func WithController(rc *resource.Controller) GenerateOption {
	return func(o *generateOptions) {
		o.controller = rc
	}
}

// WithLogger configures the logger for generation runs.
// Pass nil to use NoopLogger.
func WithLogger(l *Logger) GenerateOption {
	return func(o *generateOptions) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for generation runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &pulse.BasicMetricsCollector{}
//	m, rep, err := pulse.Generate(ctx, axes, fn, pulse.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) GenerateOption {
	return func(o *generateOptions) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithSkip leaves every cell for which skip returns true uncomputed.
// Skipped cells hold the zero value.
func WithSkip(skip func(coords []int) bool) GenerateOption {
	return func(o *generateOptions) {
		o.skip = skip
	}
}

// WithRunID sets the run ID reported in logs and the Report.
// By default a random UUID is used.
func WithRunID(id string) GenerateOption {
	return func(o *generateOptions) {
		o.runID = id
	}
}
