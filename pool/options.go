package pool

import (
	"time"

	"github.com/researchwiseai/pulse-go/resource"
)

// Observer is called after every task with its index, coordinates, run time
// and error. It runs on the task's goroutine and must be safe for concurrent use.
type Observer func(index int, coords []int, d time.Duration, err error)

// Option configures Map.
type Option func(*options)

type options struct {
	size       int
	policy     Policy
	controller *resource.Controller
	skip       func(coords []int) bool
	observer   Observer
}

func applyOptions(opts []Option) options {
	o := options{
		size:   DefaultSize,
		policy: FailFast,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.size <= 0 {
		o.size = DefaultSize
	}
	return o
}

// WithSize sets the maximum number of tasks in flight. Non-positive values
// select DefaultSize.
func WithSize(n int) Option {
	return func(o *options) {
		o.size = n
	}
}

// WithPolicy sets the failure policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithController shares a resource controller's call budget with other runs.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithSkip marks cells for which fn must not run; their slots keep the zero
// value and are reported in Result.Skipped.
func WithSkip(skip func(coords []int) bool) Option {
	return func(o *options) {
		o.skip = skip
	}
}

// WithObserver registers a per-task callback.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}
