package persistence

import (
	"github.com/google/uuid"

	"github.com/researchwiseai/pulse-go"
	"github.com/researchwiseai/pulse-go/codec"
	"github.com/researchwiseai/pulse-go/resource"
)

type options struct {
	dtype       codec.DType
	compression codec.Compression
	codec       codec.Codec
	id          string
	controller  *resource.Controller
	logger      *pulse.Logger
	metrics     pulse.MetricsCollector
}

func defaultOptions() options {
	return options{
		dtype:       codec.Float64,
		compression: codec.CompressionNone,
		codec:       codec.Default,
		logger:      pulse.NoopLogger(),
		metrics:     pulse.NoopMetricsCollector{},
	}
}

// Option configures Save and Load. Save-only options are ignored by Load.
type Option func(*options)

// WithDType sets the payload dtype written by Save. Default float64.
func WithDType(d codec.DType) Option {
	return func(o *options) { o.dtype = d }
}

// WithCompression sets the frame compression written by Save. Default none.
func WithCompression(c codec.Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithCodec sets the header sidecar codec written by Save. Default go-json.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithID sets the ID recorded in the meta blob. Default a random UUID.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithController reserves decoded bytes against the controller's memory
// limit while Load decodes.
func WithController(rc *resource.Controller) Option {
	return func(o *options) { o.controller = rc }
}

// WithLogger sets the logger. nil disables logging.
func WithLogger(l *pulse.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = pulse.NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector. nil disables metrics.
func WithMetricsCollector(mc pulse.MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = pulse.NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	return o
}
