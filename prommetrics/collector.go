// Package prommetrics exports pulse operational metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/researchwiseai/pulse-go"
)

var _ pulse.MetricsCollector = (*Collector)(nil)

// Collector implements pulse.MetricsCollector on Prometheus counters and
// histograms.
type Collector struct {
	cells         *prometheus.CounterVec
	cellLatency   prometheus.Histogram
	runs          prometheus.Counter
	runCells      prometheus.Counter
	runFailed     prometheus.Counter
	runLatency    prometheus.Histogram
	encodes       prometheus.Counter
	encodeBytes   prometheus.Counter
	encodeLatency prometheus.Histogram
	decodes       *prometheus.CounterVec
	decodeBytes   prometheus.Counter
	decodeLatency prometheus.Histogram
}

// New creates a Collector and registers its metrics with reg. Metric names
// are prefixed with namespace when it is not empty.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		cells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_total",
			Help:      "Generation tasks completed, by status.",
		}, []string{"status"}),
		cellLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cell_duration_seconds",
			Help:      "Latency of generation tasks.",
			Buckets:   prometheus.DefBuckets,
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generate_runs_total",
			Help:      "Generation runs completed.",
		}),
		runCells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generate_cells_total",
			Help:      "Cells in the products of completed generation runs.",
		}),
		runFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generate_failed_cells_total",
			Help:      "Cells whose task failed.",
		}),
		runLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Wall time of generation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		encodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encodes_total",
			Help:      "Matrices encoded for storage.",
		}),
		encodeBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encode_bytes_total",
			Help:      "Bytes written by encodes.",
		}),
		encodeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encode_duration_seconds",
			Help:      "Latency of encodes.",
			Buckets:   prometheus.DefBuckets,
		}),
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decodes_total",
			Help:      "Stored matrices decoded, by status.",
		}, []string{"status"}),
		decodeBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_bytes_total",
			Help:      "Bytes read by successful decodes.",
		}),
		decodeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decode_duration_seconds",
			Help:      "Latency of decodes.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, m := range []prometheus.Collector{
		c.cells, c.cellLatency,
		c.runs, c.runCells, c.runFailed, c.runLatency,
		c.encodes, c.encodeBytes, c.encodeLatency,
		c.decodes, c.decodeBytes, c.decodeLatency,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordCell implements pulse.MetricsCollector.
func (c *Collector) RecordCell(d time.Duration, err error) {
	c.cells.WithLabelValues(status(err)).Inc()
	c.cellLatency.Observe(d.Seconds())
}

// RecordGenerate implements pulse.MetricsCollector.
func (c *Collector) RecordGenerate(cells, failed int, d time.Duration) {
	c.runs.Inc()
	c.runCells.Add(float64(cells))
	c.runFailed.Add(float64(failed))
	c.runLatency.Observe(d.Seconds())
}

// RecordEncode implements pulse.MetricsCollector.
func (c *Collector) RecordEncode(bytes int, d time.Duration) {
	c.encodes.Inc()
	c.encodeBytes.Add(float64(bytes))
	c.encodeLatency.Observe(d.Seconds())
}

// RecordDecode implements pulse.MetricsCollector.
func (c *Collector) RecordDecode(bytes int, d time.Duration, err error) {
	c.decodes.WithLabelValues(status(err)).Inc()
	c.decodeLatency.Observe(d.Seconds())
	if err == nil {
		c.decodeBytes.Add(float64(bytes))
	}
}
