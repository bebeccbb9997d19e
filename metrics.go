package pulse

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// prommetrics provides a Prometheus implementation:
//
//	mc, err := prommetrics.New(prometheus.DefaultRegisterer, "pulse")
//	if err != nil {
//	    return err
//	}
//	m, report, err := pulse.Generate(ctx, axes, fn, pulse.WithMetricsCollector(mc))
type MetricsCollector interface {
	// RecordCell is called after each generation task returns.
	// duration is the time fn ran, err is nil if successful.
	RecordCell(duration time.Duration, err error)

	// RecordGenerate is called after each generation run.
	// cells is the number of cells in the product, failed the number that failed.
	RecordGenerate(cells, failed int, duration time.Duration)

	// RecordEncode is called after a matrix is encoded for storage.
	RecordEncode(bytes int, duration time.Duration)

	// RecordDecode is called after a stored matrix is decoded.
	RecordDecode(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCell(time.Duration, error)        {}
func (NoopMetricsCollector) RecordGenerate(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordEncode(int, time.Duration)        {}
func (NoopMetricsCollector) RecordDecode(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CellCount        atomic.Int64
	CellErrors       atomic.Int64
	CellTotalNanos   atomic.Int64
	GenerateCount    atomic.Int64
	GenerateCells    atomic.Int64
	GenerateFailed   atomic.Int64
	EncodeCount      atomic.Int64
	EncodeBytes      atomic.Int64
	DecodeCount      atomic.Int64
	DecodeBytes      atomic.Int64
	DecodeErrors     atomic.Int64
	DecodeTotalNanos atomic.Int64
}

// RecordCell implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCell(duration time.Duration, err error) {
	b.CellCount.Add(1)
	b.CellTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CellErrors.Add(1)
	}
}

// RecordGenerate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGenerate(cells, failed int, duration time.Duration) {
	b.GenerateCount.Add(1)
	b.GenerateCells.Add(int64(cells))
	b.GenerateFailed.Add(int64(failed))
}

// RecordEncode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEncode(bytes int, duration time.Duration) {
	b.EncodeCount.Add(1)
	b.EncodeBytes.Add(int64(bytes))
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(bytes int, duration time.Duration, err error) {
	b.DecodeCount.Add(1)
	b.DecodeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DecodeErrors.Add(1)
		return
	}
	b.DecodeBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CellCount:      b.CellCount.Load(),
		CellErrors:     b.CellErrors.Load(),
		CellAvgNanos:   avg(b.CellTotalNanos.Load(), b.CellCount.Load()),
		GenerateCount:  b.GenerateCount.Load(),
		GenerateCells:  b.GenerateCells.Load(),
		GenerateFailed: b.GenerateFailed.Load(),
		EncodeCount:    b.EncodeCount.Load(),
		EncodeBytes:    b.EncodeBytes.Load(),
		DecodeCount:    b.DecodeCount.Load(),
		DecodeBytes:    b.DecodeBytes.Load(),
		DecodeErrors:   b.DecodeErrors.Load(),
		DecodeAvgNanos: avg(b.DecodeTotalNanos.Load(), b.DecodeCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CellCount      int64
	CellErrors     int64
	CellAvgNanos   int64
	GenerateCount  int64
	GenerateCells  int64
	GenerateFailed int64
	EncodeCount    int64
	EncodeBytes    int64
	DecodeCount    int64
	DecodeBytes    int64
	DecodeErrors   int64
	DecodeAvgNanos int64
}
