package pulse

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/pool"
	"github.com/researchwiseai/pulse-go/resource"
	"github.com/researchwiseai/pulse-go/shape"
	"github.com/researchwiseai/pulse-go/testutil"
)

func join(_ context.Context, items []string) (string, error) {
	return strings.Join(items, "-"), nil
}

func TestGenerate_Deterministic(t *testing.T) {
	rng := testutil.NewRNG(99)
	axes := [][]string{{"a", "b"}, {"x", "y"}}

	for range 10 {
		delays := rng.Delays(4, 2*time.Millisecond)
		m, rep, err := Generate(context.Background(), axes, func(ctx context.Context, items []string) (string, error) {
			i := strings.Index("ab", items[0])*2 + strings.Index("xy", items[1])
			time.Sleep(delays[i])
			return join(ctx, items)
		})
		require.NoError(t, err)

		assert.Equal(t, shape.Shape{2, 2}, m.Shape())
		assert.Equal(t, [][]string{{"a-x", "a-y"}, {"b-x", "b-y"}}, m.Value())
		assert.Equal(t, []string{"a", "b"}, labelsOf(t, m, 0))
		assert.Equal(t, []string{"x", "y"}, labelsOf(t, m, 1))
		assert.Equal(t, 4, rep.Completed())
		assert.Len(t, rep.Cells, 4)
	}
}

func TestGenerate_Report(t *testing.T) {
	m, rep, err := Generate(context.Background(), [][]int{{1, 2, 3}, {10, 20}},
		func(_ context.Context, items []int) (int, error) {
			time.Sleep(time.Millisecond)
			return items[0] * items[1], nil
		},
		WithRunID("run-1"),
	)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{10, 20}, {20, 40}, {30, 60}}, m.Value())

	assert.Equal(t, "run-1", rep.RunID)
	assert.Equal(t, shape.Shape{3, 2}, rep.Shape)
	assert.Greater(t, rep.Throughput(), 0.0)

	cell, err := rep.Cell(2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, cell.Coords)
	assert.GreaterOrEqual(t, cell.Duration(), time.Millisecond)
	assert.False(t, cell.Start.Before(rep.Start))
	assert.False(t, cell.End.After(rep.End))

	_, err = rep.Cell(3, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = rep.Cell(0)
	assert.ErrorIs(t, err, ErrDimension)

	s := rep.String()
	assert.Contains(t, s, "run-1")
	assert.Contains(t, s, "6/6 cells")
	assert.Contains(t, s, "0 failed")
}

func TestGenerate_PoolSize(t *testing.T) {
	var current, peak atomic.Int32
	items := make([]int, 12)

	_, _, err := Generate(context.Background(), [][]int{items}, func(_ context.Context, _ []int) (int, error) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		current.Add(-1)
		return 0, nil
	}, WithPoolSize(3))
	require.NoError(t, err)
	assert.Equal(t, int32(3), peak.Load())
}

func TestGenerate_FailFast(t *testing.T) {
	boom := errors.New("boom")
	m, rep, err := Generate(context.Background(), [][]string{{"a", "b", "c"}}, func(_ context.Context, items []string) (string, error) {
		if items[0] == "b" {
			return "", boom
		}
		return items[0], nil
	}, WithPoolSize(1))

	assert.Nil(t, m)
	assert.ErrorIs(t, err, boom)
	var cellErr *pool.CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, []int{1}, cellErr.Coords)

	require.NotNil(t, rep)
	assert.True(t, rep.Failed.Contains(1))
	assert.Equal(t, 1, rep.Completed())
}

func TestGenerate_Quarantine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := &BasicMetricsCollector{}

	m, rep, err := Generate(context.Background(), [][]int{{1, 0, 2}}, func(_ context.Context, items []int) (float64, error) {
		if items[0] == 0 {
			return 0, errors.New("zero")
		}
		return 1 / float64(items[0]), nil
	},
		WithFailurePolicy(pool.Quarantine),
		WithLogger(logger),
		WithMetricsCollector(metrics),
		WithRunID("q"),
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0.5}, m.Value())
	assert.Equal(t, []uint32{1}, rep.Failed.ToArray())
	require.Len(t, rep.Errors(), 1)
	assert.EqualError(t, errors.Unwrap(rep.Errors()[0]), "zero")

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.CellCount)
	assert.Equal(t, int64(1), stats.CellErrors)
	assert.Equal(t, int64(1), stats.GenerateCount)
	assert.Equal(t, int64(3), stats.GenerateCells)
	assert.Equal(t, int64(1), stats.GenerateFailed)

	out := buf.String()
	assert.Contains(t, out, `"msg":"cell failed"`)
	assert.Contains(t, out, `"run_id":"q"`)
	assert.Contains(t, out, `"msg":"generate completed"`)
}

func TestGenerate_AxisHeaders(t *testing.T) {
	custom := headers.Dimension{
		{headers.String(headers.LabelKey, "first"), headers.Number("weight", 0.5)},
		{headers.String(headers.LabelKey, "second"), headers.Number("weight", 1.5)},
	}
	m, _, err := Generate(context.Background(), [][]string{{"a", "b"}, {"x"}}, join,
		WithAxisHeaders(headers.Headers{custom, nil}))
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, labelsOf(t, m, 0))
	assert.Equal(t, []string{"x"}, labelsOf(t, m, 1))

	_, _, err = Generate(context.Background(), [][]string{{"a"}, {"x"}}, join,
		WithAxisHeaders(headers.Headers{custom, nil}))
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, _, err = Generate(context.Background(), [][]string{{"a"}}, join,
		WithAxisHeaders(headers.Headers{nil, nil}))
	assert.ErrorIs(t, err, ErrDimension)
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, rep, err := Generate(ctx, [][]int{{1, 2, 3}}, func(ctx context.Context, _ []int) (int, error) {
		return 0, ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	assert.Equal(t, 0, rep.Completed())
}

func TestGenerate_SharedController(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxInFlight: 1})
	var current, peak atomic.Int32

	_, _, err := Generate(context.Background(), [][]int{make([]int, 6)}, func(_ context.Context, _ []int) (int, error) {
		n := current.Add(1)
		if n > peak.Load() {
			peak.Store(n)
		}
		time.Sleep(time.Millisecond)
		current.Add(-1)
		return 0, nil
	}, WithPoolSize(4), WithController(rc))
	require.NoError(t, err)
	assert.Equal(t, int32(1), peak.Load())
}

func TestGenerateSelf(t *testing.T) {
	var calls atomic.Int32
	m, rep, err := GenerateSelf(context.Background(), []string{"a", "b", "c"}, func(_ context.Context, items []string) (string, error) {
		calls.Add(1)
		return items[0] + "|" + items[1], nil
	})
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, [][]string{{"", "", ""}, {"b|a", "", ""}, {"c|a", "c|b", ""}}, m.Value())
	assert.Equal(t, uint64(6), rep.Skipped.GetCardinality())
	assert.Equal(t, []string{"a", "b", "c"}, labelsOf(t, m, 1))
}

func TestSelfSimilarity(t *testing.T) {
	emb := testutil.NewRNG(3).ClusteredVectors(6, 16, 2, 0.05)

	m, rep, err := SelfSimilarity(context.Background(), emb, WithPoolSize(2))
	require.NoError(t, err)
	assert.Equal(t, 15, rep.Completed())

	for i := range 6 {
		d, err := m.At(i, i)
		require.NoError(t, err)
		assert.Equal(t, 1.0, d)
		for j := range 6 {
			a, _ := m.At(i, j)
			b, _ := m.At(j, i)
			assert.Equal(t, a, b)
		}
	}

	// Vectors 0 and 2 share a cluster; 0 and 1 do not.
	same, _ := m.At(0, 2)
	other, _ := m.At(0, 1)
	assert.Greater(t, same, other)
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5"}, labelsOf(t, m, 0))

	cross, _, err := CrossSimilarity(context.Background(), emb[:2], emb)
	require.NoError(t, err)
	assert.Equal(t, shape.Shape{2, 6}, cross.Shape())
	v, _ := cross.At(1, 3)
	w, _ := m.At(1, 3)
	assert.InDelta(t, w, v, 1e-12)
}
