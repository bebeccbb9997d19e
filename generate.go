package pulse

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/pool"
)

// GenerateFunc computes one cell from the items at its coordinates, one item
// per axis.
type GenerateFunc[E, R any] func(ctx context.Context, items []E) (R, error)

// Generate builds a Matrix whose shape is the lengths of axes by calling fn
// for every combination in their Cartesian product.
//
// Cells are enumerated in row-major order up front and each result lands in
// its own slot, so the output does not depend on completion order. At most
// the pool size (default 10) calls of fn are in flight; a new call starts as
// soon as one returns.
//
// Axis headers default to one label per item, formatted with fmt.Sprint;
// WithAxisHeaders overrides them per axis.
//
// Under the default pool.FailFast policy the first failing call cancels the
// context passed to the calls still running, nothing new starts, and Generate
// returns the error (a *pool.CellError) once they have settled. Under
// pool.Quarantine failed cells hold the zero value and are listed in the
// Report. The Report is returned whenever the run started.
func Generate[E, R any](ctx context.Context, axes [][]E, fn GenerateFunc[E, R], opts ...GenerateOption) (*Matrix[R], *Report, error) {
	o := defaultGenerateOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return generate(ctx, axes, fn, o)
}

// GenerateSelf compares items against themselves: it is Generate over the
// axes (items, items) computing only the strictly lower triangle, cells
// (i, j) with i > j. The rest hold the zero value; see Symmetrize.
func GenerateSelf[E, R any](ctx context.Context, items []E, fn GenerateFunc[E, R], opts ...GenerateOption) (*Matrix[R], *Report, error) {
	o := defaultGenerateOptions()
	for _, opt := range opts {
		opt(&o)
	}
	userSkip := o.skip
	o.skip = func(coords []int) bool {
		if coords[0] <= coords[1] {
			return true
		}
		return userSkip != nil && userSkip(coords)
	}
	return generate(ctx, [][]E{items, items}, fn, o)
}

func generate[E, R any](ctx context.Context, axes [][]E, fn GenerateFunc[E, R], o generateOptions) (*Matrix[R], *Report, error) {
	runID := o.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := o.logger.WithRunID(runID)

	lengths := make([]int, len(axes))
	for i, items := range axes {
		lengths[i] = len(items)
	}
	h, err := axisHeaders(axes, o.axisHeaders)
	if err != nil {
		return nil, nil, err
	}

	task := func(ctx context.Context, coords []int) (R, error) {
		items := make([]E, len(coords))
		for d, c := range coords {
			items[d] = axes[d][c]
		}
		return fn(ctx, items)
	}
	observe := func(_ int, coords []int, d time.Duration, err error) {
		o.metricsCollector.RecordCell(d, err)
		if err != nil {
			log.LogCellFailure(ctx, runID, coords, err)
		}
	}

	res, err := pool.Map(ctx, lengths, task,
		pool.WithSize(o.poolSize),
		pool.WithPolicy(o.policy),
		pool.WithController(o.controller),
		pool.WithSkip(o.skip),
		pool.WithObserver(observe),
	)
	if res == nil {
		return nil, nil, err
	}

	rep := newReport(runID, res)
	failed := int(rep.Failed.GetCardinality())
	o.metricsCollector.RecordGenerate(len(rep.Cells), failed, rep.Duration())
	log.LogGenerate(ctx, runID, len(rep.Cells), failed, int(rep.Skipped.GetCardinality()), rep.Duration(), err)
	if err != nil {
		return nil, rep, err
	}
	return packed(res.Values(), res.Shape, h), rep, nil
}

// axisHeaders merges caller-supplied headers over the default item labels.
func axisHeaders[E any](axes [][]E, override headers.Headers) (headers.Headers, error) {
	if override != nil && len(override) != len(axes) {
		return nil, fmt.Errorf("%w: %d header axes for %d iterables", ErrDimension, len(override), len(axes))
	}
	h := make(headers.Headers, len(axes))
	for d, items := range axes {
		if override != nil && override[d] != nil {
			if len(override[d]) != len(items) {
				return nil, fmt.Errorf("%w: axis %d has %d header groups for %d items", ErrSizeMismatch, d, len(override[d]), len(items))
			}
			h[d] = override[d]
			continue
		}
		labels := make([]string, len(items))
		for i, item := range items {
			labels[i] = fmt.Sprint(item)
		}
		h[d] = headers.FromLabels(labels)
	}
	return h, nil
}
