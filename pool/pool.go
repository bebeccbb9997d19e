package pool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/researchwiseai/pulse-go/shape"
)

// DefaultSize is the number of tasks kept in flight when no size is given.
const DefaultSize = 10

// ErrTooManyCells is returned when a product has more cells than the failure
// bitmaps can index.
var ErrTooManyCells = errors.New("pool: too many cells")

// Policy decides what a failing task does to the rest of the run.
type Policy uint8

const (
	// FailFast cancels the run on the first failure: nothing new is admitted,
	// in-flight tasks see a canceled context, and Map returns that failure.
	FailFast Policy = iota
	// Quarantine records failures in their slots and the Failed bitmap and
	// keeps going.
	Quarantine
)

func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case Quarantine:
		return "quarantine"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy resolves a policy by name.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "fail-fast":
		return FailFast, nil
	case "quarantine":
		return Quarantine, nil
	default:
		return 0, fmt.Errorf("pool: unknown failure policy %q", s)
	}
}

// CellError is the failure of the task for one cell of the product.
type CellError struct {
	Index  int
	Coords []int
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("pool: cell %v (index %d): %v", e.Coords, e.Index, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// Task computes the value of one cell.
type Task[R any] func(ctx context.Context, coords []int) (R, error)

// Slot is the outcome of one cell, stored at the cell's row-major index.
type Slot[R any] struct {
	Result  R
	Start   time.Time
	End     time.Time
	Err     error
	Skipped bool
}

// Duration returns how long the task ran. Unrun cells report zero.
func (s Slot[R]) Duration() time.Duration {
	if s.Start.IsZero() || s.End.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// Done reports whether the task ran to completion without error.
func (s Slot[R]) Done() bool { return !s.End.IsZero() && s.Err == nil }

// Result is the outcome of Map. Slots are in row-major order of the product
// regardless of completion order.
type Result[R any] struct {
	Shape   shape.Shape
	Slots   []Slot[R]
	Failed  *roaring.Bitmap
	Skipped *roaring.Bitmap
	Start   time.Time
	End     time.Time
}

// Values returns the result of every slot in row-major order. Failed,
// skipped and unrun cells hold the zero value.
func (r *Result[R]) Values() []R {
	out := make([]R, len(r.Slots))
	for i, s := range r.Slots {
		out[i] = s.Result
	}
	return out
}

// Duration returns the wall time of the whole run.
func (r *Result[R]) Duration() time.Duration { return r.End.Sub(r.Start) }

// Completed returns the number of cells whose task succeeded.
func (r *Result[R]) Completed() int {
	n := 0
	for _, s := range r.Slots {
		if s.Done() {
			n++
		}
	}
	return n
}

// Product enumerates every coordinate tuple of the given axis lengths in
// row-major order.
func Product(lengths []int) [][]int {
	s := shape.Shape(lengths)
	n := s.Size()
	out := make([][]int, n)
	for i := range out {
		out[i] = shape.IndexToCoords(i, s)
	}
	return out
}

// Map runs fn for every cell of the Cartesian product of lengths, keeping at
// most the configured number of tasks in flight. A new task is admitted as
// soon as a running one completes.
//
// Under FailFast the first *CellError is returned alongside the partial
// result. If ctx itself is canceled, admission stops and ctx.Err() is
// returned.
func Map[R any](ctx context.Context, lengths []int, fn Task[R], opts ...Option) (*Result[R], error) {
	o := applyOptions(opts)

	s := shape.Shape(lengths).Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	n := s.Size()
	if uint64(n) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d", ErrTooManyCells, n)
	}

	cells := Product(s)
	res := &Result[R]{
		Shape:   s,
		Slots:   make([]Slot[R], n),
		Failed:  roaring.New(),
		Skipped: roaring.New(),
		Start:   time.Now(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.size)

	for i, coords := range cells {
		if o.skip != nil && o.skip(coords) {
			res.Slots[i].Skipped = true
			continue
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// Admitted before a failure but started after it.
			if gctx.Err() != nil {
				return nil
			}
			if err := o.controller.AcquireCall(gctx); err != nil {
				return err
			}
			defer o.controller.ReleaseCall()

			slot := &res.Slots[i]
			slot.Start = time.Now()
			r, err := fn(gctx, coords)
			slot.End = time.Now()

			if o.observer != nil {
				o.observer(i, coords, slot.End.Sub(slot.Start), err)
			}
			if err != nil {
				cellErr := &CellError{Index: i, Coords: coords, Err: err}
				slot.Err = cellErr
				if o.policy == Quarantine {
					return nil
				}
				return cellErr
			}
			slot.Result = r
			return nil
		})
	}

	err := g.Wait()
	res.End = time.Now()

	for i, slot := range res.Slots {
		switch {
		case slot.Skipped:
			res.Skipped.Add(uint32(i))
		case slot.Err != nil:
			res.Failed.Add(uint32(i))
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	return res, err
}
