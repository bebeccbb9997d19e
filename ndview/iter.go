package ndview

import (
	"fmt"
	"iter"

	"github.com/researchwiseai/pulse-go/shape"
)

// walk visits every logical element in row-major order. coords is reused
// between calls and must not be retained.
func (v *View[T]) walk(fn func(coords []int, idx int) bool) {
	if v.Size() == 0 {
		return
	}
	rank := len(v.shape)
	coords := make([]int, rank)
	idx := v.offset
	for {
		if !fn(coords, idx) {
			return
		}
		d := rank - 1
		for ; d >= 0; d-- {
			coords[d]++
			idx += v.strides[d]
			if coords[d] < v.shape[d] {
				break
			}
			idx -= coords[d] * v.strides[d]
			coords[d] = 0
		}
		if d < 0 {
			return
		}
	}
}

// All yields every element with its coordinates in row-major order. The
// coordinate slice is owned by the caller.
func (v *View[T]) All() iter.Seq2[[]int, T] {
	return func(yield func([]int, T) bool) {
		v.walk(func(coords []int, idx int) bool {
			c := make([]int, len(coords))
			copy(c, coords)
			return yield(c, v.base[idx])
		})
	}
}

// Traverse yields one entry per index tuple of the leading rank-dim axes,
// paired with the materialized sub-array spanning the last dim axes.
// dim == rank yields a single entry with empty coordinates.
func (v *View[T]) Traverse(dim int) (iter.Seq2[[]int, any], error) {
	rank := len(v.shape)
	if dim < 1 || dim > rank {
		return nil, fmt.Errorf("%w: traverse depth %d for rank %d", shape.ErrDimension, dim, rank)
	}
	split := rank - dim
	outer := v.shape[:split]
	return func(yield func([]int, any) bool) {
		n := outer.Size()
		for i := range n {
			coords := shape.IndexToCoords(i, outer)
			sub := &View[T]{
				base:    v.base,
				shape:   v.shape[split:].Clone(),
				offset:  shape.CoordsToIndex(coords, v.strides[:split], v.offset),
				strides: v.Strides()[split:],
			}
			if !yield(coords, sub.Materialize()) {
				return
			}
		}
	}, nil
}
