package pulse

import (
	"cmp"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/shape"
)

// Concat joins matrices along axis. Every other axis must have the same
// length. Headers are kept only when every input has them.
func Concat[T any](axis int, ms ...*Matrix[T]) (*Matrix[T], error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("%w: nothing to concatenate", ErrSizeMismatch)
	}
	first := ms[0].Shape()
	if err := shape.CheckAxis(axis, len(first)); err != nil {
		return nil, err
	}

	out := first.Clone()
	out[axis] = 0
	h := ms[0].headers
	for i, m := range ms {
		s := m.Shape()
		if len(s) != len(first) {
			return nil, fmt.Errorf("%w: operand %d has rank %d, want %d", ErrDimension, i, len(s), len(first))
		}
		for d := range s {
			if d != axis && s[d] != first[d] {
				return nil, fmt.Errorf("%w: operand %d has shape %s, want %s off axis %d", ErrSizeMismatch, i, s, first, axis)
			}
		}
		out[axis] += s[axis]
		if i > 0 {
			var err error
			if h, err = headers.Concat(h, m.headers, axis); err != nil {
				return nil, err
			}
		}
	}

	// Each operand contributes one block of shape[axis:] per outer index.
	outer := first[:axis].Size()
	vals := make([]T, 0, out.Size())
	parts := make([][]T, len(ms))
	blocks := make([]int, len(ms))
	for i, m := range ms {
		parts[i] = m.Values()
		blocks[i] = m.Shape()[axis:].Size()
	}
	for o := range outer {
		for i, p := range parts {
			vals = append(vals, p[o*blocks[i]:(o+1)*blocks[i]]...)
		}
	}
	return packed(vals, out, h), nil
}

// Symmetrize mirrors the strictly lower triangle of a square matrix into the
// upper triangle and fills the diagonal. It completes the output of
// GenerateSelf.
func Symmetrize[T any](m *Matrix[T], diagonal T) (*Matrix[T], error) {
	s := m.Shape()
	if len(s) != 2 {
		return nil, fmt.Errorf("%w: got rank %d", ErrNotRank2, len(s))
	}
	if s[0] != s[1] {
		return nil, fmt.Errorf("%w: %s is not square", ErrSizeMismatch, s)
	}
	n := s[0]
	vals := m.Values()
	for i := range n {
		vals[i*n+i] = diagonal
		for j := i + 1; j < n; j++ {
			vals[i*n+j] = vals[j*n+i]
		}
	}
	return packed(vals, s, m.headers), nil
}

// TopK returns, for every vector along the last axis, the indices of its k
// largest elements in descending order. Ties keep the lower index first. k is
// clamped to the axis length.
func TopK[T Number](m *Matrix[T], k int) (*Matrix[int], error) {
	rank := m.Rank()
	if rank == 0 {
		return nil, fmt.Errorf("%w: top-k of a scalar", ErrDimension)
	}
	last := rank - 1
	k = max(0, min(k, m.Shape()[last]))

	vv, err := m.view.Vectors(last)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, vv.Len()*k)
	idx := make([]int, vv.VectorLen())
	for _, vec := range vv.All() {
		for i := range idx {
			idx[i] = i
		}
		slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(vec[b], vec[a]) })
		out = append(out, idx[:k]...)
	}

	s := append(vv.Shape(), k)
	h, err := headers.Remove(m.headers, last)
	if err != nil {
		return nil, err
	}
	if h != nil {
		h = headers.Append(h, make(headers.Dimension, k))
	}
	return packed(out, s, h), nil
}

// ArgMaxAxis returns the index of the largest element along axis, the first
// one on ties. An empty axis yields -1.
func ArgMaxAxis[T Number](m *Matrix[T], axis int) (*Matrix[int], error) {
	return MapAxis(m, axis, func(vec []T, _ []int) int {
		best := -1
		for i, v := range vec {
			if best < 0 || v > vec[best] {
				best = i
			}
		}
		return best
	})
}

// ToDense copies a rank-2 matrix into a gonum dense matrix.
func ToDense(m *Matrix[float64]) (*mat.Dense, error) {
	s := m.Shape()
	if len(s) != 2 {
		return nil, fmt.Errorf("%w: got rank %d", ErrNotRank2, len(s))
	}
	if s[0] == 0 || s[1] == 0 {
		return nil, fmt.Errorf("%w: gonum matrices cannot have an empty axis (%s)", ErrSizeMismatch, s)
	}
	return mat.NewDense(s[0], s[1], m.Values()), nil
}

// FromDense copies any gonum matrix into a rank-2 Matrix.
func FromDense(d mat.Matrix) *Matrix[float64] {
	r, c := d.Dims()
	dense := mat.DenseCopyOf(d)
	raw := dense.RawMatrix()
	return packed(raw.Data[:r*c], shape.Shape{r, c}, nil)
}
