package ndview

import (
	"fmt"
	"iter"

	"github.com/researchwiseai/pulse-go/shape"
)

// VectorView exposes the 1-D vectors running along one axis of a View.
//
// Vectors along an axis with unit stride share the view's buffer; all other
// vectors are gathered into fresh slices.
type VectorView[T any] struct {
	view         *View[T]
	dim          int
	outer        shape.Shape
	outerStrides []int
}

// Vectors returns the vectors along axis dim.
func (v *View[T]) Vectors(dim int) (*VectorView[T], error) {
	if err := shape.CheckAxis(dim, len(v.shape)); err != nil {
		return nil, err
	}
	return &VectorView[T]{
		view:         v,
		dim:          dim,
		outer:        v.shape.Without(dim),
		outerStrides: append(append([]int{}, v.strides[:dim]...), v.strides[dim+1:]...),
	}, nil
}

// Dim returns the axis the vectors run along.
func (vv *VectorView[T]) Dim() int { return vv.dim }

// Len returns the number of vectors.
func (vv *VectorView[T]) Len() int { return vv.outer.Size() }

// VectorLen returns the length of each vector.
func (vv *VectorView[T]) VectorLen() int { return vv.view.shape[vv.dim] }

// Shape returns the shape of the remaining axes, in their original order.
func (vv *VectorView[T]) Shape() shape.Shape { return vv.outer.Clone() }

// At returns the vector at the given coordinates over the remaining axes.
func (vv *VectorView[T]) At(coords ...int) ([]T, error) {
	if len(coords) != len(vv.outer) {
		return nil, fmt.Errorf("%w: %d coordinates for %d outer axes", shape.ErrDimension, len(coords), len(vv.outer))
	}
	for i, c := range coords {
		if c < 0 || c >= vv.outer[i] {
			return nil, fmt.Errorf("%w: coordinate %d on outer axis %d of length %d", shape.ErrOutOfRange, c, i, vv.outer[i])
		}
	}
	return vv.vector(shape.CoordsToIndex(coords, vv.outerStrides, vv.view.offset)), nil
}

// All yields every vector with its outer coordinates in row-major order.
func (vv *VectorView[T]) All() iter.Seq2[[]int, []T] {
	return func(yield func([]int, []T) bool) {
		for i := range vv.Len() {
			coords := shape.IndexToCoords(i, vv.outer)
			if !yield(coords, vv.vector(shape.CoordsToIndex(coords, vv.outerStrides, vv.view.offset))) {
				return
			}
		}
	}
}

// Contiguous returns every vector as its own densely packed slice.
func (vv *VectorView[T]) Contiguous() [][]T {
	out := make([][]T, 0, vv.Len())
	for _, vec := range vv.All() {
		if vv.view.strides[vv.dim] == 1 {
			vec = append([]T(nil), vec...)
		}
		out = append(out, vec)
	}
	return out
}

func (vv *VectorView[T]) vector(start int) []T {
	n := vv.view.shape[vv.dim]
	if n == 0 {
		return []T{}
	}
	stride := vv.view.strides[vv.dim]
	if stride == 1 {
		return vv.view.base[start : start+n : start+n]
	}
	out := make([]T, n)
	for i := range out {
		out[i] = vv.view.base[start+i*stride]
	}
	return out
}
