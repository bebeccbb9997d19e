package pulse

import (
	"iter"

	"github.com/researchwiseai/pulse-go/codec"
	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/ndview"
	"github.com/researchwiseai/pulse-go/shape"
)

// Wildcard keeps an axis in Get.
const Wildcard = ndview.Wildcard

// Matrix is an immutable N-dimensional array with optional per-axis headers.
//
// Every operation returns a new Matrix. Structural operations alias the
// underlying buffer and keep the headers in lock-step with the data, or drop
// them when no mapping exists.
type Matrix[T any] struct {
	view    *ndview.View[T]
	headers headers.Headers
}

// From builds a Matrix from a nested slice ([]T, [][]T, [][]any, ...).
func From[T any](nested any) (*Matrix[T], error) {
	v, err := ndview.FromNested[T](nested)
	if err != nil {
		return nil, err
	}
	return &Matrix[T]{view: v}, nil
}

// FromFlat wraps a row-major buffer as a Matrix of shape s. The Matrix takes
// ownership of data.
func FromFlat[T any](data []T, s shape.Shape) (*Matrix[T], error) {
	v, err := ndview.New(data, s)
	if err != nil {
		return nil, err
	}
	return &Matrix[T]{view: v}, nil
}

// FromView wraps an existing view. h may be nil; otherwise it must match the
// view's shape.
func FromView[T any](v *ndview.View[T], h headers.Headers) (*Matrix[T], error) {
	if err := headers.Validate(h, v.Shape()); err != nil {
		return nil, err
	}
	return &Matrix[T]{view: v, headers: h}, nil
}

// Scalar returns a rank-0 Matrix holding v. It broadcasts against any shape.
func Scalar[T any](v T) *Matrix[T] {
	view, _ := ndview.New([]T{v}, shape.Shape{})
	return &Matrix[T]{view: view}
}

// Decode reads a Matrix written by Encode. Headers are not part of the
// binary format.
func Decode[T ndview.Number](buf []byte, dtype codec.DType) (*Matrix[T], error) {
	v, err := codec.Decode[T](buf, dtype)
	if err != nil {
		return nil, err
	}
	return &Matrix[T]{view: v}, nil
}

// Encode writes the values of m in the binary matrix format.
func Encode[T ndview.Number](m *Matrix[T], dtype codec.DType) ([]byte, error) {
	return codec.Encode(m.view, dtype)
}

func (m *Matrix[T]) derive(v *ndview.View[T], h headers.Headers) *Matrix[T] {
	return &Matrix[T]{view: v, headers: h}
}

// Shape returns the per-axis lengths.
func (m *Matrix[T]) Shape() shape.Shape { return m.view.Shape() }

// Rank returns the number of axes.
func (m *Matrix[T]) Rank() int { return m.view.Rank() }

// Size returns the number of elements.
func (m *Matrix[T]) Size() int { return m.view.Size() }

// Headers returns the per-axis headers, or nil when there are none.
func (m *Matrix[T]) Headers() headers.Headers { return headers.Clone(m.headers) }

// WithHeaders returns m with h attached. h must match the shape; nil removes
// the headers.
func (m *Matrix[T]) WithHeaders(h headers.Headers) (*Matrix[T], error) {
	if err := headers.Validate(h, m.view.Shape()); err != nil {
		return nil, err
	}
	return m.derive(m.view, headers.Clone(h)), nil
}

// Labels returns the default labels of axis dim.
func (m *Matrix[T]) Labels(dim int) ([]string, error) {
	return headers.Labels(m.headers, dim, headers.LabelKey)
}

// AsView exposes the underlying view. Writes through it are visible to every
// Matrix sharing the buffer.
func (m *Matrix[T]) AsView() *ndview.View[T] { return m.view }

// Transpose swaps axes a0 and a1 together with their headers.
func (m *Matrix[T]) Transpose(a0, a1 int) (*Matrix[T], error) {
	v, err := m.view.Transpose(a0, a1)
	if err != nil {
		return nil, err
	}
	if v == m.view {
		return m, nil
	}
	h, err := headers.Transpose(m.headers, a0, a1)
	if err != nil {
		return nil, err
	}
	return m.derive(v, h), nil
}

// Reshape lays the elements out as s. Headers survive only when every axis
// keeps its length.
func (m *Matrix[T]) Reshape(s shape.Shape) (*Matrix[T], error) {
	v, err := m.view.Reshape(s)
	if err != nil {
		return nil, err
	}
	return m.derive(v, headers.Reshape(m.headers, s)), nil
}

// Slice restricts axis dim to [start, end). A negative end counts back from
// the axis length.
func (m *Matrix[T]) Slice(dim, start, end int) (*Matrix[T], error) {
	v, err := m.view.Slice(dim, start, end)
	if err != nil {
		return nil, err
	}
	h, err := headers.Slice(m.headers, dim, start, end)
	if err != nil {
		return nil, err
	}
	return m.derive(v, h), nil
}

// Contiguous returns m backed by a packed row-major buffer.
func (m *Matrix[T]) Contiguous() *Matrix[T] {
	v := m.view.Contiguous()
	if v == m.view {
		return m
	}
	return m.derive(v, m.headers)
}

// Get returns the scalar at coords, or the nested sub-array when any
// coordinate is Wildcard.
func (m *Matrix[T]) Get(coords ...int) (any, error) { return m.view.Get(coords...) }

// At returns the scalar at coords.
func (m *Matrix[T]) At(coords ...int) (T, error) { return m.view.At(coords...) }

// Value returns the whole Matrix as a typed nested slice.
func (m *Matrix[T]) Value() any { return m.view.Materialize() }

// Values returns a row-major copy of the elements.
func (m *Matrix[T]) Values() []T { return m.view.Values() }

// All yields every element with its coordinates in row-major order.
func (m *Matrix[T]) All() iter.Seq2[[]int, T] { return m.view.All() }

// Map applies fn to every element, keeping shape and headers.
func (m *Matrix[T]) Map(fn func(v T, coords []int) T) *Matrix[T] {
	return MapTo(m, fn)
}
