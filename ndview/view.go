package ndview

import (
	"fmt"
	"math"

	"github.com/researchwiseai/pulse-go/shape"
)

// Wildcard keeps an axis in Get and Select instead of fixing a coordinate on it.
const Wildcard = math.MinInt

// Number is the set of element types that support arithmetic and binary encoding.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// View is a strided window over a flat buffer.
//
// The element at coordinates c lives at base[offset + Σ c[i]*strides[i]].
// Slice, Transpose, Reshape and Select alias the buffer; Contiguous,
// Convert and Values may allocate. A View is safe for concurrent reads as
// long as nobody writes through Set.
type View[T any] struct {
	base    []T
	shape   shape.Shape
	offset  int
	strides []int
}

// New wraps base with default row-major strides for s. The buffer may be
// longer than s.Size(); the extra tail is unreachable.
func New[T any](base []T, s shape.Shape) (*View[T], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(base) < s.Size() {
		return nil, fmt.Errorf("%w: buffer of %d elements cannot back shape %s", shape.ErrSizeMismatch, len(base), s)
	}
	return &View[T]{
		base:    base,
		shape:   s.Clone(),
		strides: shape.RowMajorStrides(s),
	}, nil
}

// NewStrided wraps base with an explicit offset and strides. Every reachable
// element must lie inside base.
func NewStrided[T any](base []T, s shape.Shape, offset int, strides []int) (*View[T], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(strides) != len(s) {
		return nil, fmt.Errorf("%w: %d strides for rank %d", shape.ErrDimension, len(strides), len(s))
	}
	if s.Size() > 0 {
		lo, hi := offset, offset
		for i, d := range s {
			span := (d - 1) * strides[i]
			if span < 0 {
				lo += span
			} else {
				hi += span
			}
		}
		if lo < 0 || hi >= len(base) {
			return nil, fmt.Errorf("%w: strides reach [%d,%d] of a %d element buffer", shape.ErrOutOfRange, lo, hi, len(base))
		}
	}
	st := make([]int, len(strides))
	copy(st, strides)
	return &View[T]{base: base, shape: s.Clone(), offset: offset, strides: st}, nil
}

// FromNested flattens a nested array ([]T, [][]T, []any trees, ...) into a packed view.
func FromNested[T any](nested any) (*View[T], error) {
	flat, s, err := shape.Flatten[T](nested)
	if err != nil {
		return nil, err
	}
	return New(flat, s)
}

// Shape returns a copy of the view's shape.
func (v *View[T]) Shape() shape.Shape { return v.shape.Clone() }

// Rank returns the number of axes.
func (v *View[T]) Rank() int { return len(v.shape) }

// Size returns the number of logical elements.
func (v *View[T]) Size() int { return v.shape.Size() }

// Offset returns the linear index of the first element.
func (v *View[T]) Offset() int { return v.offset }

// Strides returns a copy of the per-axis strides.
func (v *View[T]) Strides() []int {
	st := make([]int, len(v.strides))
	copy(st, v.strides)
	return st
}

// Base returns the shared backing buffer. Writes through it are visible to
// every view aliasing the buffer.
func (v *View[T]) Base() []T { return v.base }

// IsContiguous reports whether the view is packed: row-major strides and zero
// offset, so the buffer can be used as-is.
func (v *View[T]) IsContiguous() bool {
	return v.offset == 0 && shape.IsRowMajor(v.shape, v.strides)
}

func (v *View[T]) index(coords []int) (int, error) {
	if len(coords) != len(v.shape) {
		return 0, fmt.Errorf("%w: %d coordinates for rank %d", shape.ErrDimension, len(coords), len(v.shape))
	}
	for i, c := range coords {
		if c < 0 || c >= v.shape[i] {
			return 0, fmt.Errorf("%w: coordinate %d on axis %d of length %d", shape.ErrOutOfRange, c, i, v.shape[i])
		}
	}
	return shape.CoordsToIndex(coords, v.strides, v.offset), nil
}

// At returns the scalar at coords.
func (v *View[T]) At(coords ...int) (T, error) {
	idx, err := v.index(coords)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.base[idx], nil
}

// Set writes value at coords through to the shared buffer.
func (v *View[T]) Set(value T, coords ...int) error {
	idx, err := v.index(coords)
	if err != nil {
		return err
	}
	v.base[idx] = value
	return nil
}

// Select fixes every axis whose coordinate is not Wildcard and returns the
// aliasing view over the remaining axes.
func (v *View[T]) Select(coords ...int) (*View[T], error) {
	if len(coords) != len(v.shape) {
		return nil, fmt.Errorf("%w: %d coordinates for rank %d", shape.ErrDimension, len(coords), len(v.shape))
	}
	out := &View[T]{base: v.base, offset: v.offset}
	for i, c := range coords {
		if c == Wildcard {
			out.shape = append(out.shape, v.shape[i])
			out.strides = append(out.strides, v.strides[i])
			continue
		}
		if c < 0 || c >= v.shape[i] {
			return nil, fmt.Errorf("%w: coordinate %d on axis %d of length %d", shape.ErrOutOfRange, c, i, v.shape[i])
		}
		out.offset += c * v.strides[i]
	}
	if out.shape == nil {
		out.shape = shape.Shape{}
		out.strides = []int{}
	}
	return out, nil
}

// Get returns the scalar at coords, or, when any coordinate is Wildcard, the
// materialized nested array of the selected sub-view.
func (v *View[T]) Get(coords ...int) (any, error) {
	wild := false
	for _, c := range coords {
		if c == Wildcard {
			wild = true
			break
		}
	}
	if !wild {
		return v.At(coords...)
	}
	sub, err := v.Select(coords...)
	if err != nil {
		return nil, err
	}
	return sub.Materialize(), nil
}

// Slice restricts axis dim to [start, end). A negative end counts back from
// the axis length. The result aliases the buffer.
func (v *View[T]) Slice(dim, start, end int) (*View[T], error) {
	if err := shape.CheckAxis(dim, len(v.shape)); err != nil {
		return nil, err
	}
	start, end = shape.NormalizeRange(start, end, v.shape[dim])
	out := v.clone()
	out.shape[dim] = end - start
	out.offset += start * v.strides[dim]
	return out, nil
}

// Transpose swaps axes a0 and a1 without moving data. Views of rank < 2 and
// a0 == a1 return the receiver.
func (v *View[T]) Transpose(a0, a1 int) (*View[T], error) {
	if len(v.shape) < 2 {
		return v, nil
	}
	if err := shape.CheckAxis(a0, len(v.shape)); err != nil {
		return nil, err
	}
	if err := shape.CheckAxis(a1, len(v.shape)); err != nil {
		return nil, err
	}
	if a0 == a1 {
		return v, nil
	}
	out := v.clone()
	out.shape[a0], out.shape[a1] = out.shape[a1], out.shape[a0]
	out.strides[a0], out.strides[a1] = out.strides[a1], out.strides[a0]
	return out, nil
}

// Reshape returns a view with the same elements laid out as s.
//
// Views whose strides are row-major alias the buffer (keeping their offset);
// any other layout is first copied into a packed buffer so the element order
// stays row-major.
func (v *View[T]) Reshape(s shape.Shape) (*View[T], error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Size() != v.Size() {
		return nil, fmt.Errorf("%w: cannot reshape %s (%d elements) to %s (%d elements)",
			shape.ErrElementCountMismatch, v.shape, v.Size(), s, s.Size())
	}
	src := v
	if !shape.IsRowMajor(v.shape, v.strides) {
		src = v.Contiguous()
	}
	return &View[T]{
		base:    src.base,
		shape:   s.Clone(),
		offset:  src.offset,
		strides: shape.RowMajorStrides(s),
	}, nil
}

// Contiguous returns the receiver when it is packed, otherwise a packed copy.
func (v *View[T]) Contiguous() *View[T] {
	if v.IsContiguous() {
		return v
	}
	return &View[T]{
		base:    v.Values(),
		shape:   v.shape.Clone(),
		strides: shape.RowMajorStrides(v.shape),
	}
}

// Convert copies v into a freshly allocated packed buffer of element type U.
func Convert[T, U any](v *View[T], fn func(T) U) *View[U] {
	out := make([]U, 0, v.Size())
	v.walk(func(_ []int, idx int) bool {
		out = append(out, fn(v.base[idx]))
		return true
	})
	return &View[U]{
		base:    out,
		shape:   v.shape.Clone(),
		strides: shape.RowMajorStrides(v.shape),
	}
}

// Values returns a fresh row-major copy of every logical element.
func (v *View[T]) Values() []T {
	n := v.Size()
	out := make([]T, n)
	if n == 0 {
		return out
	}
	if shape.IsRowMajor(v.shape, v.strides) {
		copy(out, v.base[v.offset:v.offset+n])
		return out
	}
	i := 0
	v.walk(func(_ []int, idx int) bool {
		out[i] = v.base[idx]
		i++
		return true
	})
	return out
}

// Materialize rebuilds the view as a typed nested slice matching its shape
// ([]T for rank 1, [][]T for rank 2, ...; the scalar itself for rank 0).
func (v *View[T]) Materialize() any {
	nested, err := shape.Unflatten(v.Values(), v.shape)
	if err != nil {
		// Values always yields exactly Size elements.
		panic(err)
	}
	return nested
}

func (v *View[T]) clone() *View[T] {
	return &View[T]{
		base:    v.base,
		shape:   v.shape.Clone(),
		offset:  v.offset,
		strides: v.Strides(),
	}
}
