package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is the per-axis length list of an N-dimensional array.
type Shape []int

// Size returns the number of logical elements (product of all axis lengths).
// The empty shape describes a scalar and has size 1.
func (s Shape) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// Equal reports whether both shapes have the same axes.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// Validate rejects negative axis lengths.
func (s Shape) Validate() error {
	for i, d := range s {
		if d < 0 {
			return fmt.Errorf("%w: axis %d has negative length %d", ErrSizeMismatch, i, d)
		}
	}
	return nil
}

// Without returns the shape with axis dim removed.
func (s Shape) Without(dim int) Shape {
	out := make(Shape, 0, len(s)-1)
	out = append(out, s[:dim]...)
	return append(out, s[dim+1:]...)
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, "x") + "]"
}

// RowMajorStrides computes the default strides for s: strides[i] = product(s[i+1:]).
func RowMajorStrides(s Shape) []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// IsRowMajor reports whether strides equal the default strides for s.
// Axes of length 1 never move the linear index, so their stride is ignored.
func IsRowMajor(s Shape, strides []int) bool {
	if len(s) != len(strides) {
		return false
	}
	expected := RowMajorStrides(s)
	for i := range strides {
		if s[i] > 1 && strides[i] != expected[i] {
			return false
		}
	}
	return true
}

// CoordsToIndex returns offset + Σ coords[i]*strides[i].
func CoordsToIndex(coords, strides []int, offset int) int {
	idx := offset
	for i, c := range coords {
		idx += c * strides[i]
	}
	return idx
}

// IndexToCoords converts a row-major linear index into coordinates for s.
func IndexToCoords(i int, s Shape) []int {
	coords := make([]int, len(s))
	IndexToCoordsInto(i, s, coords)
	return coords
}

// IndexToCoordsInto is IndexToCoords writing into dst, which must have len(s) entries.
func IndexToCoordsInto(i int, s Shape, dst []int) {
	for d := len(s) - 1; d >= 0; d-- {
		if s[d] == 0 {
			dst[d] = 0
			continue
		}
		dst[d] = i % s[d]
		i /= s[d]
	}
}

// NormalizeRange resolves a half-open [start, end) range on an axis of length n.
// Negative values count back from n; both ends are clamped into [0, n] and end
// never precedes start.
func NormalizeRange(start, end, n int) (int, int) {
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	start = min(max(start, 0), n)
	end = min(max(end, start), n)
	return start, end
}

// CheckAxis validates that dim is a valid axis for a rank-r array.
func CheckAxis(dim, rank int) error {
	if dim < 0 || dim >= rank {
		return fmt.Errorf("%w: axis %d not in [0,%d)", ErrDimension, dim, rank)
	}
	return nil
}
