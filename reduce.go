package pulse

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/ndview"
	"github.com/researchwiseai/pulse-go/shape"
)

// ErrEmpty is returned by Max and Min when there is nothing to compare.
var ErrEmpty = errors.New("pulse: empty matrix")

// Number is the set of element types the numeric operations accept.
type Number = ndview.Number

// packed wraps a freshly built row-major buffer. len(vals) must equal s.Size().
func packed[T any](vals []T, s shape.Shape, h headers.Headers) *Matrix[T] {
	v, err := ndview.New(vals, s)
	if err != nil {
		panic(fmt.Sprintf("pulse: %d values for shape %s", len(vals), s))
	}
	return &Matrix[T]{view: v, headers: h}
}

// Reduce folds every element into acc in row-major order.
func Reduce[T, A any](m *Matrix[T], fn func(acc A, v T) A, init A) A {
	acc := init
	for _, v := range m.All() {
		acc = fn(acc, v)
	}
	return acc
}

// ReduceAxis folds each vector along axis independently. The result has the
// axis removed, from both the shape and the headers.
func ReduceAxis[T, A any](m *Matrix[T], axis int, fn func(acc A, v T) A, init A) (*Matrix[A], error) {
	return MapAxis(m, axis, func(vec []T, _ []int) A {
		acc := init
		for _, v := range vec {
			acc = fn(acc, v)
		}
		return acc
	})
}

// Sum returns the sum of every element. An empty Matrix sums to 0.
func Sum[T Number](m *Matrix[T]) T {
	return Reduce(m, func(acc, v T) T { return acc + v }, 0)
}

// SumAxis sums along axis.
func SumAxis[T Number](m *Matrix[T], axis int) (*Matrix[T], error) {
	return ReduceAxis(m, axis, func(acc, v T) T { return acc + v }, 0)
}

// Mean returns the arithmetic mean of every element, or NaN when m is empty.
func Mean[T Number](m *Matrix[T]) float64 {
	return meanOf(toFloat64s(m.Values()))
}

// MeanAxis averages along axis.
func MeanAxis[T Number](m *Matrix[T], axis int) (*Matrix[float64], error) {
	return MapAxis(m, axis, func(vec []T, _ []int) float64 {
		return meanOf(toFloat64s(vec))
	})
}

// Max returns the largest element. For floating-point elements a NaN anywhere
// makes the result NaN; MaxAxis, Min, MinAxis and Remove behave the same.
func Max[T Number](m *Matrix[T]) (T, error) {
	vals := m.Values()
	if len(vals) == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return slices.Max(vals), nil
}

// MaxAxis takes the largest element along axis.
func MaxAxis[T Number](m *Matrix[T], axis int) (*Matrix[T], error) {
	return extremeAxis(m, axis, func(v []T) T { return slices.Max(v) })
}

// Min returns the smallest element.
func Min[T Number](m *Matrix[T]) (T, error) {
	vals := m.Values()
	if len(vals) == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return slices.Min(vals), nil
}

// MinAxis takes the smallest element along axis.
func MinAxis[T Number](m *Matrix[T], axis int) (*Matrix[T], error) {
	return extremeAxis(m, axis, func(v []T) T { return slices.Min(v) })
}

func extremeAxis[T Number](m *Matrix[T], axis int, pick func([]T) T) (*Matrix[T], error) {
	if err := shape.CheckAxis(axis, m.Rank()); err != nil {
		return nil, err
	}
	if s := m.Shape(); s[axis] == 0 && s.Without(axis).Size() > 0 {
		return nil, fmt.Errorf("%w: axis %d has length 0", ErrEmpty, axis)
	}
	return MapAxis(m, axis, func(vec []T, _ []int) T { return pick(vec) })
}

// Median sorts every element and returns the middle one, or the mean of the
// two middle ones for an even count. An empty Matrix yields NaN.
func Median[T Number](m *Matrix[T]) float64 {
	return medianOf(toFloat64s(m.Values()))
}

// MedianAxis takes the median along axis. It is Remove with AggMedian over
// the float64 values of m.
func MedianAxis[T Number](m *Matrix[T], axis int) (*Matrix[float64], error) {
	return Remove(MapTo(m, func(v T, _ []int) float64 { return float64(v) }), axis, AggMedian)
}

func toFloat64s[T Number](vals []T) []float64 {
	if f, ok := any(vals).([]float64); ok {
		return f
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// medianOf does not modify vals.
func medianOf(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(vals)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
