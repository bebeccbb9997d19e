package pulse

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unsafe"

	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/shape"
)

// Aggregation names how Remove collapses the values along an axis.
type Aggregation string

const (
	AggSum    Aggregation = "sum"
	AggMean   Aggregation = "mean"
	AggMax    Aggregation = "max"
	AggMin    Aggregation = "min"
	AggMedian Aggregation = "median"
	AggFirst  Aggregation = "first"
	AggLast   Aggregation = "last"
	AggConcat Aggregation = "concat"
	AggAnd    Aggregation = "and"
	AggOr     Aggregation = "or"
)

// Remove collapses axis dim by aggregating every group of elements that
// differ only along dim. The methods available depend on the element type:
//
//	numeric  sum, mean, max, min, median, first, last
//	string   concat, first, last
//	bool     and, or, first, last
//	other    first, last
//
// Named types are dispatched on their underlying type, so quantised codes
// support the numeric methods. For integer element types mean and median are
// converted back with a Go conversion, which truncates toward zero. Max and
// min treat NaN like Max and Min do. A method the element type does not
// support fails with *UnsupportedAggregationError.
func Remove[T any](m *Matrix[T], dim int, method Aggregation) (*Matrix[T], error) {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Float64:
		return removeAs(m, removeNumeric[float64], dim, method)
	case reflect.Float32:
		return removeAs(m, removeNumeric[float32], dim, method)
	case reflect.Int:
		return removeAs(m, removeNumeric[int], dim, method)
	case reflect.Int8:
		return removeAs(m, removeNumeric[int8], dim, method)
	case reflect.Int16:
		return removeAs(m, removeNumeric[int16], dim, method)
	case reflect.Int32:
		return removeAs(m, removeNumeric[int32], dim, method)
	case reflect.Int64:
		return removeAs(m, removeNumeric[int64], dim, method)
	case reflect.Uint:
		return removeAs(m, removeNumeric[uint], dim, method)
	case reflect.Uint8:
		return removeAs(m, removeNumeric[uint8], dim, method)
	case reflect.Uint16:
		return removeAs(m, removeNumeric[uint16], dim, method)
	case reflect.Uint32:
		return removeAs(m, removeNumeric[uint32], dim, method)
	case reflect.Uint64:
		return removeAs(m, removeNumeric[uint64], dim, method)
	case reflect.String:
		return removeAs(m, removeString, dim, method)
	case reflect.Bool:
		return removeAs(m, removeBool, dim, method)
	}

	agg, ok := positional[T](method)
	if !ok {
		var zero T
		return nil, &UnsupportedAggregationError{Method: method, Kind: fmt.Sprintf("%T", zero)}
	}
	return collapse(m, dim, agg)
}

// removeAs runs remove on m viewed with element type U, which must be the
// underlying type of T, and views the result as T again.
func removeAs[T, U any](m *Matrix[T], remove func(*Matrix[U], int, Aggregation) (*Matrix[U], error), dim int, method Aggregation) (*Matrix[T], error) {
	out, err := remove(packed(reinterpret[U](m.Values()), m.Shape(), m.headers), dim, method)
	if err != nil {
		var ue *UnsupportedAggregationError
		if errors.As(err, &ue) {
			var (
				zero  T
				under U
			)
			ue.Kind = strings.Replace(ue.Kind, fmt.Sprintf("%T", under), fmt.Sprintf("%T", zero), 1)
		}
		return nil, err
	}
	return packed(reinterpret[T](out.Values()), out.Shape(), out.headers), nil
}

func reinterpret[U, T any](vals []T) []U {
	return unsafe.Slice((*U)(unsafe.Pointer(unsafe.SliceData(vals))), len(vals))
}

func removeString(m *Matrix[string], dim int, method Aggregation) (*Matrix[string], error) {
	agg, err := stringAggregator(method)
	if err != nil {
		return nil, err
	}
	return collapse(m, dim, agg)
}

func removeBool(m *Matrix[bool], dim int, method Aggregation) (*Matrix[bool], error) {
	agg, err := boolAggregator(method)
	if err != nil {
		return nil, err
	}
	return collapse(m, dim, agg)
}

// collapse rotates dim to the innermost axis, packs the values and folds each
// contiguous run of shape[dim] elements with agg.
func collapse[T any](m *Matrix[T], dim int, agg func([]T) (T, error)) (*Matrix[T], error) {
	if err := shape.CheckAxis(dim, m.Rank()); err != nil {
		return nil, err
	}
	h, err := headers.Remove(m.headers, dim)
	if err != nil {
		return nil, err
	}
	rotated := m
	for d := dim; d < m.Rank()-1; d++ {
		if rotated, err = rotated.Transpose(d, d+1); err != nil {
			return nil, err
		}
	}

	s := m.Shape()
	n := s[dim]
	outShape := s.Without(dim)
	vals := rotated.Contiguous().Values()

	out := make([]T, outShape.Size())
	for i := range out {
		if out[i], err = agg(vals[i*n : (i+1)*n]); err != nil {
			return nil, fmt.Errorf("pulse: remove axis %d: %w", dim, err)
		}
	}
	return packed(out, outShape, h), nil
}

func positional[T any](method Aggregation) (func([]T) (T, error), bool) {
	switch method {
	case AggFirst:
		return func(run []T) (T, error) {
			if len(run) == 0 {
				var zero T
				return zero, ErrEmpty
			}
			return run[0], nil
		}, true
	case AggLast:
		return func(run []T) (T, error) {
			if len(run) == 0 {
				var zero T
				return zero, ErrEmpty
			}
			return run[len(run)-1], nil
		}, true
	}
	return nil, false
}

func removeNumeric[N Number](m *Matrix[N], dim int, method Aggregation) (*Matrix[N], error) {
	if agg, ok := positional[N](method); ok {
		return collapse(m, dim, agg)
	}
	var agg func([]N) (N, error)
	switch method {
	case AggSum:
		agg = func(run []N) (N, error) {
			var acc N
			for _, v := range run {
				acc += v
			}
			return acc, nil
		}
	case AggMean:
		agg = func(run []N) (N, error) {
			if len(run) == 0 {
				return 0, ErrEmpty
			}
			return N(meanOf(toFloat64s(run))), nil
		}
	case AggMedian:
		agg = func(run []N) (N, error) {
			if len(run) == 0 {
				return 0, ErrEmpty
			}
			return N(medianOf(toFloat64s(run))), nil
		}
	case AggMax:
		agg = func(run []N) (N, error) { return extreme(run, func(v []N) N { return slices.Max(v) }) }
	case AggMin:
		agg = func(run []N) (N, error) { return extreme(run, func(v []N) N { return slices.Min(v) }) }
	default:
		var zero N
		return nil, &UnsupportedAggregationError{Method: method, Kind: fmt.Sprintf("numeric (%T)", zero)}
	}
	return collapse(m, dim, agg)
}

func extreme[N Number](run []N, pick func([]N) N) (N, error) {
	if len(run) == 0 {
		var zero N
		return zero, ErrEmpty
	}
	return pick(run), nil
}

func stringAggregator(method Aggregation) (func([]string) (string, error), error) {
	if agg, ok := positional[string](method); ok {
		return agg, nil
	}
	if method == AggConcat {
		return func(run []string) (string, error) { return strings.Join(run, ""), nil }, nil
	}
	return nil, &UnsupportedAggregationError{Method: method, Kind: "string"}
}

func boolAggregator(method Aggregation) (func([]bool) (bool, error), error) {
	if agg, ok := positional[bool](method); ok {
		return agg, nil
	}
	switch method {
	case AggAnd:
		return func(run []bool) (bool, error) {
			for _, v := range run {
				if !v {
					return false, nil
				}
			}
			return true, nil
		}, nil
	case AggOr:
		return func(run []bool) (bool, error) {
			for _, v := range run {
				if v {
					return true, nil
				}
			}
			return false, nil
		}, nil
	}
	return nil, &UnsupportedAggregationError{Method: method, Kind: "boolean"}
}

// ParseAggregation resolves an aggregation by name.
func ParseAggregation(s string) (Aggregation, error) {
	switch a := Aggregation(strings.ToLower(s)); a {
	case AggSum, AggMean, AggMax, AggMin, AggMedian, AggFirst, AggLast, AggConcat, AggAnd, AggOr:
		return a, nil
	}
	return "", fmt.Errorf("pulse: unknown aggregation %q", s)
}
