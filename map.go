package pulse

import (
	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/quantization"
)

// MapTo applies fn to every element with its coordinates. Shape and headers
// are kept; the element type may change.
func MapTo[T, U any](m *Matrix[T], fn func(v T, coords []int) U) *Matrix[U] {
	out := make([]U, 0, m.Size())
	for coords, v := range m.All() {
		out = append(out, fn(v, coords))
	}
	return packed(out, m.Shape(), m.headers)
}

// MapAxis applies fn to every vector along axis. The result has the axis
// removed, from both the shape and the headers, exactly like ReduceAxis.
//
// The vector passed to fn may alias the buffer of m and must not be modified
// or retained.
func MapAxis[T, U any](m *Matrix[T], axis int, fn func(vec []T, coords []int) U) (*Matrix[U], error) {
	vv, err := m.view.Vectors(axis)
	if err != nil {
		return nil, err
	}
	h, err := headers.Remove(m.headers, axis)
	if err != nil {
		return nil, err
	}
	out := make([]U, 0, vv.Len())
	for coords, vec := range vv.All() {
		out = append(out, fn(vec, coords))
	}
	return packed(out, vv.Shape(), h), nil
}

// Quantise maps values in [-1,1] to signed codes round(v*127). Any value
// that rounds outside [-127,127] fails with ErrRange.
func Quantise[T Number](m *Matrix[T]) (*Matrix[quantization.QInt], error) {
	return quantiseWith(m, quantization.QuantizeSigned)
}

// QuantiseUnsigned maps values in [0,1] to unsigned codes round(v*255). Any
// value that rounds outside [0,255] fails with ErrRange.
func QuantiseUnsigned[T Number](m *Matrix[T]) (*Matrix[quantization.UQInt], error) {
	return quantiseWith(m, quantization.QuantizeUnsigned)
}

func quantiseWith[T Number, Q any](m *Matrix[T], q func(float64) (Q, error)) (*Matrix[Q], error) {
	out := make([]Q, 0, m.Size())
	for _, v := range m.All() {
		code, err := q(float64(v))
		if err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return packed(out, m.Shape(), m.headers), nil
}

// Dequantise maps signed codes back to q/127.
func Dequantise(m *Matrix[quantization.QInt]) *Matrix[float64] {
	return MapTo(m, func(q quantization.QInt, _ []int) float64 { return q.Float() })
}

// DequantiseUnsigned maps unsigned codes back to u/255.
func DequantiseUnsigned(m *Matrix[quantization.UQInt]) *Matrix[float64] {
	return MapTo(m, func(u quantization.UQInt, _ []int) float64 { return u.Float() })
}
