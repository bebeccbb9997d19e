package pulse

import (
	"errors"

	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/shape"
)

// ErrDivideByZero is returned by Div for a zero integer divisor.
var ErrDivideByZero = errors.New("pulse: integer division by zero")

// Apply combines a and b elementwise after broadcasting their shapes: axes
// are aligned from the right and each pair must be equal or contain a 1.
// Incompatible shapes fail with ErrBroadcastMismatch.
//
// The result keeps the headers of whichever operand already has the result
// shape, preferring a.
func Apply[A, B, R any](a *Matrix[A], b *Matrix[B], fn func(A, B) R) (*Matrix[R], error) {
	vals, s, err := shape.Zip(a.Values(), a.Shape(), b.Values(), b.Shape(), fn)
	if err != nil {
		return nil, err
	}
	var h headers.Headers
	switch {
	case a.headers != nil && a.Shape().Equal(s):
		h = a.headers
	case b.headers != nil && b.Shape().Equal(s):
		h = b.headers
	}
	return packed(vals, s, h), nil
}

// Add returns a + b.
func Add[T Number](a, b *Matrix[T]) (*Matrix[T], error) {
	return Apply(a, b, func(x, y T) T { return x + y })
}

// Sub returns a - b.
func Sub[T Number](a, b *Matrix[T]) (*Matrix[T], error) {
	return Apply(a, b, func(x, y T) T { return x - y })
}

// Mul returns the elementwise product a * b.
func Mul[T Number](a, b *Matrix[T]) (*Matrix[T], error) {
	return Apply(a, b, func(x, y T) T { return x * y })
}

// Div returns the elementwise quotient a / b. For integer element types a zero
// divisor fails with ErrDivideByZero; floats follow IEEE 754.
func Div[T Number](a, b *Matrix[T]) (*Matrix[T], error) {
	one, two := T(1), T(2)
	if one/two == 0 {
		for _, v := range b.All() {
			if v == 0 {
				return nil, ErrDivideByZero
			}
		}
	}
	return Apply(a, b, func(x, y T) T { return x / y })
}

// Scale multiplies every element by k.
func Scale[T Number](m *Matrix[T], k T) *Matrix[T] {
	return MapTo(m, func(v T, _ []int) T { return v * k })
}
