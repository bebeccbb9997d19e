package pulse

import (
	"errors"
	"fmt"

	"github.com/researchwiseai/pulse-go/codec"
	"github.com/researchwiseai/pulse-go/quantization"
	"github.com/researchwiseai/pulse-go/shape"
)

// Error kinds returned by Matrix operations. Each one is the sentinel of the
// package that raises it, so errors.Is works across package boundaries.
var (
	// ErrDimension: axis index outside [0, rank) or coordinate count != rank.
	ErrDimension = shape.ErrDimension
	// ErrElementCountMismatch: reshape target holds a different number of elements.
	ErrElementCountMismatch = shape.ErrElementCountMismatch
	// ErrSizeMismatch: flat input length does not fill the requested shape.
	ErrSizeMismatch = shape.ErrSizeMismatch
	// ErrBroadcastMismatch: elementwise operands have incompatible axis lengths.
	ErrBroadcastMismatch = shape.ErrBroadcastMismatch
	// ErrOutOfRange: coordinate outside its axis.
	ErrOutOfRange = shape.ErrOutOfRange
	// ErrRagged: nested input has rows of unequal length.
	ErrRagged = shape.ErrRagged
	// ErrRange: quantization input rounds outside the code range.
	ErrRange = quantization.ErrRange
	// ErrEncoding: malformed binary buffer.
	ErrEncoding = codec.ErrEncoding
)

// ErrUnsupportedAggregation is returned when Remove is asked for a method the
// element type does not support.
var ErrUnsupportedAggregation = errors.New("pulse: unsupported aggregation")

// ErrNotRank2 is returned by the dense interop helpers for non-matrix shapes.
var ErrNotRank2 = errors.New("pulse: matrix must have rank 2")

// UnsupportedAggregationError names the rejected method and the element kind
// it was applied to.
//
// It unwraps to ErrUnsupportedAggregation.
type UnsupportedAggregationError struct {
	Method Aggregation
	Kind   string
}

func (e *UnsupportedAggregationError) Error() string {
	return fmt.Sprintf("pulse: aggregation %q is not supported for %s elements", e.Method, e.Kind)
}

func (e *UnsupportedAggregationError) Unwrap() error { return ErrUnsupportedAggregation }
