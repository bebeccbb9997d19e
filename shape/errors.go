package shape

import "errors"

// Every message is prefixed with "shape:" so the kind is greppable in logs.
// Callers match with errors.Is; context is added with fmt.Errorf("...: %w", ErrX).
var (
	// ErrDimension is returned when an axis index is outside [0, rank) or when
	// the number of coordinates does not match the rank.
	ErrDimension = errors.New("shape: dimension out of range")

	// ErrElementCountMismatch is returned when a reshape target does not hold
	// the same number of elements as the source.
	ErrElementCountMismatch = errors.New("shape: element count mismatch")

	// ErrSizeMismatch is returned when a flat buffer cannot fill the requested shape.
	ErrSizeMismatch = errors.New("shape: size mismatch")

	// ErrBroadcastMismatch is returned when two operands have an axis whose
	// lengths differ and neither is 1.
	ErrBroadcastMismatch = errors.New("shape: incompatible lengths for broadcast")

	// ErrRagged is returned when a nested array has sub-arrays of unequal length.
	ErrRagged = errors.New("shape: ragged nested array")

	// ErrElementType is returned when a nested array leaf has the wrong type.
	ErrElementType = errors.New("shape: unexpected element type")

	// ErrOutOfRange is returned when a coordinate lies outside its axis.
	ErrOutOfRange = errors.New("shape: index out of range")
)
