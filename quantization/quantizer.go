package quantization

import (
	"errors"
	"fmt"
	"math"
)

const (
	// SignedScale maps [-1,1] onto QInt codes [-127,127].
	SignedScale = 127
	// UnsignedScale maps [0,1] onto UQInt codes [0,255].
	UnsignedScale = 255
)

// ErrRange is returned when a value does not fit the code range after rounding.
var ErrRange = errors.New("quantization: value outside representable range")

// QInt is a signed quantized code in [-127,127].
//
// The range is symmetric; -128 is never produced so that negation is closed.
type QInt int8

// UQInt is an unsigned quantized code in [0,255].
type UQInt uint8

// NewQInt range-checks v and returns it as a QInt.
func NewQInt(v int) (QInt, error) {
	if v < -SignedScale || v > SignedScale {
		return 0, fmt.Errorf("%w: %d not in [-%d,%d]", ErrRange, v, SignedScale, SignedScale)
	}
	return QInt(v), nil
}

// NewUQInt range-checks v and returns it as a UQInt.
func NewUQInt(v int) (UQInt, error) {
	if v < 0 || v > UnsignedScale {
		return 0, fmt.Errorf("%w: %d not in [0,%d]", ErrRange, v, UnsignedScale)
	}
	return UQInt(v), nil
}

// Float returns the dequantized value q/127.
func (q QInt) Float() float64 {
	return float64(q) / SignedScale
}

// Float returns the dequantized value u/255.
func (u UQInt) Float() float64 {
	return float64(u) / UnsignedScale
}

// QuantizeSigned maps v (expected in [-1,1]) to round(v*127).
func QuantizeSigned(v float64) (QInt, error) {
	r, err := scaleRound(v, SignedScale)
	if err != nil {
		return 0, err
	}
	return NewQInt(r)
}

// QuantizeUnsigned maps v (expected in [0,1]) to round(v*255).
func QuantizeUnsigned(v float64) (UQInt, error) {
	r, err := scaleRound(v, UnsignedScale)
	if err != nil {
		return 0, err
	}
	return NewUQInt(r)
}

func scaleRound(v float64, scale float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrRange, v)
	}
	r := math.Round(v * scale)
	if r > math.MaxInt32 || r < math.MinInt32 {
		return 0, fmt.Errorf("%w: %v", ErrRange, v)
	}
	return int(r), nil
}

// MaxError returns the worst-case reconstruction error for a code scale: 0.5/scale.
func MaxError(scale int) float64 {
	return 0.5 / float64(scale)
}
