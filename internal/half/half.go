// Package half converts between float32 and IEEE-754 binary16 bit patterns.
//
// binary16 has 1 sign bit, 5 exponent bits (bias 15) and 10 fraction bits.
// It holds every integer in [-2048, 2048] exactly and saturates to
// infinity beyond ±65504.
package half

import "math"

const (
	sign16 = 0x8000
	exp16  = 0x7C00
	frac16 = 0x03FF

	exp32  = 0x7F800000
	frac32 = 0x007FFFFF

	bias16 = 15
	bias32 = 127
)

// ToFloat32 widens a binary16 bit pattern. The conversion is exact.
func ToFloat32(h uint16) float32 {
	sign := uint32(h&sign16) << 16
	exp := int32(h&exp16) >> 10
	frac := uint32(h & frac16)

	switch {
	case exp == 0x1F:
		// Inf keeps a zero fraction; NaN keeps its payload.
		return math.Float32frombits(sign | exp32 | frac<<13)
	case exp == 0 && frac == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// Subnormal: shift the fraction up until the implicit bit appears.
		exp = 1
		for frac&0x0400 == 0 {
			frac <<= 1
			exp--
		}
		frac &= frac16
	}
	return math.Float32frombits(sign | uint32(exp-bias16+bias32)<<23 | frac<<13)
}

// FromFloat32 narrows f to binary16, rounding to nearest with ties to even.
func FromFloat32(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & sign16
	exp := int32(bits&exp32) >> 23
	frac := bits & frac32

	if exp == 0xFF {
		if frac == 0 {
			return sign | exp16
		}
		// Quiet NaN with a non-zero payload.
		return sign | exp16 | 0x0200 | uint16(frac>>13)&frac16
	}
	if exp == 0 {
		// float32 subnormals are far below the binary16 range.
		return sign
	}

	e := exp - bias32 + bias16
	if e >= 0x1F {
		return sign | exp16
	}
	if e <= 0 {
		if e < -10 {
			return sign
		}
		// Subnormal result: the implicit bit becomes explicit.
		return sign | uint16(roundShift(frac|0x00800000, uint32(14-e)))
	}

	// A mantissa carry out of 10 bits bumps the exponent, which is exactly
	// what adding the rounded value to the shifted exponent does.
	h := uint32(e)<<10 + roundShift(frac, 13)
	if h >= exp16 {
		return sign | exp16
	}
	return sign | uint16(h)
}

// roundShift returns m >> shift rounded to nearest, ties to even.
func roundShift(m, shift uint32) uint32 {
	q := m >> shift
	rem := m & (1<<shift - 1)
	halfway := uint32(1) << (shift - 1)
	if rem > halfway || (rem == halfway && q&1 == 1) {
		q++
	}
	return q
}
