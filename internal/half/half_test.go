package half

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownValues(t *testing.T) {
	tests := []struct {
		name string
		bits uint16
		f    float32
	}{
		{"zero", 0x0000, 0},
		{"one", 0x3C00, 1},
		{"minus two", 0xC000, -2},
		{"half", 0x3800, 0.5},
		{"max", 0x7BFF, 65504},
		{"min normal", 0x0400, float32(math.Ldexp(1, -14))},
		{"min subnormal", 0x0001, float32(math.Ldexp(1, -24))},
		{"max subnormal", 0x03FF, float32(math.Ldexp(1023, -24))},
		{"127", 0x57F0, 127},
		{"-127", 0xD7F0, -127},
		{"inf", 0x7C00, float32(math.Inf(1))},
		{"-inf", 0xFC00, float32(math.Inf(-1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.f, ToFloat32(tt.bits))
			assert.Equal(t, tt.bits, FromFloat32(tt.f))
		})
	}
}

func TestNegativeZero(t *testing.T) {
	negZero := float32(math.Copysign(0, -1))
	assert.Equal(t, uint16(0x8000), FromFloat32(negZero))
	assert.True(t, math.Signbit(float64(ToFloat32(0x8000))))
}

func TestNaN(t *testing.T) {
	h := FromFloat32(float32(math.NaN()))
	assert.Equal(t, uint16(0x7C00), h&0x7C00)
	assert.NotZero(t, h&0x03FF)
	assert.True(t, math.IsNaN(float64(ToFloat32(h))))
}

func TestRounding(t *testing.T) {
	// 1 + 2^-11 is halfway between 1 and the next binary16 value; ties go to even.
	assert.Equal(t, uint16(0x3C00), FromFloat32(1+float32(math.Ldexp(1, -11))))
	// 1 + 3*2^-11 is halfway between two odd/even neighbours; rounds up to even.
	assert.Equal(t, uint16(0x3C02), FromFloat32(1+3*float32(math.Ldexp(1, -11))))
	// Just above halfway rounds up.
	assert.Equal(t, uint16(0x3C01), FromFloat32(1+float32(math.Ldexp(1, -11))+float32(math.Ldexp(1, -20))))

	assert.Equal(t, uint16(0x7C00), FromFloat32(65520), "rounds past max to inf")
	assert.Equal(t, uint16(0x7BFF), FromFloat32(65519))
	assert.Equal(t, uint16(0x7C00), FromFloat32(1e10))
	assert.Equal(t, uint16(0), FromFloat32(float32(math.Ldexp(1, -26))), "underflows to zero")
	assert.Equal(t, uint16(0x0001), FromFloat32(float32(math.Ldexp(3, -26))), "rounds up to min subnormal")
	assert.Equal(t, uint16(0x0400), FromFloat32(float32(math.Ldexp(2047, -25))), "subnormal carries into normal")
}

func TestRoundTripIntegers(t *testing.T) {
	for i := -2048; i <= 2048; i++ {
		f := float32(i)
		assert.Equal(t, f, ToFloat32(FromFloat32(f)), "integer %d", i)
	}
}

func TestRoundTripAllPatterns(t *testing.T) {
	for b := 0; b <= 0xFFFF; b++ {
		h := uint16(b)
		f := ToFloat32(h)
		if math.IsNaN(float64(f)) {
			continue
		}
		assert.Equal(t, h, FromFloat32(f), "pattern %#04x", h)
	}
}
