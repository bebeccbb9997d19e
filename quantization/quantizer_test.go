package quantization

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQInt(t *testing.T) {
	q, err := NewQInt(-127)
	require.NoError(t, err)
	assert.Equal(t, QInt(-127), q)

	_, err = NewQInt(-128)
	assert.ErrorIs(t, err, ErrRange)
	_, err = NewQInt(128)
	assert.ErrorIs(t, err, ErrRange)
}

func TestNewUQInt(t *testing.T) {
	u, err := NewUQInt(255)
	require.NoError(t, err)
	assert.Equal(t, UQInt(255), u)

	_, err = NewUQInt(-1)
	assert.ErrorIs(t, err, ErrRange)
	_, err = NewUQInt(256)
	assert.ErrorIs(t, err, ErrRange)
}

func TestQuantizeSigned(t *testing.T) {
	tests := []struct {
		in   float64
		want QInt
	}{
		{1, 127},
		{-1, -127},
		{0, 0},
		{0.5, 64},
		{-0.5, -64},
	}
	for _, tt := range tests {
		got, err := QuantizeSigned(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "in=%v", tt.in)
	}

	_, err := QuantizeSigned(1.01)
	assert.ErrorIs(t, err, ErrRange)
	_, err = QuantizeSigned(math.NaN())
	assert.ErrorIs(t, err, ErrRange)
	_, err = QuantizeSigned(math.Inf(-1))
	assert.ErrorIs(t, err, ErrRange)
}

func TestQuantizeUnsigned(t *testing.T) {
	got, err := QuantizeUnsigned(1)
	require.NoError(t, err)
	assert.Equal(t, UQInt(255), got)

	_, err = QuantizeUnsigned(-0.01)
	assert.ErrorIs(t, err, ErrRange)
	_, err = QuantizeUnsigned(1.01)
	assert.ErrorIs(t, err, ErrRange)
}

func TestRoundTrip_ErrorBound(t *testing.T) {
	for i := 0; i <= 2000; i++ {
		v := -1 + float64(i)/1000
		q, err := QuantizeSigned(v)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(q.Float()-v), MaxError(SignedScale)+1e-12)
	}
	for i := 0; i <= 1000; i++ {
		v := float64(i) / 1000
		u, err := QuantizeUnsigned(v)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(u.Float()-v), MaxError(UnsignedScale)+1e-12)
	}
}
