package codec

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchwiseai/pulse-go/ndview"
	"github.com/researchwiseai/pulse-go/shape"
)

func mustView[T any](t *testing.T, data []T, s shape.Shape) *ndview.View[T] {
	t.Helper()
	v, err := ndview.New(data, s)
	require.NoError(t, err)
	return v
}

func TestDType(t *testing.T) {
	for _, d := range []DType{Float64, Float32, Uint8, Float16} {
		parsed, err := ParseDType(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, parsed)
	}
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 1, Uint8.Size())
	assert.Equal(t, 2, Float16.Size())
	assert.False(t, DType(9).Valid())

	_, err := ParseDType("int16")
	assert.ErrorIs(t, err, ErrEncoding)

	var d DType
	require.NoError(t, d.UnmarshalText([]byte("float32")))
	assert.Equal(t, Float32, d)
}

func TestEncode_Layout(t *testing.T) {
	v := mustView(t, []float64{1, 2, 3, 4, 5, 6}, shape.Shape{2, 3})

	buf, err := Encode(v, Float64)
	require.NoError(t, err)
	// 4 (rank) + 8 (dims) = 12, padded to 16, then 6 float64.
	require.Len(t, buf, 16+48)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[12:16])
	assert.Equal(t, 1.0, math.Float64frombits(binary.LittleEndian.Uint64(buf[16:])))
	assert.Equal(t, 6.0, math.Float64frombits(binary.LittleEndian.Uint64(buf[56:])))

	buf, err = Encode(v, Float32)
	require.NoError(t, err)
	assert.Len(t, buf, 12+24)

	buf, err = Encode(v, Uint8)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, buf[12:])

	buf, err = Encode(v, Float16)
	require.NoError(t, err)
	require.Len(t, buf, 12+12)
	assert.Equal(t, uint16(0x3C00), binary.LittleEndian.Uint16(buf[12:]))
	assert.Equal(t, uint16(0x4600), binary.LittleEndian.Uint16(buf[22:]))
}

func TestFloat16_Precision(t *testing.T) {
	scores := []float64{0.1, -0.75, 0.333, 1e5}
	buf, err := Encode(mustView(t, scores, shape.Shape{4}), Float16)
	require.NoError(t, err)

	got, err := Decode[float64](buf, Float16)
	require.NoError(t, err)
	vals := got.Values()
	assert.InDelta(t, 0.1, vals[0], 1e-3)
	assert.Equal(t, -0.75, vals[1])
	assert.InDelta(t, 0.333, vals[2], 1e-3)
	assert.True(t, math.IsInf(vals[3], 1))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	v := mustView(t, data, shape.Shape{2, 3, 2})
	tr, err := v.Transpose(0, 2)
	require.NoError(t, err)

	for _, dtype := range []DType{Float64, Float32, Uint8, Float16} {
		t.Run(dtype.String(), func(t *testing.T) {
			for _, src := range []*ndview.View[float64]{v, tr} {
				buf, err := Encode(src, dtype)
				require.NoError(t, err)
				got, err := Decode[float64](buf, dtype)
				require.NoError(t, err)
				assert.Equal(t, src.Materialize(), got.Materialize())
				assert.True(t, got.IsContiguous())
			}
		})
	}
}

func TestEncodeDecode_Float32Precision(t *testing.T) {
	v := mustView(t, []float64{0.1, -0.25, 1.0 / 3}, shape.Shape{3})
	buf, err := Encode(v, Float32)
	require.NoError(t, err)
	got, err := Decode[float64](buf, Float32)
	require.NoError(t, err)
	assert.InDeltaSlice(t, v.Values(), got.Values(), 1e-7)

	f32, err := Decode[float32](buf, Float32)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, -0.25, float32(1.0 / 3)}, f32.Values())
}

func TestEncodeDecode_TypedFastPaths(t *testing.T) {
	u := mustView(t, []uint8{0, 127, 255}, shape.Shape{3})
	buf, err := Encode(u, Uint8)
	require.NoError(t, err)
	back, err := Decode[uint8](buf, Uint8)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 127, 255}, back.Values())

	f := mustView(t, []float32{1.5, -2.5}, shape.Shape{1, 2})
	buf, err = Encode(f, Float32)
	require.NoError(t, err)
	fb, err := Decode[float32](buf, Float32)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1.5, -2.5}}, fb.Materialize())
}

func TestEncodeDecode_EdgeShapes(t *testing.T) {
	scalar := mustView(t, []float64{42}, shape.Shape{})
	buf, err := Encode(scalar, Float64)
	require.NoError(t, err)
	assert.Len(t, buf, 8+8)
	got, err := Decode[float64](buf, Float64)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.Materialize())

	empty := mustView(t, []float64{}, shape.Shape{0, 4})
	buf, err = Encode(empty, Float32)
	require.NoError(t, err)
	got, err = Decode[float64](buf, Float32)
	require.NoError(t, err)
	assert.Equal(t, shape.Shape{0, 4}, got.Shape())
	assert.Equal(t, 0, got.Size())
}

func TestEncode_Uint8Rejects(t *testing.T) {
	for _, bad := range []float64{-1, 256, 1.5, math.NaN()} {
		v := mustView(t, []float64{0, bad}, shape.Shape{2})
		_, err := Encode(v, Uint8)
		assert.ErrorIs(t, err, ErrEncoding, "value %v", bad)
	}
	_, err := Encode(mustView(t, []float64{1}, shape.Shape{1}), DType(0))
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestDecode_Malformed(t *testing.T) {
	good, err := Encode(mustView(t, []float64{1, 2, 3, 4}, shape.Shape{2, 2}), Float64)
	require.NoError(t, err)

	huge := make([]byte, 12)
	binary.LittleEndian.PutUint32(huge[0:], 2)
	binary.LittleEndian.PutUint32(huge[4:], math.MaxUint32)
	binary.LittleEndian.PutUint32(huge[8:], math.MaxUint32)

	deep := make([]byte, 4)
	binary.LittleEndian.PutUint32(deep, MaxRank+1)

	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"short rank", []byte{1, 0}},
		{"rank too large", deep},
		{"truncated dims", good[:8]},
		{"truncated payload", good[:len(good)-1]},
		{"trailing bytes", append(append([]byte{}, good...), 0)},
		{"overflowing shape", huge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[float64](tt.buf, Float64)
			assert.ErrorIs(t, err, ErrEncoding)
		})
	}

	_, err = Decode[float64](good, Float32)
	assert.ErrorIs(t, err, ErrEncoding, "dtype mismatch shows up as a payload length mismatch")
}

func TestReadHeader(t *testing.T) {
	buf, err := Encode(mustView(t, make([]float64, 24), shape.Shape{2, 3, 4}), Float64)
	require.NoError(t, err)

	h, err := ReadHeader(buf, Float64)
	require.NoError(t, err)
	assert.Equal(t, shape.Shape{2, 3, 4}, h.Shape)
	assert.Equal(t, 16, h.PayloadOffset)
	assert.Equal(t, 24*8, h.PayloadLen)
	assert.Equal(t, Float64, h.DType)
}
