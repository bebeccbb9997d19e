package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchwiseai/pulse-go/codec"
	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/shape"
)

func grid(t *testing.T) *Matrix[float64] {
	t.Helper()
	m, err := From[float64]([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	m, err = m.WithHeaders(headers.Headers{
		headers.FromLabels([]string{"r0", "r1"}),
		headers.FromLabels([]string{"c0", "c1", "c2"}),
	})
	require.NoError(t, err)
	return m
}

func labelsOf(t *testing.T, m interface{ Labels(int) ([]string, error) }, dim int) []string {
	t.Helper()
	l, err := m.Labels(dim)
	require.NoError(t, err)
	return l
}

func TestFrom(t *testing.T) {
	m := grid(t)
	assert.Equal(t, shape.Shape{2, 3}, m.Shape())
	assert.Equal(t, 2, m.Rank())
	assert.Equal(t, 6, m.Size())
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, m.Value())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, m.Values())

	_, err := From[float64]([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrRagged)
}

func TestFromFlat(t *testing.T) {
	m, err := FromFlat([]int{1, 2, 3, 4, 5, 6}, shape.Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5, 6}}, m.Value())

	_, err = FromFlat([]int{1, 2}, shape.Shape{3, 2})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestWithHeaders_Validates(t *testing.T) {
	m := grid(t)
	_, err := m.WithHeaders(headers.Headers{headers.FromLabels([]string{"only"})})
	assert.ErrorIs(t, err, ErrDimension)

	_, err = m.WithHeaders(headers.Headers{
		headers.FromLabels([]string{"r0"}),
		headers.FromLabels([]string{"c0", "c1", "c2"}),
	})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	bare, err := m.WithHeaders(nil)
	require.NoError(t, err)
	assert.Nil(t, bare.Headers())
	assert.NotNil(t, m.Headers(), "source keeps its headers")
}

func TestTranspose_HeadersLockStep(t *testing.T) {
	m := grid(t)
	tr, err := m.Transpose(0, 1)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, tr.Value())
	assert.Equal(t, []string{"c0", "c1", "c2"}, labelsOf(t, tr, 0))
	assert.Equal(t, []string{"r0", "r1"}, labelsOf(t, tr, 1))

	back, err := tr.Transpose(0, 1)
	require.NoError(t, err)
	assert.Equal(t, m.Value(), back.Value())
	assert.Equal(t, m.Headers(), back.Headers())

	_, err = m.Transpose(0, 2)
	assert.ErrorIs(t, err, ErrDimension)
}

func TestReshape_Headers(t *testing.T) {
	m := grid(t)

	same, err := m.Reshape(shape.Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, m.Headers(), same.Headers())

	flat, err := m.Reshape(shape.Shape{3, 2})
	require.NoError(t, err)
	assert.Nil(t, flat.Headers())
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, flat.Value())

	_, err = m.Reshape(shape.Shape{4})
	assert.ErrorIs(t, err, ErrElementCountMismatch)
}

func TestReshape_AfterTranspose(t *testing.T) {
	m := grid(t)
	tr, err := m.Transpose(0, 1)
	require.NoError(t, err)

	r, err := tr.Reshape(shape.Shape{6})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, r.Value())
}

func TestSlice_Headers(t *testing.T) {
	m := grid(t)
	s, err := m.Slice(1, 0, -1)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{1, 2}, {4, 5}}, s.Value())
	assert.Equal(t, []string{"c0", "c1"}, labelsOf(t, s, 1))
	assert.Equal(t, []string{"r0", "r1"}, labelsOf(t, s, 0))

	_, err = m.Slice(2, 0, 1)
	assert.ErrorIs(t, err, ErrDimension)
}

func TestGet(t *testing.T) {
	m := grid(t)

	v, err := m.Get(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	col, err := m.Get(Wildcard, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, col)

	x, err := m.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, x)

	_, err = m.Get(1)
	assert.ErrorIs(t, err, ErrDimension)
	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestContiguous(t *testing.T) {
	m := grid(t)
	assert.Same(t, m, m.Contiguous())

	tr, err := m.Transpose(0, 1)
	require.NoError(t, err)
	c := tr.Contiguous()
	assert.True(t, c.AsView().IsContiguous())
	assert.Equal(t, tr.Value(), c.Value())
	assert.Equal(t, tr.Headers(), c.Headers())
}

func TestAsView_WritesAreShared(t *testing.T) {
	m := grid(t)
	s, err := m.Slice(0, 1, 2)
	require.NoError(t, err)

	require.NoError(t, m.AsView().Set(40, 1, 0))
	v, err := s.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 40.0, v)
}

func TestScalar(t *testing.T) {
	s := Scalar(3.5)
	assert.Equal(t, 0, s.Rank())
	assert.Equal(t, 3.5, s.Value())
}

func TestEncodeDecode(t *testing.T) {
	m := grid(t)
	tr, err := m.Transpose(0, 1)
	require.NoError(t, err)

	for _, dt := range []codec.DType{codec.Float64, codec.Float32, codec.Uint8} {
		t.Run(dt.String(), func(t *testing.T) {
			buf, err := Encode(tr, dt)
			require.NoError(t, err)

			got, err := Decode[float64](buf, dt)
			require.NoError(t, err)
			assert.Equal(t, tr.Value(), got.Value())
			assert.Nil(t, got.Headers())
		})
	}

	_, err = Decode[float64]([]byte{1, 0}, codec.Float64)
	assert.ErrorIs(t, err, ErrEncoding)
}
