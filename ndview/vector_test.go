package ndview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchwiseai/pulse-go/shape"
)

func TestVectors_LastAxisIsZeroCopy(t *testing.T) {
	v, err := New(seq(6), shape.Shape{2, 3})
	require.NoError(t, err)

	vv, err := v.Vectors(1)
	require.NoError(t, err)
	assert.Equal(t, 2, vv.Len())
	assert.Equal(t, 3, vv.VectorLen())
	assert.Equal(t, shape.Shape{2}, vv.Shape())

	row, err := vv.At(1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, row)
	row[0] = 30
	assert.Equal(t, 30, v.Base()[3])
	assert.Len(t, row[:cap(row)], 3, "vector capacity is clipped")
}

func TestVectors_StridedAxisGathers(t *testing.T) {
	v, err := New(seq(6), shape.Shape{2, 3})
	require.NoError(t, err)

	vv, err := v.Vectors(0)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 3}, {1, 4}, {2, 5}}, vv.Contiguous())

	col, err := vv.At(2)
	require.NoError(t, err)
	col[0] = -1
	assert.Equal(t, 2, v.Base()[2])

	_, err = vv.At(3)
	assert.ErrorIs(t, err, shape.ErrOutOfRange)
	_, err = vv.At()
	assert.ErrorIs(t, err, shape.ErrDimension)
}

func TestVectors_Rank3(t *testing.T) {
	v, err := New(seq(24), shape.Shape{2, 3, 4})
	require.NoError(t, err)

	vv, err := v.Vectors(1)
	require.NoError(t, err)
	assert.Equal(t, shape.Shape{2, 4}, vv.Shape())

	var coords [][]int
	for c, vec := range vv.All() {
		coords = append(coords, c)
		want, err := v.Get(c[0], Wildcard, c[1])
		require.NoError(t, err)
		assert.Equal(t, want, vec)
	}
	assert.Len(t, coords, 8)

	c := vv.Contiguous()
	c[0][0] = 1000
	assert.Equal(t, 0, v.Base()[0])

	_, err = v.Vectors(3)
	assert.ErrorIs(t, err, shape.ErrDimension)
}
