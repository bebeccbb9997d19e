package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchwiseai/pulse-go/shape"
)

func sample() Headers {
	return Headers{
		FromLabels([]string{"r0", "r1"}),
		FromLabels([]string{"c0", "c1", "c2"}),
	}
}

func labels(t *testing.T, h Headers, dim int) []string {
	t.Helper()
	out, err := Labels(h, dim, LabelKey)
	require.NoError(t, err)
	return out
}

func TestTranspose(t *testing.T) {
	h := sample()
	tr, err := Transpose(h, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c0", "c1", "c2"}, labels(t, tr, 0))
	assert.Equal(t, []string{"r0", "r1"}, labels(t, tr, 1))
	assert.Equal(t, []string{"r0", "r1"}, labels(t, h, 0), "input untouched")

	_, err = Transpose(h, 0, 2)
	assert.ErrorIs(t, err, shape.ErrDimension)

	none, err := Transpose(nil, 0, 5)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestReshape(t *testing.T) {
	h := sample()
	assert.Equal(t, h, Reshape(h, shape.Shape{2, 3}))
	assert.Nil(t, Reshape(h, shape.Shape{3, 2}))
	assert.Nil(t, Reshape(h, shape.Shape{6}))
	assert.Nil(t, Reshape(nil, shape.Shape{2, 3}))
}

func TestSlice(t *testing.T) {
	h := sample()
	s, err := Slice(h, 1, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, labels(t, s, 1))
	assert.Equal(t, []string{"r0", "r1"}, labels(t, s, 0))
	assert.Len(t, h[1], 3)

	_, err = Slice(h, 2, 0, 1)
	assert.ErrorIs(t, err, shape.ErrDimension)
}

func TestAppendPrependRemove(t *testing.T) {
	h := sample()
	extra := FromLabels([]string{"z"})

	a := Append(h, extra)
	require.Len(t, a, 3)
	assert.Equal(t, []string{"z"}, labels(t, a, 2))

	p := Prepend(h, extra)
	require.Len(t, p, 3)
	assert.Equal(t, []string{"z"}, labels(t, p, 0))
	assert.Equal(t, []string{"c0", "c1", "c2"}, labels(t, p, 2))

	r, err := Remove(h, 0)
	require.NoError(t, err)
	require.Len(t, r, 1)
	assert.Equal(t, []string{"c0", "c1", "c2"}, labels(t, r, 0))

	last, err := Remove(r, 0)
	require.NoError(t, err)
	assert.Nil(t, last)

	_, err = Remove(h, 3)
	assert.ErrorIs(t, err, shape.ErrDimension)

	assert.Nil(t, Append(nil, extra))
	assert.Nil(t, Prepend(nil, extra))
}

func TestConcat(t *testing.T) {
	a := sample()
	b := Headers{FromLabels([]string{"r2"}), FromLabels([]string{"x", "y", "z"})}

	c, err := Concat(a, b, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r0", "r1", "r2"}, labels(t, c, 0))
	assert.Equal(t, []string{"c0", "c1", "c2"}, labels(t, c, 1))
	require.NoError(t, Validate(c, shape.Shape{3, 3}))

	_, err = Concat(a, Headers{FromLabels([]string{"q"})}, 0)
	assert.ErrorIs(t, err, shape.ErrDimension)

	none, err := Concat(a, nil, 0)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestValidate(t *testing.T) {
	h := sample()
	require.NoError(t, Validate(h, shape.Shape{2, 3}))
	require.NoError(t, Validate(nil, shape.Shape{2, 3}))
	assert.ErrorIs(t, Validate(h, shape.Shape{2}), shape.ErrDimension)
	assert.ErrorIs(t, Validate(h, shape.Shape{2, 4}), shape.ErrSizeMismatch)

	bad := Clone(h)
	bad[0][0] = Group{{Key: "broken"}}
	assert.ErrorIs(t, Validate(bad, shape.Shape{2, 3}), ErrRecordType)
}

func TestLabels_MissingKey(t *testing.T) {
	h := Headers{{Group{Number("score", 0.5)}, Group{String(LabelKey, "b")}}}
	got, err := Labels(h, 0, LabelKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "b"}, got)

	scores, err := Labels(h, 0, "score")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.5", ""}, scores)

	_, err = Labels(nil, 0, LabelKey)
	assert.ErrorIs(t, err, shape.ErrDimension)
}
