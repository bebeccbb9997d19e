package headers

import (
	"fmt"

	"github.com/researchwiseai/pulse-go/shape"
)

// LabelKey is the record key used for default labels.
const LabelKey = "label"

// Group is the metadata attached to one index along an axis.
type Group []Record

// Dimension holds one Group per index along an axis.
type Dimension []Group

// Headers holds one Dimension per axis. A nil Headers means "no headers".
//
// None of the functions below mutate their input; the returned Headers may
// share Groups with it.
type Headers []Dimension

// Transpose swaps the metadata of axes a0 and a1.
func Transpose(h Headers, a0, a1 int) (Headers, error) {
	if h == nil {
		return nil, nil
	}
	if err := shape.CheckAxis(a0, len(h)); err != nil {
		return nil, err
	}
	if err := shape.CheckAxis(a1, len(h)); err != nil {
		return nil, err
	}
	out := Clone(h)
	out[a0], out[a1] = out[a1], out[a0]
	return out, nil
}

// Reshape keeps h only when every axis of s has the same length as before;
// otherwise the mapping is undefined and the result is nil.
func Reshape(h Headers, s shape.Shape) Headers {
	if h == nil || len(h) != len(s) {
		return nil
	}
	for i, d := range h {
		if len(d) != s[i] {
			return nil
		}
	}
	return h
}

// Slice restricts the metadata of axis dim to [start, end), resolved the same
// way as a view slice.
func Slice(h Headers, dim, start, end int) (Headers, error) {
	if h == nil {
		return nil, nil
	}
	if err := shape.CheckAxis(dim, len(h)); err != nil {
		return nil, err
	}
	start, end = shape.NormalizeRange(start, end, len(h[dim]))
	out := Clone(h)
	out[dim] = out[dim][start:end]
	return out, nil
}

// Append adds d as the new last axis.
func Append(h Headers, d Dimension) Headers {
	if h == nil {
		return nil
	}
	return append(Clone(h), d)
}

// Prepend adds d as the new first axis.
func Prepend(h Headers, d Dimension) Headers {
	if h == nil {
		return nil
	}
	return append(Headers{d}, Clone(h)...)
}

// Remove drops the metadata of axis dim. Removing the only axis yields nil.
func Remove(h Headers, dim int) (Headers, error) {
	if h == nil {
		return nil, nil
	}
	if err := shape.CheckAxis(dim, len(h)); err != nil {
		return nil, err
	}
	if len(h) == 1 {
		return nil, nil
	}
	out := make(Headers, 0, len(h)-1)
	out = append(out, h[:dim]...)
	return append(out, h[dim+1:]...), nil
}

// Concat joins the metadata of axis dim from a and b, keeping a's metadata
// for every other axis. Both must be present and of equal rank.
func Concat(a, b Headers, dim int) (Headers, error) {
	if a == nil || b == nil {
		return nil, nil
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: concat of rank %d and rank %d headers", shape.ErrDimension, len(a), len(b))
	}
	if err := shape.CheckAxis(dim, len(a)); err != nil {
		return nil, err
	}
	out := Clone(a)
	joined := make(Dimension, 0, len(a[dim])+len(b[dim]))
	joined = append(joined, a[dim]...)
	out[dim] = append(joined, b[dim]...)
	return out, nil
}

// Validate checks h against s: one Dimension per axis, one Group per index,
// and well-typed records. Absent headers are always valid.
func Validate(h Headers, s shape.Shape) error {
	if h == nil {
		return nil
	}
	if len(h) != len(s) {
		return fmt.Errorf("%w: %d header axes for rank %d", shape.ErrDimension, len(h), len(s))
	}
	for i, d := range h {
		if len(d) != s[i] {
			return fmt.Errorf("%w: axis %d has %d header groups for length %d", shape.ErrSizeMismatch, i, len(d), s[i])
		}
		for _, g := range d {
			for _, r := range g {
				if err := r.Validate(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Clone returns a copy of the axis and index tables. Records are values and
// are shared.
func Clone(h Headers) Headers {
	if h == nil {
		return nil
	}
	out := make(Headers, len(h))
	for i, d := range h {
		out[i] = append(Dimension(nil), d...)
	}
	return out
}

// FromLabels builds a Dimension with a single LabelKey string record per index.
func FromLabels(labels []string) Dimension {
	d := make(Dimension, len(labels))
	for i, l := range labels {
		d[i] = Group{String(LabelKey, l)}
	}
	return d
}

// Labels renders the first record with key on every index of axis dim.
// Indices without such a record yield "".
func Labels(h Headers, dim int, key string) ([]string, error) {
	if err := shape.CheckAxis(dim, len(h)); err != nil {
		return nil, err
	}
	out := make([]string, len(h[dim]))
	for i, g := range h[dim] {
		if r, ok := g.Find(key); ok {
			out[i] = r.String()
		}
	}
	return out, nil
}

// Find returns the first record with key.
func (g Group) Find(key string) (Record, bool) {
	for _, r := range g {
		if r.Key == key {
			return r, true
		}
	}
	return Record{}, false
}
