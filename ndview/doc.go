// Package ndview implements strided N-dimensional views over flat buffers.
//
// A View never owns its layout: Slice, Transpose, Select and (for row-major
// views) Reshape return new views that alias the same buffer, so writes
// through Set are visible everywhere. Call Contiguous or Values to detach.
//
//	v, _ := ndview.New([]float64{1, 2, 3, 4, 5, 6}, shape.Shape{2, 3})
//	t, _ := v.Transpose(0, 1) // shape [3x2], no copy
//	col, _ := v.Get(ndview.Wildcard, 1) // []float64{2, 5}
//
// Vectors exposes the 1-D slices along one axis, zero-copy where the stride
// permits.
package ndview
