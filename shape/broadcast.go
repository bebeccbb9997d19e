package shape

import "fmt"

// Broadcast returns the shape produced by combining operands of shapes a and b.
// Axes are aligned from the right; each aligned pair must be equal or contain a 1.
func Broadcast(a, b Shape) (Shape, error) {
	rank := max(len(a), len(b))
	out := make(Shape, rank)
	for i := 0; i < rank; i++ {
		da, db := 1, 1
		if i < len(a) {
			da = a[len(a)-1-i]
		}
		if i < len(b) {
			db = b[len(b)-1-i]
		}
		switch {
		case da == db:
			out[rank-1-i] = da
		case da == 1:
			out[rank-1-i] = db
		case db == 1:
			out[rank-1-i] = da
		default:
			return nil, fmt.Errorf("%w: %s and %s", ErrBroadcastMismatch, a, b)
		}
	}
	return out, nil
}

// Zip applies fn elementwise over two row-major buffers after broadcasting
// their shapes. A scalar operand is a buffer of one element with the empty shape.
func Zip[A, B, R any](a []A, as Shape, b []B, bs Shape, fn func(A, B) R) ([]R, Shape, error) {
	if len(a) != as.Size() {
		return nil, nil, fmt.Errorf("%w: left operand has %d elements for shape %s", ErrSizeMismatch, len(a), as)
	}
	if len(b) != bs.Size() {
		return nil, nil, fmt.Errorf("%w: right operand has %d elements for shape %s", ErrSizeMismatch, len(b), bs)
	}
	out, err := Broadcast(as, bs)
	if err != nil {
		return nil, nil, err
	}

	sa := broadcastStrides(as, out)
	sb := broadcastStrides(bs, out)
	res := make([]R, out.Size())
	coords := make([]int, len(out))
	for i := range res {
		IndexToCoordsInto(i, out, coords)
		res[i] = fn(a[CoordsToIndex(coords, sa, 0)], b[CoordsToIndex(coords, sb, 0)])
	}
	return res, out, nil
}

// broadcastStrides returns row-major strides of s expanded to the rank of out,
// with zero stride on every axis that is broadcast.
func broadcastStrides(s, out Shape) []int {
	strides := make([]int, len(out))
	own := RowMajorStrides(s)
	shift := len(out) - len(s)
	for i := range s {
		if s[i] != 1 {
			strides[shift+i] = own[i]
		}
	}
	return strides
}
