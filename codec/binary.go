package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/researchwiseai/pulse-go/internal/conv"
	"github.com/researchwiseai/pulse-go/internal/half"
	"github.com/researchwiseai/pulse-go/ndview"
	"github.com/researchwiseai/pulse-go/shape"
)

// MaxRank bounds the rank accepted by Decode so a corrupt header cannot
// request an absurd shape table.
const MaxRank = 32

// ErrEncoding is returned for malformed buffers and values a dtype cannot hold.
var ErrEncoding = errors.New("codec: malformed encoding")

// Header describes an encoded view without touching its payload.
//
// Wire layout, every field little-endian:
//
//	[u32 rank][u32 shape[0]]...[u32 shape[rank-1]] <pad to dtype size> [payload]
type Header struct {
	Shape         shape.Shape
	DType         DType
	PayloadOffset int
	PayloadLen    int
}

func headerLen(rank int) int { return 4 + 4*rank }

func padding(n, size int) int { return (size - n%size) % size }

// Encode serializes v as the header followed by a row-major payload of dtype.
func Encode[T ndview.Number](v *ndview.View[T], dtype DType) ([]byte, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: unknown dtype %d", ErrEncoding, uint8(dtype))
	}
	s := v.Shape()
	if len(s) > MaxRank {
		return nil, fmt.Errorf("%w: rank %d exceeds %d", ErrEncoding, len(s), MaxRank)
	}

	hdr := headerLen(len(s))
	off := hdr + padding(hdr, dtype.Size())
	vals := v.Values()
	buf := make([]byte, off+len(vals)*dtype.Size())

	rank, err := conv.IntToUint32(len(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	binary.LittleEndian.PutUint32(buf, rank)
	for i, d := range s {
		u, err := conv.IntToUint32(d)
		if err != nil {
			return nil, fmt.Errorf("%w: axis %d: %w", ErrEncoding, i, err)
		}
		binary.LittleEndian.PutUint32(buf[4+4*i:], u)
	}

	if err := putPayload(buf[off:], vals, dtype); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadHeader parses and validates the header of an encoded buffer for dtype.
// The payload length must match the shape exactly.
func ReadHeader(buf []byte, dtype DType) (Header, error) {
	if !dtype.Valid() {
		return Header{}, fmt.Errorf("%w: unknown dtype %d", ErrEncoding, uint8(dtype))
	}
	if len(buf) < 4 {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the rank field", ErrEncoding, len(buf))
	}
	rank := binary.LittleEndian.Uint32(buf)
	if rank > MaxRank {
		return Header{}, fmt.Errorf("%w: rank %d exceeds %d", ErrEncoding, rank, MaxRank)
	}
	hdr := headerLen(int(rank))
	if len(buf) < hdr {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrEncoding, hdr, len(buf))
	}

	s := make(shape.Shape, rank)
	for i := range s {
		d, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(buf[4+4*i:]))
		if err != nil {
			return Header{}, fmt.Errorf("%w: axis %d: %w", ErrEncoding, i, err)
		}
		s[i] = d
	}
	n, err := conv.Product(s)
	if err != nil {
		return Header{}, fmt.Errorf("%w: shape %s: %w", ErrEncoding, s, err)
	}
	payload, err := conv.MulInt(n, dtype.Size())
	if err != nil {
		return Header{}, fmt.Errorf("%w: shape %s: %w", ErrEncoding, s, err)
	}

	off := hdr + padding(hdr, dtype.Size())
	if len(buf)-off != payload {
		return Header{}, fmt.Errorf("%w: shape %s as %s needs %d payload bytes at offset %d, buffer has %d",
			ErrEncoding, s, dtype, payload, off, len(buf))
	}
	return Header{Shape: s, DType: dtype, PayloadOffset: off, PayloadLen: payload}, nil
}

// Decode parses buf as written by Encode into a fresh packed view.
func Decode[T ndview.Number](buf []byte, dtype DType) (*ndview.View[T], error) {
	h, err := ReadHeader(buf, dtype)
	if err != nil {
		return nil, err
	}
	out := make([]T, h.Shape.Size())
	getPayload(out, buf[h.PayloadOffset:], dtype)
	return ndview.New(out, h.Shape)
}

func putPayload[T ndview.Number](dst []byte, vals []T, dtype DType) error {
	switch dtype {
	case Float64:
		if f, ok := any(vals).([]float64); ok && hostLittleEndian {
			copy(dst, float64Bytes(f))
			return nil
		}
		for i, x := range vals {
			binary.LittleEndian.PutUint64(dst[8*i:], math.Float64bits(float64(x)))
		}
	case Float32:
		if f, ok := any(vals).([]float32); ok && hostLittleEndian {
			copy(dst, float32Bytes(f))
			return nil
		}
		for i, x := range vals {
			binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(float32(x)))
		}
	case Uint8:
		if b, ok := any(vals).([]uint8); ok {
			copy(dst, b)
			return nil
		}
		for i, x := range vals {
			f := float64(x)
			if f != math.Trunc(f) || f < 0 || f > math.MaxUint8 {
				return fmt.Errorf("%w: element %d (%v) is not an integer in [0,255]", ErrEncoding, i, f)
			}
			dst[i] = uint8(f)
		}
	case Float16:
		for i, x := range vals {
			binary.LittleEndian.PutUint16(dst[2*i:], half.FromFloat32(float32(x)))
		}
	}
	return nil
}

func getPayload[T ndview.Number](dst []T, src []byte, dtype DType) {
	switch dtype {
	case Float64:
		if f, ok := any(dst).([]float64); ok && hostLittleEndian {
			copy(float64Bytes(f), src)
			return
		}
		for i := range dst {
			dst[i] = T(math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:])))
		}
	case Float32:
		if f, ok := any(dst).([]float32); ok && hostLittleEndian {
			copy(float32Bytes(f), src)
			return
		}
		for i := range dst {
			dst[i] = T(math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:])))
		}
	case Uint8:
		if b, ok := any(dst).([]uint8); ok {
			copy(b, src)
			return
		}
		for i := range dst {
			dst[i] = T(src[i])
		}
	case Float16:
		for i := range dst {
			dst[i] = T(half.ToFloat32(binary.LittleEndian.Uint16(src[2*i:])))
		}
	}
}
