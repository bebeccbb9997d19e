package codec

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/researchwiseai/pulse-go/internal/conv"
)

// Compression selects the block algorithm applied to an encoded frame.
type Compression uint8

const (
	// CompressionNone stores the payload as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 favours speed.
	CompressionLZ4 Compression = 1
	// CompressionZstd favours ratio.
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression resolves a compression by name.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("%w: unknown compression %q", ErrEncoding, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) {
	if c > CompressionZstd {
		return nil, fmt.Errorf("%w: unknown compression %d", ErrEncoding, uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(b []byte) error {
	v, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Frame layout: [u8 compression][u32 rawLen][u32 storedLen][payload].
// A frame whose compression did not pay off is written with CompressionNone.
const frameHeaderSize = 9

// minRatio is the stored/raw size above which the raw bytes are kept.
const minRatio = 0.9

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) { zstdEncoderPool.Put(enc) }

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) { zstdDecoderPool.Put(dec) }

// FrameInfo describes a frame header.
type FrameInfo struct {
	Compression Compression
	RawLen      int
	StoredLen   int
}

// Compress wraps data in a frame, compressing it with c when that shrinks it.
func Compress(data []byte, c Compression) ([]byte, error) {
	var stored []byte
	var err error

	switch c {
	case CompressionNone:
	case CompressionLZ4:
		stored, err = compressLZ4(data)
	case CompressionZstd:
		enc := getZstdEncoder()
		stored = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrEncoding, uint8(c))
	}
	if err != nil {
		return nil, err
	}

	if len(stored) == 0 || float64(len(stored)) > float64(len(data))*minRatio {
		c, stored = CompressionNone, data
	}

	rawLen, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	storedLen, err := conv.IntToUint32(len(stored))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	out := make([]byte, frameHeaderSize+len(stored))
	out[0] = byte(c)
	binary.LittleEndian.PutUint32(out[1:], rawLen)
	binary.LittleEndian.PutUint32(out[5:], storedLen)
	copy(out[frameHeaderSize:], stored)
	return out, nil
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return compressed[:n], nil
}

// ReadFrameInfo validates and returns the frame header.
func ReadFrameInfo(frame []byte) (FrameInfo, error) {
	if len(frame) < frameHeaderSize {
		return FrameInfo{}, fmt.Errorf("%w: frame of %d bytes is shorter than its header", ErrEncoding, len(frame))
	}
	info := FrameInfo{Compression: Compression(frame[0])}
	var err error
	if info.RawLen, err = conv.Uint32ToInt(binary.LittleEndian.Uint32(frame[1:])); err != nil {
		return FrameInfo{}, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if info.StoredLen, err = conv.Uint32ToInt(binary.LittleEndian.Uint32(frame[5:])); err != nil {
		return FrameInfo{}, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if len(frame)-frameHeaderSize != info.StoredLen {
		return FrameInfo{}, fmt.Errorf("%w: frame declares %d stored bytes, has %d",
			ErrEncoding, info.StoredLen, len(frame)-frameHeaderSize)
	}
	if info.Compression == CompressionNone && info.RawLen != info.StoredLen {
		return FrameInfo{}, fmt.Errorf("%w: uncompressed frame with raw %d != stored %d",
			ErrEncoding, info.RawLen, info.StoredLen)
	}
	return info, nil
}

// Decompress returns the raw bytes held by a frame. Uncompressed frames are
// returned as a subslice of frame.
func Decompress(frame []byte) ([]byte, error) {
	info, err := ReadFrameInfo(frame)
	if err != nil {
		return nil, err
	}
	stored := frame[frameHeaderSize:]

	switch info.Compression {
	case CompressionNone:
		return stored, nil
	case CompressionLZ4:
		out := make([]byte, info.RawLen)
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrEncoding, err)
		}
		if n != info.RawLen {
			return nil, fmt.Errorf("%w: lz4 produced %d bytes, want %d", ErrEncoding, n, info.RawLen)
		}
		return out, nil
	case CompressionZstd:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		out, err := dec.DecodeAll(stored, make([]byte, 0, info.RawLen))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrEncoding, err)
		}
		if len(out) != info.RawLen {
			return nil, fmt.Errorf("%w: zstd produced %d bytes, want %d", ErrEncoding, len(out), info.RawLen)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrEncoding, uint8(info.Compression))
	}
}
