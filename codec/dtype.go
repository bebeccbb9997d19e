package codec

import "fmt"

// DType names the fixed-width element representation of an encoded payload.
type DType uint8

const (
	// Float64 is an IEEE-754 binary64 payload.
	Float64 DType = iota + 1
	// Float32 is an IEEE-754 binary32 payload.
	Float32
	// Uint8 is an unsigned byte payload; only integers in [0,255] encode.
	Uint8
	// Float16 is an IEEE-754 binary16 payload. Magnitudes beyond 65504
	// encode as infinity.
	Float16
)

// Size returns the element width in bytes, or 0 for an unknown dtype.
func (d DType) Size() int {
	switch d {
	case Float64:
		return 8
	case Float32:
		return 4
	case Uint8:
		return 1
	case Float16:
		return 2
	default:
		return 0
	}
}

func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	case Uint8:
		return "uint8"
	case Float16:
		return "float16"
	default:
		return fmt.Sprintf("dtype(%d)", uint8(d))
	}
}

// Valid reports whether d is one of the supported dtypes.
func (d DType) Valid() bool { return d.Size() != 0 }

// ParseDType resolves a dtype by its canonical name.
func ParseDType(s string) (DType, error) {
	switch s {
	case "float64":
		return Float64, nil
	case "float32":
		return Float32, nil
	case "uint8":
		return Uint8, nil
	case "float16":
		return Float16, nil
	default:
		return 0, fmt.Errorf("%w: unknown dtype %q", ErrEncoding, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d DType) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: unknown dtype %d", ErrEncoding, uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DType) UnmarshalText(b []byte) error {
	v, err := ParseDType(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
