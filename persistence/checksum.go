package persistence

import (
	"fmt"

	"github.com/researchwiseai/pulse-go/internal/hash"
)

// Checksum returns the CRC32-Castagnoli of data. It detects accidental
// corruption, not tampering.
func Checksum(data []byte) uint32 {
	return hash.CRC32C(data)
}

func verify(name string, data []byte, m *Meta) error {
	if len(data) != m.StoredBytes {
		return fmt.Errorf("%w: %s has %d bytes, meta records %d", ErrChecksum, name, len(data), m.StoredBytes)
	}
	if sum := Checksum(data); sum != m.Checksum {
		return fmt.Errorf("%w: %s crc32c %08x, meta records %08x", ErrChecksum, name, sum, m.Checksum)
	}
	return nil
}
