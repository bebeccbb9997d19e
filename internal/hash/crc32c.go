package hash

import (
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data. The standard library
// uses SSE4.2 or ARM CRC instructions for this polynomial when available.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// Base64CRC32C returns the checksum in the form object stores expect in
// checksum headers: the big-endian bytes, base64 encoded.
func Base64CRC32C(data []byte) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], CRC32C(data))
	return base64.StdEncoding.EncodeToString(b[:])
}
