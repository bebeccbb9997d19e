package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// RFC 3720 B.4 check value.
	assert.Equal(t, uint32(0xE3069283), CRC32C([]byte("123456789")))
	assert.Equal(t, uint32(0), CRC32C(nil))
	assert.NotEqual(t, CRC32C([]byte("a")), CRC32C([]byte("b")))
}

func TestBase64CRC32C(t *testing.T) {
	assert.Equal(t, "4waSgw==", Base64CRC32C([]byte("123456789")))
	assert.Equal(t, "AAAAAA==", Base64CRC32C(nil))
}
