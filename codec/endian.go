package codec

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// hostLittleEndian enables reinterpreting float slices as wire bytes.
var hostLittleEndian = !cpu.IsBigEndian

func float64Bytes(s []float64) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*8)
}

func float32Bytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*4)
}
