// Package codec implements the binary wire format for views and the codecs
// used for structured side data.
//
// The view format is a little-endian header of rank and axis lengths,
// zero padding up to the element size, and a row-major payload of the chosen
// DType (float64, float32, float16 or uint8). Decode validates the header against the
// buffer length and rejects trailing bytes.
//
// Frames (Compress/Decompress) optionally wrap an encoded buffer with LZ4 or
// Zstandard block compression. Changing a codec or frame layout is a breaking
// change for persisted bytes.
package codec
