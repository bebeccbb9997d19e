// Package quantization provides fixed-scale 8-bit integer codes for similarity
// scores and normalized embeddings.
//
// Two code types exist so that raw floats and quantized codes cannot be mixed
// by accident:
//
//   - QInt: signed codes in [-127,127] for values in [-1,1] (scale 127)
//   - UQInt: unsigned codes in [0,255] for values in [0,1] (scale 255)
//
// Quantization multiplies by the scale and rounds to the nearest integer;
// results outside the code range fail with ErrRange. Dequantization divides by
// the scale, so the reconstruction error is at most 0.5/scale:
//
//	q, err := quantization.QuantizeSigned(0.42) // 53
//	v := q.Float()                              // 0.41732...
//
// The scales are fixed and not configurable per call.
package quantization
