package codec

import (
	"testing"

	"github.com/researchwiseai/pulse-go/ndview"
	"github.com/researchwiseai/pulse-go/shape"
)

func benchView(b *testing.B, rows, cols int) *ndview.View[float64] {
	b.Helper()
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i%97) / 97
	}
	v, err := ndview.New(data, shape.Shape{rows, cols})
	if err != nil {
		b.Fatal(err)
	}
	return v
}

func BenchmarkEncode_Float64(b *testing.B) {
	v := benchView(b, 256, 384)
	b.ReportAllocs()
	b.SetBytes(int64(v.Size() * 8))
	for b.Loop() {
		if _, err := Encode(v, Float64); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncode_Float32(b *testing.B) {
	v := benchView(b, 256, 384)
	b.ReportAllocs()
	b.SetBytes(int64(v.Size() * 4))
	for b.Loop() {
		if _, err := Encode(v, Float32); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode_Float64(b *testing.B) {
	buf, err := Encode(benchView(b, 256, 384), Float64)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	for b.Loop() {
		if _, err := Decode[float64](buf, Float64); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkCompress(b *testing.B, c Compression) {
	b.Helper()
	buf, err := Encode(benchView(b, 256, 384), Float64)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	for b.Loop() {
		if _, err := Compress(buf, c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompress_LZ4(b *testing.B)  { benchmarkCompress(b, CompressionLZ4) }
func BenchmarkCompress_Zstd(b *testing.B) { benchmarkCompress(b, CompressionZstd) }

type benchSidecar struct {
	Key   string  `json:"key" msgpack:"key"`
	Type  string  `json:"type" msgpack:"type"`
	Value float64 `json:"value" msgpack:"value"`
}

func benchmarkCodecMarshal(b *testing.B, c Codec) {
	b.Helper()
	v := make([]benchSidecar, 64)
	for i := range v {
		v[i] = benchSidecar{Key: "score", Type: "number", Value: float64(i)}
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := c.Marshal(v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCodec_Marshal_JSON(b *testing.B)    { benchmarkCodecMarshal(b, JSON{}) }
func BenchmarkCodec_Marshal_GoJSON(b *testing.B)  { benchmarkCodecMarshal(b, GoJSON{}) }
func BenchmarkCodec_Marshal_MsgPack(b *testing.B) { benchmarkCodecMarshal(b, MsgPack{}) }
