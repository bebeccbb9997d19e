package commands

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/researchwiseai/pulse-go"
	"github.com/researchwiseai/pulse-go/codec"
	"github.com/researchwiseai/pulse-go/persistence"
	"github.com/researchwiseai/pulse-go/quantization"
)

type saveResult struct {
	Name        string  `json:"name" yaml:"name"`
	Shape       string  `json:"shape" yaml:"shape"`
	DType       string  `json:"dtype" yaml:"dtype"`
	Compression string  `json:"compression" yaml:"compression"`
	StoredSize  string  `json:"stored_size" yaml:"stored_size"`
	MaxError    float64 `json:"max_error,omitempty" yaml:"max_error,omitempty"`
}

func newSaveResult(name string, meta *persistence.Meta) *saveResult {
	return &saveResult{
		Name:        name,
		Shape:       meta.Shape.String(),
		DType:       meta.DType.String(),
		Compression: meta.Compression.String(),
		StoredSize:  humanize.Bytes(uint64(meta.StoredBytes)),
	}
}

// addEncodingFlags registers --dtype, --compression and --codec. Unset flags
// keep the encoding of the source matrix.
func addEncodingFlags(cmd *cobra.Command) {
	cmd.Flags().String("dtype", "", "payload dtype: float64, float32, float16 or uint8")
	cmd.Flags().String("compression", "", "payload compression: none, lz4 or zstd")
	cmd.Flags().String("codec", "", "header codec: json, go-json or msgpack")
}

// encodingOptions resolves the encoding flags against the source meta.
func encodingOptions(cmd *cobra.Command, src *persistence.Meta) ([]persistence.Option, error) {
	dtype, compression := src.DType, src.Compression
	if s, _ := cmd.Flags().GetString("dtype"); s != "" {
		d, err := codec.ParseDType(s)
		if err != nil {
			return nil, err
		}
		dtype = d
	}
	if s, _ := cmd.Flags().GetString("compression"); s != "" {
		c, err := codec.ParseCompression(s)
		if err != nil {
			return nil, err
		}
		compression = c
	}

	opts := []persistence.Option{
		persistence.WithDType(dtype),
		persistence.WithCompression(compression),
	}
	name, _ := cmd.Flags().GetString("codec")
	if name == "" {
		name = src.HeaderCodec
	}
	if name != "" {
		c, ok := codec.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown codec %q", name)
		}
		opts = append(opts, persistence.WithCodec(c))
	}
	return opts, nil
}

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Re-encode a matrix with another dtype, compression or codec",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, src, err := persistence.Load[float64](cmd.Context(), a.store, args[0], a.persistOptions()...)
			if err != nil {
				return err
			}
			opts, err := encodingOptions(cmd, src)
			if err != nil {
				return err
			}
			meta, err := persistence.Save(cmd.Context(), a.store, args[1], m, a.persistOptions(opts...)...)
			if err != nil {
				return err
			}
			return a.output(cmd.OutOrStdout(), newSaveResult(args[1], meta))
		},
	}
	addEncodingFlags(cmd)
	return cmd
}

func newReduceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reduce <src> <dst>",
		Short: "Collapse an axis and store the result",
		Long: `Collapse one axis of a matrix with an aggregation and store the result.

The aggregation is one of sum, mean, max, min, median, first or last. Mean and
median of a uint8 matrix are stored as float64 unless --dtype says otherwise.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, _ := cmd.Flags().GetInt("axis")
			agg, _ := cmd.Flags().GetString("agg")
			method, err := pulse.ParseAggregation(agg)
			if err != nil {
				return err
			}

			m, src, err := persistence.Load[float64](cmd.Context(), a.store, args[0], a.persistOptions()...)
			if err != nil {
				return err
			}
			out, err := pulse.Remove(m, axis, method)
			if err != nil {
				return err
			}

			base := *src
			if base.DType == codec.Uint8 && (method == pulse.AggMean || method == pulse.AggMedian) {
				base.DType = codec.Float64
			}
			opts, err := encodingOptions(cmd, &base)
			if err != nil {
				return err
			}
			meta, err := persistence.Save(cmd.Context(), a.store, args[1], out, a.persistOptions(opts...)...)
			if err != nil {
				return err
			}
			return a.output(cmd.OutOrStdout(), newSaveResult(args[1], meta))
		},
	}
	cmd.Flags().Int("axis", 0, "axis to collapse")
	cmd.Flags().String("agg", string(pulse.AggMean), "aggregation")
	addEncodingFlags(cmd)
	return cmd
}

func newQuantizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quantize <src> <dst>",
		Short: "Store the 8-bit quantised codes of a matrix",
		Long: `Quantise a matrix to 8-bit codes and store the codes.

Signed codes round(v*127) cover values in [-1,1] and are stored as float16,
which holds them exactly.
With --unsigned, codes round(v*255) cover [0,1] and are stored as uint8.
The reported max_error is the largest reconstruction error over all cells.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unsigned, _ := cmd.Flags().GetBool("unsigned")
			compression := codec.CompressionNone
			if s, _ := cmd.Flags().GetString("compression"); s != "" {
				c, err := codec.ParseCompression(s)
				if err != nil {
					return err
				}
				compression = c
			}

			m, _, err := persistence.Load[float64](cmd.Context(), a.store, args[0], a.persistOptions()...)
			if err != nil {
				return err
			}

			var (
				meta    *persistence.Meta
				decoded *pulse.Matrix[float64]
			)
			if unsigned {
				q, err := pulse.QuantiseUnsigned(m)
				if err != nil {
					return err
				}
				meta, err = persistence.Save(cmd.Context(), a.store, args[1], q,
					a.persistOptions(persistence.WithDType(codec.Uint8), persistence.WithCompression(compression))...)
				if err != nil {
					return err
				}
				decoded = pulse.DequantiseUnsigned(q)
			} else {
				q, err := pulse.Quantise(m)
				if err != nil {
					return err
				}
				meta, err = persistence.Save(cmd.Context(), a.store, args[1], q,
					a.persistOptions(persistence.WithDType(codec.Float16), persistence.WithCompression(compression))...)
				if err != nil {
					return err
				}
				decoded = pulse.Dequantise(q)
			}

			res := newSaveResult(args[1], meta)
			res.MaxError = maxAbsDiff(m.Values(), decoded.Values())
			return a.output(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Bool("unsigned", false, "quantise [0,1] to unsigned codes")
	cmd.Flags().String("compression", "", "payload compression: none, lz4 or zstd")
	return cmd
}

func maxAbsDiff(a, b []float64) float64 {
	var worst float64
	for i := range a {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}
	return worst
}

func newDequantizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dequantize <src> <dst>",
		Short: "Restore values from codes written by quantize",
		Long: `Map stored 8-bit codes back to values and store them.

uint8 payloads are read as unsigned codes, anything else as signed codes.
The result is stored as float64 unless --dtype says otherwise.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := persistence.Stat(cmd.Context(), a.store, args[0])
			if err != nil {
				return err
			}

			var m *pulse.Matrix[float64]
			if src.DType == codec.Uint8 {
				q, _, err := persistence.Load[quantization.UQInt](cmd.Context(), a.store, args[0], a.persistOptions()...)
				if err != nil {
					return err
				}
				m = pulse.DequantiseUnsigned(q)
			} else {
				q, _, err := persistence.Load[quantization.QInt](cmd.Context(), a.store, args[0], a.persistOptions()...)
				if err != nil {
					return err
				}
				m = pulse.Dequantise(q)
			}

			base := *src
			base.DType = codec.Float64
			opts, err := encodingOptions(cmd, &base)
			if err != nil {
				return err
			}
			meta, err := persistence.Save(cmd.Context(), a.store, args[1], m, a.persistOptions(opts...)...)
			if err != nil {
				return err
			}
			return a.output(cmd.OutOrStdout(), newSaveResult(args[1], meta))
		},
	}
	addEncodingFlags(cmd)
	return cmd
}
