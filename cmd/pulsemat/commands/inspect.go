package commands

import (
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/persistence"
)

type inspectResult struct {
	Name        string        `json:"name" yaml:"name"`
	ID          string        `json:"id" yaml:"id"`
	Shape       string        `json:"shape" yaml:"shape"`
	DType       string        `json:"dtype" yaml:"dtype"`
	Compression string        `json:"compression" yaml:"compression"`
	RawSize     string        `json:"raw_size" yaml:"raw_size"`
	StoredSize  string        `json:"stored_size" yaml:"stored_size"`
	Ratio       float64       `json:"ratio" yaml:"ratio"`
	Checksum    string        `json:"crc32c" yaml:"crc32c"`
	HeaderCodec string        `json:"header_codec,omitempty" yaml:"header_codec,omitempty"`
	Created     time.Time     `json:"created" yaml:"created"`
	Axes        []axisSummary `json:"axes" yaml:"axes"`
}

type axisSummary struct {
	Axis   int      `json:"axis" yaml:"axis"`
	Length int      `json:"length" yaml:"length"`
	Keys   []string `json:"keys,omitempty" yaml:"keys,omitempty"`
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Show the meta and axis labels of a matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			limit, _ := cmd.Flags().GetInt("labels")

			meta, err := persistence.Stat(cmd.Context(), a.store, name)
			if err != nil {
				return err
			}
			res := inspectResult{
				Name:        name,
				ID:          meta.ID,
				Shape:       meta.Shape.String(),
				DType:       meta.DType.String(),
				Compression: meta.Compression.String(),
				RawSize:     humanize.Bytes(uint64(meta.RawBytes)),
				StoredSize:  humanize.Bytes(uint64(meta.StoredBytes)),
				Ratio:       meta.Ratio(),
				Checksum:    fmt.Sprintf("%08x", meta.Checksum),
				HeaderCodec: meta.HeaderCodec,
				Created:     meta.Created,
			}

			var h headers.Headers
			if meta.HasHeaders() {
				m, _, err := persistence.Load[float64](cmd.Context(), a.store, name, a.persistOptions()...)
				if err != nil {
					return err
				}
				h = m.Headers()
			}
			for axis, n := range meta.Shape {
				sum := axisSummary{Axis: axis, Length: n}
				if h != nil {
					sum.Keys = recordKeys(h[axis])
					labels, err := headers.Labels(h, axis, headers.LabelKey)
					if err == nil && slices.ContainsFunc(labels, func(l string) bool { return l != "" }) {
						sum.Labels = labels[:min(limit, len(labels))]
					}
				}
				res.Axes = append(res.Axes, sum)
			}
			return a.output(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Int("labels", 5, "number of labels to show per axis")
	return cmd
}

// recordKeys returns the distinct record keys of d in first-seen order.
func recordKeys(d headers.Dimension) []string {
	var keys []string
	for _, g := range d {
		for _, r := range g {
			if !slices.Contains(keys, r.Key) {
				keys = append(keys, r.Key)
			}
		}
	}
	return keys
}
