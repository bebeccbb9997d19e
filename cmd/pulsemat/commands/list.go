package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/researchwiseai/pulse-go/persistence"
)

type listEntry struct {
	Name        string    `json:"name" yaml:"name"`
	Shape       string    `json:"shape" yaml:"shape"`
	DType       string    `json:"dtype" yaml:"dtype"`
	Compression string    `json:"compression" yaml:"compression"`
	StoredBytes int       `json:"stored_bytes" yaml:"stored_bytes"`
	Created     time.Time `json:"created" yaml:"created"`
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List stored matrices",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prefix string
			if len(args) == 1 {
				prefix = args[0]
			}
			names, err := persistence.List(cmd.Context(), a.store, prefix)
			if err != nil {
				return err
			}

			entries := make([]listEntry, 0, len(names))
			for _, name := range names {
				meta, err := persistence.Stat(cmd.Context(), a.store, name)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				entries = append(entries, listEntry{
					Name:        name,
					Shape:       meta.Shape.String(),
					DType:       meta.DType.String(),
					Compression: meta.Compression.String(),
					StoredBytes: meta.StoredBytes,
					Created:     meta.Created,
				})
			}
			if a.asJSON {
				return a.output(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSHAPE\tDTYPE\tCOMPRESSION\tSIZE\tCREATED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.Name, e.Shape, e.DType, e.Compression,
					humanize.Bytes(uint64(e.StoredBytes)), humanize.Time(e.Created))
			}
			return tw.Flush()
		},
	}
}
