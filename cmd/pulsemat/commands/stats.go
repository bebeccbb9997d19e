package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/researchwiseai/pulse-go"
	"github.com/researchwiseai/pulse-go/persistence"
)

type globalStats struct {
	Size   int     `json:"size" yaml:"size"`
	Sum    float64 `json:"sum" yaml:"sum"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Median float64 `json:"median" yaml:"median"`
}

type axisStats struct {
	Axis   int       `json:"axis" yaml:"axis"`
	Shape  string    `json:"shape" yaml:"shape"`
	Labels []string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Sum    []float64 `json:"sum" yaml:"sum"`
	Mean   []float64 `json:"mean" yaml:"mean"`
	Min    []float64 `json:"min" yaml:"min"`
	Max    []float64 `json:"max" yaml:"max"`
	Median []float64 `json:"median" yaml:"median"`
}

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <name>",
		Short: "Summarise the values of a matrix, globally or per axis",
		Long: `Summarise the values of a matrix.

Without --axis the whole matrix is reduced to one sum, mean, min, max and
median. With --axis N every statistic collapses axis N, leaving one value per
index of the remaining axes in row-major order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, _ := cmd.Flags().GetInt("axis")

			m, _, err := persistence.Load[float64](cmd.Context(), a.store, args[0], a.persistOptions()...)
			if err != nil {
				return err
			}
			if axis < 0 {
				res, err := summarise(m)
				if err != nil {
					return err
				}
				return a.output(cmd.OutOrStdout(), res)
			}
			res, err := summariseAxis(m, axis)
			if err != nil {
				return err
			}
			return a.output(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Int("axis", -1, "axis to collapse (default: whole matrix)")
	return cmd
}

func summarise(m *pulse.Matrix[float64]) (*globalStats, error) {
	if m.Size() == 0 {
		return nil, fmt.Errorf("matrix %s is empty", m.Shape())
	}
	res := &globalStats{Size: m.Size()}
	res.Sum = pulse.Sum(m)
	res.Mean = pulse.Mean(m)
	res.Median = pulse.Median(m)
	var err error
	if res.Min, err = pulse.Min(m); err != nil {
		return nil, err
	}
	if res.Max, err = pulse.Max(m); err != nil {
		return nil, err
	}
	return res, nil
}

func summariseAxis(m *pulse.Matrix[float64], axis int) (*axisStats, error) {
	res := &axisStats{Axis: axis}
	for _, s := range []struct {
		agg pulse.Aggregation
		dst *[]float64
	}{
		{pulse.AggSum, &res.Sum},
		{pulse.AggMean, &res.Mean},
		{pulse.AggMin, &res.Min},
		{pulse.AggMax, &res.Max},
		{pulse.AggMedian, &res.Median},
	} {
		r, err := pulse.Remove(m, axis, s.agg)
		if err != nil {
			return nil, err
		}
		*s.dst = r.Values()
		if res.Shape == "" {
			res.Shape = r.Shape().String()
			if r.Rank() == 1 {
				res.Labels, _ = r.Labels(0)
			}
		}
	}
	return res, nil
}
