package commands

import (
	"context"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/researchwiseai/pulse-go"
	"github.com/researchwiseai/pulse-go/blobstore"
	"github.com/researchwiseai/pulse-go/persistence"
	"github.com/researchwiseai/pulse-go/prommetrics"
	"github.com/researchwiseai/pulse-go/resource"
)

// app holds the global flags and the state built from them before a
// subcommand runs.
type app struct {
	cfgFile   string
	backend   string
	root      string
	logLevel  string
	logFormat string
	metrics   string
	asJSON    bool

	store  blobstore.Store
	rc     *resource.Controller
	logger *pulse.Logger

	registry  *prometheus.Registry
	collector *prommetrics.Collector
	textfile  string
}

// Execute runs the pulsemat root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "pulsemat",
		Short: "Inspect and transform stored matrices",
		Long: `pulsemat works on matrices persisted in a blob store.

A matrix named NAME is stored as NAME.ndv (binary payload), NAME.meta
(dtype, shape and checksum) and, when it has axis headers, NAME.hdr.

Examples:
  # List the matrices under a local directory
  pulsemat --root ./data list

  # Per-row statistics of a similarity matrix
  pulsemat --root ./data stats sim --axis 1

  # Re-encode as float32 with zstd compression
  pulsemat --root ./data convert sim sim32 --dtype float32 --compression zstd

  # Use the backend from a config file
  pulsemat --config pulsemat.yaml inspect sim --json
`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.flushMetrics,
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&a.backend, "backend", "", "blob store backend: local, memory, s3 or minio")
	cmd.PersistentFlags().StringVar(&a.root, "root", "", "root directory of the local backend")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	cmd.PersistentFlags().StringVar(&a.metrics, "metrics-file", "", "write Prometheus metrics of the run to this file")
	cmd.PersistentFlags().BoolVar(&a.asJSON, "json", false, "output as JSON")

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newInspectCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newReduceCmd(a))
	cmd.AddCommand(newConvertCmd(a))
	cmd.AddCommand(newQuantizeCmd(a))
	cmd.AddCommand(newDequantizeCmd(a))
	cmd.AddCommand(newDeleteCmd(a))
	return cmd
}

// setup loads the config file, applies flag overrides and opens the store.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Store.Backend = a.backend
	}
	if a.root != "" {
		cfg.Store.Root = a.root
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	if a.metrics != "" {
		cfg.Metrics.Textfile = a.metrics
	}

	if a.logger, err = cfg.Log.logger(cmd.ErrOrStderr()); err != nil {
		return err
	}
	if a.rc, err = cfg.controller(); err != nil {
		return err
	}
	if a.store, err = openStore(cmd.Context(), cfg.Store, a.rc); err != nil {
		return err
	}
	if cfg.Metrics.Textfile != "" {
		a.registry = prometheus.NewRegistry()
		if a.collector, err = prommetrics.New(a.registry, "pulsemat"); err != nil {
			return err
		}
		a.textfile = cfg.Metrics.Textfile
	}
	a.logger.Debug("store opened", "backend", cfg.Store.Backend)
	return nil
}

// flushMetrics writes the collected metrics when a textfile is configured.
func (a *app) flushMetrics(_ *cobra.Command, _ []string) error {
	if a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.textfile, a.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// persistOptions returns the options shared by every load and save.
func (a *app) persistOptions(extra ...persistence.Option) []persistence.Option {
	opts := []persistence.Option{
		persistence.WithController(a.rc),
		persistence.WithLogger(a.logger),
	}
	if a.collector != nil {
		opts = append(opts, persistence.WithMetricsCollector(a.collector))
	}
	return append(opts, extra...)
}

// output writes v as YAML, or as indented JSON with --json.
func (a *app) output(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if a.asJSON {
		data, err = gojson.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = w.Write(data)
	return err
}
