package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"

	"github.com/researchwiseai/pulse-go"
	"github.com/researchwiseai/pulse-go/blobstore"
	"github.com/researchwiseai/pulse-go/blobstore/minio"
	"github.com/researchwiseai/pulse-go/blobstore/s3"
	"github.com/researchwiseai/pulse-go/resource"
)

// Config is the pulsemat configuration file.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Limits  LimitsConfig  `yaml:"limits"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StoreConfig selects and configures the blob store backend.
type StoreConfig struct {
	// Backend is one of local, memory, s3 or minio.
	Backend string `yaml:"backend"`
	// Root is the directory of the local backend.
	Root string `yaml:"root"`
	// Cache is the size of the read cache in front of the backend, for
	// example "64 MiB". Empty disables caching.
	Cache string       `yaml:"cache"`
	S3    S3Config     `yaml:"s3"`
	MinIO minio.Config `yaml:"minio"`
}

// S3Config configures the s3 backend. Credentials come from the default AWS
// chain.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
	PartSize  string `yaml:"part_size"`
}

// LimitsConfig holds process-wide resource limits. Sizes are human-readable.
type LimitsConfig struct {
	Memory string `yaml:"memory"`
	IO     string `yaml:"io_per_second"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile receives the metrics of the run in the Prometheus text format
	// when the command finishes.
	Textfile string `yaml:"textfile"`
}

func defaultConfig() Config {
	return Config{
		Store: StoreConfig{Backend: "local", Root: "."},
		Log:   LogConfig{Level: "warn", Format: "text"},
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// parseSize parses a human-readable byte size. Empty means zero.
func parseSize(field, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return int64(n), nil
}

func (c Config) controller() (*resource.Controller, error) {
	mem, err := parseSize("limits.memory", c.Limits.Memory)
	if err != nil {
		return nil, err
	}
	rate, err := parseSize("limits.io_per_second", c.Limits.IO)
	if err != nil {
		return nil, err
	}
	if mem == 0 && rate == 0 {
		return nil, nil
	}
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   mem,
		IOLimitBytesPerSec: rate,
	}), nil
}

func (c LogConfig) logger(w io.Writer) (*pulse.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.Level)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Format) {
	case "", "text":
		return pulse.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return pulse.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", c.Format)
	}
}

// openStore builds the configured backend, wrapped in a read cache when one
// is configured.
func openStore(ctx context.Context, c StoreConfig, rc *resource.Controller) (blobstore.Store, error) {
	var (
		store blobstore.Store
		err   error
	)
	switch strings.ToLower(c.Backend) {
	case "", "local":
		store = blobstore.NewLocalStore(c.Root, blobstore.WithLocalController(rc))
	case "memory":
		store = blobstore.NewMemoryStore()
	case "s3":
		store, err = openS3(ctx, c.S3, rc)
	case "minio":
		store, err = minio.Connect(ctx, c.MinIO, minio.WithController(rc))
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.Backend)
	}
	if err != nil {
		return nil, err
	}

	cache, err := parseSize("store.cache", c.Cache)
	if err != nil {
		return nil, err
	}
	if cache > 0 {
		store = blobstore.NewCachingStore(store, cache, rc)
	}
	return store, nil
}

func openS3(ctx context.Context, c S3Config, rc *resource.Controller) (*s3.Store, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	var loadOpts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(c.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.PathStyle
	})

	upload := s3.DefaultUploadConfig()
	part, err := parseSize("store.s3.part_size", c.PartSize)
	if err != nil {
		return nil, err
	}
	if part > 0 {
		upload.PartSize = part
	}
	return s3.NewStore(client, c.Bucket,
		s3.WithPrefix(c.Prefix),
		s3.WithController(rc),
		s3.WithUploadConfig(upload),
	), nil
}
