package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/binvec"
	"github.com/hupe1980/binvec/blobstore/minio"
	"github.com/hupe1980/binvec/blobstore/s3"
	"github.com/hupe1980/binvec/compression"
	"github.com/hupe1980/binvec/resource"
)

// Environment variables read by the command.
const (
	envOutput        = "BINVEC_OUTPUT"
	envFormat        = "BINVEC_FORMAT"
	envCompression   = "BINVEC_COMPRESSION"
	envSaveDistances = "BINVEC_SAVE_DISTANCES"
	envMemoryLimit   = "BINVEC_MEMORY_LIMIT"
	envIOLimit       = "BINVEC_IO_LIMIT"
	envLogLevel      = "BINVEC_LOG_LEVEL"
	envLogFormat     = "BINVEC_LOG_FORMAT"

	envMinioAccessKey = "MINIO_ACCESS_KEY"
	envMinioSecretKey = "MINIO_SECRET_KEY"
	envMinioSecure    = "MINIO_SECURE"
	envMinioRegion    = "MINIO_REGION"
)

type config struct {
	output        *url.URL // nil for local sibling files
	format        binvec.Format
	compression   compression.Type
	saveDistances bool
	memoryLimit   uint64
	ioLimit       uint64
	logLevel      slog.Level
	logJSON       bool
}

func loadConfig(getenv func(string) string) (config, error) {
	var (
		cfg config
		err error
	)

	if raw := strings.TrimSpace(getenv(envOutput)); raw != "" {
		cfg.output, err = parseOutput(raw)
		if err != nil {
			return config{}, err
		}
	}

	if cfg.format, err = binvec.ParseFormat(getenv(envFormat)); err != nil {
		return config{}, fmt.Errorf("%s: %w", envFormat, err)
	}
	if cfg.compression, err = compression.ParseType(getenv(envCompression)); err != nil {
		return config{}, fmt.Errorf("%s: %w", envCompression, err)
	}
	if cfg.saveDistances, err = parseBool(getenv(envSaveDistances)); err != nil {
		return config{}, fmt.Errorf("%s: %w", envSaveDistances, err)
	}
	if cfg.memoryLimit, err = parseBytes(getenv(envMemoryLimit)); err != nil {
		return config{}, fmt.Errorf("%s: %w", envMemoryLimit, err)
	}
	if cfg.ioLimit, err = parseBytes(getenv(envIOLimit)); err != nil {
		return config{}, fmt.Errorf("%s: %w", envIOLimit, err)
	}

	if lvl := strings.TrimSpace(getenv(envLogLevel)); lvl != "" {
		if err := cfg.logLevel.UnmarshalText([]byte(lvl)); err != nil {
			return config{}, fmt.Errorf("%s: %w", envLogLevel, err)
		}
	}
	switch f := strings.ToLower(strings.TrimSpace(getenv(envLogFormat))); f {
	case "", "text":
	case "json":
		cfg.logJSON = true
	default:
		return config{}, fmt.Errorf("%s: unknown log format %q", envLogFormat, f)
	}

	return cfg, nil
}

func parseOutput(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envOutput, err)
	}
	switch u.Scheme {
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("%s: missing bucket in %q", envOutput, raw)
		}
	case "minio":
		if u.Host == "" || bucketAndPrefix(u.Path).bucket == "" {
			return nil, fmt.Errorf("%s: want minio://endpoint/bucket[/prefix], got %q", envOutput, raw)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported scheme %q", envOutput, u.Scheme)
	}
	return u, nil
}

type location struct {
	bucket string
	prefix string
}

func bucketAndPrefix(p string) location {
	bucket, prefix, _ := strings.Cut(strings.Trim(p, "/"), "/")
	return location{bucket: bucket, prefix: prefix}
}

func parseBool(s string) (bool, error) {
	if s = strings.TrimSpace(s); s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func parseBytes(s string) (uint64, error) {
	if s = strings.TrimSpace(s); s == "" {
		return 0, nil
	}
	return humanize.ParseBytes(s)
}

func (cfg config) newLogger(w io.Writer) *binvec.Logger {
	opts := &slog.HandlerOptions{Level: cfg.logLevel}
	if cfg.logJSON {
		return binvec.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return binvec.NewLogger(slog.NewTextHandler(w, opts))
}

// options translates the configuration into converter options. Remote
// outputs are keyed by the input's base name under the URL prefix.
func (cfg config) options(ctx context.Context, getenv func(string) string) ([]binvec.Option, error) {
	opts := []binvec.Option{
		binvec.WithFormat(cfg.format),
		binvec.WithCompression(cfg.compression),
		binvec.WithSaveDistances(cfg.saveDistances),
	}

	if cfg.memoryLimit > 0 || cfg.ioLimit > 0 {
		rc := resource.NewController(resource.Config{
			MemoryLimitBytes:   clampInt64(cfg.memoryLimit),
			IOLimitBytesPerSec: clampInt64(cfg.ioLimit),
		})
		opts = append(opts, binvec.WithResourceController(rc))
	}

	if cfg.output == nil {
		return opts, nil
	}

	switch cfg.output.Scheme {
	case "s3":
		store, err := s3.New(ctx, cfg.output.Host, strings.Trim(cfg.output.Path, "/"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, binvec.WithOutputStore(store, binvec.BaseName))
	case "minio":
		loc := bucketAndPrefix(cfg.output.Path)
		secure, err := parseBool(getenv(envMinioSecure))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envMinioSecure, err)
		}
		store, err := minio.New(minio.Config{
			Endpoint:  cfg.output.Host,
			AccessKey: getenv(envMinioAccessKey),
			SecretKey: getenv(envMinioSecretKey),
			Secure:    secure,
			Region:    getenv(envMinioRegion),
			Bucket:    loc.bucket,
			Prefix:    loc.prefix,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, binvec.WithOutputStore(store, binvec.BaseName))
	}
	return opts, nil
}

func clampInt64(v uint64) int64 {
	if v > 1<<63-1 {
		return 1<<63 - 1
	}
	return int64(v)
}

func logTotals(ctx context.Context, logger *binvec.Logger, s binvec.BasicMetricsStats) {
	logger.InfoContext(ctx, "run finished",
		"loaded", humanize.IBytes(uint64(s.LoadBytes)),
		"written", humanize.IBytes(uint64(s.SaveBytes)),
		"loads", s.LoadCount,
		"saves", s.SaveCount,
		"errors", s.LoadErrors+s.SaveErrors,
	)
}
