package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/binvec"
	"github.com/hupe1980/binvec/compression"
)

func envFunc(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(envFunc(nil))
	require.NoError(t, err)

	assert.Nil(t, cfg.output)
	assert.Equal(t, binvec.FormatNPY, cfg.format)
	assert.Equal(t, compression.None, cfg.compression)
	assert.False(t, cfg.saveDistances)
	assert.Zero(t, cfg.memoryLimit)
	assert.Equal(t, slog.LevelInfo, cfg.logLevel)
	assert.False(t, cfg.logJSON)
}

func TestLoadConfig_Values(t *testing.T) {
	cfg, err := loadConfig(envFunc(map[string]string{
		envOutput:        "minio://localhost:9000/bench/spacev",
		envFormat:        "npz-compressed",
		envCompression:   "none",
		envSaveDistances: "true",
		envMemoryLimit:   "8GiB",
		envIOLimit:       "100 MB",
		envLogLevel:      "debug",
		envLogFormat:     "JSON",
	}))
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.output.Host)
	assert.Equal(t, location{bucket: "bench", prefix: "spacev"}, bucketAndPrefix(cfg.output.Path))
	assert.Equal(t, binvec.FormatNPZCompressed, cfg.format)
	assert.True(t, cfg.saveDistances)
	assert.Equal(t, uint64(8<<30), cfg.memoryLimit)
	assert.Equal(t, uint64(100_000_000), cfg.ioLimit)
	assert.Equal(t, slog.LevelDebug, cfg.logLevel)
	assert.True(t, cfg.logJSON)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"format":      {envFormat: "hdf5"},
		"compression": {envCompression: "bzip2"},
		"bool":        {envSaveDistances: "maybe"},
		"bytes":       {envMemoryLimit: "lots"},
		"level":       {envLogLevel: "loud"},
		"log format":  {envLogFormat: "xml"},
		"scheme":      {envOutput: "ftp://host/x"},
		"s3 bucket":   {envOutput: "s3:///prefix"},
		"minio path":  {envOutput: "minio://localhost:9000"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadConfig(envFunc(env))
			assert.Error(t, err)
		})
	}
}

func TestBucketAndPrefix(t *testing.T) {
	assert.Equal(t, location{bucket: "b"}, bucketAndPrefix("/b"))
	assert.Equal(t, location{bucket: "b", prefix: "x/y"}, bucketAndPrefix("/b/x/y/"))
	assert.Equal(t, location{}, bucketAndPrefix(""))
}

func TestConfigOptions_Local(t *testing.T) {
	cfg, err := loadConfig(envFunc(map[string]string{envMemoryLimit: "1MiB"}))
	require.NoError(t, err)

	opts, err := cfg.options(context.Background(), envFunc(nil))
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	_, err = binvec.New(opts...)
	assert.NoError(t, err)
}

func TestConfigOptions_Minio(t *testing.T) {
	cfg, err := loadConfig(envFunc(map[string]string{envOutput: "minio://localhost:9000/bench"}))
	require.NoError(t, err)

	opts, err := cfg.options(context.Background(), envFunc(map[string]string{
		envMinioAccessKey: "minioadmin",
		envMinioSecretKey: "minioadmin",
		envMinioSecure:    "false",
	}))
	require.NoError(t, err)
	assert.Len(t, opts, 4)
}

func TestClampInt64(t *testing.T) {
	assert.Equal(t, int64(5), clampInt64(5))
	assert.Equal(t, int64(1<<63-1), clampInt64(1<<64-1))
}
