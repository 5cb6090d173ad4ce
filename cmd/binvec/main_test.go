package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/binvec/testutil"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	base := testutil.WriteFile(t, dir, "base.i8bin", testutil.BaseDump(2, 3, []int8{1, 2, 3, 4, 5, 6}))
	query := testutil.WriteFile(t, dir, "query.i32bin", testutil.QueryDump(2, 3, []int32{1, 2, 3, 4, 5, 6}))
	gt := testutil.WriteFile(t, dir, "gt.bin", testutil.GroundTruthDump(1, 2, []int32{0, 1}, []float32{0.5, 1.5}))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--path-base", base, "--path-query", query, "--path-gt", gt},
		envFunc(nil), &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "base_vec_count: 2\n")
	assert.Contains(t, stdout.String(), "Query vector shape: (2, 3)\n")
	assert.Contains(t, stdout.String(), "Ground Truth shape: (1, 2)\n")
	assert.Contains(t, stderr.String(), "run finished")

	for _, p := range []string{base, query, gt} {
		_, err := os.Stat(p + ".npy")
		assert.NoError(t, err)
	}
}

func TestRun_MissingPaths(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, envFunc(nil), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "binvec: base: load")
	assert.Empty(t, stdout.String())
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"--path-nope", "x"}, envFunc(nil), &stdout, &stderr))
}

func TestRun_BadEnv(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, envFunc(map[string]string{envFormat: "parquet"}), &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), envFormat)
}
