package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	assert.Equal(t, a.Int8s(64), b.Int8s(64))
	assert.Equal(t, a.Int32s(64, 1000), b.Int32s(64, 1000))
	assert.Equal(t, a.Float32s(64, 2), b.Float32s(64, 2))
	assert.Equal(t, int64(4711), a.Seed())
}

func TestRNG_Ranges(t *testing.T) {
	rng := NewRNG(1)

	for _, v := range rng.Int32s(256, 10) {
		assert.GreaterOrEqual(t, v, int32(0))
		assert.Less(t, v, int32(10))
	}
	for _, v := range rng.Float32s(256, 0.5) {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(0.5))
	}
}

func TestDumps(t *testing.T) {
	base := BaseDump(2, 3, []int8{1, 2, 3, 4, 5, -1})
	assert.Equal(t, []byte{2, 0, 0, 0, 3, 0, 0, 0, 1, 2, 3, 4, 5, 0xff}, base)

	query := QueryDump(1, 1, []int32{-2})
	assert.Equal(t, []byte{1, 0, 0, 0, 1, 0, 0, 0, 0xfe, 0xff, 0xff, 0xff}, query)

	gt := GroundTruthDump(1, 1, []int32{7}, []float32{1})
	assert.Equal(t, []byte{1, 0, 0, 0, 1, 0, 0, 0, 7, 0, 0, 0, 0, 0, 0x80, 0x3f}, gt)
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "x.bin", []byte{9})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, data)
}
