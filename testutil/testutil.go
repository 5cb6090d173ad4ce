package testutil

import (
	"encoding/binary"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Int8s returns n values covering the full int8 range.
func (r *RNG) Int8s(n int) []int8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int8, n)
	for i := range out {
		out[i] = int8(r.rand.Intn(256) - 128)
	}
	return out
}

// Int32s returns n values in [0, maxVal).
func (r *RNG) Int32s(n int, maxVal int32) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int32, n)
	for i := range out {
		out[i] = r.rand.Int31n(maxVal)
	}
	return out
}

// Float32s returns n values in [0, scale).
func (r *RNG) Float32s(n int, scale float32) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float32, n)
	for i := range out {
		out[i] = r.rand.Float32() * scale
	}
	return out
}

// Dump encodes a little-endian int32 header followed by raw blocks.
func Dump(header []int32, blocks ...[]byte) []byte {
	var out []byte
	for _, h := range header {
		out = binary.LittleEndian.AppendUint32(out, uint32(h))
	}
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

// Int8Bytes encodes v as raw bytes.
func Int8Bytes(v []int8) []byte {
	out := make([]byte, len(v))
	for i, x := range v {
		out[i] = byte(x)
	}
	return out
}

// Int32Bytes encodes v little-endian.
func Int32Bytes(v []int32) []byte {
	out := make([]byte, 0, len(v)*4)
	for _, x := range v {
		out = binary.LittleEndian.AppendUint32(out, uint32(x))
	}
	return out
}

// Float32Bytes encodes v little-endian.
func Float32Bytes(v []float32) []byte {
	out := make([]byte, 0, len(v)*4)
	for _, x := range v {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(x))
	}
	return out
}

// BaseDump encodes a base vector file.
func BaseDump(count, dim int32, data []int8) []byte {
	return Dump([]int32{count, dim}, Int8Bytes(data))
}

// QueryDump encodes a query vector file.
func QueryDump(count, dim int32, data []int32) []byte {
	return Dump([]int32{count, dim}, Int32Bytes(data))
}

// GroundTruthDump encodes a ground-truth file.
func GroundTruthDump(count, topk int32, ids []int32, dists []float32) []byte {
	return Dump([]int32{count, topk}, Int32Bytes(ids), Float32Bytes(dists))
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
