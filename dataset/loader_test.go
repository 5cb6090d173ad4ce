package dataset

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/binvec/blobstore"
	"github.com/hupe1980/binvec/resource"
	"github.com/hupe1980/binvec/testutil"
)

func TestLoader_LocalFiles(t *testing.T) {
	dir := t.TempDir()
	basePath := testutil.WriteFile(t, dir, "base.i8bin", testutil.BaseDump(2, 3, []int8{1, 2, 3, 4, 5, 6}))
	queryPath := testutil.WriteFile(t, dir, "query.i32bin", testutil.QueryDump(1, 2, []int32{10, -20}))
	gtPath := testutil.WriteFile(t, dir, "gt.bin", testutil.GroundTruthDump(1, 2, []int32{7, 9}, []float32{0.5, 1.5}))

	l := NewLoader(blobstore.NewLocalStore(""), nil)
	ctx := context.Background()

	base, file, err := l.LoadBase(ctx, basePath)
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 3}, base.Shape())
	assert.Equal(t, []int8{1, 2, 3, 4, 5, 6}, base.Data)
	assert.Equal(t, int64(14), file.Size)
	assert.Equal(t, Header{2, 3}, file.Header)
	assert.Equal(t, basePath, file.Path)

	query, _, err := l.LoadQuery(ctx, queryPath)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 2}, query.Shape())
	assert.Equal(t, []int32{10, -20}, query.Data)

	gt, file, err := l.LoadGroundTruth(ctx, gtPath)
	require.NoError(t, err)
	assert.Equal(t, [2]int{1, 2}, gt.Indices.Shape())
	assert.Equal(t, [2]int{1, 2}, gt.Distances.Shape())
	assert.Equal(t, []int32{7, 9}, gt.Indices.Data)
	assert.Equal(t, []float32{0.5, 1.5}, gt.Distances.Data)
	assert.Equal(t, int64(24), file.Size)
}

func TestLoader_EmptyPath(t *testing.T) {
	l := NewLoader(blobstore.NewMemoryStore(), nil)

	_, _, err := l.LoadBase(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyPath)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader(blobstore.NewLocalStore(""), nil)

	_, _, err := l.LoadQuery(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.False(t, IsFormatError(err))
}

func TestLoader_Canceled(t *testing.T) {
	store := blobstore.NewMemoryStore()
	store.Put("b", testutil.BaseDump(1, 1, []int8{1}))
	l := NewLoader(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := l.LoadBase(ctx, "b")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_GroundTruthTruncated(t *testing.T) {
	store := blobstore.NewMemoryStore()
	// Indices complete, distances missing their last element.
	store.Put("gt-dist", testutil.GroundTruthDump(1, 2, []int32{1, 2}, []float32{0.1}))
	// Indices block cut short.
	store.Put("gt-idx", testutil.Dump([]int32{2, 2}, testutil.Int32Bytes([]int32{1, 2, 3})))

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	l := NewLoader(store, rc)

	_, _, err := l.LoadGroundTruth(context.Background(), "gt-dist")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Contains(t, err.Error(), "distances:")
	assert.Zero(t, rc.MemoryUsage())

	_, _, err = l.LoadGroundTruth(context.Background(), "gt-idx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Contains(t, err.Error(), "indices:")
	assert.Zero(t, rc.MemoryUsage())
}

func TestLoader_HeaderTruncated(t *testing.T) {
	store := blobstore.NewMemoryStore()
	store.Put("short", []byte{1, 0, 0})

	_, _, err := NewLoader(store, nil).LoadBase(context.Background(), "short")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.True(t, IsFormatError(err))
}

func TestLoader_EmptyFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "empty", nil)

	_, _, err := NewLoader(blobstore.NewLocalStore(""), nil).LoadQuery(context.Background(), path)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestLoadVectors_Float32(t *testing.T) {
	store := blobstore.NewMemoryStore()
	store.Put("q.fbin", testutil.Dump([]int32{2, 2}, testutil.Float32Bytes([]float32{0.5, -1, 2, 3.25})))

	m, file, err := LoadVectors[float32](context.Background(), NewLoader(store, nil), "q.fbin")
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 2}, m.Shape())
	assert.Equal(t, []float32{0.5, -1, 2, 3.25}, m.Data)
	assert.Equal(t, int64(24), file.Size)
}
