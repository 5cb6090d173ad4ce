package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	w, err := store.Create(ctx, "a.npy")
	require.NoError(t, err)
	_, err = w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Empty(t, store.List(""))
	require.NoError(t, w.Close())

	aborted, err := store.Create(ctx, "b.npy")
	require.NoError(t, err)
	_, err = aborted.Write([]byte("zzz"))
	require.NoError(t, err)
	require.NoError(t, aborted.Abort())

	store.Put("dump/base.bin", []byte{1, 2})
	assert.Equal(t, []string{"a.npy", "dump/base.bin"}, store.List(""))
	assert.Equal(t, []string{"dump/base.bin"}, store.List("dump/"))

	blob, err := store.Open(ctx, "a.npy")
	require.NoError(t, err)
	data, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	require.NoError(t, blob.Close())
}
