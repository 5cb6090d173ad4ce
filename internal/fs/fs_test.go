package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	f, err := lfs.CreateTemp(tmp, "out.npy.tmp-*")
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Chmod(0o644))
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	target := filepath.Join(tmp, "out.npy")
	require.NoError(t, lfs.Rename(f.Name(), target))
	require.NoError(t, lfs.SyncDir(tmp))

	info, err := lfs.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	require.NoError(t, lfs.Remove(target))
	_, err = lfs.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule(".npy", Fault{FailAfterBytes: 5})

	f, err := ffs.CreateTemp(t.TempDir(), "a.npy.tmp-*")
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 0, n)
}

func TestFaultyFS_Rules(t *testing.T) {
	custom := errors.New("disk full")
	ffs := NewFaultyFS(nil)
	ffs.AddRule(".npy", Fault{FailAfterBytes: -1, FailOnSync: true, Err: custom})
	ffs.AddRule(".dist.npy", Fault{FailAfterBytes: -1, FailOnClose: true})
	ffs.AddRule("final", Fault{FailAfterBytes: -1, FailOnRename: true})

	tmp := t.TempDir()

	f, err := ffs.CreateTemp(tmp, "gt.npy.tmp-*")
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), custom)
	require.NoError(t, f.Close())

	f, err = ffs.CreateTemp(tmp, "gt.dist.npy.tmp-*")
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	assert.ErrorIs(t, f.Close(), ErrInjected)

	// Files without a matching rule are not wrapped.
	f, err = ffs.CreateTemp(tmp, "plain-*")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = ffs.Rename(f.Name(), filepath.Join(tmp, "final"))
	assert.ErrorIs(t, err, ErrInjected)
	require.NoError(t, ffs.Rename(f.Name(), filepath.Join(tmp, "other")))
}
