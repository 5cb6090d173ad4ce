package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/hupe1980/binvec/internal/fs"
	"github.com/hupe1980/binvec/internal/mmap"
)

// LocalOptions configures a LocalStore.
type LocalOptions struct {
	// FileSystem is used for writes. Defaults to fs.Default.
	FileSystem fs.FileSystem
	// Perm is applied to committed files. Defaults to 0644.
	Perm os.FileMode
}

// LocalStore implements BlobStore using the local file system.
// Names are joined onto root; an empty root resolves names as given.
type LocalStore struct {
	root string
	opts LocalOptions
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string, optFns ...func(*LocalOptions)) *LocalStore {
	opts := LocalOptions{
		FileSystem: fs.Default,
		Perm:       0o644,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &LocalStore{root: root, opts: opts}
}

func (s *LocalStore) path(name string) string {
	if s.root == "" {
		return name
	}
	return filepath.Join(s.root, name)
}

// Open maps the blob read-only and advises the kernel of a sequential scan.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	m, err := mmap.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessSequential)
	return &localBlob{m: m}, nil
}

// Create writes to a temp file in the target directory; Close renames it
// into place.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	target := s.path(name)
	dir := filepath.Dir(target)

	tmp, err := s.opts.FileSystem.CreateTemp(dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &localWritableBlob{
		fs:     s.opts.FileSystem,
		file:   tmp,
		target: target,
		perm:   s.opts.Perm,
	}, nil
}

type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return b.m.ReadAt(p, off)
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Size() int64 {
	return b.m.Size()
}

func (b *localBlob) Bytes() ([]byte, error) {
	return b.m.Bytes(), nil
}

var errBlobFinished = errors.New("blobstore: blob already committed or aborted")

type localWritableBlob struct {
	fs       fs.FileSystem
	file     fs.File
	target   string
	perm     os.FileMode
	finished atomic.Bool
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	if w.finished.Load() {
		return 0, io.ErrClosedPipe
	}
	return w.file.Write(p)
}

func (w *localWritableBlob) Close() (err error) {
	if !w.finished.CompareAndSwap(false, true) {
		return errBlobFinished
	}
	tmpName := w.file.Name()
	defer func() {
		if err != nil {
			_ = w.fs.Remove(tmpName)
		}
	}()

	if err := w.file.Chmod(w.perm); err != nil {
		_ = w.file.Close()
		return err
	}
	if err := w.file.Sync(); err != nil {
		_ = w.file.Close()
		return err
	}
	if err := w.file.Close(); err != nil {
		return err
	}
	if err := w.fs.Rename(tmpName, w.target); err != nil {
		return err
	}

	// Best-effort: the data is already in place.
	_ = w.fs.SyncDir(filepath.Dir(w.target))
	return nil
}

func (w *localWritableBlob) Abort() error {
	if !w.finished.CompareAndSwap(false, true) {
		return nil
	}
	_ = w.file.Close()
	return w.fs.Remove(w.file.Name())
}
