package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/binvec/blobstore"
)

// ErrEmptyPath is returned when a loader is called without a path.
// It also matches fs.ErrNotExist, since an empty name cannot be opened.
var ErrEmptyPath = emptyPathError{}

type emptyPathError struct{}

func (emptyPathError) Error() string { return "empty path" }

func (emptyPathError) Is(target error) bool {
	return target == blobstore.ErrNotFound
}

// File describes a loaded dump file.
type File struct {
	Path   string
	Size   int64
	Header Header
}

// GroundTruth holds the neighbor indices and distances of a ground-truth file.
type GroundTruth struct {
	Indices   *Matrix[int32]
	Distances *Matrix[float32]
}

// Loader reads dump files from a blob store.
type Loader struct {
	store blobstore.BlobStore
	mem   MemoryReserver
}

// NewLoader creates a loader. mem may be nil for no memory budget.
func NewLoader(store blobstore.BlobStore, mem MemoryReserver) *Loader {
	return &Loader{store: store, mem: mem}
}

// scan opens path, hands a decoder over its full contents to fn and
// releases the blob on every exit path.
func (l *Loader) scan(ctx context.Context, path string, fn func(d *Decoder) (Header, error)) (file File, err error) {
	if path == "" {
		return File{}, ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return File{}, err
	}

	blob, err := l.store.Open(ctx, path)
	if err != nil {
		return File{}, err
	}
	defer func() {
		if cerr := blob.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return File{}, err
	}

	h, err := fn(NewDecoder(data, l.mem))
	if err != nil {
		return File{}, err
	}
	return File{Path: path, Size: blob.Size(), Header: h}, nil
}

// LoadVectors reads a vector file with a (count, dim) header followed by
// count*dim elements of T.
func LoadVectors[T Element](ctx context.Context, l *Loader, path string) (*Matrix[T], File, error) {
	var m *Matrix[T]
	file, err := l.scan(ctx, path, func(d *Decoder) (Header, error) {
		h, mat, err := Load[T](d, 2, CountByDim)
		m = mat
		return h, err
	})
	if err != nil {
		return nil, File{}, err
	}
	return m, file, nil
}

// LoadBase reads a base vector file: (count, dim) header, count*dim int8.
func (l *Loader) LoadBase(ctx context.Context, path string) (*Matrix[int8], File, error) {
	return LoadVectors[int8](ctx, l, path)
}

// LoadQuery reads a query vector file: (count, dim) header, count*dim int32.
func (l *Loader) LoadQuery(ctx context.Context, path string) (*Matrix[int32], File, error) {
	return LoadVectors[int32](ctx, l, path)
}

// LoadGroundTruth reads a ground-truth file: (count, topk) header, then
// count*topk int32 indices followed by count*topk float32 distances.
func (l *Loader) LoadGroundTruth(ctx context.Context, path string) (*GroundTruth, File, error) {
	var gt GroundTruth
	file, err := l.scan(ctx, path, func(d *Decoder) (Header, error) {
		h, indices, err := Load[int32](d, 2, CountByDim)
		if err != nil {
			return h, fmt.Errorf("indices: %w", err)
		}
		distances, err := Decode[float32](d, indices.Rows, indices.Cols)
		if err != nil {
			if l.mem != nil {
				l.mem.ReleaseMemory(indices.SizeBytes())
			}
			return h, fmt.Errorf("distances: %w", err)
		}
		gt = GroundTruth{Indices: indices, Distances: distances}
		return h, nil
	})
	if err != nil {
		return nil, File{}, err
	}
	return &gt, file, nil
}

// IsFormatError reports whether err stems from the dump layout rather than I/O.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrTruncated) || errors.Is(err, ErrInvalidShape)
}
