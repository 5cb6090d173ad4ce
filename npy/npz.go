package npy

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/hupe1980/binvec/dataset"
)

// ZipWriter writes an .npz archive: one .npy entry per array.
type ZipWriter struct {
	zw     *zip.Writer
	method uint16
}

// NewZipWriter creates an archive writer on w. With compressed set, entries
// are deflated like numpy.savez_compressed; otherwise they are stored.
func NewZipWriter(w io.Writer, compressed bool) *ZipWriter {
	method := zip.Store
	if compressed {
		method = zip.Deflate
	}
	return &ZipWriter{zw: zip.NewWriter(w), method: method}
}

func (z *ZipWriter) create(name string) (io.Writer, error) {
	if !strings.HasSuffix(name, ".npy") {
		name += ".npy"
	}
	return z.zw.CreateHeader(&zip.FileHeader{Name: name, Method: z.method})
}

// Close finishes the archive directory. It does not close the underlying writer.
func (z *ZipWriter) Close() error {
	return z.zw.Close()
}

// WriteEntry adds m under name (".npy" is appended when missing).
func WriteEntry[T dataset.Element](z *ZipWriter, name string, m *dataset.Matrix[T]) (int64, error) {
	w, err := z.create(name)
	if err != nil {
		return 0, fmt.Errorf("npz: entry %s: %w", name, err)
	}
	return WriteMatrix(w, m)
}

// ReadZip parses every .npy entry of an archive, keyed by name without the
// ".npy" suffix.
func ReadZip(r io.ReaderAt, size int64) (map[string]*Array, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Array, len(zr.File))
	for _, f := range zr.File {
		a, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("npz: entry %s: %w", f.Name, err)
		}
		out[strings.TrimSuffix(f.Name, ".npy")] = a
	}
	return out, nil
}

func readEntry(f *zip.File) (*Array, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Read(rc)
}

// Names returns the sorted entry names of a ReadZip result.
func Names(arrays map[string]*Array) []string {
	names := make([]string, 0, len(arrays))
	for n := range arrays {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
