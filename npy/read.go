package npy

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/binvec/dataset"
)

// Array is a decoded .npy stream. Data holds the raw payload.
type Array struct {
	Header
	Data []byte
}

// Read parses a complete .npy stream from r. The payload buffer grows with
// the bytes actually read, so a header claiming more data than the stream
// holds fails with io.ErrUnexpectedEOF instead of allocating the claim.
func Read(r io.Reader) (*Array, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	size, err := h.DataSize()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	n, err := io.CopyN(&buf, r, int64(size))
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, fmt.Errorf("npy: read data: %d of %d bytes: %w", n, size, err)
	}
	return &Array{Header: h, Data: buf.Bytes()}, nil
}

// ToMatrix reinterprets a 2-D little-endian array as a matrix of T.
func ToMatrix[T dataset.Element](a *Array) (*dataset.Matrix[T], error) {
	want := dataset.DTypeOf[T]()
	if a.Descr != want.Descr {
		return nil, fmt.Errorf("npy: descr %q, want %q", a.Descr, want.Descr)
	}
	if len(a.Shape) != 2 || a.FortranOrder {
		return nil, fmt.Errorf("npy: not a C-ordered 2-D array: shape %v", a.Shape)
	}
	rows, cols := a.Shape[0], a.Shape[1]
	d := dataset.NewDecoder(a.Data, nil)
	return dataset.Decode[T](d, rows, cols)
}
