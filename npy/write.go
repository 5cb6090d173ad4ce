package npy

import (
	"fmt"
	"io"

	"github.com/hupe1980/binvec/dataset"
)

// Write writes a complete .npy stream for a C-ordered array whose
// little-endian payload is data. It returns the number of bytes written.
func Write(w io.Writer, descr string, shape []int, data []byte) (int64, error) {
	h := Header{Descr: descr, Shape: shape}
	size, err := h.DataSize()
	if err != nil {
		return 0, err
	}
	if size != len(data) {
		return 0, fmt.Errorf("npy: shape %v of %s needs %d bytes, got %d", shape, descr, size, len(data))
	}

	pre, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(pre)
	written := int64(n)
	if err != nil {
		return written, err
	}
	n, err = w.Write(data)
	written += int64(n)
	return written, err
}

// WriteMatrix writes m as a 2-D array.
func WriteMatrix[T dataset.Element](w io.Writer, m *dataset.Matrix[T]) (int64, error) {
	return Write(w, m.DType().Descr, []int{m.Rows, m.Cols}, dataset.Bytes(m.Data))
}
