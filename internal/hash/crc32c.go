package hash

import (
	"hash"
	"hash/crc32"
	"io"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// Writer forwards writes to an underlying writer while tracking the
// CRC32C digest and length of everything written.
type Writer struct {
	w     io.Writer
	h     hash.Hash32
	count int64
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, h: NewCRC32C()}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if n > 0 {
		_, _ = w.h.Write(p[:n])
		w.count += int64(n)
	}
	return n, err
}

// Sum32 returns the digest of the bytes written so far.
func (w *Writer) Sum32() uint32 {
	return w.h.Sum32()
}

// Count returns the number of bytes written so far.
func (w *Writer) Count() int64 {
	return w.count
}
