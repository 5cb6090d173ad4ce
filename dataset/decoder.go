package dataset

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/binvec/internal/conv"
)

// HeaderFieldSize is the width of one header field.
const HeaderFieldSize = 4

// Header holds the int32 fields at the start of a dump.
type Header []int32

// MemoryReserver is consulted before payload buffers are allocated.
// *resource.Controller implements it.
type MemoryReserver interface {
	ReserveMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

// Decoder provides bounds-checked sequential reads over a dump image.
type Decoder struct {
	b   []byte
	off int
	mem MemoryReserver
}

// NewDecoder creates a decoder over b. mem may be nil.
func NewDecoder(b []byte, mem MemoryReserver) *Decoder {
	return &Decoder{b: b, mem: mem}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.b) - d.off
}

func (d *Decoder) next(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, &TruncatedError{Offset: d.off, Need: n, Have: d.Remaining()}
	}
	out := d.b[d.off : d.off+n]
	d.off += n
	return out, nil
}

// Header reads n little-endian int32 fields.
func (d *Decoder) Header(n int) (Header, error) {
	b, err := d.next(n * HeaderFieldSize)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	h := make(Header, n)
	for i := range h {
		h[i] = int32(binary.LittleEndian.Uint32(b[i*HeaderFieldSize:]))
	}
	return h, nil
}

// ShapeFunc derives a matrix shape from header fields.
type ShapeFunc func(h Header) (rows, cols int, err error)

// FieldShape returns a ShapeFunc that takes rows and cols from the given
// header field positions.
func FieldShape(rowField, colField int) ShapeFunc {
	return func(h Header) (int, int, error) {
		if rowField >= len(h) || colField >= len(h) {
			return 0, 0, fmt.Errorf("%w: header has %d fields", ErrInvalidShape, len(h))
		}
		rows, err := conv.Int32ToInt(h[rowField])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: rows: %w", ErrInvalidShape, err)
		}
		cols, err := conv.Int32ToInt(h[colField])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: cols: %w", ErrInvalidShape, err)
		}
		return rows, cols, nil
	}
}

// CountByDim is the (count, dimension) layout shared by every dump header.
var CountByDim = FieldShape(0, 1)

// Decode reinterprets the next rows*cols elements as a matrix.
func Decode[T Element](d *Decoder, rows, cols int) (*Matrix[T], error) {
	n, err := conv.MulInt(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	size, err := conv.MulInt(n, DTypeOf[T]().Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}

	b, err := d.next(size)
	if err != nil {
		return nil, err
	}

	if d.mem != nil {
		if err := d.mem.ReserveMemory(int64(size)); err != nil {
			return nil, err
		}
	}

	data := make([]T, n)
	decodeLE(data, b)
	return &Matrix[T]{Rows: rows, Cols: cols, Data: data}, nil
}

// Load reads a header of the given field count, derives the shape and
// decodes one block of T.
func Load[T Element](d *Decoder, fields int, shape ShapeFunc) (Header, *Matrix[T], error) {
	h, err := d.Header(fields)
	if err != nil {
		return nil, nil, err
	}
	rows, cols, err := shape(h)
	if err != nil {
		return h, nil, err
	}
	m, err := Decode[T](d, rows, cols)
	if err != nil {
		return h, nil, err
	}
	return h, m, nil
}
