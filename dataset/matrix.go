package dataset

import "fmt"

// Matrix is a dense row-major 2-D array.
type Matrix[T Element] struct {
	Rows int
	Cols int
	Data []T
}

// NewMatrix wraps data as a rows x cols matrix.
func NewMatrix[T Element](rows, cols int, data []T) (*Matrix[T], error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d elements cannot form (%d, %d)", ErrInvalidShape, len(data), rows, cols)
	}
	return &Matrix[T]{Rows: rows, Cols: cols, Data: data}, nil
}

// Shape returns (rows, cols).
func (m *Matrix[T]) Shape() [2]int {
	return [2]int{m.Rows, m.Cols}
}

// DType returns the element type descriptor.
func (m *Matrix[T]) DType() DType {
	return DTypeOf[T]()
}

// Row returns row i without copying.
func (m *Matrix[T]) Row(i int) []T {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// At returns the element at (i, j).
func (m *Matrix[T]) At(i, j int) T {
	return m.Data[i*m.Cols+j]
}

// SizeBytes returns the payload size in bytes.
func (m *Matrix[T]) SizeBytes() int64 {
	return int64(len(m.Data)) * int64(DTypeOf[T]().Size)
}

// FormatShape renders a shape the way NumPy prints tuples.
func FormatShape(shape [2]int) string {
	return fmt.Sprintf("(%d, %d)", shape[0], shape[1])
}
