package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when a file holds fewer bytes than its header declares.
	ErrTruncated = errors.New("truncated file")

	// ErrInvalidShape is returned when header fields cannot describe a matrix
	// (negative dimensions or sizes overflowing int).
	ErrInvalidShape = errors.New("invalid shape")
)

// TruncatedError describes a short read.
//
// It matches ErrTruncated via errors.Is.
type TruncatedError struct {
	Offset int // where the read started
	Need   int // bytes required
	Have   int // bytes available from Offset
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated file: need %d bytes at offset %d, have %d", e.Need, e.Offset, e.Have)
}

func (e *TruncatedError) Is(target error) bool {
	return target == ErrTruncated
}
