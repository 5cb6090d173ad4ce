package mmap

import "errors"

// AccessPattern is a read-ahead hint for a mapping.
type AccessPattern int

const (
	// AccessDefault leaves read-ahead to the kernel.
	AccessDefault AccessPattern = iota
	// AccessSequential suits dumps decoded front to back in one pass.
	AccessSequential
)

var (
	// ErrClosed is returned by every accessor once Close has run.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for files too large to map into the address space.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset is returned by ReadAt for a negative offset.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
