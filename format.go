package binvec

import (
	"fmt"
	"strings"
)

// Format selects the output container.
type Format uint8

const (
	// FormatNPY writes one .npy file per array.
	FormatNPY Format = iota
	// FormatNPZ writes one stored .npz archive per input.
	FormatNPZ
	// FormatNPZCompressed writes one deflated .npz archive per input.
	FormatNPZCompressed
)

func (f Format) String() string {
	switch f {
	case FormatNPY:
		return "npy"
	case FormatNPZ:
		return "npz"
	case FormatNPZCompressed:
		return "npz-compressed"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// IsArchive reports whether f writes .npz archives.
func (f Format) IsArchive() bool {
	return f == FormatNPZ || f == FormatNPZCompressed
}

// ParseFormat parses a format name. The empty string means FormatNPY.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "npy":
		return FormatNPY, nil
	case "npz":
		return FormatNPZ, nil
	case "npz-compressed", "npz_compressed":
		return FormatNPZCompressed, nil
	default:
		return 0, fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, s)
	}
}
