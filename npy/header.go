package npy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hupe1980/binvec/internal/conv"
)

// Magic is the prefix of every .npy file.
const Magic = "\x93NUMPY"

// Alignment is the boundary the array data starts on.
const Alignment = 64

var (
	// ErrBadMagic is returned when the input is not an .npy stream.
	ErrBadMagic = errors.New("npy: bad magic")

	// ErrUnsupportedVersion is returned for format versions other than 1.0 and 2.0.
	ErrUnsupportedVersion = errors.New("npy: unsupported format version")

	// ErrBadHeader is returned when the header dictionary cannot be parsed.
	ErrBadHeader = errors.New("npy: malformed header")
)

// Header is the array metadata stored in the preamble.
type Header struct {
	Descr        string
	FortranOrder bool
	Shape        []int
}

// Len returns the number of elements the header describes.
func (h Header) Len() (int, error) {
	return conv.MulInt(h.Shape...)
}

// ItemSize returns the element width encoded in Descr.
func (h Header) ItemSize() (int, error) {
	if len(h.Descr) < 3 {
		return 0, fmt.Errorf("%w: descr %q", ErrBadHeader, h.Descr)
	}
	n, err := strconv.Atoi(h.Descr[2:])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: descr %q", ErrBadHeader, h.Descr)
	}
	return n, nil
}

// DataSize returns the payload size in bytes.
func (h Header) DataSize() (int, error) {
	n, err := h.Len()
	if err != nil {
		return 0, err
	}
	size, err := h.ItemSize()
	if err != nil {
		return 0, err
	}
	return conv.MulInt(n, size)
}

func formatShape(shape []int) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return "(" + strconv.Itoa(shape[0]) + ",)"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (h Header) dict() string {
	order := "False"
	if h.FortranOrder {
		order = "True"
	}
	return fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", h.Descr, order, formatShape(h.Shape))
}

// MarshalBinary encodes the full preamble: magic, version, header length and
// the padded dictionary.
func (h Header) MarshalBinary() ([]byte, error) {
	for _, d := range h.Shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrBadHeader, h.Shape)
		}
	}
	dict := h.dict()

	major, lenSize := byte(1), 2
	padded := pad(dict, len(Magic)+2+lenSize)
	if len(padded) > math.MaxUint16 {
		major, lenSize = 2, 4
		padded = pad(dict, len(Magic)+2+lenSize)
	}

	out := make([]byte, 0, len(Magic)+2+lenSize+len(padded))
	out = append(out, Magic...)
	out = append(out, major, 0)
	if lenSize == 2 {
		out = binary.LittleEndian.AppendUint16(out, uint16(len(padded)))
	} else {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(padded)))
	}
	return append(out, padded...), nil
}

// pad appends spaces and a newline so prefix+dict ends on the alignment boundary.
func pad(dict string, prefix int) string {
	total := prefix + len(dict) + 1
	n := (Alignment - total%Alignment) % Alignment
	return dict + strings.Repeat(" ", n) + "\n"
}

var (
	descrRe = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	orderRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapeRe = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// ReadHeader consumes the preamble from r.
func ReadHeader(r io.Reader) (Header, error) {
	var pre [len(Magic) + 2]byte
	if _, err := io.ReadFull(r, pre[:]); err != nil {
		return Header{}, fmt.Errorf("npy: read preamble: %w", err)
	}
	if !bytes.Equal(pre[:len(Magic)], []byte(Magic)) {
		return Header{}, ErrBadMagic
	}

	var hlen int
	switch major := pre[len(Magic)]; major {
	case 1:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Header{}, fmt.Errorf("npy: read header length: %w", err)
		}
		hlen = int(binary.LittleEndian.Uint16(b[:]))
	case 2, 3:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return Header{}, fmt.Errorf("npy: read header length: %w", err)
		}
		n := binary.LittleEndian.Uint32(b[:])
		if uint64(n) > math.MaxInt32 {
			return Header{}, fmt.Errorf("%w: header length %d", ErrBadHeader, n)
		}
		hlen = int(n)
	default:
		return Header{}, fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, major, pre[len(Magic)+1])
	}

	dict := make([]byte, hlen)
	if _, err := io.ReadFull(r, dict); err != nil {
		return Header{}, fmt.Errorf("npy: read header: %w", err)
	}
	return parseDict(string(dict))
}

func parseDict(s string) (Header, error) {
	var h Header

	m := descrRe.FindStringSubmatch(s)
	if m == nil {
		return Header{}, fmt.Errorf("%w: missing descr", ErrBadHeader)
	}
	h.Descr = m[1]

	m = orderRe.FindStringSubmatch(s)
	if m == nil {
		return Header{}, fmt.Errorf("%w: missing fortran_order", ErrBadHeader)
	}
	h.FortranOrder = m[1] == "True"

	m = shapeRe.FindStringSubmatch(s)
	if m == nil {
		return Header{}, fmt.Errorf("%w: missing shape", ErrBadHeader)
	}
	h.Shape = []int{}
	for _, f := range strings.Split(m[1], ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		d, err := strconv.Atoi(strings.TrimSuffix(f, "L"))
		if err != nil || d < 0 {
			return Header{}, fmt.Errorf("%w: shape %q", ErrBadHeader, m[1])
		}
		h.Shape = append(h.Shape, d)
	}
	return h, nil
}
