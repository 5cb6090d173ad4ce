package dataset

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Element is the set of payload element types found in dumps.
type Element interface {
	int8 | int32 | float32
}

// DType describes an element type as NumPy sees it.
type DType struct {
	// Descr is the NumPy array-protocol type string, e.g. "<i4".
	Descr string
	// Size is the element width in bytes.
	Size int
}

var (
	// Int8 is the element type of base vector payloads.
	Int8 = DType{Descr: "|i1", Size: 1}
	// Int32 is the element type of query payloads and ground-truth indices.
	Int32 = DType{Descr: "<i4", Size: 4}
	// Float32 is the element type of ground-truth distances.
	Float32 = DType{Descr: "<f4", Size: 4}
)

func (d DType) String() string {
	return d.Descr
}

// DTypeOf returns the DType of T.
func DTypeOf[T Element]() DType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case int32:
		return Int32
	default:
		return Float32
	}
}

var nativeLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// decodeLE fills dst from little-endian src; len(src) must be len(dst)*size.
func decodeLE[T Element](dst []T, src []byte) {
	if len(dst) == 0 {
		return
	}
	if nativeLittleEndian {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), len(src)), src) //nolint:gosec // layout matches on little-endian hosts
		return
	}
	switch d := any(dst).(type) {
	case []int8:
		for i := range d {
			d[i] = int8(src[i])
		}
	case []int32:
		for i := range d {
			d[i] = int32(binary.LittleEndian.Uint32(src[i*4:]))
		}
	case []float32:
		for i := range d {
			d[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
		}
	}
}

// AppendLE appends the little-endian encoding of src to dst.
func AppendLE[T Element](dst []byte, src []T) []byte {
	if len(src) == 0 {
		return dst
	}
	if nativeLittleEndian {
		size := DTypeOf[T]().Size
		return append(dst, unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), len(src)*size)...) //nolint:gosec // layout matches on little-endian hosts
	}
	switch s := any(src).(type) {
	case []int8:
		for _, v := range s {
			dst = append(dst, byte(v))
		}
	case []int32:
		for _, v := range s {
			dst = binary.LittleEndian.AppendUint32(dst, uint32(v))
		}
	case []float32:
		for _, v := range s {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
	}
	return dst
}

// Bytes returns the little-endian byte image of src. On little-endian hosts
// the result aliases src.
func Bytes[T Element](src []T) []byte {
	if len(src) == 0 {
		return nil
	}
	if nativeLittleEndian {
		size := DTypeOf[T]().Size
		return unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), len(src)*size) //nolint:gosec // layout matches on little-endian hosts
	}
	return AppendLE(make([]byte, 0, len(src)*DTypeOf[T]().Size), src)
}
