// Package dataset decodes fixed-layout binary vector dumps into typed matrices.
//
// A dump starts with a small header of little-endian int32 fields followed by
// one or more row-major payload blocks. All three benchmark files share that
// shape and differ only in element type and block count:
//
//	base          int32 count, int32 dim    count*dim int8
//	query         int32 count, int32 dim    count*dim int32
//	ground truth  int32 count, int32 topk   count*topk int32, then count*topk float32
//
// [Load] is the single primitive behind every loader: it reads N header
// fields, derives a shape from them and reinterprets the next block as a
// [Matrix]. [Decode] continues with further blocks on the same [Decoder].
//
// Payloads are copied out of the mapped file, so a returned Matrix never
// aliases the input. Trailing bytes after the last block are ignored; a
// file shorter than its header implies fails with [ErrTruncated].
package dataset
