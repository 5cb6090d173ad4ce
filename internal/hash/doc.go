// Package hash provides CRC32-Castagnoli checksums for converted outputs.
//
// Every array written by the converter is streamed through a [Writer] so the
// digest and byte count can be logged, and remote sinks reuse [CRC32C] for
// upload integrity headers.
//
//	hw := hash.NewWriter(dst)
//	_, _ = hw.Write(chunk)
//	log.Info("saved", "bytes", hw.Count(), "crc32c", hw.Sum32())
package hash
