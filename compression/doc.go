// Package compression wraps output streams in optional LZ4 or Zstandard
// framing.
//
// Frames are self-describing, so a compressed array can be inflated with the
// stock lz4 or zstd command line tools before handing it to NumPy.
package compression
