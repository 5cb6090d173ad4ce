// Package blobstore abstracts where dump files are read from and where
// converted arrays are written to.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem; mmap reads, atomic temp-file + rename writes
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with multipart streaming uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Writing
//
// Create returns a WritableBlob. Close commits the blob; Abort discards it.
// Nothing is visible under the target name until Close succeeds, so a stage
// that fails mid-write never leaves a torn array behind:
//
//	w, err := store.Create(ctx, "base.i8bin.npy")
//	if err != nil { ... }
//	if err := encode(w); err != nil {
//	    _ = w.Abort()
//	    return err
//	}
//	return w.Close()
package blobstore
