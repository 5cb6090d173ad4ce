// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", "spacev1b/")
//	w, err := store.Create(ctx, "base.i8bin.npy")
//
// Converted arrays are streamed through the multipart upload manager, so
// an output never has to be buffered in full. Uploads carry CRC32C checksums
// unless disabled in UploadConfig.
package s3
