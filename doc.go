// Package binvec converts fixed-layout binary vector dumps into NumPy arrays.
//
// A benchmark dataset ships as three little-endian dumps, each starting with
// an int32 (count, dimension) header:
//
//	base          count×dim int8
//	query         count×dim int32
//	ground truth  count×topk int32 indices, then count×topk float32 distances
//
// A Converter reads them in that order and writes each result next to its
// input as "<path>.npy":
//
//	c, _ := binvec.New(binvec.WithLogger(binvec.NewTextLogger(slog.LevelInfo)))
//	res, err := c.Run(ctx, binvec.Paths{
//	    Base:        "base.i8bin",
//	    Query:       "query.i32bin",
//	    GroundTruth: "msspacev-gt-1B",
//	})
//
// Any failure aborts the run with a *StageError naming the stage and step.
// Outputs of stages that already completed stay in place.
//
// # Outputs
//
// By default only ground-truth indices are persisted. WithSaveDistances adds
// "<path>.dist.npy". WithFormat switches to .npz archives, WithCompression
// frames .npy files with lz4 or zstd, and WithOutputStore redirects outputs to
// S3 or MinIO (see the blobstore/s3 and blobstore/minio packages).
//
// Package extend and cmd/binvec-extend build longer, skewed query workloads
// from a query dump and its ground truth, in the same dump layout.
package binvec
