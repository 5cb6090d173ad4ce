package s3

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var errUploadAborted = errors.New("s3: upload aborted")

// UploadConfig configures the S3 uploader.
type UploadConfig struct {
	// PartSize is the minimum part size for multipart uploads.
	// Default: 8MB
	PartSize int64

	// Concurrency is the number of concurrent part uploads.
	// Default: 5
	Concurrency int

	// EnableChecksum enables CRC32C integrity validation.
	// Default: true
	EnableChecksum bool
}

// DefaultUploadConfig returns the default upload settings.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:       8 * 1024 * 1024,
		Concurrency:    5,
		EnableChecksum: true,
	}
}

func newUploader(client manager.UploadAPIClient, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = cfg.PartSize
		u.Concurrency = cfg.Concurrency
		// Failed multipart uploads are aborted so no orphaned parts remain.
		u.LeavePartsOnError = false
	})
}

// streamingWritableBlob feeds an io.Pipe into the upload manager running
// in its own goroutine.
type streamingWritableBlob struct {
	pw   *io.PipeWriter
	done chan error

	once sync.Once
	err  error
}

func newStreamingWritableBlob(ctx context.Context, uploader *manager.Uploader, bucket, key string, enableChecksum bool) *streamingWritableBlob {
	pr, pw := io.Pipe()

	b := &streamingWritableBlob{
		pw:   pw,
		done: make(chan error, 1),
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   pr,
	}
	if enableChecksum {
		input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
	}

	go func() {
		_, err := uploader.Upload(ctx, input)
		_ = pr.CloseWithError(err)
		b.done <- err
	}()

	return b
}

func (b *streamingWritableBlob) Write(p []byte) (int, error) {
	return b.pw.Write(p)
}

func (b *streamingWritableBlob) finish(closeErr error) error {
	b.once.Do(func() {
		if closeErr != nil {
			_ = b.pw.CloseWithError(closeErr)
		} else {
			_ = b.pw.Close()
		}
		b.err = <-b.done
	})
	return b.err
}

// Close signals EOF to the uploader and waits for the upload to complete.
func (b *streamingWritableBlob) Close() error {
	return b.finish(nil)
}

// Abort fails the upload; the manager aborts any multipart upload it started.
func (b *streamingWritableBlob) Abort() error {
	_ = b.finish(errUploadAborted)
	return nil
}
