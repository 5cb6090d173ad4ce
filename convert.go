package binvec

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/binvec/compression"
	"github.com/hupe1980/binvec/dataset"
	"github.com/hupe1980/binvec/internal/hash"
	"github.com/hupe1980/binvec/npy"
	"github.com/hupe1980/binvec/resource"
)

// Output suffixes appended to the input path.
const (
	SuffixNPY       = ".npy"
	SuffixDistances = ".dist.npy"
	SuffixNPZ       = ".npz"
)

// Paths names the three input dumps of a run.
type Paths struct {
	Base        string
	Query       string
	GroundTruth string
}

// Output describes one written array file.
type Output struct {
	Stage  Stage
	Name   string
	Bytes  int64
	CRC32C uint32
}

// Result holds what a run loaded and wrote.
type Result struct {
	Base        *dataset.Matrix[int8]
	Query       *dataset.Matrix[int32]
	GroundTruth *dataset.GroundTruth
	Outputs     []Output
}

// Converter reads binary vector dumps and writes them as NumPy arrays.
type Converter struct {
	opts   options
	loader *dataset.Loader

	// baseCount is the row count of the last converted base set, -1 if none.
	baseCount int
}

// New creates a Converter.
func New(optFns ...Option) (*Converter, error) {
	o := applyOptions(optFns)

	switch {
	case o.format > FormatNPZCompressed:
		return nil, fmt.Errorf("%w: unknown format %s", ErrInvalidConfig, o.format)
	case o.format.IsArchive() && o.compression != compression.None:
		return nil, fmt.Errorf("%w: %s compression cannot be combined with %s", ErrInvalidConfig, o.compression, o.format)
	case o.compression > compression.ZSTD:
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, compression.ErrUnknownType)
	case o.bufferSize <= 0:
		return nil, fmt.Errorf("%w: buffer size %d", ErrInvalidConfig, o.bufferSize)
	}

	var mem dataset.MemoryReserver
	if o.resources != nil {
		mem = o.resources
	}

	return &Converter{
		opts:      o,
		loader:    dataset.NewLoader(o.inputStore, mem),
		baseCount: -1,
	}, nil
}

// Run converts base, query and ground truth in that order. The first failing
// stage aborts the run; the returned Result still lists earlier outputs.
func (c *Converter) Run(ctx context.Context, paths Paths) (*Result, error) {
	res := &Result{}

	base, outs, err := c.ConvertBase(ctx, paths.Base)
	res.Outputs = append(res.Outputs, outs...)
	if err != nil {
		return res, err
	}
	res.Base = base

	query, outs, err := c.ConvertQuery(ctx, paths.Query)
	res.Outputs = append(res.Outputs, outs...)
	if err != nil {
		return res, err
	}
	res.Query = query

	gt, outs, err := c.ConvertGroundTruth(ctx, paths.GroundTruth)
	res.Outputs = append(res.Outputs, outs...)
	if err != nil {
		return res, err
	}
	res.GroundTruth = gt

	return res, nil
}

// ConvertBase loads an int8 base vector dump and writes it as an array.
func (c *Converter) ConvertBase(ctx context.Context, path string) (*dataset.Matrix[int8], []Output, error) {
	log := c.opts.logger.WithStage(StageBase).WithPath(path)

	start := time.Now()
	m, file, err := c.loader.LoadBase(ctx, path)
	c.opts.metricsCollector.RecordLoad(StageBase, file.Size, time.Since(start), err)
	if err != nil {
		log.LogLoad(ctx, file.Size, [2]int{}, err)
		return nil, nil, &StageError{Stage: StageBase, Op: OpLoad, Path: path, Err: err}
	}
	defer c.release(m.SizeBytes())
	log.LogLoad(ctx, file.Size, m.Shape(), nil)

	c.printf("Base vector file size: %d\n", file.Size)
	c.printf("base_vec_count: %d\n", file.Header[0])
	c.printf("base_vec_dimension: %d\n", file.Header[1])
	c.printf("Base vector shape: %s\n", dataset.FormatShape(m.Shape()))

	out, err := c.saveSingle(ctx, log, StageBase, path, func(w io.Writer) (int64, error) {
		return npy.WriteMatrix(w, m)
	}, func(z *npy.ZipWriter) (int64, error) {
		return npy.WriteEntry(z, "arr_0", m)
	})
	if err != nil {
		return nil, nil, err
	}

	c.baseCount = m.Rows
	return m, []Output{out}, nil
}

// ConvertQuery loads an int32 query vector dump and writes it as an array.
func (c *Converter) ConvertQuery(ctx context.Context, path string) (*dataset.Matrix[int32], []Output, error) {
	log := c.opts.logger.WithStage(StageQuery).WithPath(path)

	start := time.Now()
	m, file, err := c.loader.LoadQuery(ctx, path)
	c.opts.metricsCollector.RecordLoad(StageQuery, file.Size, time.Since(start), err)
	if err != nil {
		log.LogLoad(ctx, file.Size, [2]int{}, err)
		return nil, nil, &StageError{Stage: StageQuery, Op: OpLoad, Path: path, Err: err}
	}
	defer c.release(m.SizeBytes())
	log.LogLoad(ctx, file.Size, m.Shape(), nil)

	c.printf("Query vector shape: %s\n", dataset.FormatShape(m.Shape()))

	out, err := c.saveSingle(ctx, log, StageQuery, path, func(w io.Writer) (int64, error) {
		return npy.WriteMatrix(w, m)
	}, func(z *npy.ZipWriter) (int64, error) {
		return npy.WriteEntry(z, "arr_0", m)
	})
	if err != nil {
		return nil, nil, err
	}
	return m, []Output{out}, nil
}

// ConvertGroundTruth loads a ground-truth dump and writes its indices, plus
// its distances when configured.
func (c *Converter) ConvertGroundTruth(ctx context.Context, path string) (*dataset.GroundTruth, []Output, error) {
	log := c.opts.logger.WithStage(StageGroundTruth).WithPath(path)

	start := time.Now()
	gt, file, err := c.loader.LoadGroundTruth(ctx, path)
	c.opts.metricsCollector.RecordLoad(StageGroundTruth, file.Size, time.Since(start), err)
	if err != nil {
		log.LogLoad(ctx, file.Size, [2]int{}, err)
		return nil, nil, &StageError{Stage: StageGroundTruth, Op: OpLoad, Path: path, Err: err}
	}
	defer c.release(gt.Indices.SizeBytes() + gt.Distances.SizeBytes())
	log.LogLoad(ctx, file.Size, gt.Indices.Shape(), nil)

	c.logSummary(ctx, log, gt)

	c.printf("Ground Truth shape: %s\n", dataset.FormatShape(gt.Indices.Shape()))
	c.printf("Ground Truth distance shape: %s\n", dataset.FormatShape(gt.Distances.Shape()))

	if c.opts.format.IsArchive() {
		out, err := c.save(ctx, log, StageGroundTruth, path, SuffixNPZ, func(w io.Writer) (int64, error) {
			return c.writeArchive(w, func(z *npy.ZipWriter) (int64, error) {
				n, err := npy.WriteEntry(z, "indices", gt.Indices)
				if err != nil || !c.opts.saveDistances {
					return n, err
				}
				m, err := npy.WriteEntry(z, "distances", gt.Distances)
				return n + m, err
			})
		})
		if err != nil {
			return nil, nil, err
		}
		return gt, []Output{out}, nil
	}

	ext := c.opts.compression.Extension()
	out, err := c.save(ctx, log, StageGroundTruth, path, SuffixNPY+ext, func(w io.Writer) (int64, error) {
		return npy.WriteMatrix(w, gt.Indices)
	})
	if err != nil {
		return nil, nil, err
	}
	outs := []Output{out}

	if c.opts.saveDistances {
		out, err := c.save(ctx, log, StageGroundTruth, path, SuffixDistances+ext, func(w io.Writer) (int64, error) {
			return npy.WriteMatrix(w, gt.Distances)
		})
		if err != nil {
			return nil, outs, err
		}
		outs = append(outs, out)
	}
	return gt, outs, nil
}

func (c *Converter) logSummary(ctx context.Context, log *Logger, gt *dataset.GroundTruth) {
	s := dataset.Summarize(gt)
	log.InfoContext(ctx, "ground truth summary",
		"queries", s.Count,
		"topk", s.TopK,
		"distinct_ids", s.DistinctIDs,
		"max_id", s.MaxID,
		"negative_ids", s.NegativeIDs,
		"min_distance", s.MinDistance,
		"max_distance", s.MaxDistance,
		"mean_distance", s.MeanDistance,
	)
	if c.baseCount < 0 {
		return
	}
	if n := s.OutOfRange(c.baseCount); n > 0 {
		log.WarnContext(ctx, "ground truth references ids beyond the base set",
			"base_count", c.baseCount,
			"out_of_range_ids", n,
		)
	}
}

// saveSingle writes a one-array stage in the configured format.
func (c *Converter) saveSingle(ctx context.Context, log *Logger, stage Stage, path string,
	writeNPY func(io.Writer) (int64, error), writeEntry func(*npy.ZipWriter) (int64, error),
) (Output, error) {
	if c.opts.format.IsArchive() {
		return c.save(ctx, log, stage, path, SuffixNPZ, func(w io.Writer) (int64, error) {
			return c.writeArchive(w, writeEntry)
		})
	}
	return c.save(ctx, log, stage, path, SuffixNPY+c.opts.compression.Extension(), writeNPY)
}

func (c *Converter) writeArchive(w io.Writer, fill func(*npy.ZipWriter) (int64, error)) (int64, error) {
	z := npy.NewZipWriter(w, c.opts.format == FormatNPZCompressed)
	n, err := fill(z)
	if err != nil {
		return n, err
	}
	return n, z.Close()
}

// save streams one output blob through
//
//	encoder -> compression -> buffer -> rate limit -> checksum -> blob
//
// and aborts the blob on any failure so no partial output is committed.
func (c *Converter) save(ctx context.Context, log *Logger, stage Stage, input, suffix string,
	write func(io.Writer) (int64, error),
) (out Output, err error) {
	name := c.opts.outputName(input, suffix)
	start := time.Now()

	var hw *hash.Writer
	defer func() {
		var written int64
		var crc uint32
		if hw != nil {
			written, crc = hw.Count(), hw.Sum32()
		}
		c.opts.metricsCollector.RecordSave(stage, written, time.Since(start), err)
		log.LogSave(ctx, name, written, crc, err)
		if err != nil {
			err = &StageError{Stage: stage, Op: OpSave, Path: name, Err: err}
			return
		}
		out = Output{Stage: stage, Name: name, Bytes: written, CRC32C: crc}
	}()

	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	blob, err := c.opts.outputStore.Create(ctx, name)
	if err != nil {
		return Output{}, err
	}

	hw = hash.NewWriter(blob)
	bw := bufio.NewWriterSize(resource.NewRateLimitedWriter(ctx, hw, c.opts.resources), c.opts.bufferSize)

	cw, err := compression.NewWriter(bw, c.opts.compression)
	if err != nil {
		_ = blob.Abort()
		return Output{}, err
	}

	if _, err := write(cw); err != nil {
		_ = blob.Abort()
		return Output{}, err
	}
	if err := cw.Close(); err != nil {
		_ = blob.Abort()
		return Output{}, err
	}
	if err := bw.Flush(); err != nil {
		_ = blob.Abort()
		return Output{}, err
	}
	if err := blob.Close(); err != nil {
		_ = blob.Abort()
		return Output{}, err
	}
	return Output{}, nil
}

func (c *Converter) release(bytes int64) {
	c.opts.resources.ReleaseMemory(bytes)
}

func (c *Converter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.opts.stdout, format, args...)
}
