package extend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/binvec"
	"github.com/hupe1980/binvec/dataset"
	"github.com/hupe1980/binvec/internal/conv"
	"github.com/hupe1980/binvec/internal/hash"
	"github.com/hupe1980/binvec/resource"
)

// ErrDimension is returned when the query dimension differs from the one
// configured with WithDimension.
var ErrDimension = errors.New("extend: dimension mismatch")

// Paths names the inputs and outputs of a run. Frequencies is optional.
type Paths struct {
	Query             string
	GroundTruth       string
	OutputQuery       string
	OutputGroundTruth string
	Frequencies       string
}

// Result holds the extended workload and what was written.
type Result[T dataset.Element] struct {
	Loaded      int
	Unique      int
	Plan        *Plan
	Query       *dataset.Matrix[T]
	GroundTruth *dataset.GroundTruth
	Outputs     []binvec.Output
}

// Extender builds extended query workloads.
type Extender struct {
	opts   options
	count  int
	loader *dataset.Loader
}

// New creates an Extender that draws count keys per attempt.
func New(count int, optFns ...Option) (*Extender, error) {
	o := applyOptions(optFns)

	switch {
	case count <= 0:
		return nil, fmt.Errorf("%w: count %d", binvec.ErrInvalidConfig, count)
	case o.distribution < Zipfian || o.distribution > Latest:
		return nil, fmt.Errorf("%w: %w: %s", binvec.ErrInvalidConfig, ErrUnknownDistribution, o.distribution)
	case o.dimension < 0:
		return nil, fmt.Errorf("%w: dimension %d", binvec.ErrInvalidConfig, o.dimension)
	case o.bufferSize <= 0:
		return nil, fmt.Errorf("%w: buffer size %d", binvec.ErrInvalidConfig, o.bufferSize)
	}

	var mem dataset.MemoryReserver
	if o.resources != nil {
		mem = o.resources
	}

	return &Extender{
		opts:   o,
		count:  count,
		loader: dataset.NewLoader(o.inputStore, mem),
	}, nil
}

// Run loads the query and ground-truth dumps, drops repeated queries, draws
// the workload sequence and writes the extended dumps. Query elements are
// of type T; ground truth always holds int32 indices and float32 distances.
func Run[T dataset.Element](ctx context.Context, e *Extender, paths Paths) (*Result[T], error) {
	q, err := loadQuery[T](ctx, e, paths.Query)
	if err != nil {
		return nil, err
	}
	defer e.release(q.SizeBytes())

	gt, err := e.loadGroundTruth(ctx, paths.GroundTruth)
	if err != nil {
		return nil, err
	}
	defer e.release(gt.Indices.SizeBytes() + gt.Distances.SizeBytes())

	if e.opts.dimension > 0 && q.Cols != e.opts.dimension {
		return nil, &binvec.StageError{Stage: binvec.StageQuery, Op: binvec.OpExtend, Path: paths.Query,
			Err: fmt.Errorf("%w: got %d, want %d", ErrDimension, q.Cols, e.opts.dimension)}
	}

	keep, err := Dedup(q, gt)
	if err != nil {
		return nil, &binvec.StageError{Stage: binvec.StageGroundTruth, Op: binvec.OpExtend, Path: paths.GroundTruth, Err: err}
	}
	log := e.opts.logger
	log.InfoContext(ctx, "deduplicated queries", "loaded", q.Rows, "unique", len(keep))

	plan, err := NewPlan(len(keep), PlanConfig{
		Count:        e.count,
		Distribution: e.opts.distribution,
		Seed:         e.opts.seed,
		MaxAttempts:  e.opts.maxAttempts,
	})
	if err != nil {
		return nil, &binvec.StageError{Stage: binvec.StageQuery, Op: binvec.OpExtend, Path: paths.Query, Err: err}
	}
	log.InfoContext(ctx, "sequence drawn",
		"distribution", e.opts.distribution.String(),
		"key_space", plan.Items,
		"attempts", plan.Attempts,
		"distinct_keys", len(plan.Frequencies),
		"dropped", plan.Dropped,
		"extended", len(plan.Rows),
	)
	for i, f := range plan.Frequencies[:min(10, len(plan.Frequencies))] {
		log.DebugContext(ctx, "hot key", "rank", i, "key", f.Key, "count", f.Count)
	}

	rows := make([]int, len(plan.Rows))
	for i, r := range plan.Rows {
		rows[i] = keep[r]
	}

	rowBytes := int64(q.Cols)*int64(dataset.DTypeOf[T]().Size) +
		int64(gt.Indices.Cols)*int64(dataset.Int32.Size+dataset.Float32.Size)
	extended := int64(len(rows)) * rowBytes
	if err := e.opts.resources.ReserveMemory(extended); err != nil {
		return nil, &binvec.StageError{Stage: binvec.StageQuery, Op: binvec.OpExtend, Path: paths.Query, Err: err}
	}
	defer e.release(extended)

	res := &Result[T]{
		Loaded: q.Rows,
		Unique: len(keep),
		Plan:   plan,
		Query:  Gather(q, rows),
		GroundTruth: &dataset.GroundTruth{
			Indices:   Gather(gt.Indices, rows),
			Distances: Gather(gt.Distances, rows),
		},
	}

	out, err := e.writeDump(ctx, binvec.StageQuery, paths.OutputQuery, res.Query.Rows, res.Query.Cols,
		dataset.Bytes(res.Query.Data))
	if err != nil {
		return res, err
	}
	res.Outputs = append(res.Outputs, out)

	out, err = e.writeDump(ctx, binvec.StageGroundTruth, paths.OutputGroundTruth, res.GroundTruth.Indices.Rows, res.GroundTruth.Indices.Cols,
		dataset.Bytes(res.GroundTruth.Indices.Data), dataset.Bytes(res.GroundTruth.Distances.Data))
	if err != nil {
		return res, err
	}
	res.Outputs = append(res.Outputs, out)

	if paths.Frequencies != "" {
		out, err = e.save(ctx, binvec.StageQuery, paths.Frequencies, func(w io.Writer) error {
			return WriteFrequencies(w, plan.Frequencies)
		})
		if err != nil {
			return res, err
		}
		res.Outputs = append(res.Outputs, out)
	}
	return res, nil
}

func loadQuery[T dataset.Element](ctx context.Context, e *Extender, path string) (*dataset.Matrix[T], error) {
	log := e.opts.logger.WithStage(binvec.StageQuery).WithPath(path)

	start := time.Now()
	m, file, err := dataset.LoadVectors[T](ctx, e.loader, path)
	e.opts.metricsCollector.RecordLoad(binvec.StageQuery, file.Size, time.Since(start), err)
	if err != nil {
		log.LogLoad(ctx, file.Size, [2]int{}, err)
		return nil, &binvec.StageError{Stage: binvec.StageQuery, Op: binvec.OpLoad, Path: path, Err: err}
	}
	log.LogLoad(ctx, file.Size, m.Shape(), nil)
	return m, nil
}

func (e *Extender) loadGroundTruth(ctx context.Context, path string) (*dataset.GroundTruth, error) {
	log := e.opts.logger.WithStage(binvec.StageGroundTruth).WithPath(path)

	start := time.Now()
	gt, file, err := e.loader.LoadGroundTruth(ctx, path)
	e.opts.metricsCollector.RecordLoad(binvec.StageGroundTruth, file.Size, time.Since(start), err)
	if err != nil {
		log.LogLoad(ctx, file.Size, [2]int{}, err)
		return nil, &binvec.StageError{Stage: binvec.StageGroundTruth, Op: binvec.OpLoad, Path: path, Err: err}
	}
	log.LogLoad(ctx, file.Size, gt.Indices.Shape(), nil)
	return gt, nil
}

// writeDump writes a (rows, cols) int32 header followed by the payload blocks.
func (e *Extender) writeDump(ctx context.Context, stage binvec.Stage, name string, rows, cols int, blocks ...[]byte) (binvec.Output, error) {
	return e.save(ctx, stage, name, func(w io.Writer) error {
		count, err := conv.IntToInt32(rows)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		dim, err := conv.IntToInt32(cols)
		if err != nil {
			return fmt.Errorf("dimension: %w", err)
		}
		if _, err := w.Write(dataset.AppendLE(nil, []int32{count, dim})); err != nil {
			return err
		}
		for _, b := range blocks {
			if _, err := w.Write(b); err != nil {
				return err
			}
		}
		return nil
	})
}

// save streams one blob through buffer, rate limit and checksum, aborting it
// on any failure.
func (e *Extender) save(ctx context.Context, stage binvec.Stage, name string, write func(io.Writer) error) (out binvec.Output, err error) {
	log := e.opts.logger.WithStage(stage)
	start := time.Now()

	var hw *hash.Writer
	defer func() {
		var written int64
		var crc uint32
		if hw != nil {
			written, crc = hw.Count(), hw.Sum32()
		}
		e.opts.metricsCollector.RecordSave(stage, written, time.Since(start), err)
		log.LogSave(ctx, name, written, crc, err)
		if err != nil {
			err = &binvec.StageError{Stage: stage, Op: binvec.OpSave, Path: name, Err: err}
			return
		}
		out = binvec.Output{Stage: stage, Name: name, Bytes: written, CRC32C: crc}
	}()

	if name == "" {
		return binvec.Output{}, binvec.ErrEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return binvec.Output{}, err
	}

	blob, err := e.opts.outputStore.Create(ctx, name)
	if err != nil {
		return binvec.Output{}, err
	}

	hw = hash.NewWriter(blob)
	bw := bufio.NewWriterSize(resource.NewRateLimitedWriter(ctx, hw, e.opts.resources), e.opts.bufferSize)

	if err := write(bw); err != nil {
		_ = blob.Abort()
		return binvec.Output{}, err
	}
	if err := bw.Flush(); err != nil {
		_ = blob.Abort()
		return binvec.Output{}, err
	}
	if err := blob.Close(); err != nil {
		_ = blob.Abort()
		return binvec.Output{}, err
	}
	return binvec.Output{}, nil
}

func (e *Extender) release(bytes int64) {
	e.opts.resources.ReleaseMemory(bytes)
}
