package extend

import (
	"errors"
	"fmt"

	"github.com/hupe1980/binvec/dataset"
)

// ErrMisaligned is returned when the ground truth does not have one row per query.
var ErrMisaligned = errors.New("extend: ground truth does not match queries")

// Dedup returns the indices of the first occurrence of every distinct query
// row, in input order. Rows compare by their byte image.
func Dedup[T dataset.Element](q *dataset.Matrix[T], gt *dataset.GroundTruth) ([]int, error) {
	if gt.Indices.Rows != q.Rows {
		return nil, fmt.Errorf("%w: %d queries, %d ground-truth rows", ErrMisaligned, q.Rows, gt.Indices.Rows)
	}

	seen := make(map[string]struct{}, q.Rows)
	keep := make([]int, 0, q.Rows)
	for i := range q.Rows {
		key := string(dataset.Bytes(q.Row(i)))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	return keep, nil
}

// Gather copies the given rows of m, in order, into a new matrix.
func Gather[T dataset.Element](m *dataset.Matrix[T], rows []int) *dataset.Matrix[T] {
	out := &dataset.Matrix[T]{Rows: len(rows), Cols: m.Cols, Data: make([]T, 0, len(rows)*m.Cols)}
	for _, r := range rows {
		out.Data = append(out.Data, m.Row(r)...)
	}
	return out
}
