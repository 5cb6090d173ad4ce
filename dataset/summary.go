package dataset

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/floats"
)

// Summary describes the contents of a ground-truth set.
type Summary struct {
	Count        int
	TopK         int
	DistinctIDs  uint64 // distinct non-negative neighbor ids
	MaxID        int64  // -1 when there are no non-negative ids
	NegativeIDs  int    // entries < 0 (commonly padding for missing neighbors)
	MinDistance  float64
	MaxDistance  float64
	MeanDistance float64

	ids *roaring.Bitmap
}

// Summarize computes neighbor-id coverage and distance statistics.
func Summarize(gt *GroundTruth) Summary {
	s := Summary{
		Count: gt.Indices.Rows,
		TopK:  gt.Indices.Cols,
		MaxID: -1,
		ids:   roaring.New(),
	}

	for _, id := range gt.Indices.Data {
		if id < 0 {
			s.NegativeIDs++
			continue
		}
		s.ids.Add(uint32(id))
	}
	s.DistinctIDs = s.ids.GetCardinality()
	if !s.ids.IsEmpty() {
		s.MaxID = int64(s.ids.Maximum())
	}

	d := gt.Distances
	if len(d.Data) == 0 {
		return s
	}

	s.MinDistance = math.Inf(1)
	s.MaxDistance = math.Inf(-1)
	row := make([]float64, d.Cols)
	var sum float64
	for i := 0; i < d.Rows; i++ {
		for j, v := range d.Row(i) {
			row[j] = float64(v)
		}
		s.MinDistance = math.Min(s.MinDistance, floats.Min(row))
		s.MaxDistance = math.Max(s.MaxDistance, floats.Max(row))
		sum += floats.Sum(row)
	}
	s.MeanDistance = sum / float64(len(d.Data))
	return s
}

// OutOfRange returns how many distinct neighbor ids are >= baseCount.
func (s Summary) OutOfRange(baseCount int) uint64 {
	if s.ids == nil || s.ids.IsEmpty() {
		return 0
	}
	if baseCount <= 0 {
		return s.DistinctIDs
	}
	if int64(baseCount) > int64(math.MaxUint32) {
		return 0
	}
	// Rank(x) counts ids <= x.
	return s.DistinctIDs - s.ids.Rank(uint32(baseCount-1))
}
