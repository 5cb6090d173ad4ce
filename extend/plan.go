package extend

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// DefaultMaxAttempts bounds how often NewPlan widens the key space.
const DefaultMaxAttempts = 100

var (
	// ErrNoQueries is returned when there is nothing to extend.
	ErrNoQueries = errors.New("extend: no queries")

	// ErrCountTooSmall is returned when the requested workload is shorter
	// than the number of unique queries, so some queries could never appear.
	ErrCountTooSmall = errors.New("extend: count smaller than unique queries")

	// ErrCoverage is returned when no draw touched every unique query within
	// the attempt budget.
	ErrCoverage = errors.New("extend: sequence does not cover all queries")
)

// PlanConfig controls how a workload sequence is drawn.
type PlanConfig struct {
	// Count is the number of keys drawn per attempt.
	Count int
	// Distribution is the key distribution.
	Distribution Distribution
	// Seed makes the draw reproducible.
	Seed uint64
	// MaxAttempts bounds the number of draws. Zero means DefaultMaxAttempts.
	MaxAttempts int
}

// Frequency is how often a key was drawn.
type Frequency struct {
	Key   uint64
	Count int
}

// Plan is an accepted key sequence mapped onto unique queries.
type Plan struct {
	// Rows holds, per extended query, the unique query it repeats.
	Rows []int
	// Items is the key space of the accepted draw.
	Items uint64
	// Attempts is the number of draws it took.
	Attempts int
	// Frequencies ranks every drawn key, most frequent first. The first
	// len(unique) keys are mapped to queries 0, 1, ... in that order.
	Frequencies []Frequency
	// Dropped counts the sequence entries whose key fell outside the mapping.
	Dropped int
}

// NewPlan draws cfg.Count keys and maps them onto unique queries.
//
// A draw is accepted once it contains at least unique distinct keys. Until
// then the key space starts at unique and grows by one percent of it per
// attempt. In the accepted draw the unique most frequent keys map to queries
// 0..unique-1 by rank; entries of the remaining, rarer keys are dropped.
func NewPlan(unique int, cfg PlanConfig) (*Plan, error) {
	if unique <= 0 {
		return nil, ErrNoQueries
	}
	if cfg.Count < unique {
		return nil, fmt.Errorf("%w: %d < %d", ErrCountTooSmall, cfg.Count, unique)
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	g, err := NewGenerator(cfg.Distribution, cfg.Seed)
	if err != nil {
		return nil, err
	}

	items := uint64(unique)
	step := max(items/100, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := g.Reset(items); err != nil {
			return nil, err
		}
		seq := g.Sequence(cfg.Count)
		freqs := RankByFrequency(seq)
		if len(freqs) >= unique {
			return mapSequence(seq, freqs, unique, items, attempt), nil
		}
		items += step
	}
	return nil, fmt.Errorf("%w: %d attempts, key space %d", ErrCoverage, attempts, items)
}

func mapSequence(seq []uint64, freqs []Frequency, unique int, items uint64, attempts int) *Plan {
	rank := make(map[uint64]int, unique)
	for i, f := range freqs[:unique] {
		rank[f.Key] = i
	}

	p := &Plan{
		Rows:        make([]int, 0, len(seq)),
		Items:       items,
		Attempts:    attempts,
		Frequencies: freqs,
	}
	for _, key := range seq {
		row, ok := rank[key]
		if !ok {
			p.Dropped++
			continue
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// RankByFrequency counts the keys of seq and sorts them by descending count.
// Ties keep the smaller key first.
func RankByFrequency(seq []uint64) []Frequency {
	counts := make(map[uint64]int)
	for _, k := range seq {
		counts[k]++
	}
	out := make([]Frequency, 0, len(counts))
	for k, n := range counts {
		out = append(out, Frequency{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b Frequency) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// WriteFrequencies writes one "key<TAB>count" line per entry.
func WriteFrequencies(w io.Writer, freqs []Frequency) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	for _, f := range freqs {
		if err := cw.Write([]string{
			strconv.FormatUint(f.Key, 10),
			strconv.Itoa(f.Count),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
