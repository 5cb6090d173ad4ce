package extend

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// ZipfianConstant is the skew of the zipfian and latest distributions.
const ZipfianConstant = 0.99

// ErrUnknownDistribution is returned for an unsupported distribution name.
var ErrUnknownDistribution = errors.New("extend: unknown distribution")

var errEmptyKeySpace = errors.New("extend: empty key space")

// Distribution selects how sequence keys are drawn.
type Distribution int

const (
	// Zipfian draws popular keys scattered over the key space.
	Zipfian Distribution = iota
	// Uniform draws every key with equal probability.
	Uniform
	// Latest favors the highest keys.
	Latest
)

func (d Distribution) String() string {
	switch d {
	case Zipfian:
		return "zipfian"
	case Uniform:
		return "uniform"
	case Latest:
		return "latest"
	default:
		return fmt.Sprintf("Distribution(%d)", int(d))
	}
}

// ParseDistribution parses a case-insensitive distribution name. The empty
// string selects Zipfian.
func ParseDistribution(s string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zipfian":
		return Zipfian, nil
	case "uniform":
		return Uniform, nil
	case "latest":
		return Latest, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDistribution, s)
	}
}

// Generator draws keys in [0, items) from a YCSB-style distribution.
//
// Zipfian keys are scrambled with FNV-1a so that popular keys spread over the
// key space. Latest keys are the zipfian rank counted down from the top key.
type Generator struct {
	dist  Distribution
	rng   *rand.Rand
	items uint64

	theta float64
	alpha float64
	zeta2 float64
	eta   float64

	// zetaN is the zeta sum over 1..zetaItems. Reset extends it in place
	// when the key space grows.
	zetaN     float64
	zetaItems uint64
}

// NewGenerator creates a generator seeded with seed. Call Reset before Next.
func NewGenerator(dist Distribution, seed uint64) (*Generator, error) {
	if dist < Zipfian || dist > Latest {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDistribution, dist)
	}
	g := &Generator{
		dist:  dist,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		theta: ZipfianConstant,
		alpha: 1 / (1 - ZipfianConstant),
	}
	g.zeta2 = zeta(0, 2, g.theta, 0)
	return g, nil
}

// Reset sets the key space to [0, items). The random stream carries over.
func (g *Generator) Reset(items uint64) error {
	if items == 0 {
		return errEmptyKeySpace
	}
	g.items = items
	if g.dist == Uniform {
		return nil
	}
	if items < g.zetaItems {
		g.zetaN, g.zetaItems = 0, 0
	}
	g.zetaN = zeta(g.zetaItems, items, g.theta, g.zetaN)
	g.zetaItems = items
	g.eta = (1 - math.Pow(2/float64(items), 1-g.theta)) / (1 - g.zeta2/g.zetaN)
	return nil
}

// Items returns the current key space size.
func (g *Generator) Items() uint64 {
	return g.items
}

// Next draws one key.
func (g *Generator) Next() uint64 {
	switch g.dist {
	case Uniform:
		return g.rng.Uint64N(g.items)
	case Latest:
		return g.items - 1 - g.zipf()
	default:
		return fnvHash64(g.zipf()) % g.items
	}
}

// Sequence draws n keys.
func (g *Generator) Sequence(n int) []uint64 {
	seq := make([]uint64, n)
	for i := range seq {
		seq[i] = g.Next()
	}
	return seq
}

// zipf returns a zipfian rank in [0, items), rank 0 being the most popular.
func (g *Generator) zipf() uint64 {
	for {
		u := g.rng.Float64()
		uz := u * g.zetaN
		if uz < 1 {
			return 0
		}
		if uz < 1+math.Pow(0.5, g.theta) {
			if g.items > 1 {
				return 1
			}
			continue
		}
		v := uint64(float64(g.items) * math.Pow(g.eta*u-g.eta+1, g.alpha))
		if v < g.items {
			return v
		}
	}
}

// zeta adds 1/i^theta for i in (from, to] to sum.
func zeta(from, to uint64, theta, sum float64) float64 {
	for i := from + 1; i <= to; i++ {
		sum += 1 / math.Pow(float64(i), theta)
	}
	return sum
}

const (
	fnvOffset64 = 0xcbf29ce484222325
	fnvPrime64  = 1099511628211
)

// fnvHash64 hashes the eight little-endian octets of v.
func fnvHash64(v uint64) uint64 {
	h := uint64(fnvOffset64)
	for range 8 {
		h ^= v & 0xff
		h *= fnvPrime64
		v >>= 8
	}
	return h
}
