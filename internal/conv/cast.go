package conv

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a conversion or product does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// ErrNegative is returned when a value that must be non-negative is negative.
var ErrNegative = errors.New("negative value")

// Int32ToInt converts a non-negative int32 to int.
func Int32ToInt(v int32) (int, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegative, v)
	}
	return int(v), nil
}

// IntToInt32 converts int to int32 safely.
func IntToInt32(v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d cannot be converted to int32", ErrOverflow, v)
	}
	return int32(v), nil
}

// MulInt multiplies non-negative ints, failing on overflow.
func MulInt(factors ...int) (int, error) {
	product := uint64(1)
	for _, f := range factors {
		if f < 0 {
			return 0, fmt.Errorf("%w: %d", ErrNegative, f)
		}
		hi, lo := bits.Mul64(product, uint64(f))
		if hi != 0 || lo > math.MaxInt {
			return 0, fmt.Errorf("%w: product of %v exceeds int", ErrOverflow, factors)
		}
		product = lo
	}
	return int(product), nil
}
