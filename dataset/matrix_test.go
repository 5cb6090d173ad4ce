package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(t *testing.T) {
	m, err := NewMatrix(2, 2, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, float32(3), m.At(1, 0))
	assert.Equal(t, Float32, m.DType())
	assert.Equal(t, int64(16), m.SizeBytes())

	_, err = NewMatrix(2, 3, []int8{1})
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestDTypeOf(t *testing.T) {
	assert.Equal(t, "|i1", DTypeOf[int8]().String())
	assert.Equal(t, "<i4", DTypeOf[int32]().String())
	assert.Equal(t, "<f4", DTypeOf[float32]().String())
	assert.Equal(t, 1, Int8.Size)
}

func TestFormatShape(t *testing.T) {
	assert.Equal(t, "(1000000, 128)", FormatShape([2]int{1000000, 128}))
	assert.Equal(t, "(0, 0)", FormatShape([2]int{}))
}
