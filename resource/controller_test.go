package resource

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.ReserveMemory(50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.NoError(t, c.ReserveMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	err := c.ReserveMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimit)
	assert.Equal(t, int64(90), c.MemoryUsage())

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	require.NoError(t, c.ReserveMemory(20))
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_RequestLargerThanLimit(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	err := c.ReserveMemory(11)
	assert.ErrorIs(t, err, ErrMemoryLimit)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.ReserveMemory(1000))
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.ReserveMemory(1<<40))
	assert.NoError(t, c.AcquireIO(context.Background(), 1<<20))
	c.ReleaseMemory(1)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Equal(t, Config{}, c.Config())
}

func TestRateLimitedWriter(t *testing.T) {
	// Burst equals the per-second limit, so a write up to the burst passes
	// immediately and larger writes are split rather than rejected.
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	var buf bytes.Buffer
	w := NewRateLimitedWriter(context.Background(), &buf, c)

	payload := bytes.Repeat([]byte{7}, 1<<10)
	n, err := w.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, buf.Bytes())
}

func TestRateLimitedWriter_Canceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 16})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewRateLimitedWriter(ctx, &bytes.Buffer{}, c)
	_, err := w.Write(make([]byte, 64))
	assert.Error(t, err)
}
