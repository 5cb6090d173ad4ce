package binvec

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	sl := l.WithStage(StageBase).WithPath("/data/base.i8bin")
	sl.LogLoad(ctx, 2048, [2]int{2, 1024}, nil)
	sl.LogSave(ctx, "/data/base.i8bin.npy", 2176, 0xdeadbeef, nil)

	out := buf.String()
	assert.Contains(t, out, "stage=base")
	assert.Contains(t, out, "path=/data/base.i8bin")
	assert.Contains(t, out, `msg=loaded`)
	assert.Contains(t, out, `size="2.0 KiB"`)
	assert.Contains(t, out, "rows=2")
	assert.Contains(t, out, "msg=saved")
	assert.Contains(t, out, "crc32c=3735928559")

	buf.Reset()
	sl.LogLoad(ctx, 0, [2]int{}, errors.New("boom"))
	sl.LogSave(ctx, "x.npy", 0, 0, errors.New("disk full"))
	out = buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, `msg="load failed"`)
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, `error="disk full"`)
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestNewLogger_DefaultHandler(t *testing.T) {
	l := NewLogger(nil)
	assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
}
