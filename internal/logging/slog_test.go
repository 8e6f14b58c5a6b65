package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTextLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTextLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "fanout", "width", 3)
	log.Info(ctx, "post created", "post_id", 7)
	log.Warn(ctx, "dangling post", "post_id", 9)
	log.Error(ctx, "backend down", "attempt", 1)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=fanout", "width=3",
		"level=INFO", `msg="post created"`, "post_id=7",
		"level=WARN", `msg="dangling post"`, "post_id=9",
		"level=ERROR", `msg="backend down"`, "attempt=1",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_WithAddsModule(t *testing.T) {
	log, buf := newTextLogger(t)

	log.With("module", "timeline").Info(context.Background(), "hello", "user_id", "1")

	out := buf.String()
	assert.Contains(t, out, "module=timeline")
	assert.Contains(t, out, "user_id=1")
}

func TestNewJSONLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, slog.LevelInfo)
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "shown", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestNewNopLogger_DoesNotPanic(t *testing.T) {
	log := NewNopLogger()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
	assert.NotNil(t, log.Slog())
}
