package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Init(level, &buf))
	t.Cleanup(func() { _ = Init("info", os.Stderr) })
	return &buf
}

func TestInitFiltersByLevel(t *testing.T) {
	buf := capture(t, "warn")
	ctx := context.Background()

	Get().Info(ctx, "hidden")
	Get().Warn(ctx, "shown", Int("frames", 3))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "frames=3")
}

func TestNamedAddsLoggerAttr(t *testing.T) {
	buf := capture(t, "debug")

	Named("timeline").With(String("game", "G1")).Debug(context.Background(), "built",
		Error(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "logger=timeline")
	assert.Contains(t, out, "game=G1")
	assert.Contains(t, out, "error=boom")
}

func TestSetLevelString(t *testing.T) {
	t.Cleanup(func() { _ = SetLevelString("info") })

	for _, lvl := range []string{"debug", "INFO", " warning ", "error", ""} {
		assert.NoError(t, SetLevelString(lvl), lvl)
	}
	assert.Error(t, SetLevelString("verbose"))
}
