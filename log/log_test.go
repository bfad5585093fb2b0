package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelsWriteThroughToHandler(t *testing.T) {
	original := root
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	Info("hello", "key", "value")
	require.Contains(t, buf.String(), "hello")
	require.Contains(t, buf.String(), "key=value")

	buf.Reset()
	Warn("careful", "n", 3)
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "careful")

	buf.Reset()
	Error("boom")
	require.Contains(t, buf.String(), "level=ERROR")
}
