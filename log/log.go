// Package log is a minimal structured logger used by the coordinator to
// report invariant violations and best-effort diagnostics. The calling
// convention (message, then alternating key/value pairs) mirrors the
// logger the teacher package already calls as github.com/ethereum/go-ethereum/log.
package log

import (
	"context"
	"log/slog"
	"os"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetDefault replaces the package-level logger, e.g. to capture output in tests.
func SetDefault(l *slog.Logger) {
	root = l
}

func Debug(msg string, kv ...any) {
	root.Log(context.Background(), slog.LevelDebug, msg, kv...)
}

func Info(msg string, kv ...any) {
	root.Log(context.Background(), slog.LevelInfo, msg, kv...)
}

func Warn(msg string, kv ...any) {
	root.Log(context.Background(), slog.LevelWarn, msg, kv...)
}

func Error(msg string, kv ...any) {
	root.Log(context.Background(), slog.LevelError, msg, kv...)
}
