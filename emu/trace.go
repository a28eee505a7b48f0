package emu

import (
	"context"
	"log/slog"
)

// LevelTrace is the log level of per-instruction records.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs msg at LevelTrace on logger.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}
