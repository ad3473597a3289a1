// Package slog provides logging decorators for rexcrawl services.
package slog

import (
	"context"
	"log/slog"
)

// log writes msg at Debug on success and at Warn on failure.
func log(ctx context.Context, logger *slog.Logger, msg string, err error, args ...any) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
		args = append(args, "err", err)
	}
	logger.Log(ctx, level, msg, args...)
}
