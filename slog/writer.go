package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rexcrawl"
)

// Ensure LoggingRecordWriter implements rexcrawl.RecordWriter.
var _ rexcrawl.RecordWriter = (*LoggingRecordWriter)(nil)

// LoggingRecordWriter wraps a RecordWriter with logging.
type LoggingRecordWriter struct {
	next   rexcrawl.RecordWriter
	logger *slog.Logger
}

// NewLoggingRecordWriter creates a new LoggingRecordWriter.
func NewLoggingRecordWriter(next rexcrawl.RecordWriter, logger *slog.Logger) *LoggingRecordWriter {
	return &LoggingRecordWriter{next: next, logger: logger}
}

// WriteRecord delegates to the wrapped writer and logs the outcome.
func (w *LoggingRecordWriter) WriteRecord(ctx context.Context, r *rexcrawl.Record) (path string, err error) {
	defer func(begin time.Time) {
		log(ctx, w.logger, "write record", err,
			"name", r.Name,
			"url", r.URL,
			"path", path,
			"patents", len(r.Patents),
			"images", r.ImageCount(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return w.next.WriteRecord(ctx, r)
}
