package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rexcrawl"
)

// Ensure LoggingRecordIndex implements rexcrawl.RecordIndex.
var _ rexcrawl.RecordIndex = (*LoggingRecordIndex)(nil)

// LoggingRecordIndex wraps a RecordIndex with logging.
type LoggingRecordIndex struct {
	next   rexcrawl.RecordIndex
	logger *slog.Logger
}

// NewLoggingRecordIndex creates a new LoggingRecordIndex.
func NewLoggingRecordIndex(next rexcrawl.RecordIndex, logger *slog.Logger) *LoggingRecordIndex {
	return &LoggingRecordIndex{next: next, logger: logger}
}

func (i *LoggingRecordIndex) Has(ctx context.Context, url string) (ok bool, err error) {
	defer func(begin time.Time) {
		log(ctx, i.logger, "index lookup", err,
			"url", url,
			"found", ok,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return i.next.Has(ctx, url)
}

func (i *LoggingRecordIndex) Put(ctx context.Context, r *rexcrawl.Record, path string) (err error) {
	defer func(begin time.Time) {
		log(ctx, i.logger, "index put", err,
			"url", r.URL,
			"path", path,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return i.next.Put(ctx, r, path)
}

func (i *LoggingRecordIndex) FindEntries(ctx context.Context, filter rexcrawl.IndexFilter) (entries []*rexcrawl.IndexEntry, err error) {
	defer func(begin time.Time) {
		log(ctx, i.logger, "index find", err,
			"count", len(entries),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return i.next.FindEntries(ctx, filter)
}
