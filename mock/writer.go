package mock

import (
	"context"

	"github.com/fwojciec/rexcrawl"
)

var _ rexcrawl.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of rexcrawl.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, r *rexcrawl.Record) (string, error)
}

func (w *RecordWriter) WriteRecord(ctx context.Context, r *rexcrawl.Record) (string, error) {
	return w.WriteRecordFn(ctx, r)
}

var _ rexcrawl.SummaryWriter = (*SummaryWriter)(nil)

// SummaryWriter is a mock implementation of rexcrawl.SummaryWriter.
type SummaryWriter struct {
	WriteSummaryFn func(ctx context.Context, s *rexcrawl.Summary) ([]string, error)
}

func (w *SummaryWriter) WriteSummary(ctx context.Context, s *rexcrawl.Summary) ([]string, error) {
	return w.WriteSummaryFn(ctx, s)
}
