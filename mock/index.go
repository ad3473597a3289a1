package mock

import (
	"context"

	"github.com/fwojciec/rexcrawl"
)

var _ rexcrawl.RecordIndex = (*RecordIndex)(nil)

// RecordIndex is a mock implementation of rexcrawl.RecordIndex.
type RecordIndex struct {
	HasFn         func(ctx context.Context, url string) (bool, error)
	PutFn         func(ctx context.Context, r *rexcrawl.Record, path string) error
	FindEntriesFn func(ctx context.Context, filter rexcrawl.IndexFilter) ([]*rexcrawl.IndexEntry, error)
}

func (i *RecordIndex) Has(ctx context.Context, url string) (bool, error) {
	return i.HasFn(ctx, url)
}

func (i *RecordIndex) Put(ctx context.Context, r *rexcrawl.Record, path string) error {
	return i.PutFn(ctx, r, path)
}

func (i *RecordIndex) FindEntries(ctx context.Context, filter rexcrawl.IndexFilter) ([]*rexcrawl.IndexEntry, error) {
	return i.FindEntriesFn(ctx, filter)
}
