package mock

import (
	"context"

	"github.com/fwojciec/rexcrawl"
)

var _ rexcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of rexcrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ rexcrawl.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of rexcrawl.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
