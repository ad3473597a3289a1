package rexcrawl

import "context"

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch performs a single request and returns the body decoded to UTF-8.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Limiter paces outgoing requests.
// One Limiter is shared by every worker of a run.
type Limiter interface {
	// Wait blocks until the next request may start.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
