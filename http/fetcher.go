// Package http provides an HTTP-based implementation of rexcrawl.Fetcher
// for static sites that don't require JavaScript rendering.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/rexcrawl"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

// DefaultFetchTimeout is the default connect-plus-read timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxBodyBytes caps the size of a fetched page.
const maxBodyBytes = 32 << 20

// Ensure Fetcher implements rexcrawl.Fetcher at compile time.
var _ rexcrawl.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Bodies in legacy encodings such as windows-1252 or Shift_JIS are decoded
// to UTF-8 using the Content-Type header and <meta> charset hints, then
// normalized to NFC.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	robots    bool
	checker   *RobotsChecker
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRobots makes the fetcher refuse URLs disallowed by the host's robots.txt.
func WithRobots() Option {
	return func(f *Fetcher) {
		f.robots = true
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}
	if f.robots {
		f.checker = NewRobotsChecker(f.client, f.userAgent)
	}

	return f
}

// Fetch retrieves the page at url and returns its body as UTF-8.
// Any non-2xx status is an error. A URL disallowed by robots.txt fails with
// EDISALLOWED without being requested.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.checker != nil {
		ok, err := f.checker.Allowed(ctx, url)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", rexcrawl.Errorf(rexcrawl.EDISALLOWED, "disallowed by robots.txt: %s", url)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", url, err)
	}

	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	return norm.NFC.String(string(b)), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
