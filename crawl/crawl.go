// Package crawl coordinates a run: it fetches the index page, hands it to the
// link classifier, and then fetches, extracts and writes every entry.
package crawl

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/rexcrawl"
	"golang.org/x/sync/errgroup"
)

// Crawler runs the entry pipeline over a list of discovered links.
type Crawler struct {
	Fetcher    rexcrawl.Fetcher
	Classifier rexcrawl.LinkClassifier
	Extractor  rexcrawl.Extractor
	Writer     rexcrawl.RecordWriter

	// Index is optional. When set, written records are registered in it
	// and, with Resume, URLs already present are skipped.
	Index  rexcrawl.RecordIndex
	Resume bool

	// Limiter is optional and shared by all workers.
	Limiter rexcrawl.Limiter
	Logger  *slog.Logger

	// Concurrency bounds the number of entries in flight. Values below 1
	// mean sequential processing.
	Concurrency int
	RetryDelays []time.Duration
}

// Result holds the outcome of a run.
type Result struct {
	// Records are the written records in link order.
	Records []*rexcrawl.Record
	Paths   []string
	Failed  int
	Skipped int

	// Interrupted is set when the context was canceled before every link
	// was attempted.
	Interrupted bool
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Name      string
	URL       string
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// entryResult holds the outcome of processing a single link.
type entryResult struct {
	record      *rexcrawl.Record
	path        string
	skipped     bool
	interrupted bool
	err         error
}

// Discover fetches the index page and returns its entry links.
// Any failure here ends the run and is reported as EFATAL.
func (c *Crawler) Discover(ctx context.Context, indexURL string) ([]rexcrawl.EntryLink, error) {
	html, err := FetchWithRetryDelays(ctx, indexURL, c.fetch, c.logger(), c.retryDelays())
	if err != nil {
		return nil, rexcrawl.WrapError(rexcrawl.EFATAL, err, "fetch index %s", indexURL)
	}

	links, err := c.Classifier.Classify(html)
	if err != nil {
		return nil, rexcrawl.WrapError(rexcrawl.EFATAL, err, "classify index %s", indexURL)
	}

	c.logger().Info("discovered", "url", indexURL, "links", len(links))
	return links, nil
}

// Run processes links in order. Failed entries are counted and skipped.
// When ctx is canceled no further entry is started; records already
// written are kept and returned with Interrupted set.
func (c *Crawler) Run(ctx context.Context, links []rexcrawl.EntryLink, progress ProgressFunc) (*Result, error) {
	var mu sync.Mutex
	report := func(e ProgressEvent) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		progress(e)
	}

	total := len(links)
	report(ProgressEvent{Type: ProgressStarted, Total: total})

	concurrency := c.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*entryResult, total)
	visited := newVisitedSet()
	var completed atomic.Int64
	interrupted := false

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, link := range links {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		g.Go(func() error {
			res := c.processLink(ctx, link, visited)
			results[i] = res
			if res.interrupted {
				return nil
			}

			event := ProgressEvent{
				Completed: int(completed.Add(1)),
				Total:     total,
				Name:      link.Name,
				URL:       link.URL,
				Path:      res.path,
				Error:     res.err,
			}
			switch {
			case res.skipped:
				event.Type = ProgressSkipped
			case res.err != nil:
				event.Type = ProgressFailed
			default:
				event.Type = ProgressCompleted
			}
			report(event)
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{}
	for _, res := range results {
		switch {
		case res == nil, res.interrupted:
			interrupted = true
		case res.skipped:
			result.Skipped++
		case res.err != nil:
			result.Failed++
		default:
			result.Records = append(result.Records, res.record)
			result.Paths = append(result.Paths, res.path)
		}
	}
	result.Interrupted = interrupted

	report(ProgressEvent{
		Type:      ProgressFinished,
		Completed: int(completed.Load()),
		Total:     total,
	})

	return result, nil
}

// processLink fetches, extracts and writes a single entry.
func (c *Crawler) processLink(ctx context.Context, link rexcrawl.EntryLink, visited *visitedSet) *entryResult {
	if !visited.claim(link.URL) {
		return &entryResult{skipped: true}
	}

	if c.Resume && c.Index != nil {
		ok, err := c.Index.Has(ctx, link.URL)
		if err != nil {
			c.logger().Warn("index lookup failed", "url", link.URL, "error", err)
		} else if ok {
			return &entryResult{skipped: true}
		}
	}

	html, err := FetchWithRetryDelays(ctx, link.URL, c.fetch, c.logger(), c.retryDelays())
	if err != nil {
		if ctx.Err() != nil {
			return &entryResult{interrupted: true}
		}
		return &entryResult{err: rexcrawl.WrapError(rexcrawl.EFETCH, err, "fetch %s", link.URL)}
	}

	record, err := c.Extractor.Extract(html, link.URL, link.Name)
	if record == nil {
		if err == nil {
			err = rexcrawl.Errorf(rexcrawl.EEXTRACT, "no record for %s", link.URL)
		}
		return &entryResult{err: err}
	}
	if err != nil {
		c.logger().Warn("partial extraction", "url", link.URL, "error", err)
	}
	record.Category = link.Category

	// A fetched record is flushed even if the run is being interrupted.
	wctx := context.WithoutCancel(ctx)
	path, err := c.Writer.WriteRecord(wctx, record)
	if err != nil {
		return &entryResult{err: rexcrawl.WrapError(rexcrawl.EWRITE, err, "write %s", link.URL)}
	}

	if c.Index != nil {
		if err := c.Index.Put(wctx, record, path); err != nil {
			c.logger().Warn("index update failed", "url", link.URL, "error", err)
		}
	}

	return &entryResult{record: record, path: path}
}

// fetch waits for the politeness limiter before every attempt.
func (c *Crawler) fetch(ctx context.Context, url string) (string, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	return c.Fetcher.Fetch(ctx, url)
}

func (c *Crawler) retryDelays() []time.Duration {
	if c.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return c.RetryDelays
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// visitedSet guarantees each URL is attempted at most once per run.
type visitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newVisitedSet() *visitedSet {
	return &visitedSet{seen: make(map[string]struct{})}
}

// claim marks url as visited and reports whether the caller got it first.
func (v *visitedSet) claim(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[url]; ok {
		return false
	}
	v.seen[url] = struct{}{}
	return true
}
