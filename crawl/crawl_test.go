package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/rexcrawl"
	"github.com/fwojciec/rexcrawl/crawl"
	"github.com/fwojciec/rexcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func links(n int) []rexcrawl.EntryLink {
	out := make([]rexcrawl.EntryLink, 0, n)
	for i := range n {
		out = append(out, rexcrawl.EntryLink{
			Name:     fmt.Sprintf("Entry %d", i),
			URL:      fmt.Sprintf("https://example.com/e%d.html", i),
			Href:     fmt.Sprintf("e%d.html", i),
			Category: rexcrawl.CategoryGeneral,
		})
	}
	return out
}

func okFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			return "<html><body>" + url + "</body></html>", nil
		},
	}
}

func recordExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(_ string, sourceURL, name string) (*rexcrawl.Record, error) {
			return &rexcrawl.Record{Name: name, URL: sourceURL}, nil
		},
	}
}

func pathWriter() *mock.RecordWriter {
	return &mock.RecordWriter{
		WriteRecordFn: func(_ context.Context, r *rexcrawl.Record) (string, error) {
			return "/out/" + rexcrawl.Filename(r.Name), nil
		},
	}
}

func TestCrawler_Discover(t *testing.T) {
	t.Parallel()

	t.Run("returns classified links", func(t *testing.T) {
		t.Parallel()

		var gotHTML string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					assert.Equal(t, "https://example.com/", url)
					return "<html>index</html>", nil
				},
			},
			Classifier: &mock.LinkClassifier{
				ClassifyFn: func(html string) ([]rexcrawl.EntryLink, error) {
					gotHTML = html
					return links(2), nil
				},
			},
			RetryDelays: []time.Duration{0},
		}

		got, err := c.Discover(context.Background(), "https://example.com/")
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "<html>index</html>", gotHTML)
	})

	t.Run("index fetch failure is fatal", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					calls.Add(1)
					return "", errors.New("connection refused")
				},
			},
			Classifier:  &mock.LinkClassifier{},
			RetryDelays: []time.Duration{0, 0},
		}

		_, err := c.Discover(context.Background(), "https://example.com/")
		require.Error(t, err)
		assert.Equal(t, rexcrawl.EFATAL, rexcrawl.ErrorCode(err))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("classifier failure is fatal", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: okFetcher(),
			Classifier: &mock.LinkClassifier{
				ClassifyFn: func(_ string) ([]rexcrawl.EntryLink, error) {
					return nil, rexcrawl.Errorf(rexcrawl.EINVALID, "unparseable")
				},
			},
			RetryDelays: []time.Duration{0},
		}

		_, err := c.Discover(context.Background(), "https://example.com/")
		require.Error(t, err)
		assert.Equal(t, rexcrawl.EFATAL, rexcrawl.ErrorCode(err))
	})
}

func TestCrawler_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes one record per link in link order", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:     okFetcher(),
			Extractor:   recordExtractor(),
			Writer:      pathWriter(),
			RetryDelays: []time.Duration{0},
		}

		in := links(3)
		in[1].Category = rexcrawl.CategoryEnergy

		result, err := c.Run(context.Background(), in, nil)
		require.NoError(t, err)
		require.Len(t, result.Records, 3)
		assert.Equal(t, 0, result.Failed)
		assert.False(t, result.Interrupted)
		assert.Equal(t, "Entry 0", result.Records[0].Name)
		assert.Equal(t, rexcrawl.CategoryEnergy, result.Records[1].Category)
		assert.Equal(t, []string{"/out/Entry_0.txt", "/out/Entry_1.txt", "/out/Entry_2.txt"}, result.Paths)
	})

	t.Run("skips an entry after three failed fetches and continues", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		var waits atomic.Int32
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://example.com/e0.html" {
						attempts.Add(1)
						return "", errors.New("timeout")
					}
					return "<html></html>", nil
				},
			},
			Extractor: recordExtractor(),
			Writer:    pathWriter(),
			Limiter: &mock.Limiter{
				WaitFn: func(_ context.Context) error {
					waits.Add(1)
					return nil
				},
			},
			RetryDelays: []time.Duration{0, 0},
		}

		var events []crawl.ProgressEvent
		result, err := c.Run(context.Background(), links(2), func(e crawl.ProgressEvent) {
			events = append(events, e)
		})
		require.NoError(t, err)
		assert.Equal(t, int32(3), attempts.Load())
		assert.Equal(t, int32(4), waits.Load(), "limiter runs before every attempt")
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "Entry 1", result.Records[0].Name)

		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, crawl.ProgressFailed, events[1].Type)
		assert.Equal(t, rexcrawl.EFETCH, rexcrawl.ErrorCode(events[1].Error))
		assert.Equal(t, crawl.ProgressCompleted, events[2].Type)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)
	})

	t.Run("interrupt after twelve of fifty keeps twelve records", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var written []string
		c := &crawl.Crawler{
			Fetcher:   okFetcher(),
			Extractor: recordExtractor(),
			Writer: &mock.RecordWriter{
				WriteRecordFn: func(_ context.Context, r *rexcrawl.Record) (string, error) {
					written = append(written, r.URL)
					if len(written) == 12 {
						cancel()
					}
					return "/out/" + rexcrawl.Filename(r.Name), nil
				},
			},
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Run(ctx, links(50), nil)
		require.NoError(t, err)
		assert.True(t, result.Interrupted)
		assert.Len(t, written, 12)
		assert.Len(t, result.Records, 12)
		assert.Equal(t, 0, result.Failed)
	})

	t.Run("fetch interrupted by cancellation is not a failure", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, _ string) (string, error) {
					cancel()
					return "", ctx.Err()
				},
			},
			Extractor:   recordExtractor(),
			Writer:      pathWriter(),
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Run(ctx, links(3), nil)
		require.NoError(t, err)
		assert.True(t, result.Interrupted)
		assert.Equal(t, 0, result.Failed)
		assert.Empty(t, result.Records)
	})

	t.Run("visits a repeated URL at most once", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int32
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					fetches.Add(1)
					return "<html></html>", nil
				},
			},
			Extractor:   recordExtractor(),
			Writer:      pathWriter(),
			RetryDelays: []time.Duration{0},
		}

		in := links(2)
		in = append(in, in[0])

		result, err := c.Run(context.Background(), in, nil)
		require.NoError(t, err)
		assert.Equal(t, int32(2), fetches.Load())
		assert.Equal(t, 1, result.Skipped)
		assert.Len(t, result.Records, 2)
	})

	t.Run("partial extraction is still written", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: okFetcher(),
			Extractor: &mock.Extractor{
				ExtractFn: func(_ string, sourceURL, name string) (*rexcrawl.Record, error) {
					return &rexcrawl.Record{Name: name, URL: sourceURL},
						rexcrawl.Errorf(rexcrawl.EEXTRACT, "bad markup")
				},
			},
			Writer:      pathWriter(),
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Run(context.Background(), links(1), nil)
		require.NoError(t, err)
		assert.Len(t, result.Records, 1)
		assert.Equal(t, 0, result.Failed)
	})

	t.Run("write failure counts as failed", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher:   okFetcher(),
			Extractor: recordExtractor(),
			Writer: &mock.RecordWriter{
				WriteRecordFn: func(_ context.Context, _ *rexcrawl.Record) (string, error) {
					return "", errors.New("disk full")
				},
			},
			RetryDelays: []time.Duration{0},
		}

		var failure error
		result, err := c.Run(context.Background(), links(1), func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressFailed {
				failure = e.Error
			}
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, rexcrawl.EWRITE, rexcrawl.ErrorCode(failure))
	})

	t.Run("resume skips indexed URLs and indexes new ones", func(t *testing.T) {
		t.Parallel()

		var put []string
		c := &crawl.Crawler{
			Fetcher:   okFetcher(),
			Extractor: recordExtractor(),
			Writer:    pathWriter(),
			Index: &mock.RecordIndex{
				HasFn: func(_ context.Context, url string) (bool, error) {
					return url == "https://example.com/e0.html", nil
				},
				PutFn: func(_ context.Context, r *rexcrawl.Record, path string) error {
					put = append(put, r.URL+"="+path)
					return nil
				},
			},
			Resume:      true,
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Run(context.Background(), links(2), nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		require.Len(t, result.Records, 1)
		assert.Equal(t, []string{"https://example.com/e1.html=/out/Entry_1.txt"}, put)
	})

	t.Run("worker pool preserves link order and counts", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		inFlight, maxInFlight := 0, 0
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					mu.Lock()
					inFlight++
					maxInFlight = max(maxInFlight, inFlight)
					mu.Unlock()
					time.Sleep(5 * time.Millisecond)
					mu.Lock()
					inFlight--
					mu.Unlock()
					return url, nil
				},
			},
			Extractor:   recordExtractor(),
			Writer:      pathWriter(),
			Concurrency: 3,
			RetryDelays: []time.Duration{0},
		}

		result, err := c.Run(context.Background(), links(10), nil)
		require.NoError(t, err)
		require.Len(t, result.Records, 10)
		for i, r := range result.Records {
			assert.Equal(t, fmt.Sprintf("Entry %d", i), r.Name)
		}
		assert.LessOrEqual(t, maxInFlight, 3)
	})

	t.Run("empty link list finishes immediately", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{}
		result, err := c.Run(context.Background(), nil, nil)
		require.NoError(t, err)
		assert.Empty(t, result.Records)
		assert.False(t, result.Interrupted)
	})
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	result := &crawl.Result{
		Records: []*rexcrawl.Record{
			{Name: "A", URL: "https://example.com/a.html", Category: rexcrawl.CategoryEnergy, Patents: []string{"1234567"}, FullContent: "short"},
			{Name: "B", URL: "https://example.com/b.html", Category: rexcrawl.CategoryEnergy, FullContent: "much longer content"},
		},
		Failed:  2,
		Skipped: 1,
	}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s := crawl.Summarize(result, "https://example.com/", 5, 1, now)

	assert.NotEmpty(t, s.RunID)
	assert.Equal(t, now, s.CrawledAt)
	assert.Equal(t, "https://example.com/", s.SourceURL)
	assert.Equal(t, 5, s.TotalLinks)
	assert.Equal(t, 2, s.TotalRecords)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 2, s.Categories[rexcrawl.CategoryEnergy])
	assert.Equal(t, 1, s.TotalPatents)
	require.Len(t, s.Top, 1)
	assert.Equal(t, "B", s.Top[0].Name)
}
