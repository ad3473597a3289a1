package crawl

import (
	"time"

	"github.com/fwojciec/rexcrawl"
	"github.com/google/uuid"
)

// Summarize builds the run summary for result. totalLinks is the number of
// links selected for the run and topN the size of the content-length ranking.
func Summarize(result *Result, sourceURL string, totalLinks, topN int, now time.Time) *rexcrawl.Summary {
	s := rexcrawl.Summarize(result.Records, topN)
	s.RunID = uuid.NewString()
	s.CrawledAt = now
	s.SourceURL = sourceURL
	s.TotalLinks = totalLinks
	s.Failed = result.Failed
	s.Skipped = result.Skipped
	return s
}
