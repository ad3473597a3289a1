package rexcrawl

import (
	"context"
	"sort"
	"time"
)

// DefaultTopN is the size of the content-length ranking in summaries.
const DefaultTopN = 5

// RankedRecord is one row of the content-length ranking.
type RankedRecord struct {
	Name          string   `json:"name"`
	URL           string   `json:"url"`
	Category      Category `json:"category"`
	ContentLength int      `json:"contentLength"`
	PatentCount   int      `json:"patentCount"`
	ImageCount    int      `json:"imageCount"`
}

// Summary aggregates the outcome of one run.
type Summary struct {
	RunID        string           `json:"runId"`
	CrawledAt    time.Time        `json:"crawledAt"`
	SourceURL    string           `json:"sourceUrl"`
	TotalLinks   int              `json:"totalLinks"`
	TotalRecords int              `json:"totalRecords"`
	Failed       int              `json:"failed"`
	Skipped      int              `json:"skipped"`
	Categories   map[Category]int `json:"categories"`
	TotalPatents int              `json:"totalPatents"`
	TotalImages  int              `json:"totalImages"`
	Top          []RankedRecord   `json:"topByContentLength"`
	Records      []*Record        `json:"records"`
}

// SummaryWriter persists the aggregate artifacts of a run.
type SummaryWriter interface {
	// WriteSummary writes the summary and returns the paths it created.
	WriteSummary(ctx context.Context, s *Summary) ([]string, error)
}

// Summarize computes run totals and the top-n ranking by content length.
// Run metadata (ID, source URL, link and failure counts) is left for the
// caller to fill in.
func Summarize(records []*Record, n int) *Summary {
	s := &Summary{
		TotalRecords: len(records),
		Categories:   make(map[Category]int),
		Records:      records,
	}
	for _, r := range records {
		s.Categories[r.Category]++
		s.TotalPatents += len(r.Patents)
		s.TotalImages += r.ImageCount()
	}
	s.Top = TopByContentLength(records, n)
	return s
}

// TopByContentLength ranks records by full content length, longest first.
// Ties keep their original order.
func TopByContentLength(records []*Record, n int) []RankedRecord {
	ranked := make([]RankedRecord, 0, len(records))
	for _, r := range records {
		ranked = append(ranked, RankedRecord{
			Name:          r.Name,
			URL:           r.URL,
			Category:      r.Category,
			ContentLength: r.ContentLength(),
			PatentCount:   len(r.Patents),
			ImageCount:    r.ImageCount(),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ContentLength > ranked[j].ContentLength
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
