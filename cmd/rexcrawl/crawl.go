package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fwojciec/rexcrawl"
	"github.com/fwojciec/rexcrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	links, err := deps.Crawler.Discover(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rexcrawl.ErrorMessage(err))
		return err
	}
	if len(links) == 0 {
		return rexcrawl.Errorf(rexcrawl.ENOTFOUND, "no entry links found at %s", c.URL)
	}

	fmt.Fprintf(deps.Stdout, "Found %d entry links\n", len(links))
	printCategories(deps, rexcrawl.CountByCategory(links), len(links))

	selected := rexcrawl.FilterByCategory(links, c.Category)
	if c.MaxEntries > 0 && len(selected) > c.MaxEntries {
		selected = selected[:c.MaxEntries]
	}

	if c.Preview {
		return c.runPreview(deps, selected)
	}
	return c.runCrawl(deps, selected)
}

func (c *CrawlCmd) runPreview(deps *Dependencies, links []rexcrawl.EntryLink) error {
	shown := links[:min(previewEntries, len(links))]
	fmt.Fprintf(deps.Stdout, "\nFirst %d of %d links:\n", len(shown), len(links))
	renderLinks(deps.Stdout, shown)
	if rest := len(links) - len(shown); rest > 0 {
		fmt.Fprintf(deps.Stdout, "  ... and %d more\n", rest)
	}
	return nil
}

func (c *CrawlCmd) runCrawl(deps *Dependencies, links []rexcrawl.EntryLink) error {
	if len(links) == 0 {
		return rexcrawl.Errorf(rexcrawl.ENOTFOUND, "no entry links match category %q", c.Category)
	}

	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", e.Completed, e.Total, e.Name)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] skip %s (%s): %v\n", e.Completed, e.Total, e.Name, shortURL(e.URL), e.Error)
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stdout, "[%d/%d] already done %s\n", e.Completed, e.Total, e.Name)
		}
	}

	result, err := deps.Crawler.Run(deps.Ctx, links, progress)
	if err != nil {
		return err
	}

	top := c.Top
	if top <= 0 {
		top = rexcrawl.DefaultTopN
	}
	summary := crawl.Summarize(result, c.URL, len(links), top, deps.Now())

	printReport(deps, summary)

	if len(result.Records) > 0 {
		// Summaries are written even when the run was interrupted.
		paths, err := deps.Summaries.WriteSummary(context.WithoutCancel(deps.Ctx), summary)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error writing summary: %v\n", err)
		}
		if len(paths) > 0 {
			fmt.Fprintln(deps.Stdout, "\nSummary files:")
			for _, p := range paths {
				fmt.Fprintf(deps.Stdout, "  - %s\n", p)
			}
		}
	}

	if result.Interrupted {
		fmt.Fprintf(deps.Stdout, "\nInterrupted: %d records kept\n", len(result.Records))
		return nil
	}
	if len(result.Records) == 0 && result.Failed > 0 {
		return rexcrawl.Errorf(rexcrawl.EFATAL, "no records produced from %d links", len(links))
	}
	return nil
}

func printReport(deps *Dependencies, s *rexcrawl.Summary) {
	fmt.Fprintf(deps.Stdout, "\nSaved %d records (%d failed, %d skipped) of %d links\n",
		s.TotalRecords, s.Failed, s.Skipped, s.TotalLinks)
	if s.TotalLinks > 0 {
		fmt.Fprintf(deps.Stdout, "Success rate: %.1f%%\n", 100*float64(s.TotalRecords)/float64(s.TotalLinks))
	}
	fmt.Fprintf(deps.Stdout, "Patents: %d, images: %d\n", s.TotalPatents, s.TotalImages)
	if s.TotalRecords > 0 {
		printCategories(deps, s.Categories, s.TotalRecords)
	}

	if len(s.Top) > 0 {
		fmt.Fprintf(deps.Stdout, "\nTop %d by content length:\n", len(s.Top))
		renderTop(deps.Stdout, s.Top)
	}
}

func printCategories(deps *Dependencies, counts map[rexcrawl.Category]int, total int) {
	fmt.Fprintln(deps.Stdout, "Categories:")
	renderCategories(deps.Stdout, counts, total)
}

// truncate shortens s to at most n characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// shortURL shows only the path of a URL.
func shortURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return rawURL
	}
	return u.Path
}
