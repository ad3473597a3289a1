package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/rexcrawl"
	"github.com/fwojciec/rexcrawl/crawl"
)

const (
	// DefaultIndexURL is the index page crawled when no URL is given.
	DefaultIndexURL = "https://www.rexresearch.com/invnindx.html"

	defaultDBName  = ".rexcrawl.db"
	testEntries    = 5
	previewEntries = 10
)

// CLI defines the command-line interface structure for Kong.
// Every flag can also be set through a REXCRAWL_* environment variable.
type CLI struct {
	URL         string        `default:"https://www.rexresearch.com/invnindx.html" help:"Index page URL"`
	MaxEntries  int           `short:"n" default:"0" help:"Maximum entries to crawl (0 = unlimited)"`
	DelayMin    time.Duration `default:"1s" help:"Minimum delay between requests"`
	DelayMax    time.Duration `default:"3s" help:"Maximum delay between requests"`
	Output      string        `short:"o" default:"rex_inventions" help:"Output directory"`
	Category    string        `help:"Only crawl entries in this category (energy, medical, transport, general)"`
	Preview     bool          `short:"p" aliases:"dry-run" help:"List discovered links without crawling"`
	List        bool          `short:"l" help:"Show records in the run index and exit"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
	Test        bool          `help:"Crawl only the first 5 entries"`
	Resume      bool          `help:"Skip entries already written by a previous run"`
	Concurrency int           `short:"c" default:"1" help:"Entries processed in parallel"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Robots      bool          `help:"Skip pages disallowed by the site's robots.txt"`
	DB          string        `help:"Run index database (default: <output>/.rexcrawl.db)"`
	LogFile     string        `help:"Also write logs to this file"`
	Top         int           `default:"5" help:"Number of entries in the content-length ranking"`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Crawler   *crawl.Crawler
	Summaries rexcrawl.SummaryWriter
	Now       func() time.Time
}

// CrawlCmd handles the crawl operation.
type CrawlCmd struct {
	URL        string
	Category   rexcrawl.Category
	MaxEntries int
	Preview    bool
	Top        int
}
