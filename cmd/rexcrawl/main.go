package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rexcrawl"
	"github.com/fwojciec/rexcrawl/ahocorasick"
	"github.com/fwojciec/rexcrawl/crawl"
	"github.com/fwojciec/rexcrawl/fs"
	"github.com/fwojciec/rexcrawl/goquery"
	rexhttp "github.com/fwojciec/rexcrawl/http"
	rexslog "github.com/fwojciec/rexcrawl/slog"
	"github.com/fwojciec/rexcrawl/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Now: time.Now}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("rexcrawl"),
		kong.Description("Crawl an index site and write one text record per entry"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.DefaultEnvars("REXCRAWL"),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	category, err := rexcrawl.ParseCategory(cli.Category)
	if err != nil {
		return err
	}
	if cli.DelayMax < cli.DelayMin {
		return rexcrawl.Errorf(rexcrawl.EINVALID, "delay-max must not be less than delay-min")
	}
	if cli.Test {
		cli.MaxEntries = testEntries
	}

	logger, closeLog, err := newLogger(stderr, cli.LogFile, cli.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	categorizer := ahocorasick.NewDefaultCategorizer()
	classifier, err := goquery.NewClassifier(cli.URL, categorizer)
	if err != nil {
		return err
	}

	fetchOpts := []rexhttp.Option{rexhttp.WithTimeout(cli.Timeout)}
	if cli.Robots {
		fetchOpts = append(fetchOpts, rexhttp.WithRobots())
	}
	fetcher := rexslog.NewLoggingFetcher(rexhttp.NewFetcher(fetchOpts...), logger)
	defer fetcher.Close()

	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    logger,
		Summaries: fs.NewSummaryWriter(cli.Output),
		Now:       m.Now,
		Crawler: &crawl.Crawler{
			Fetcher:    fetcher,
			Classifier: classifier,
			Extractor: goquery.NewExtractor(
				ahocorasick.NewDefaultImageClassifier(),
				ahocorasick.NewPrincipleMatcher(),
			),
			Writer:      rexslog.NewLoggingRecordWriter(fs.NewRecordWriter(cli.Output), logger),
			Limiter:     crawl.NewPoliteness(cli.DelayMin, cli.DelayMax),
			Logger:      logger,
			Concurrency: cli.Concurrency,
			Resume:      cli.Resume,
		},
	}

	// The run index is only needed when records are written or listed.
	if !cli.Preview || cli.List {
		if err := os.MkdirAll(cli.Output, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		dbPath := cli.DB
		if dbPath == "" {
			dbPath = filepath.Join(cli.Output, defaultDBName)
		}
		db := sqlite.NewDB(dbPath)
		if err := db.Open(); err != nil {
			return err
		}
		defer db.Close()
		deps.Crawler.Index = rexslog.NewLoggingRecordIndex(sqlite.NewRecordIndex(db), logger)
	}

	if cli.List {
		list := &ListCmd{Category: category, Limit: cli.MaxEntries}
		return list.Run(deps)
	}

	cmd := &CrawlCmd{
		URL:        cli.URL,
		Category:   category,
		MaxEntries: cli.MaxEntries,
		Preview:    cli.Preview,
		Top:        cli.Top,
	}

	return cmd.Run(deps)
}

// newLogger builds the run logger. Records go to stderr and, when path is
// set, also to a log file.
func newLogger(stderr io.Writer, path string, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	w := stderr
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(stderr, f)
		closeFn = func() { _ = f.Close() }
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}
