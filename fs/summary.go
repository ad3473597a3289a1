package fs

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/rexcrawl"
)

// Summary artifact name prefixes.
const (
	DataPrefix     = "rex_research_data"
	SectionsPrefix = "rex_research_sections"
)

// timestampLayout is used in summary filenames.
const timestampLayout = "20060102_150405"

// Ensure SummaryWriter implements rexcrawl.SummaryWriter at compile time.
var _ rexcrawl.SummaryWriter = (*SummaryWriter)(nil)

// SummaryWriter writes the aggregate artifacts of a run: a JSON document with
// run metadata and every record, a CSV with one row per record and a CSV
// with one row per structured-section block.
type SummaryWriter struct {
	dir string
}

// NewSummaryWriter creates a SummaryWriter that writes into dir.
func NewSummaryWriter(dir string) *SummaryWriter {
	return &SummaryWriter{dir: dir}
}

// WriteSummary writes the summary files and returns their paths.
func (w *SummaryWriter) WriteSummary(ctx context.Context, s *rexcrawl.Summary) ([]string, error) {
	ts := s.CrawledAt.Format(timestampLayout)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, rexcrawl.WrapError(rexcrawl.EWRITE, err, "encode summary")
	}

	records, err := recordsCSV(s.Records)
	if err != nil {
		return nil, rexcrawl.WrapError(rexcrawl.EWRITE, err, "encode records csv")
	}

	sections, err := sectionsCSV(s.Records)
	if err != nil {
		return nil, rexcrawl.WrapError(rexcrawl.EWRITE, err, "encode sections csv")
	}

	files := []struct {
		name string
		data []byte
	}{
		{DataPrefix + "_" + ts + ".json", data},
		{DataPrefix + "_" + ts + ".csv", records},
		{SectionsPrefix + "_" + ts + ".csv", sections},
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, rexcrawl.WrapError(rexcrawl.EWRITE, err, "create output directory")
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(w.dir, f.name)
		if err := writeFileAtomic(path, f.data); err != nil {
			return paths, rexcrawl.WrapError(rexcrawl.EWRITE, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

var recordsHeader = []string{
	"name", "url", "title", "category", "description",
	"patent_count", "patents", "image_count", "diagram_count",
	"reference_count", "technical_detail_count", "content_length", "extracted_at",
}

func recordsCSV(records []*rexcrawl.Record) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(recordsHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.Name,
			r.URL,
			r.Title,
			string(r.Category),
			r.MetaDescription,
			strconv.Itoa(len(r.Patents)),
			strings.Join(r.Patents, ", "),
			strconv.Itoa(len(r.Images)),
			strconv.Itoa(len(r.Diagrams)),
			strconv.Itoa(len(r.References)),
			strconv.Itoa(len(r.TechnicalDetails)),
			strconv.Itoa(r.ContentLength()),
			r.ExtractedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

var sectionsHeader = []string{"name", "url", "heading", "position", "text"}

func sectionsCSV(records []*rexcrawl.Record) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(sectionsHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		for _, s := range r.Sections {
			for i, block := range s.Blocks {
				row := []string{r.Name, r.URL, s.Heading, strconv.Itoa(i + 1), block}
				if err := cw.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}
