package rexcrawl

import (
	"context"
	"time"
	"unicode/utf8"
)

// ImageKind classifies an image found on a detail page.
type ImageKind string

// Image kinds. Diagrams are stored apart from the other kinds.
const (
	ImageKindDiagram ImageKind = "diagram"
	ImageKindPhoto   ImageKind = "photo"
	ImageKindImage   ImageKind = "image"
)

// ImageRef describes one <img> element on a detail page.
type ImageRef struct {
	URL      string    `json:"url"`
	Filename string    `json:"filename"`
	AltText  string    `json:"altText"`
	Title    string    `json:"title"`
	Kind     ImageKind `json:"kind"`
}

// Reference is an outbound link found on a detail page.
type Reference struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Section is a heading together with the text blocks that follow it.
type Section struct {
	Heading string   `json:"heading"`
	Blocks  []string `json:"blocks"`
}

// Record is the structured extraction result for one entry.
// Fields that could not be found hold their zero value.
type Record struct {
	Name             string      `json:"name"`
	URL              string      `json:"url"`
	Title            string      `json:"title"`
	MetaDescription  string      `json:"metaDescription"`
	ExtractedAt      time.Time   `json:"extractedAt"`
	Principle        string      `json:"principle"`
	Description      string      `json:"description"`
	TechnicalDetails []string    `json:"technicalDetails"`
	Sections         []Section   `json:"structuredSections"`
	Patents          []string    `json:"patents"`
	Images           []ImageRef  `json:"images"`
	Diagrams         []ImageRef  `json:"diagrams"`
	References       []Reference `json:"references"`
	FullContent      string      `json:"fullContent"`
	Category         Category    `json:"category"`
}

// Validate returns an error if the record cannot be persisted.
func (r *Record) Validate() error {
	if r.Name == "" {
		return Errorf(EINVALID, "record name required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	return nil
}

// ContentLength returns the length of the full content in characters.
func (r *Record) ContentLength() int {
	return utf8.RuneCountInString(r.FullContent)
}

// ImageCount returns the number of images and diagrams together.
func (r *Record) ImageCount() int {
	return len(r.Images) + len(r.Diagrams)
}

// Metadata is the machine-readable subset of a record embedded at the end of
// each written file.
type Metadata struct {
	Name                 string    `json:"name"`
	URL                  string    `json:"url"`
	Title                string    `json:"title"`
	Category             Category  `json:"category"`
	ExtractedAt          time.Time `json:"extractedAt"`
	Patents              []string  `json:"patents"`
	ImageCount           int       `json:"imageCount"`
	DiagramCount         int       `json:"diagramCount"`
	ReferenceCount       int       `json:"referenceCount"`
	TechnicalDetailCount int       `json:"technicalDetailCount"`
	ContentLength        int       `json:"contentLength"`
}

// Metadata returns the embedded metadata for the record.
func (r *Record) Metadata() Metadata {
	patents := r.Patents
	if patents == nil {
		patents = []string{}
	}
	return Metadata{
		Name:                 r.Name,
		URL:                  r.URL,
		Title:                r.Title,
		Category:             r.Category,
		ExtractedAt:          r.ExtractedAt,
		Patents:              patents,
		ImageCount:           len(r.Images),
		DiagramCount:         len(r.Diagrams),
		ReferenceCount:       len(r.References),
		TechnicalDetailCount: len(r.TechnicalDetails),
		ContentLength:        r.ContentLength(),
	}
}

// Extractor turns a detail page into a Record.
type Extractor interface {
	// Extract always returns a record. When parts of the page could not be
	// processed the record is partially populated and an EEXTRACT error
	// describes what was skipped.
	Extract(html, sourceURL, name string) (*Record, error)
}

// ImageClassifier assigns a kind to an image from its filename and alt text.
type ImageClassifier interface {
	Classify(text string) ImageKind
}

// KeywordMatcher reports whether text contains any configured keyword.
type KeywordMatcher interface {
	Contains(text string) bool
}

// RecordWriter persists a single record.
type RecordWriter interface {
	// WriteRecord writes the record and returns where it was stored.
	// A record is either fully written or not written at all.
	WriteRecord(ctx context.Context, r *Record) (string, error)
}

// IndexEntry describes a record that was written in this or a previous run.
type IndexEntry struct {
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Category    Category  `json:"category"`
	ContentHash string    `json:"contentHash"`
	WrittenAt   time.Time `json:"writtenAt"`
}

// RecordIndex tracks which entry URLs have already been written.
type RecordIndex interface {
	// Has reports whether a record for the URL has been written.
	Has(ctx context.Context, url string) (bool, error)

	// Put records that a record was written to path.
	Put(ctx context.Context, r *Record, path string) error

	// FindEntries returns indexed entries, most recently written first.
	FindEntries(ctx context.Context, filter IndexFilter) ([]*IndexEntry, error)
}

// IndexFilter represents a filter for FindEntries.
type IndexFilter struct {
	Category *Category `json:"category"`
	Limit    int       `json:"limit"`
}
