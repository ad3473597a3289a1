package goquery

import (
	"errors"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/rexcrawl"
	"golang.org/x/net/html"
)

// Extraction thresholds, in characters.
const (
	minSectionFragmentLen = 10
	minTechnicalDetailLen = 50
	maxPrincipleBlocks    = 3
)

// Ensure Extractor implements rexcrawl.Extractor at compile time.
var _ rexcrawl.Extractor = (*Extractor)(nil)

// Extractor turns detail pages into records.
type Extractor struct {
	images     rexcrawl.ImageClassifier
	principles rexcrawl.KeywordMatcher

	// Now returns the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewExtractor creates an Extractor that classifies images and detects
// principle paragraphs with the given rule sets.
func NewExtractor(images rexcrawl.ImageClassifier, principles rexcrawl.KeywordMatcher) *Extractor {
	return &Extractor{
		images:     images,
		principles: principles,
		Now:        time.Now,
	}
}

// Extract builds a record from a detail page. Every field is extracted
// independently; a field that cannot be found keeps its zero value. The
// returned error is non-nil only when some part of the page had to be
// skipped, and the record is usable either way.
func (e *Extractor) Extract(rawHTML, sourceURL, name string) (*rexcrawl.Record, error) {
	r := &rexcrawl.Record{
		Name:        name,
		URL:         sourceURL,
		ExtractedAt: e.Now().UTC(),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return r, rexcrawl.WrapError(rexcrawl.EEXTRACT, err, "parse %s", sourceURL)
	}

	var errs []error
	base, err := url.Parse(sourceURL)
	if err != nil {
		errs = append(errs, err)
	}

	if title, ok := extractTitle(doc); ok {
		r.Title = title
	}
	if desc, ok := extractMetaDescription(doc); ok {
		r.MetaDescription = desc
	}

	blocks, ok := extractBlocks(doc)
	if ok {
		r.FullContent = strings.Join(blocks, "\n\n")
	}
	if sections, ok := extractSections(doc); ok {
		r.Sections = sections
	}
	if details, ok := technicalDetails(blocks); ok {
		r.TechnicalDetails = details
		if principle, ok := e.principle(details); ok {
			r.Principle = principle
		} else {
			r.Description = details[0]
		}
	}

	images, diagrams := e.extractImages(doc, base)
	r.Images = images
	r.Diagrams = diagrams

	if patents, ok := ExtractPatents(r.FullContent); ok {
		r.Patents = patents
	}
	if refs, ok := extractReferences(doc); ok {
		r.References = refs
	}

	if len(errs) > 0 {
		return r, rexcrawl.WrapError(rexcrawl.EEXTRACT, errors.Join(errs...), "partial extraction of %s", sourceURL)
	}
	return r, nil
}

func extractTitle(doc *goquery.Document) (string, bool) {
	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return "", false
	}
	title := strings.TrimSpace(sel.Text())
	return title, title != ""
}

func extractMetaDescription(doc *goquery.Document) (string, bool) {
	var desc string
	var found bool
	doc.Find("meta[name]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name, _ := sel.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}
		content, _ := sel.Attr("content")
		desc = strings.TrimSpace(content)
		found = desc != ""
		return false
	})
	return desc, found
}

// extractBlocks returns the visible text of the page body as paragraph blocks.
func extractBlocks(doc *goquery.Document) ([]string, bool) {
	root := doc.Find("body").First()
	var nodes []*html.Node
	if root.Length() > 0 {
		nodes = root.Nodes
	} else {
		nodes = doc.Nodes
	}
	var blocks []string
	for _, n := range nodes {
		blocks = append(blocks, textBlocks(n)...)
	}
	return blocks, len(blocks) > 0
}

// extractSections maps each heading to the qualifying text of the siblings
// that follow it up to the next heading. Headings without qualifying text are
// omitted; repeated headings accumulate into their first occurrence.
func extractSections(doc *goquery.Document) ([]rexcrawl.Section, bool) {
	var sections []rexcrawl.Section
	index := make(map[string]int)

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		heading := collapseSpace(sel.Text())
		if heading == "" {
			return
		}

		var blocks []string
		for n := sel.Nodes[0].NextSibling; n != nil && !isHeading(n); n = n.NextSibling {
			text := nodeText(n)
			if utf8.RuneCountInString(text) > minSectionFragmentLen {
				blocks = append(blocks, text)
			}
		}
		if len(blocks) == 0 {
			return
		}

		if i, ok := index[heading]; ok {
			sections[i].Blocks = append(sections[i].Blocks, blocks...)
			return
		}
		index[heading] = len(sections)
		sections = append(sections, rexcrawl.Section{Heading: heading, Blocks: blocks})
	})

	return sections, len(sections) > 0
}

// technicalDetails keeps the blocks long enough to carry real content.
func technicalDetails(blocks []string) ([]string, bool) {
	var details []string
	for _, b := range blocks {
		if utf8.RuneCountInString(b) > minTechnicalDetailLen {
			details = append(details, b)
		}
	}
	return details, len(details) > 0
}

// principle joins the first few details that talk about how the entry works.
func (e *Extractor) principle(details []string) (string, bool) {
	var matched []string
	for _, d := range details {
		if e.principles.Contains(d) {
			matched = append(matched, d)
			if len(matched) == maxPrincipleBlocks {
				break
			}
		}
	}
	return strings.Join(matched, "\n\n"), len(matched) > 0
}

// extractImages splits the page's images into non-diagram images and diagrams.
func (e *Extractor) extractImages(doc *goquery.Document, base *url.URL) (images, diagrams []rexcrawl.ImageRef) {
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		src = strings.TrimSpace(src)
		if src == "" {
			return
		}

		alt, _ := sel.Attr("alt")
		title, _ := sel.Attr("title")
		abs, filename := resolveImage(base, src)

		img := rexcrawl.ImageRef{
			URL:      abs,
			Filename: filename,
			AltText:  strings.TrimSpace(alt),
			Title:    strings.TrimSpace(title),
		}
		img.Kind = e.images.Classify(strings.ToLower(filename + " " + img.AltText))

		if img.Kind == rexcrawl.ImageKindDiagram {
			diagrams = append(diagrams, img)
		} else {
			images = append(images, img)
		}
	})
	return images, diagrams
}

// resolveImage returns the absolute URL and the file name of an image source.
// Sources that cannot be resolved are kept as written.
func resolveImage(base *url.URL, src string) (string, string) {
	ref, err := url.Parse(src)
	if err != nil {
		return src, path.Base(src)
	}
	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}
	filename := path.Base(abs.Path)
	if filename == "." || filename == "/" {
		filename = ""
	}
	return abs.String(), filename
}

// extractReferences returns every outbound link with its text, in order.
func extractReferences(doc *goquery.Document) ([]rexcrawl.Reference, bool) {
	var refs []rexcrawl.Reference
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		text := collapseSpace(sel.Text())
		if text == "" || !strings.HasPrefix(href, "http") {
			return
		}
		refs = append(refs, rexcrawl.Reference{URL: href, Text: text})
	})
	return refs, len(refs) > 0
}
