// Package goquery implements the index-page link classifier and the
// detail-page content extractor on top of goquery.
package goquery

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/rexcrawl"
)

// Entry text length bounds, both exclusive.
const (
	minEntryTextLen = 2
	maxEntryTextLen = 200
)

// Ensure Classifier implements rexcrawl.LinkClassifier at compile time.
var _ rexcrawl.LinkClassifier = (*Classifier)(nil)

// Classifier picks the anchors of an index page that lead to content entries.
type Classifier struct {
	base        *url.URL
	categorizer rexcrawl.Categorizer
}

// NewClassifier creates a Classifier for the site serving indexURL.
// Entry hrefs are resolved against the site root (scheme and host of indexURL).
func NewClassifier(indexURL string, categorizer rexcrawl.Categorizer) (*Classifier, error) {
	base, err := BaseDomain(indexURL)
	if err != nil {
		return nil, err
	}
	return &Classifier{base: base, categorizer: categorizer}, nil
}

// BaseDomain returns the site root of rawURL, e.g.
// https://www.example.com/idx/list.html → https://www.example.com/.
func BaseDomain(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, rexcrawl.Errorf(rexcrawl.EINVALID, "invalid index URL: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, rexcrawl.Errorf(rexcrawl.EINVALID, "index URL must be absolute: %q", rawURL)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}, nil
}

// Classify parses the index HTML and returns the entry links in document
// order. Links are deduplicated by resolved URL; the first occurrence wins.
func (c *Classifier) Classify(html string) ([]rexcrawl.EntryLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, rexcrawl.Errorf(rexcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	links := []rexcrawl.EntryLink{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		text := collapseSpace(sel.Text())
		if href == "" || text == "" {
			return
		}

		if !IsEntryLink(href, text) {
			return
		}

		resolved := c.resolve(href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true

		links = append(links, rexcrawl.EntryLink{
			Name:     text,
			URL:      resolved,
			Href:     href,
			Category: c.categorizer.Categorize(strings.ToLower(text)),
		})
	})

	return links, nil
}

// resolve returns the absolute URL for href, or "" if it cannot be parsed
// or leaves the site.
func (c *Classifier) resolve(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := c.base.ResolveReference(ref)
	if resolved.Host != c.base.Host {
		return ""
	}
	return resolved.String()
}

// IsEntryLink reports whether an anchor with the given href and visible text
// looks like a content entry rather than navigation chrome.
func IsEntryLink(href, text string) bool {
	hrefLower := strings.ToLower(href)
	for _, p := range rexcrawl.ExcludedHrefPatterns {
		if strings.Contains(hrefLower, p) {
			return false
		}
	}

	textLower := strings.ToLower(text)
	for _, p := range rexcrawl.ExcludedTextPatterns {
		if strings.Contains(textLower, p) {
			return false
		}
	}

	n := utf8.RuneCountInString(text)
	return strings.HasSuffix(hrefLower, ".html") &&
		n > minEntryTextLen && n < maxEntryTextLen &&
		!isNumeric(text) &&
		!strings.HasPrefix(text, "[") &&
		!strings.HasPrefix(text, "(")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
