package mock

import "github.com/fwojciec/rexcrawl"

var _ rexcrawl.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of rexcrawl.Extractor.
type Extractor struct {
	ExtractFn func(html, sourceURL, name string) (*rexcrawl.Record, error)
}

func (e *Extractor) Extract(html, sourceURL, name string) (*rexcrawl.Record, error) {
	return e.ExtractFn(html, sourceURL, name)
}

var _ rexcrawl.ImageClassifier = (*ImageClassifier)(nil)

// ImageClassifier is a mock implementation of rexcrawl.ImageClassifier.
type ImageClassifier struct {
	ClassifyFn func(text string) rexcrawl.ImageKind
}

func (c *ImageClassifier) Classify(text string) rexcrawl.ImageKind {
	return c.ClassifyFn(text)
}

var _ rexcrawl.KeywordMatcher = (*KeywordMatcher)(nil)

// KeywordMatcher is a mock implementation of rexcrawl.KeywordMatcher.
type KeywordMatcher struct {
	ContainsFn func(text string) bool
}

func (m *KeywordMatcher) Contains(text string) bool {
	return m.ContainsFn(text)
}
