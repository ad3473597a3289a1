package mock

import "github.com/fwojciec/rexcrawl"

var _ rexcrawl.LinkClassifier = (*LinkClassifier)(nil)

// LinkClassifier is a mock implementation of rexcrawl.LinkClassifier.
type LinkClassifier struct {
	ClassifyFn func(html string) ([]rexcrawl.EntryLink, error)
}

func (c *LinkClassifier) Classify(html string) ([]rexcrawl.EntryLink, error) {
	return c.ClassifyFn(html)
}

var _ rexcrawl.Categorizer = (*Categorizer)(nil)

// Categorizer is a mock implementation of rexcrawl.Categorizer.
type Categorizer struct {
	CategorizeFn func(text string) rexcrawl.Category
}

func (c *Categorizer) Categorize(text string) rexcrawl.Category {
	return c.CategorizeFn(text)
}
