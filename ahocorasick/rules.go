// Package ahocorasick implements the ordered keyword rule tables used to
// categorize entries, classify images and spot principle paragraphs.
// All keywords of a table are compiled into one Aho-Corasick automaton, so a
// text is scanned once no matter how many rules the table holds.
package ahocorasick

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/fwojciec/rexcrawl"
)

// groupMatcher finds the first keyword group, in table order, that has at
// least one keyword contained in a text.
type groupMatcher struct {
	matcher *ahocorasick.Matcher
	groups  []int // keyword index -> group index
}

func newGroupMatcher(groups [][]string) *groupMatcher {
	var keywords []string
	var owners []int
	seen := make(map[string]bool)
	for gi, group := range groups {
		for _, kw := range group {
			kw = normalizeKeyword(kw)
			if kw == "" || seen[kw] {
				// A keyword shared by two groups belongs to the earlier one.
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
			owners = append(owners, gi)
		}
	}

	g := &groupMatcher{groups: owners}
	if len(keywords) > 0 {
		g.matcher = ahocorasick.NewStringMatcher(keywords)
	}
	return g
}

// firstGroup returns the lowest matching group index, or -1.
func (g *groupMatcher) firstGroup(text string) int {
	if g.matcher == nil || text == "" {
		return -1
	}
	first := -1
	for _, hit := range g.matcher.MatchThreadSafe([]byte(strings.ToLower(text))) {
		if hit < 0 || hit >= len(g.groups) {
			continue
		}
		if gi := g.groups[hit]; first == -1 || gi < first {
			first = gi
		}
	}
	return first
}

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

// Ensure Categorizer implements rexcrawl.Categorizer at compile time.
var _ rexcrawl.Categorizer = (*Categorizer)(nil)

// Categorizer assigns categories from an ordered rule table.
type Categorizer struct {
	rules   []rexcrawl.CategoryRule
	matcher *groupMatcher
}

// NewCategorizer compiles the rule table. Rules are evaluated in order and
// the first rule with a matching keyword wins.
func NewCategorizer(rules []rexcrawl.CategoryRule) *Categorizer {
	groups := make([][]string, len(rules))
	for i, r := range rules {
		groups[i] = r.Keywords
	}
	return &Categorizer{rules: rules, matcher: newGroupMatcher(groups)}
}

// NewDefaultCategorizer compiles rexcrawl.DefaultCategoryRules.
func NewDefaultCategorizer() *Categorizer {
	return NewCategorizer(rexcrawl.DefaultCategoryRules)
}

// Categorize returns the category of the first matching rule,
// or rexcrawl.CategoryGeneral when nothing matches.
func (c *Categorizer) Categorize(text string) rexcrawl.Category {
	if i := c.matcher.firstGroup(text); i >= 0 {
		return c.rules[i].Category
	}
	return rexcrawl.CategoryGeneral
}

// Ensure ImageClassifier implements rexcrawl.ImageClassifier at compile time.
var _ rexcrawl.ImageClassifier = (*ImageClassifier)(nil)

// ImageClassifier assigns image kinds from an ordered rule table.
type ImageClassifier struct {
	rules   []rexcrawl.ImageKindRule
	matcher *groupMatcher
}

// NewImageClassifier compiles the rule table.
func NewImageClassifier(rules []rexcrawl.ImageKindRule) *ImageClassifier {
	groups := make([][]string, len(rules))
	for i, r := range rules {
		groups[i] = r.Keywords
	}
	return &ImageClassifier{rules: rules, matcher: newGroupMatcher(groups)}
}

// NewDefaultImageClassifier compiles rexcrawl.DefaultImageKindRules.
func NewDefaultImageClassifier() *ImageClassifier {
	return NewImageClassifier(rexcrawl.DefaultImageKindRules)
}

// Classify returns the kind of the first matching rule,
// or rexcrawl.ImageKindImage when nothing matches.
func (c *ImageClassifier) Classify(text string) rexcrawl.ImageKind {
	if i := c.matcher.firstGroup(text); i >= 0 {
		return c.rules[i].Kind
	}
	return rexcrawl.ImageKindImage
}

// Ensure Matcher implements rexcrawl.KeywordMatcher at compile time.
var _ rexcrawl.KeywordMatcher = (*Matcher)(nil)

// Matcher reports whether a text contains any of a set of keywords.
type Matcher struct {
	matcher *groupMatcher
}

// NewMatcher compiles the keywords. Matching is case-insensitive.
func NewMatcher(keywords []string) *Matcher {
	return &Matcher{matcher: newGroupMatcher([][]string{keywords})}
}

// NewPrincipleMatcher compiles rexcrawl.PrincipleKeywords.
func NewPrincipleMatcher() *Matcher {
	return NewMatcher(rexcrawl.PrincipleKeywords)
}

// Contains reports whether text contains at least one keyword.
func (m *Matcher) Contains(text string) bool {
	return m.matcher.firstGroup(text) >= 0
}
