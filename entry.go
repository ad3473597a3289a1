package rexcrawl

import "fmt"

// Category is the coarse subject label assigned to an entry.
type Category string

// Supported categories. CategoryGeneral is the fallback when no rule matches.
const (
	CategoryEnergy    Category = "energy"
	CategoryMedical   Category = "medical"
	CategoryTransport Category = "transport"
	CategoryGeneral   Category = "general"
)

// Categories lists every category in rule order followed by the fallback.
func Categories() []Category {
	return []Category{CategoryEnergy, CategoryMedical, CategoryTransport, CategoryGeneral}
}

// ParseCategory validates a category name.
// The empty string is accepted and means "no category filter".
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return "", nil
	}
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", Errorf(EINVALID, "unknown category %q", s)
}

// EntryLink is a content entry discovered on the index page.
type EntryLink struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Href     string   `json:"href"`
	Category Category `json:"category"`
}

// String returns a short human readable form used in logs.
func (l EntryLink) String() string {
	return fmt.Sprintf("%s (%s)", l.Name, l.URL)
}

// LinkClassifier turns an index page into the ordered list of entry links.
type LinkClassifier interface {
	// Classify parses the index HTML and returns entry links in document
	// order, deduplicated by URL. It is deterministic for a given input.
	Classify(html string) ([]EntryLink, error)
}

// Categorizer assigns a category to free text using an ordered rule table.
type Categorizer interface {
	Categorize(text string) Category
}

// FilterByCategory returns the links in the given category, preserving order.
// An empty category returns links unchanged.
func FilterByCategory(links []EntryLink, category Category) []EntryLink {
	if category == "" {
		return links
	}
	out := make([]EntryLink, 0, len(links))
	for _, l := range links {
		if l.Category == category {
			out = append(out, l)
		}
	}
	return out
}

// CountByCategory tallies links per category.
func CountByCategory(links []EntryLink) map[Category]int {
	counts := make(map[Category]int)
	for _, l := range links {
		counts[l.Category]++
	}
	return counts
}
