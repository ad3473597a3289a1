package rexcrawl

// CategoryRule maps a category to the keywords that select it.
type CategoryRule struct {
	Category Category
	Keywords []string
}

// ImageKindRule maps an image kind to the keywords that select it.
type ImageKindRule struct {
	Kind     ImageKind
	Keywords []string
}

// DefaultCategoryRules is evaluated in order; the first rule with a keyword
// contained in the lower-cased entry text wins.
var DefaultCategoryRules = []CategoryRule{
	{Category: CategoryEnergy, Keywords: []string{
		"energy", "power", "generator", "solar", "battery", "fuel", "electric",
		"magnet", "motor", "hydrogen", "wind", "turbine", "thermal", "voltage",
	}},
	{Category: CategoryMedical, Keywords: []string{
		"medical", "medicine", "health", "cancer", "therapy", "disease", "heal",
		"cure", "treatment", "blood", "immune", "vaccine",
	}},
	{Category: CategoryTransport, Keywords: []string{
		"vehicle", "automobile", "aircraft", "propulsion", "transport", "boat",
		"ship", "engine", "levitation", "antigravity", "flying",
	}},
}

// DefaultImageKindRules is evaluated in order, so diagram keywords take
// priority over photo keywords. Unmatched images are ImageKindImage.
var DefaultImageKindRules = []ImageKindRule{
	{Kind: ImageKindDiagram, Keywords: []string{"diagram", "schematic", "circuit", "blueprint", "plan", "design"}},
	{Kind: ImageKindPhoto, Keywords: []string{"photo", "picture", "image"}},
}

// PrincipleKeywords mark technical detail blocks that explain how an entry works.
var PrincipleKeywords = []string{
	"principle", "theory", "mechanism", "operation", "working",
	"function", "process", "method", "technique", "approach",
}

// ExcludedHrefPatterns reject index anchors that point at navigation,
// external sites or boilerplate pages.
var ExcludedHrefPatterns = []string{
	"javascript:", "mailto:", "#", "http://", "https://",
	"index.html", "home.html", "about.html", "contact.html",
	"search.html", "links.html", "disclaimer.html",
}

// ExcludedTextPatterns reject index anchors whose visible text looks like
// site chrome. Matching is substring based and case-insensitive.
var ExcludedTextPatterns = []string{
	"home", "back", "top", "index", "search", "contact", "about",
	"links", "disclaimer", "rexresearch", "inventor index", "subject index",
}
