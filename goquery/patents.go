package goquery

import (
	"regexp"
	"sort"
	"strings"
)

// minPatentDigits is the minimum length of a normalized patent number.
const minPatentDigits = 6

// patentPatterns capture the number part of common patent citations:
// "Patent No. 1,234,567", "US 1234567", "Patent # 1234567", "Pat. No. 1234567".
var patentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bPatent\s+No\.?\s*(\d{1,2}[,.]?\d{3}[,.]?\d{3})`),
	regexp.MustCompile(`(?i)\bUS\s*(\d{1,2}[,.]?\d{3}[,.]?\d{3})`),
	regexp.MustCompile(`(?i)\bPatent\s*#\s*(\d{1,2}[,.]?\d{3}[,.]?\d{3})`),
	regexp.MustCompile(`(?i)\bPat\.\s*No\.?\s*(\d{1,2}[,.]?\d{3}[,.]?\d{3})`),
}

// ExtractPatents finds patent numbers in text. Separators are removed, numbers
// shorter than six digits are dropped and duplicates are collapsed. Numbers
// are returned in the order they first appear in the text.
func ExtractPatents(text string) ([]string, bool) {
	type hit struct {
		pos    int
		number string
	}
	var hits []hit
	for _, re := range patentPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			number := digitsOnly(text[m[2]:m[3]])
			if len(number) < minPatentDigits {
				continue
			}
			hits = append(hits, hit{pos: m[2], number: number})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var patents []string
	seen := make(map[string]bool)
	for _, h := range hits {
		if seen[h.number] {
			continue
		}
		seen[h.number] = true
		patents = append(patents, h.number)
	}
	return patents, len(patents) > 0
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
