package rexcrawl

import (
	"regexp"
	"strings"
)

// MaxFilenameStem is the maximum length in characters of a record filename
// before the extension.
const MaxFilenameStem = 100

var (
	filenameStripRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	filenameCollapseRe = regexp.MustCompile(`[-\s]+`)
)

// FilenameStem derives the base filename for an entry name.
// Characters other than letters, digits, underscores, whitespace and hyphens
// are dropped, runs of whitespace and hyphens become a single underscore and
// the result is truncated to MaxFilenameStem characters.
func FilenameStem(name string) string {
	stem := filenameStripRe.ReplaceAllString(strings.TrimSpace(name), "")
	stem = filenameCollapseRe.ReplaceAllString(stem, "_")
	if r := []rune(stem); len(r) > MaxFilenameStem {
		stem = string(r[:MaxFilenameStem])
	}
	if stem == "" {
		return "entry"
	}
	return stem
}

// Filename returns the record filename for an entry name.
func Filename(name string) string {
	return FilenameStem(name) + ".txt"
}
