// Package rexcrawl crawls a static HTML index site, follows each entry's
// detail page and turns the loosely structured HTML into one normalized text
// record per entry, plus aggregate JSON and CSV summaries for the whole run.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, ahocorasick/).
package rexcrawl
