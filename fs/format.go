package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/rexcrawl"
)

// Layout limits for the record file.
const (
	maxTechnicalDetails = 5
	maxSectionBlocks    = 3
	maxReferences       = 10
)

// Metadata block markers. The block is always the last thing in a file.
const (
	MetadataStart = "[METADATA]"
	MetadataEnd   = "[/METADATA]"
)

var banner = strings.Repeat("=", 80)

// FormatRecord renders a record in the plaintext record layout.
// Sections appear in a fixed order and empty optional sections are left out.
func FormatRecord(r *rexcrawl.Record) (string, error) {
	var b strings.Builder

	b.WriteString(banner + "\n")
	b.WriteString(r.Name + "\n")
	b.WriteString(banner + "\n\n")

	section(&b, "BASIC INFO")
	fmt.Fprintf(&b, "Name: %s\n", r.Name)
	fmt.Fprintf(&b, "URL: %s\n", r.URL)
	fmt.Fprintf(&b, "Title: %s\n", r.Title)
	if r.MetaDescription != "" {
		fmt.Fprintf(&b, "Summary: %s\n", r.MetaDescription)
	}
	fmt.Fprintf(&b, "Category: %s\n", r.Category)
	fmt.Fprintf(&b, "Extracted: %s\n\n", r.ExtractedAt.UTC().Format(time.RFC3339))

	if len(r.Patents) > 0 {
		section(&b, "PATENTS")
		for _, p := range r.Patents {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	if r.Principle != "" {
		section(&b, "PRINCIPLE")
		b.WriteString(r.Principle + "\n\n")
	}

	if r.Description != "" {
		section(&b, "DESCRIPTION")
		b.WriteString(r.Description + "\n\n")
	}

	if len(r.TechnicalDetails) > 0 {
		section(&b, "TECHNICAL DETAILS")
		for i, d := range first(r.TechnicalDetails, maxTechnicalDetails) {
			fmt.Fprintf(&b, "%d. %s\n", i+1, d)
		}
		b.WriteString("\n")
	}

	if len(r.Sections) > 0 {
		section(&b, "STRUCTURED SECTIONS")
		for _, s := range r.Sections {
			fmt.Fprintf(&b, "## %s\n", s.Heading)
			for _, block := range first(s.Blocks, maxSectionBlocks) {
				fmt.Fprintf(&b, "- %s\n", block)
			}
			b.WriteString("\n")
		}
	}

	if r.ImageCount() > 0 {
		section(&b, "VISUAL MATERIALS")
		images(&b, "Diagrams", r.Diagrams)
		images(&b, "Images", r.Images)
	}

	if len(r.References) > 0 {
		section(&b, "REFERENCES")
		for _, ref := range first(r.References, maxReferences) {
			fmt.Fprintf(&b, "- %s: %s\n", ref.Text, ref.URL)
		}
		b.WriteString("\n")
	}

	section(&b, "FULL CONTENT")
	b.WriteString(r.FullContent + "\n\n")

	meta, err := json.MarshalIndent(r.Metadata(), "", "  ")
	if err != nil {
		return "", err
	}
	b.WriteString(MetadataStart + "\n")
	b.Write(meta)
	b.WriteString("\n" + MetadataEnd + "\n")

	return b.String(), nil
}

// ParseMetadata reads the metadata block from a formatted record.
// The block always ends the file, so both markers are searched from the end
// and marker text inside record fields does not confuse it.
func ParseMetadata(data []byte) (*rexcrawl.Metadata, error) {
	start := bytes.LastIndex(data, []byte(MetadataStart+"\n"))
	if start < 0 {
		return nil, rexcrawl.Errorf(rexcrawl.ENOTFOUND, "metadata block not found")
	}
	body := data[start+len(MetadataStart)+1:]
	end := bytes.LastIndex(body, []byte("\n"+MetadataEnd))
	if end < 0 {
		return nil, rexcrawl.Errorf(rexcrawl.EINVALID, "metadata block not terminated")
	}

	var m rexcrawl.Metadata
	if err := json.Unmarshal(body[:end], &m); err != nil {
		return nil, rexcrawl.WrapError(rexcrawl.EINVALID, err, "decode metadata")
	}
	return &m, nil
}

func section(b *strings.Builder, name string) {
	b.WriteString("[" + name + "]\n")
}

func images(b *strings.Builder, label string, refs []rexcrawl.ImageRef) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d):\n", label, len(refs))
	for _, img := range refs {
		fmt.Fprintf(b, "- %s: %s", img.Filename, img.URL)
		if img.AltText != "" {
			fmt.Fprintf(b, " (%s)", img.AltText)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func first[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
