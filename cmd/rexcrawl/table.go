package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/rexcrawl"
	"github.com/jedib0t/go-pretty/v6/table"
)

// newTable returns a table writer that renders to w.
func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func renderCategories(w io.Writer, counts map[rexcrawl.Category]int, total int) {
	t := newTable(w, table.Row{"Category", "Entries", "Share"})
	for _, cat := range rexcrawl.Categories() {
		n := counts[cat]
		if n == 0 {
			continue
		}
		t.AppendRow(table.Row{cat, n, fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))})
	}
	t.Render()
}

func renderLinks(w io.Writer, links []rexcrawl.EntryLink) {
	t := newTable(w, table.Row{"#", "Category", "Name"})
	for i, link := range links {
		t.AppendRow(table.Row{i + 1, link.Category, truncate(link.Name, 60)})
	}
	t.Render()
}

func renderTop(w io.Writer, top []rexcrawl.RankedRecord) {
	t := newTable(w, table.Row{"#", "Name", "Chars", "Patents", "Images"})
	for i, r := range top {
		t.AppendRow(table.Row{i + 1, truncate(r.Name, 60), r.ContentLength, r.PatentCount, r.ImageCount})
	}
	t.Render()
}
