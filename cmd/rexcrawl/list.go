package main

import (
	"fmt"

	"github.com/fwojciec/rexcrawl"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ListCmd shows records already written according to the run index.
type ListCmd struct {
	Category rexcrawl.Category
	Limit    int
}

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := rexcrawl.IndexFilter{Limit: c.Limit}
	if c.Category != "" {
		filter.Category = &c.Category
	}

	entries, err := deps.Crawler.Index.FindEntries(deps.Ctx, filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No records in the run index")
		return nil
	}

	t := newTable(deps.Stdout, table.Row{"Name", "Category", "Path", "Written"})
	for _, e := range entries {
		t.AppendRow(table.Row{truncate(e.Name, 50), e.Category, e.Path, e.WrittenAt.Local().Format("2006-01-02 15:04")})
	}
	t.Render()
	fmt.Fprintf(deps.Stdout, "%d records\n", len(entries))
	return nil
}
