package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Render formats the report as human-readable multi-line text: a verdict
// line, the error and warning lists, and a summary-counter table.
func (r *Report) Render() string {
	var b strings.Builder

	if r.Passed {
		b.WriteString("VALIDATION PASSED\n")
	} else {
		b.WriteString("VALIDATION FAILED\n")
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, "\nErrors (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	if len(r.Summary) > 0 {
		keys := make([]string, 0, len(r.Summary))
		for k := range r.Summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Counter", "Value"})
		for _, k := range keys {
			t.AppendRow(table.Row{k, r.Summary[k]})
		}
		b.WriteString("\n")
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	return b.String()
}
