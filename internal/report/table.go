// Package report prints the optional --stats redaction-count table
// (§10.4), adapted from the teacher's project listing table to kahl's
// per-label match counts. Always writes to stderr so the redacted
// stream on stdout is never contaminated.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/FordUniver/kahl/internal/redactor"
	"github.com/olekukonko/tablewriter"
)

// PrintStats renders stats as an ASCII table to w (stderr in practice).
// A run with no matches prints a one-line summary instead of an empty
// table.
func PrintStats(w io.Writer, stats *redactor.Stats) {
	if stats == nil || stats.TotalMatches == 0 {
		fmt.Fprintln(w, "kahl: no redactions")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Label", "Matches")

	for _, lc := range stats.Sorted() {
		table.Append(lc.Label, strconv.FormatInt(lc.Count, 10))
	}

	table.Render()

	fmt.Fprintf(w, "kahl: %d lines processed, %d total matches\n", stats.LinesProcessed, stats.TotalMatches)
}
