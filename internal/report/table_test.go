package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/FordUniver/kahl/internal/redactor"
)

func TestPrintStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintStats(&buf, redactor.NewStats())
	if !strings.Contains(buf.String(), "no redactions") {
		t.Errorf("got %q, want a no-redactions message", buf.String())
	}
}

func TestPrintStatsNilIsSafe(t *testing.T) {
	var buf bytes.Buffer
	PrintStats(&buf, nil)
	if !strings.Contains(buf.String(), "no redactions") {
		t.Errorf("got %q, want a no-redactions message", buf.String())
	}
}

func TestPrintStatsWithMatches(t *testing.T) {
	stats := redactor.NewStats()
	stats.LinesProcessed = 10
	stats.TotalMatches = 4
	stats.ByLabel["GITHUB_PAT"] = 3
	stats.ByLabel["HIGH_ENTROPY"] = 1

	var buf bytes.Buffer
	PrintStats(&buf, stats)
	out := buf.String()

	if !strings.Contains(out, "GITHUB_PAT") || !strings.Contains(out, "HIGH_ENTROPY") {
		t.Errorf("table output missing expected labels: %q", out)
	}
	if !strings.Contains(out, "4 total matches") {
		t.Errorf("table output missing match summary: %q", out)
	}
}
