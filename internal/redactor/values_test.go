package redactor

import (
	"strings"
	"testing"
)

func TestLoadValueMapFiltersByAllowlistAndSuffix(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_longenoughvalue123456789")
	t.Setenv("MY_APP_SECRET", "another-long-secret-value")
	t.Setenv("MY_APP_COLOR", "blue")
	t.Setenv("SHORT_TOKEN", "abc")

	vm := LoadValueMap([]string{"GITHUB_TOKEN"}, []string{"_SECRET"})

	if _, ok := vm["GITHUB_TOKEN"]; !ok {
		t.Error("expected GITHUB_TOKEN in value map (allowlisted)")
	}
	if _, ok := vm["MY_APP_SECRET"]; !ok {
		t.Error("expected MY_APP_SECRET in value map (suffix match)")
	}
	if _, ok := vm["MY_APP_COLOR"]; ok {
		t.Error("did not expect MY_APP_COLOR in value map")
	}
	if _, ok := vm["SHORT_TOKEN"]; ok {
		t.Error("did not expect SHORT_TOKEN (below minimum length) in value map")
	}
}

func TestRedactValuesLongestFirst(t *testing.T) {
	vm := ValueMap{
		"SHORT": "secretvalue",
		"LONG":  "secretvaluewithmore",
	}
	line := "token=secretvaluewithmore"
	got, labels := RedactValues(line, vm)

	if strings.Contains(got, "secretvaluewithmore") {
		t.Errorf("got %q, value not redacted", got)
	}
	if strings.Count(got, "[REDACTED:") != 1 {
		t.Errorf("got %q, want exactly one redaction (longest value wins)", got)
	}
	if len(labels) != 1 || labels[0] != "LONG" {
		t.Errorf("labels = %v, want [LONG]", labels)
	}
}

func TestRedactValuesNoMatch(t *testing.T) {
	vm := ValueMap{"TOKEN": "abcdefghij"}
	got, labels := RedactValues("nothing secret here", vm)
	if got != "nothing secret here" {
		t.Errorf("got %q, want unchanged line", got)
	}
	if labels != nil {
		t.Errorf("labels = %v, want nil", labels)
	}
}

func TestRedactValuesMultipleOccurrences(t *testing.T) {
	vm := ValueMap{"TOKEN": "repeatedsecret"}
	line := "a=repeatedsecret b=repeatedsecret"
	got, labels := RedactValues(line, vm)
	if strings.Contains(got, "repeatedsecret") {
		t.Errorf("got %q, value not fully redacted", got)
	}
	if len(labels) != 2 {
		t.Errorf("labels = %v, want 2 entries", labels)
	}
}
