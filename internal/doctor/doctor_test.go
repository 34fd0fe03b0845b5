package doctor

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/FordUniver/kahl/internal/redactor"
	"github.com/FordUniver/kahl/internal/types"
)

func TestRunChecksNoFiltersFails(t *testing.T) {
	cfg := &types.RunConfig{Tables: redactor.BuiltinTables()}
	var buf bytes.Buffer

	if RunChecks(context.Background(), &buf, cfg, true) {
		t.Error("expected failure when no filters are enabled")
	}
	if !strings.Contains(buf.String(), "No filters enabled") {
		t.Errorf("output missing no-filters warning: %q", buf.String())
	}
}

func TestRunChecksFiltersEnabledPasses(t *testing.T) {
	cfg := &types.RunConfig{
		Filter: types.FilterConfig{Values: true, Patterns: true},
		Tables: redactor.BuiltinTables(),
	}
	var buf bytes.Buffer

	if !RunChecks(context.Background(), &buf, cfg, true) {
		t.Errorf("expected success, got:\n%s", buf.String())
	}
}

func TestRunChecksNoSinkSkipsConnectivity(t *testing.T) {
	cfg := &types.RunConfig{
		Filter: types.FilterConfig{Values: true},
		Tables: redactor.BuiltinTables(),
	}
	var buf bytes.Buffer

	RunChecks(context.Background(), &buf, cfg, false)
	if !strings.Contains(buf.String(), "none configured") {
		t.Errorf("expected no-sink message, got:\n%s", buf.String())
	}
}

func TestRunChecksSinkConfiguredSkipRemote(t *testing.T) {
	cfg := &types.RunConfig{
		Filter: types.FilterConfig{Values: true},
		Tables: redactor.BuiltinTables(),
		Sink:   types.SinkConfig{Bucket: "my-bucket", Key: "run.log"},
	}
	var buf bytes.Buffer

	RunChecks(context.Background(), &buf, cfg, true)
	if !strings.Contains(buf.String(), "s3://my-bucket/run.log") {
		t.Errorf("expected sink target in output, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "connectivity check skipped") {
		t.Errorf("expected skip notice, got:\n%s", buf.String())
	}
}
