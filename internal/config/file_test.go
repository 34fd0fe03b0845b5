package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FordUniver/kahl/internal/redactor"
	"github.com/FordUniver/kahl/internal/types"
)

func baseRunConfig() *types.RunConfig {
	return &types.RunConfig{Tables: redactor.BuiltinTables()}
}

func TestApplyFileConfigMissingDefaultIsNotFatal(t *testing.T) {
	cfg := baseRunConfig()
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	if err := applyFileConfig(cfg, path, false); err != nil {
		t.Fatalf("applyFileConfig: %v", err)
	}
}

func TestApplyFileConfigMissingExplicitIsFatal(t *testing.T) {
	cfg := baseRunConfig()
	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	if err := applyFileConfig(cfg, path, true); err == nil {
		t.Fatal("expected error for explicit missing file")
	}
}

func TestApplyFileConfigMergeIsAdditive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kahl.yaml")
	content := `
allowed_env_names:
  - MY_CUSTOM_TOKEN
env_suffixes:
  - _SIGNING_KEY
patterns:
  - label: INTERNAL_TOKEN
    regex: 'itk_[A-Za-z0-9]{32}'
exclusions:
  - label: BUILD_ID
    regex: '^build-[0-9]{10}$'
    keywords: ["build"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := baseRunConfig()
	builtinDirectCount := len(cfg.Tables.Direct)

	if err := applyFileConfig(cfg, path, true); err != nil {
		t.Fatalf("applyFileConfig: %v", err)
	}

	if len(cfg.Tables.Direct) != builtinDirectCount+1 {
		t.Errorf("got %d direct patterns, want %d (builtins + 1)", len(cfg.Tables.Direct), builtinDirectCount+1)
	}
	if len(cfg.Tables.Exclusions) != 1 {
		t.Errorf("got %d exclusions, want 1", len(cfg.Tables.Exclusions))
	}
	if got := cfg.AllowedEnvNames; len(got) != 1 || got[0] != "MY_CUSTOM_TOKEN" {
		t.Errorf("AllowedEnvNames = %v, want [MY_CUSTOM_TOKEN]", got)
	}
	if got := cfg.EnvSuffixes; len(got) != 1 || got[0] != "_SIGNING_KEY" {
		t.Errorf("EnvSuffixes = %v, want [_SIGNING_KEY]", got)
	}
}

func TestApplyFileConfigBadRegexIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kahl.yaml")
	content := `
patterns:
  - label: BROKEN
    regex: '['
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := baseRunConfig()
	if err := applyFileConfig(cfg, path, true); err == nil {
		t.Fatal("expected error for invalid regex in config file")
	}
}

func TestCreateStarterConfigRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kahl.yaml")
	if err := CreateStarterConfig(path); err != nil {
		t.Fatalf("CreateStarterConfig: %v", err)
	}
	if err := CreateStarterConfig(path); err == nil {
		t.Fatal("expected error on second call against an existing file")
	}
}
