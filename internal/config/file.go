package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/FordUniver/kahl/internal/types"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of the supplemental config file (§10.3).
// Every section is additive: values present here extend the built-in
// tables loaded by redactor.BuiltinTables(), they never replace them.
type fileConfig struct {
	AllowedEnvNames []string           `yaml:"allowed_env_names"`
	EnvSuffixes     []string           `yaml:"env_suffixes"`
	Patterns        []fileDirectEntry `yaml:"patterns"`
	Exclusions      []fileExclusion   `yaml:"exclusions"`
}

// fileDirectEntry describes a supplemental direct-match pattern. Only
// direct patterns are user-extensible; context and special patterns
// require careful group-index bookkeeping and stay catalog-only (C3).
type fileDirectEntry struct {
	Label string `yaml:"label"`
	Regex string `yaml:"regex"`
}

type fileExclusion struct {
	Label         string   `yaml:"label"`
	Regex         string   `yaml:"regex"`
	CaseSensitive bool     `yaml:"case_sensitive"`
	Keywords      []string `yaml:"keywords"`
}

const starterConfigTemplate = `# kahl supplemental configuration file
#
# Every section here is additive: it extends kahl's built-in allowlist,
# env-suffix list, pattern catalog, and entropy exclusions. It never
# replaces them.

# Environment variable names always treated as secret values, in
# addition to the built-in allowlist.
allowed_env_names: []
#   - MY_CUSTOM_TOKEN

# Name suffixes that mark a variable as a secret value, in addition to
# the built-ins (_SECRET, _PASSWORD, _TOKEN, _API_KEY, _PRIVATE_KEY,
# _AUTH, _CREDENTIAL).
env_suffixes: []
#   - _SIGNING_KEY

# Additional direct-match regular expressions: the full match is
# replaced with a fingerprinted marker.
patterns: []
#   - label: INTERNAL_TOKEN
#     regex: 'itk_[A-Za-z0-9]{32}'

# Additional entropy-detector exclusions: tokens matching regex in full
# are skipped (optionally only when one of keywords appears within 50
# bytes before the token on the same line). regex is always anchored to
# the whole token, so no leading/trailing ^/$ is needed.
exclusions: []
#   - label: BUILD_ID
#     regex: 'build-[0-9]{10}'
#     keywords: []
`

// expandTilde resolves a leading "~" to the user's home directory,
// matching the teacher's helper of the same name.
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// applyFileConfig loads path (if it exists) and additively merges its
// contents into cfg. When explicit is true (the path came from --config
// or KAHL_CONFIG rather than a built-in default), a missing or malformed
// file is a fatal error; otherwise a missing file is silently ignored.
func applyFileConfig(cfg *types.RunConfig, path string, explicit bool) error {
	resolved, err := expandTilde(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("read config %s: %w", resolved, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", resolved, err)
	}

	return mergeFileConfig(cfg, fc)
}

func mergeFileConfig(cfg *types.RunConfig, fc fileConfig) error {
	cfg.AllowedEnvNames = append(cfg.AllowedEnvNames, fc.AllowedEnvNames...)
	cfg.EnvSuffixes = append(cfg.EnvSuffixes, fc.EnvSuffixes...)

	for _, p := range fc.Patterns {
		if p.Label == "" || p.Regex == "" {
			return fmt.Errorf("config pattern missing label or regex")
		}
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return fmt.Errorf("config pattern %s: %w", p.Label, err)
		}
		cfg.Tables.Direct = append(cfg.Tables.Direct, types.DirectPattern{Label: p.Label, Re: re})
	}

	for _, e := range fc.Exclusions {
		if e.Label == "" || e.Regex == "" {
			return fmt.Errorf("config exclusion missing label or regex")
		}
		// Exclusions must match a token in full (§4.4 step 2), not merely
		// contain a substring matching regex, so anchor here rather than
		// trust every user-supplied pattern to anchor itself.
		pattern := "^(?:" + e.Regex + ")$"
		if !e.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("config exclusion %s: %w", e.Label, err)
		}
		cfg.Tables.Exclusions = append(cfg.Tables.Exclusions, types.EntropyExclusion{
			Label: e.Label, Re: re, CaseSensitive: e.CaseSensitive, Keywords: e.Keywords,
		})
	}

	return nil
}

// CreateStarterConfig writes the annotated starter template to path,
// failing if a file already exists there. Exposed for `kahl doctor
// --init-config` (§11.2).
func CreateStarterConfig(path string) error {
	resolved, err := expandTilde(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(resolved); err == nil {
		return fmt.Errorf("%s already exists", resolved)
	}
	if dir := filepath.Dir(resolved); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(resolved, []byte(starterConfigTemplate), 0o644)
}
