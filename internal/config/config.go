// Package config implements kahl's Configuration Resolver (C6): CLI flag
// and environment parsing, entropy threshold/length overrides, and the
// optional supplemental YAML configuration file (§10.3). It produces a
// single immutable types.RunConfig at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/FordUniver/kahl/internal/redactor"
	"github.com/FordUniver/kahl/internal/types"
)

// defaultAllowedEnvNames is the explicit allowlist of environment variable
// names treated as secret values regardless of suffix, lifted from the
// reference implementation's load_secrets().
var defaultAllowedEnvNames = []string{
	"GITHUB_TOKEN", "GH_TOKEN", "GITLAB_TOKEN", "GLAB_TOKEN", "BITBUCKET_TOKEN",
	"AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN", "AZURE_CLIENT_SECRET",
	"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "CLAUDE_API_KEY",
	"SLACK_TOKEN", "SLACK_BOT_TOKEN", "SLACK_WEBHOOK_URL",
	"NPM_TOKEN", "PYPI_TOKEN", "DOCKER_PASSWORD",
	"DATABASE_URL", "REDIS_URL", "MONGODB_URI",
	"JWT_SECRET", "SESSION_SECRET", "ENCRYPTION_KEY",
	"SENDGRID_API_KEY", "TWILIO_AUTH_TOKEN", "STRIPE_SECRET_KEY",
}

// defaultEnvSuffixes is the set of name suffixes that make a variable
// eligible regardless of its exact name.
var defaultEnvSuffixes = []string{
	"_SECRET", "_PASSWORD", "_TOKEN", "_API_KEY", "_PRIVATE_KEY", "_AUTH", "_CREDENTIAL",
}

const (
	defaultEntropyMinLength = 20
	defaultEntropyMaxLength = 100
	defaultHexThreshold     = 3.0
	defaultBase64Threshold  = 4.5
	defaultGenericThreshold = 4.0
	entropyEnabledDefault   = false
)

// CLIFlags is the raw set of flag values bound by cobra in cmd/kahl. It is
// kept separate from types.RunConfig because it still needs resolving
// against the environment and against Changed() state (§4.6 step 1-2).
type CLIFlags struct {
	Filter        string
	FilterChanged bool
	ConfigPath    string
	Sink          string
	Stats         bool
}

// ResolveFilter implements §4.6 steps 2-3: CLI --filter fully overrides
// the environment when present; otherwise SECRETS_FILTER_* environment
// variables are consulted. Returns an error (fatal, exit 1) only when a
// CLI selection was given but contained zero recognized tokens.
func ResolveFilter(flags CLIFlags) (types.FilterConfig, error) {
	if flags.FilterChanged {
		return parseFilterList(flags.Filter)
	}
	return filterFromEnvironment(), nil
}

func parseFilterList(raw string) (types.FilterConfig, error) {
	var cfg types.FilterConfig
	validCount := 0

	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "":
			// ignored
		case "values":
			cfg.Values = true
			validCount++
		case "patterns":
			cfg.Patterns = true
			validCount++
		case "entropy":
			cfg.Entropy = true
			validCount++
		case "all":
			cfg.Values, cfg.Patterns, cfg.Entropy = true, true, true
			validCount++
		default:
			fmt.Fprintf(os.Stderr, "kahl: unknown filter %q, ignoring\n", part)
		}
	}

	if validCount == 0 {
		return types.FilterConfig{}, fmt.Errorf("no valid filters specified")
	}
	return cfg, nil
}

func filterFromEnvironment() types.FilterConfig {
	return types.FilterConfig{
		Values:   !isFalsy(os.Getenv("SECRETS_FILTER_VALUES"), true),
		Patterns: !isFalsy(os.Getenv("SECRETS_FILTER_PATTERNS"), true),
		Entropy:  isTruthy(os.Getenv("SECRETS_FILTER_ENTROPY"), entropyEnabledDefault),
	}
}

// isFalsy returns whether val case-insensitively names one of 0/false/no.
// An unset variable (empty val with unset=true passed by the caller having
// checked os.LookupEnv) keeps the default; here we approximate by treating
// an empty string as "not falsy" so the caller's default (true) stands.
func isFalsy(val string, _ bool) bool {
	if val == "" {
		return false
	}
	switch strings.ToLower(val) {
	case "0", "false", "no":
		return true
	default:
		return false
	}
}

func isTruthy(val string, def bool) bool {
	if val == "" {
		return def
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes":
		return true
	default:
		return def
	}
}

// ResolveEntropyConfig reads the optional numeric overrides from the
// environment (§6). A malformed override silently falls back to the
// default rather than erroring (§7).
func ResolveEntropyConfig() types.EntropyConfig {
	cfg := types.EntropyConfig{
		MinLength:        defaultEntropyMinLength,
		MaxLength:        defaultEntropyMaxLength,
		HexThreshold:     defaultHexThreshold,
		Base64Threshold:  defaultBase64Threshold,
		GenericThreshold: defaultGenericThreshold,
	}

	if v, ok := parseFloatEnv("SECRETS_FILTER_ENTROPY_THRESHOLD"); ok {
		cfg.HexThreshold, cfg.Base64Threshold, cfg.GenericThreshold = v, v, v
	}
	if v, ok := parseFloatEnv("SECRETS_FILTER_ENTROPY_HEX"); ok {
		cfg.HexThreshold = v
	}
	if v, ok := parseFloatEnv("SECRETS_FILTER_ENTROPY_BASE64"); ok {
		cfg.Base64Threshold = v
	}
	if v, ok := parseUintEnv("SECRETS_FILTER_ENTROPY_MIN_LEN"); ok {
		cfg.MinLength = v
	}
	if v, ok := parseUintEnv("SECRETS_FILTER_ENTROPY_MAX_LEN"); ok {
		cfg.MaxLength = v
	}

	return cfg
}

func parseFloatEnv(name string) (float64, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseUintEnv(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// ParseSink parses an "s3://bucket/key" URI into a SinkConfig. An empty
// raw value yields a zero SinkConfig (no sink configured).
func ParseSink(raw string) (types.SinkConfig, error) {
	if raw == "" {
		return types.SinkConfig{}, nil
	}
	const prefix = "s3://"
	if !strings.HasPrefix(raw, prefix) {
		return types.SinkConfig{}, fmt.Errorf("sink %q: expected s3://bucket/key", raw)
	}
	rest := raw[len(prefix):]
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return types.SinkConfig{}, fmt.Errorf("sink %q: expected s3://bucket/key", raw)
	}
	return types.SinkConfig{Bucket: bucket, Key: key}, nil
}

// Resolve performs the complete C6 resolution: it combines CLIFlags,
// environment, the built-in pattern catalog, and (if named) the
// supplemental config file into one immutable RunConfig.
func Resolve(flags CLIFlags) (*types.RunConfig, error) {
	filter, err := ResolveFilter(flags)
	if err != nil {
		return nil, err
	}

	sink, err := ParseSink(resolveSinkString(flags.Sink))
	if err != nil {
		return nil, err
	}

	cfg := &types.RunConfig{
		Filter:          filter,
		Entropy:         ResolveEntropyConfig(),
		Tables:          redactor.BuiltinTables(),
		AllowedEnvNames: append([]string(nil), defaultAllowedEnvNames...),
		EnvSuffixes:     append([]string(nil), defaultEnvSuffixes...),
		Sink:            sink,
		Stats:           flags.Stats,
	}

	configPath := resolveConfigPath(flags.ConfigPath)
	if configPath != "" {
		explicit := flags.ConfigPath != ""
		if err := applyFileConfig(cfg, configPath, explicit); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func resolveSinkString(cliSink string) string {
	if cliSink != "" {
		return cliSink
	}
	return os.Getenv("KAHL_SINK")
}

func resolveConfigPath(cliPath string) string {
	if cliPath != "" {
		return cliPath
	}
	return os.Getenv("KAHL_CONFIG")
}
