// Package types defines the core data structures shared across kahl's
// components: the resolved run configuration, the pattern tables, and the
// secret value map.
package types

import "regexp"

// FilterConfig selects which of the three redactors are active for a run.
// At least one of Values, Patterns, Entropy must be true once resolved.
type FilterConfig struct {
	Values   bool
	Patterns bool
	Entropy  bool
}

// EntropyConfig holds the tunable parameters of the entropy detector.
type EntropyConfig struct {
	MinLength       int
	MaxLength       int
	HexThreshold    float64
	Base64Threshold float64
	GenericThreshold float64
}

// DirectPattern is an anchored-or-unanchored regex whose full match is the
// secret; there is no prefix to preserve.
type DirectPattern struct {
	Label string
	Re    *regexp.Regexp
}

// ContextPattern captures a prefix (group 1, preserved verbatim) and a
// secret (SecretGroup, replaced).
type ContextPattern struct {
	Label       string
	Re          *regexp.Regexp
	SecretGroup int
}

// SpecialPattern captures prefix (group 1), secret (SecretGroup), and
// suffix (group 3) — used for git credential URLs and docker auth blobs.
type SpecialPattern struct {
	Label       string
	Re          *regexp.Regexp
	SecretGroup int
}

// EntropyExclusion suppresses an otherwise-high-entropy token when it
// fully matches Re (optionally case-insensitively) and, if Keywords is
// non-empty, one of Keywords appears within 50 bytes before the token.
type EntropyExclusion struct {
	Label         string
	Re            *regexp.Regexp
	CaseSensitive bool
	Keywords      []string
}

// SinkConfig names an optional secondary destination for the redacted
// stream. Empty Bucket means no sink is configured.
type SinkConfig struct {
	Bucket string
	Key    string
}

// PatternTables is the full, immutable catalog consulted by the pattern
// redactor (C3), assembled once at startup from the built-in catalog plus
// any additive entries from an optional config file.
type PatternTables struct {
	Direct     []DirectPattern
	Context    []ContextPattern
	Special    []SpecialPattern
	Exclusions []EntropyExclusion
}

// RunConfig is the complete, immutable configuration resolved once at
// startup (C6) and threaded by pointer through every other component.
type RunConfig struct {
	Filter  FilterConfig
	Entropy EntropyConfig
	Tables  PatternTables

	// AllowedEnvNames and EnvSuffixes gate which environment variables are
	// eligible to become secret values (C2).
	AllowedEnvNames []string
	EnvSuffixes     []string

	Sink  SinkConfig
	Stats bool
}
