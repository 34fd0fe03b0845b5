// Package redactor implements kahl's redaction engine: the value redactor
// (C2), the pattern redactor (C3), the entropy detector (C4), the
// structure fingerprint (C5), and the stream driver with its PEM state
// machine (C1). Package config (C6) resolves a types.RunConfig once at
// startup and hands it to Pipeline, which composes C2-C4 per line.
//
// SECURITY NOTES:
//  1. This is defense-in-depth, not a substitute for proper secret
//     management — don't rely on it as the only thing standing between a
//     secret and a log sink.
//  2. Patterns and the entropy heuristic have both false negatives and
//     false positives; the catalog is a best-effort list of known formats.
//  3. A determined adversary can construct input that evades every
//     detector here (encoding, obfuscation, novel token shapes).
package redactor

import (
	"github.com/FordUniver/kahl/internal/types"
	"golang.org/x/text/unicode/norm"
)

// Pipeline composes the three conditional redactors (C2, C3, C4) over a
// single RunConfig, accumulating match statistics as it goes. Built once
// at startup; RedactLine is called once per logical line and must not be
// called concurrently (the stream driver is strictly single-threaded).
type Pipeline struct {
	cfg    *types.RunConfig
	values ValueMap
	Stats  *Stats
}

// NewPipeline builds a Pipeline from a resolved RunConfig, loading the
// environment-sourced SecretValueMap if the values redactor is enabled.
func NewPipeline(cfg *types.RunConfig) *Pipeline {
	p := &Pipeline{cfg: cfg, Stats: NewStats()}
	if cfg.Filter.Values {
		p.values = LoadValueMap(cfg.AllowedEnvNames, cfg.EnvSuffixes)
	}
	return p
}

// RedactLine applies NFC normalization followed by C2, C3, and C4 (each
// conditional on cfg.Filter), in that fixed order: fingerprints from C5
// are embedded by each as it runs. Idempotent given the same RunConfig,
// since the pattern catalog and entropy tokenizer do not match the
// `[REDACTED:...]` marker syntax they themselves emit.
func (p *Pipeline) RedactLine(line string) string {
	p.Stats.LinesProcessed++

	result := norm.NFC.String(line)

	if p.cfg.Filter.Values {
		var labels []string
		result, labels = RedactValues(result, p.values)
		p.Stats.recordAll(labels)
	}

	if p.cfg.Filter.Patterns {
		var labels []string
		result, labels = RedactPatterns(result, p.cfg.Tables)
		p.Stats.recordAll(labels)
	}

	if p.cfg.Filter.Entropy {
		var labels []string
		result, labels = DetectEntropy(result, p.cfg.Entropy, p.cfg.Tables.Exclusions)
		p.Stats.recordAll(labels)
	}

	return result
}
