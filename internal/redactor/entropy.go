package redactor

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/FordUniver/kahl/internal/types"
)

// tokenDelimiters splits a line into candidate tokens for the entropy
// detector (§4.4 step 1).
var tokenDelimiters = regexp.MustCompile(`[\s"'` + "`" + `()\[\]{},;:<>=@#]+`)

// contextLookbehindBytes is how far back (in bytes, same line) an
// exclusion's required keyword or a global context keyword may appear.
const contextLookbehindBytes = 50

type entropyToken struct {
	text  string
	start int
	end   int
}

// tokenizeForEntropy splits line on tokenDelimiters and keeps only
// fragments whose length lies in [minLen, maxLen], discarding
// whitespace-containing, wholly-alphabetic, and wholly-numeric fragments.
func tokenizeForEntropy(line string, minLen, maxLen int) []entropyToken {
	var tokens []entropyToken

	pos := 0
	for pos <= len(line) {
		loc := tokenDelimiters.FindStringIndex(line[pos:])
		var fragStart, fragEnd int
		if loc == nil {
			fragStart, fragEnd = pos, len(line)
		} else {
			fragStart, fragEnd = pos, pos+loc[0]
		}

		frag := line[fragStart:fragEnd]
		if frag != "" {
			if l := len(frag); l >= minLen && l <= maxLen &&
				!isAlpha(frag) && !isAllDigits(frag) && !strings.ContainsAny(frag, " \t\r\n\v\f") {
				tokens = append(tokens, entropyToken{text: frag, start: fragStart, end: fragEnd})
			}
		}

		if loc == nil {
			break
		}
		pos = fragStart + loc[1]
	}

	return tokens
}

// charset classifies a token for threshold selection and marker display.
type charset int

const (
	charsetHex charset = iota
	charsetAlphanumeric
	charsetBase64
	charsetMixed
)

func (c charset) abbrev() string {
	switch c {
	case charsetHex:
		return "hex"
	case charsetBase64:
		return "b64"
	case charsetAlphanumeric:
		return "alnum"
	default:
		return "mix"
	}
}

func classifyCharset(token string) charset {
	lower := strings.ToLower(token)

	allHex := true
	for _, c := range lower {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			allHex = false
			break
		}
	}
	if allHex {
		return charsetHex
	}

	if isAlphanumericPlusSep(token) {
		return charsetAlphanumeric
	}

	if isBase64Alphabet(token) {
		return charsetBase64
	}

	return charsetMixed
}

func isAlphanumericPlusSep(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

func isBase64Alphabet(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '+' || c == '/' || c == '=':
		default:
			return false
		}
	}
	return true
}

// shannonEntropy computes H = -Σ p(c)·log2 p(c) over byte frequencies.
func shannonEntropy(token string) float64 {
	if token == "" {
		return 0
	}
	var freq [256]int
	for i := 0; i < len(token); i++ {
		freq[token[i]]++
	}
	n := float64(len(token))
	var h float64
	for _, c := range freq {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}

func thresholdFor(cs charset, cfg types.EntropyConfig) float64 {
	switch cs {
	case charsetHex:
		return cfg.HexThreshold
	case charsetBase64:
		return cfg.Base64Threshold
	default:
		return cfg.GenericThreshold
	}
}

// excluded reports whether token (at [start,end) in line) should be
// skipped, per the exclusion list and the global context-keyword guard.
// Returns the label to attribute the skip to ("CONTEXT" for the global
// guard, or the exclusion's own label) and true, or ("", false) if the
// token is not excluded.
func excluded(line string, tok entropyToken, exclusions []types.EntropyExclusion) (string, bool) {
	for _, ex := range exclusions {
		loc := ex.Re.FindStringIndex(tok.text)
		if loc == nil || loc[0] != 0 || loc[1] != len(tok.text) {
			continue
		}
		if len(ex.Keywords) == 0 {
			return ex.Label, true
		}
		if keywordPrecedes(line, tok.start, ex.Keywords) {
			return ex.Label, true
		}
	}

	if keywordPrecedes(line, tok.start, globalContextKeywords) {
		return "CONTEXT", true
	}

	return "", false
}

func keywordPrecedes(line string, start int, keywords []string) bool {
	from := start - contextLookbehindBytes
	if from < 0 {
		from = 0
	}
	window := strings.ToLower(line[from:start])
	for _, kw := range keywords {
		if strings.Contains(window, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

type entropyReplacement struct {
	start, end int
	marker     string
	label      string
}

// DetectEntropy is C4: tokenize, filter by exclusions/context, classify,
// score, and schedule replacements for tokens at or above their
// per-charset threshold. Returns the redacted line and matched labels.
func DetectEntropy(line string, cfg types.EntropyConfig, exclusions []types.EntropyExclusion) (string, []string) {
	tokens := tokenizeForEntropy(line, cfg.MinLength, cfg.MaxLength)
	if len(tokens) == 0 {
		return line, nil
	}

	var replacements []entropyReplacement
	for _, tok := range tokens {
		if _, skip := excluded(line, tok, exclusions); skip {
			continue
		}

		cs := classifyCharset(tok.text)
		h := shannonEntropy(tok.text)
		if h < thresholdFor(cs, cfg) {
			continue
		}

		marker := fmt.Sprintf("[REDACTED:HIGH_ENTROPY:%s:%d:%.1f]", cs.abbrev(), len(tok.text), h)
		replacements = append(replacements, entropyReplacement{
			start: tok.start, end: tok.end, marker: marker, label: "HIGH_ENTROPY",
		})
	}

	if len(replacements) == 0 {
		return line, nil
	}

	// Apply from highest start-offset to lowest so earlier replacements
	// never shift the offsets of ones still pending (§4.4 step 6, §9).
	sort.Slice(replacements, func(i, j int) bool {
		return replacements[i].start > replacements[j].start
	})

	result := line
	labels := make([]string, 0, len(replacements))
	for _, r := range replacements {
		result = result[:r.start] + r.marker + result[r.end:]
		labels = append(labels, r.label)
	}
	return result, labels
}
