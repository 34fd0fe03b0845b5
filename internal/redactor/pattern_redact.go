package redactor

import (
	"fmt"
	"strings"

	"github.com/FordUniver/kahl/internal/types"
)

// RedactPatterns is C3: direct patterns, then context patterns, then the
// fixed special patterns, each pass applied globally over the result of
// the previous pass. Returns the redacted line and the labels matched (in
// match order) for stats reporting.
func RedactPatterns(line string, tables types.PatternTables) (string, []string) {
	var labels []string

	result := line
	for _, p := range tables.Direct {
		result, labels = applyDirect(result, p, labels)
	}
	for _, p := range tables.Context {
		result, labels = applyContext(result, p, labels)
	}
	for _, p := range tables.Special {
		result, labels = applySpecial(result, p, labels)
	}
	return result, labels
}

func applyDirect(s string, p types.DirectPattern, labels []string) (string, []string) {
	locs := p.Re.FindAllStringIndex(s, -1)
	if locs == nil {
		return s, labels
	}

	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		b.WriteString(s[prev:loc[0]])
		matched := s[loc[0]:loc[1]]
		fmt.Fprintf(&b, "[REDACTED:%s:%s]", p.Label, Fingerprint(matched))
		labels = append(labels, p.Label)
		prev = loc[1]
	}
	b.WriteString(s[prev:])
	return b.String(), labels
}

func applyContext(s string, p types.ContextPattern, labels []string) (string, []string) {
	matches := p.Re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s, labels
	}

	var b strings.Builder
	prev := 0
	for _, m := range matches {
		b.WriteString(s[prev:m[0]])
		prefix := groupText(s, m, 1)
		secret := groupText(s, m, p.SecretGroup)
		b.WriteString(prefix)
		fmt.Fprintf(&b, "[REDACTED:%s:%s]", p.Label, Fingerprint(secret))
		labels = append(labels, p.Label)
		prev = m[1]
	}
	b.WriteString(s[prev:])
	return b.String(), labels
}

func applySpecial(s string, p types.SpecialPattern, labels []string) (string, []string) {
	matches := p.Re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s, labels
	}

	var b strings.Builder
	prev := 0
	for _, m := range matches {
		b.WriteString(s[prev:m[0]])
		prefix := groupText(s, m, 1)
		secret := groupText(s, m, p.SecretGroup)
		suffix := groupText(s, m, 3)
		b.WriteString(prefix)
		fmt.Fprintf(&b, "[REDACTED:%s:%s]", p.Label, Fingerprint(secret))
		b.WriteString(suffix)
		labels = append(labels, p.Label)
		prev = m[1]
	}
	b.WriteString(s[prev:])
	return b.String(), labels
}

// groupText extracts capture group n's text from a FindAllStringSubmatchIndex
// match, returning "" if the group didn't participate in the match.
func groupText(s string, m []int, n int) string {
	lo, hi := m[2*n], m[2*n+1]
	if lo < 0 || hi < 0 {
		return ""
	}
	return s[lo:hi]
}
