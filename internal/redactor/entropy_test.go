package redactor

import (
	"regexp"
	"strings"
	"testing"

	"github.com/FordUniver/kahl/internal/types"
)

func defaultEntropyConfig() types.EntropyConfig {
	return types.EntropyConfig{
		MinLength: 20, MaxLength: 100,
		HexThreshold: 3.0, Base64Threshold: 4.5, GenericThreshold: 4.0,
	}
}

func TestDetectEntropyHighEntropyToken(t *testing.T) {
	token := "qX7z9Lm2Kp4Rw8Vt1Nb6Yd3Fj5Hc0Sa"
	line := "value=" + token
	got, labels := DetectEntropy(line, defaultEntropyConfig(), nil)

	if strings.Contains(got, token) {
		t.Errorf("got %q, token not redacted", got)
	}
	if !strings.Contains(got, "[REDACTED:HIGH_ENTROPY:") {
		t.Errorf("got %q, want a HIGH_ENTROPY marker", got)
	}
	if len(labels) != 1 || labels[0] != "HIGH_ENTROPY" {
		t.Errorf("labels = %v, want [HIGH_ENTROPY]", labels)
	}
}

func TestDetectEntropyLowEntropySkipped(t *testing.T) {
	line := "value=aaaaaaaaaaaaaaaaaaaaaaaa"
	got, labels := DetectEntropy(line, defaultEntropyConfig(), nil)
	if got != line {
		t.Errorf("got %q, want unchanged (low entropy)", got)
	}
	if labels != nil {
		t.Errorf("labels = %v, want nil", labels)
	}
}

func TestDetectEntropyTooShortSkipped(t *testing.T) {
	line := "value=abc123"
	got, _ := DetectEntropy(line, defaultEntropyConfig(), nil)
	if got != line {
		t.Errorf("got %q, want unchanged (below min length)", got)
	}
}

func TestDetectEntropyGlobalContextKeywordExcludes(t *testing.T) {
	token := "qX7z9Lm2Kp4Rw8Vt1Nb6Yd3Fj5Hc0Sa"
	line := "commit hash: " + token
	got, labels := DetectEntropy(line, defaultEntropyConfig(), nil)
	if got != line {
		t.Errorf("got %q, want unchanged (context keyword excludes)", got)
	}
	if labels != nil {
		t.Errorf("labels = %v, want nil", labels)
	}
}

func TestDetectEntropyExclusionList(t *testing.T) {
	token := "qX7z9Lm2Kp4Rw8Vt1Nb6Yd3Fj5Hc0Sa"
	line := "value=" + token
	exclusions := []types.EntropyExclusion{
		{Label: "KNOWN_TOKEN", Re: regexp.MustCompile(`^qX7z9Lm2Kp4Rw8Vt1Nb6Yd3Fj5Hc0Sa$`)},
	}
	got, labels := DetectEntropy(line, defaultEntropyConfig(), exclusions)
	if got != line {
		t.Errorf("got %q, want unchanged (explicit exclusion)", got)
	}
	if labels != nil {
		t.Errorf("labels = %v, want nil", labels)
	}
}

func TestDetectEntropyExclusionMustMatchInFull(t *testing.T) {
	token := "qX7z9Lm2Kp4Rw8Vt1Nb6Yd3Fj5Hc0Sa"
	line := "value=" + token
	// Matches only a prefix of the token, so it must not suppress
	// detection of the token as a whole.
	exclusions := []types.EntropyExclusion{
		{Label: "PARTIAL", Re: regexp.MustCompile(`^qX7z9`)},
	}
	got, labels := DetectEntropy(line, defaultEntropyConfig(), exclusions)
	if strings.Contains(got, token) {
		t.Errorf("got %q, partial-match exclusion should not suppress detection", got)
	}
	if len(labels) != 1 || labels[0] != "HIGH_ENTROPY" {
		t.Errorf("labels = %v, want [HIGH_ENTROPY]", labels)
	}
}

func TestDetectEntropyMultipleTokensOffsetOrder(t *testing.T) {
	a := "qX7z9Lm2Kp4Rw8Vt1Nb6Yd3Fj5Hc0Sa"
	b := "zQ3w8Mn1Lp5Tv2Rc7Yf4Jd0Hb9Sk6Ea"
	line := a + " " + b
	got, labels := DetectEntropy(line, defaultEntropyConfig(), nil)

	if strings.Contains(got, a) || strings.Contains(got, b) {
		t.Errorf("got %q, both tokens should be redacted", got)
	}
	if len(labels) != 2 {
		t.Errorf("labels = %v, want 2 entries", labels)
	}
}

func TestClassifyCharset(t *testing.T) {
	cases := map[string]charset{
		"0123456789abcdef0123456789abcdef": charsetHex,
		"abcDEF123_-ghiJKL456":              charsetAlphanumeric,
		"YWJjZGVmZ2hpams=":                  charsetBase64,
	}
	for tok, want := range cases {
		if got := classifyCharset(tok); got != want {
			t.Errorf("classifyCharset(%q) = %v, want %v", tok, got, want)
		}
	}
}
