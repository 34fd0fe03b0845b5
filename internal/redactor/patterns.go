package redactor

import (
	"regexp"

	"github.com/FordUniver/kahl/internal/types"
)

// mustDirect compiles re and wraps it as a DirectPattern. A compilation
// failure here is a programming error in the built-in catalog, not a
// runtime condition — it panics at package init, same as the teacher's
// regexp.MustCompile calls throughout internal/redactor/redactor.go.
func mustDirect(label, re string) types.DirectPattern {
	return types.DirectPattern{Label: label, Re: regexp.MustCompile(re)}
}

func mustContext(label, re string, group int) types.ContextPattern {
	return types.ContextPattern{Label: label, Re: regexp.MustCompile(re), SecretGroup: group}
}

func mustSpecial(label, re string, group int) types.SpecialPattern {
	return types.SpecialPattern{Label: label, Re: regexp.MustCompile(re), SecretGroup: group}
}

// builtinDirect is the catalog of DirectPatterns: vendor-prefixed tokens
// whose full match is the secret. Order matters for C3 step 1 — more
// specific vendor prefixes run before the generic JWT pattern so a token
// matching both is labeled by its vendor.
var builtinDirect = []types.DirectPattern{
	mustDirect("GITHUB_PAT", `gh[pousr]_[A-Za-z0-9]{36}`),
	mustDirect("GITHUB_PAT", `github_pat_[A-Za-z0-9_]{22,}`),
	mustDirect("GITLAB_PAT", `glpat-[A-Za-z0-9_-]{20,}`),
	mustDirect("SLACK_TOKEN", `xox[abps]-[0-9]+-[0-9A-Za-z-]+`),
	mustDirect("ANTHROPIC_KEY", `sk-ant-[A-Za-z0-9_-]{40,}`),
	mustDirect("OPENAI_PROJECT_KEY", `sk-proj-[A-Za-z0-9_-]{20,}`),
	mustDirect("OPENAI_KEY", `sk-[A-Za-z0-9]{48}`),
	mustDirect("AWS_ACCESS_KEY", `AKIA[0-9A-Z]{16}`),
	mustDirect("GOOGLE_API_KEY", `AIza[0-9A-Za-z_-]{35}`),
	mustDirect("AGE_SECRET_KEY", `AGE-SECRET-KEY-[A-Z0-9]{59}`),
	mustDirect("STRIPE_SECRET", `sk_live_[A-Za-z0-9]{24,}`),
	mustDirect("STRIPE_TEST", `sk_test_[A-Za-z0-9]{24,}`),
	mustDirect("STRIPE_PUBLISHABLE", `pk_live_[A-Za-z0-9]{24,}`),
	mustDirect("TWILIO_KEY", `SK[a-f0-9]{32}`),
	mustDirect("SENDGRID_KEY", `SG\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
	mustDirect("NPM_TOKEN", `npm_[A-Za-z0-9]{36}`),
	mustDirect("PYPI_TOKEN", `pypi-[A-Za-z0-9_-]{100,}`),
	mustDirect("JWT_TOKEN", `eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
}

// builtinContext is the catalog of ContextPatterns: group 1 is the prefix
// to preserve, group 2 the secret to replace.
var builtinContext = []types.ContextPattern{
	mustContext("NETRC_PASSWORD", `(password |passwd )([^\s]+)`, 2),

	mustContext("PASSWORD_VALUE", `(password=)([^\s,;"'\}\[\]]+)`, 2),
	mustContext("PASSWORD_VALUE", `(password:\s*)([^\s,;"'\}\[\]]+)`, 2),
	mustContext("PASSWORD_VALUE", `(Password=)([^\s,;"'\}\[\]]+)`, 2),
	mustContext("PASSWORD_VALUE", `(Password:\s*)([^\s,;"'\}\[\]]+)`, 2),

	mustContext("SECRET_VALUE", `(secret=)([^\s,;"'\}\[\]]+)`, 2),
	mustContext("SECRET_VALUE", `(secret:\s*)([^\s,;"'\}\[\]]+)`, 2),
	mustContext("SECRET_VALUE", `(Secret=)([^\s,;"'\}\[\]]+)`, 2),
	mustContext("SECRET_VALUE", `(Secret:\s*)([^\s,;"'\}\[\]]+)`, 2),

	mustContext("TOKEN_VALUE", `(token=)([^\s,;"'\}\[\]]+)`, 2),
	mustContext("TOKEN_VALUE", `(token:\s*)([^\s,;"'\}\[\]]+)`, 2),
	mustContext("TOKEN_VALUE", `(Token=)([^\s,;"'\}\[\]]+)`, 2),
	mustContext("TOKEN_VALUE", `(Token:\s*)([^\s,;"'\}\[\]]+)`, 2),
}

// builtinSpecial is the fixed catalog of SpecialPatterns — not data-driven,
// since both spec and reference implementation treat them as structurally
// distinct from the vendor catalog.
var builtinSpecial = []types.SpecialPattern{
	mustSpecial("GIT_CREDENTIAL", `(://[^:]+:)([^@]+)(@)`, 2),
	mustSpecial("DOCKER_AUTH", `("auth":\s*")([A-Za-z0-9+/=]{20,})(")`, 2),
}

// globalContextKeywords mark a preceding word as evidence that a
// high-entropy token nearby is benign (a hash/commit/checksum), used by
// the entropy detector's global CONTEXT exclusion (§4.4 step 2).
var globalContextKeywords = []string{"hash", "commit", "sha", "checksum"}

// builtinExclusions is the default EntropyExclusion list. Empty by
// default — the global context-keyword guard (above) already covers the
// common hash/commit case; additional named exclusions are expected to
// come from an optional config file (§10.3).
var builtinExclusions []types.EntropyExclusion

// BuiltinTables assembles the default, built-in PatternTables. Additional
// entries from an optional config file are appended on top of this by the
// config loader — never replacing these.
func BuiltinTables() types.PatternTables {
	return types.PatternTables{
		Direct:     append([]types.DirectPattern(nil), builtinDirect...),
		Context:    append([]types.ContextPattern(nil), builtinContext...),
		Special:    append([]types.SpecialPattern(nil), builtinSpecial...),
		Exclusions: append([]types.EntropyExclusion(nil), builtinExclusions...),
	}
}
