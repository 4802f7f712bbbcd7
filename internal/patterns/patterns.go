// Package patterns holds the static regex rule table used to mine
// persisted text for sensitive tokens, plus the path/value ignore lists
// that keep the scan from drowning in known-noise matches.
package patterns

import (
	"regexp"
	"strings"
)

// Rule is one named detection pattern. Match group 0 defines the hit.
type Rule struct {
	Name string
	Re   *regexp.Regexp
}

// Finding is one regex hit surviving ShouldIgnoreValue.
type Finding struct {
	Rule  string
	Value string
}

// Rules is the static, ordered list of detection patterns, loaded once at
// package init. Order matters only for the reported discovery order of
// findings within a block; it carries no priority semantics.
var Rules = []Rule{
	{"aws-access-key-id", regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"aws-secret-key", regexp.MustCompile(`(?i)aws(.{0,20})?secret(.{0,20})?['"]\s*[:=]\s*['"][A-Za-z0-9/+=]{40}['"]`)},
	{"private-key-pem", regexp.MustCompile(`-----BEGIN (RSA |EC |OPENSSH |DSA |PGP )?PRIVATE KEY-----`)},
	{"jwt", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`)},
	{"slack-token", regexp.MustCompile(`\bxox[abp]-[0-9A-Za-z-]{10,}\b`)},
	{"google-api-key", regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`)},
	{"generic-api-key", regexp.MustCompile(`(?i)api[_-]?key['"]?\s*[:=]\s*['"]?[A-Za-z0-9_-]{16,}['"]?`)},
	{"generic-secret-assignment", regexp.MustCompile(`(?i)(password|passwd|secret|token)\s*[:=]\s*['"]?[^\s'"]{6,}['"]?`)},
	{"db-connection-string", regexp.MustCompile(`\b(postgres|postgresql|mysql|mongodb(\+srv)?|redis)://[^\s'"]+\b`)},
	{"bearer-token", regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._-]{20,}`)},
}

// ignorePathSubstrings gates entire URLs out of the pipeline — static
// asset paths that are never worth live-fetching during a secrets sweep.
var ignorePathSubstrings = []string{
	"/wp-content/uploads/",
	"/static/",
	"/assets/vendor/",
	"/cdn-cgi/",
	"/node_modules/",
	"/.well-known/",
}

var ignorePathExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".bmp",
	".woff", ".woff2", ".ttf", ".eot", ".mp4", ".mp3", ".avi", ".mov",
}

// ignoreValues are known-false-positive tokens: placeholders that match a
// rule's shape but carry no real secret.
var ignoreValues = map[string]struct{}{
	"changeme":                                {},
	"change-me":                               {},
	"your-api-key-here":                       {},
	"your_api_key_here":                       {},
	"xxxxxxxxxxxxxxxxxxxxx":                   {},
	"example":                                 {},
	"example-key":                             {},
	"00000000000000000000000000000000000000": {},
}

// ShouldIgnorePath reports whether url should be skipped entirely before
// any fetch is attempted.
func ShouldIgnorePath(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, s := range ignorePathSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	for _, ext := range ignorePathExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ShouldIgnoreValue reports whether a matched value is a known
// false-positive placeholder rather than a real secret.
func ShouldIgnoreValue(value string) bool {
	lower := strings.ToLower(value)
	if _, ok := ignoreValues[lower]; ok {
		return true
	}
	return isSingleRuneRepeat(value)
}

func isSingleRuneRepeat(s string) bool {
	if len(s) < 2 {
		return false
	}
	first := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != first {
			return false
		}
	}
	return true
}

// Scan runs every rule against text in declared order, dropping hits that
// ShouldIgnoreValue rejects. Duplicates are intentional: they carry
// positional information for the operator reviewing the report.
func Scan(text string) []Finding {
	var hits []Finding
	for _, rule := range Rules {
		for _, m := range rule.Re.FindAllString(text, -1) {
			if ShouldIgnoreValue(m) {
				continue
			}
			hits = append(hits, Finding{Rule: rule.Name, Value: m})
		}
	}
	return hits
}

// IsProbablyText samples the first min(len(data), 2048) bytes and declares
// the buffer text iff fewer than 10% of the sample falls outside
// printable-ASCII-plus-whitespace.
func IsProbablyText(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sampleLen := len(data)
	if sampleLen > 2048 {
		sampleLen = 2048
	}

	weird := 0
	for _, b := range data[:sampleLen] {
		if b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		if b < 0x20 || b > 0x7E {
			weird++
		}
	}

	return weird*10 < sampleLen
}
