// Package fingerprint derives filesystem-safe, deterministic identifiers
// from URLs. The result is used to name persisted assets and screenshots
// without leaking path separators or archive-member delimiters onto disk.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

const (
	maxPathSegment = 40
	maxName        = 100
	shortHashLen   = 12
)

// unsafeRunes is the exact character set the fingerprinting algorithm
// folds to '_' — nothing more, nothing less. Dots and every other
// character are left untouched, so "a.b.tar.gz" keeps its dots.
const unsafeRunes = `/\:?*"<>| `

// Of computes a safe filename for rawURL: host+truncated-path, with every
// character in unsafeRunes folded to '_' and everything else left as-is,
// suffixed by a 12-hex-char SHA-256 short hash of the full URL. Pure,
// total, deterministic.
func Of(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	short := hex.EncodeToString(sum[:])[:shortHashLen]

	host := "unknown"
	path := "/"
	if u, err := url.Parse(rawURL); err == nil {
		if u.Host != "" {
			host = u.Host
		}
		if u.Path != "" {
			path = u.Path
		}
	}

	path = strings.ReplaceAll(path, "/", "_")
	if len(path) > maxPathSegment {
		path = path[:maxPathSegment]
	}

	base := sanitize(host + path)
	name := base + "__" + short
	if len(name) > maxName {
		name = name[:maxName]
	}
	return name
}

func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(unsafeRunes, r) {
			b.WriteByte('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
