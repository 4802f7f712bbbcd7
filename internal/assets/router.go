// Package assets maps (URL, extension) pairs to on-disk paths inside a
// per-domain workspace, and persists bytes there with the teacher's
// atomic-write discipline (temp file + rename).
package assets

import (
	"net/url"
	"path"
	"strings"

	"github.com/sigman78/webrecon/internal/fingerprint"
)

// textExts are persisted under assets/<ext>/ alongside archive formats.
var textExts = map[string]struct{}{
	"html": {}, "htm": {}, "shtml": {}, "xhtml": {}, "php": {}, "asp": {},
	"aspx": {}, "jsp": {}, "txt": {}, "js": {}, "json": {}, "xml": {},
	"csv": {}, "ini": {}, "conf": {}, "config": {}, "env": {}, "yaml": {},
	"yml": {}, "log": {}, "bak": {}, "old": {}, "sql": {},
}

// ArchiveExts are the formats the archive inspector knows how to open.
var ArchiveExts = map[string]struct{}{
	"zip": {}, "tar": {}, "tgz": {}, "gz": {}, "bz2": {}, "xz": {},
}

var htmlExts = map[string]struct{}{
	"html": {}, "htm": {}, "shtml": {}, "xhtml": {}, "php": {}, "asp": {},
	"aspx": {}, "jsp": {},
}

// DetectExt parses rawURL and returns the lowercased extension of its last
// path segment. ok is false when the URL is unparseable or the segment has
// no extension; callers substitute "bin".
func DetectExt(rawURL string) (ext string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	name := path.Base(u.Path)
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return "", false
	}
	return strings.ToLower(name[idx+1:]), true
}

// IsHTMLExt reports whether ext is one of the HTML-like document extensions.
func IsHTMLExt(ext string) bool {
	_, ok := htmlExts[ext]
	return ok
}

// IsArchiveExt reports whether ext is a supported archive format.
func IsArchiveExt(ext string) bool {
	_, ok := ArchiveExts[ext]
	return ok
}

// PathFor returns the workspace-relative logical path (forward-slash,
// suitable for Storage.Put) at which rawURL's bytes, detected as ext,
// should be persisted. Every returned path is rooted under
// "JSscripts/" or "assets/", by construction — it can never escape the
// workspace regardless of rawURL's content, because the basename is
// always fingerprint.Of(rawURL), never a raw path fragment.
func PathFor(rawURL, ext string) string {
	safe := fingerprint.Of(rawURL)

	if ext == "js" {
		return "JSscripts/" + safe + ".js"
	}

	subdir := "bin"
	if _, ok := textExts[ext]; ok {
		subdir = ext
	} else if _, ok := ArchiveExts[ext]; ok {
		subdir = ext
	}

	return "assets/" + subdir + "/" + safe + "." + ext
}

// RootOf returns "{scheme}://{host}" for rawURL, used to synthesize
// well-known sibling paths like robots.txt and sitemap.xml.
func RootOf(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "", false
	}
	return u.Scheme + "://" + u.Host, true
}
