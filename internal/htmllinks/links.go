// Package htmllinks extracts absolute href/src URLs from an HTML document,
// walking the parsed tree the same way the teacher's link rewriter does
// (golang.org/x/net/html), but collecting rather than mutating attributes.
package htmllinks

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Extract parses htmlText loosely and returns the deduplicated set of
// absolute URLs found in every href and src attribute, resolved against
// baseURL. Fragment-only, mailto:, javascript:, and data: references are
// dropped. Insertion order is not preserved.
func Extract(htmlText, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	out := make(map[string]struct{})

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key != "href" && a.Key != "src" {
					continue
				}
				if resolved, ok := normalize(base, a.Val); ok {
					out[resolved] = struct{}{}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	result := make([]string, 0, len(out))
	for u := range out {
		result = append(result, u)
	}
	return result
}

func normalize(base *url.URL, raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "mailto:") ||
		strings.HasPrefix(trimmed, "javascript:") ||
		strings.HasPrefix(trimmed, "data:") {
		return "", false
	}

	if abs, err := url.Parse(trimmed); err == nil && abs.IsAbs() {
		return abs.String(), true
	}

	joined, err := base.Parse(trimmed)
	if err != nil {
		return "", false
	}
	return joined.String(), true
}
