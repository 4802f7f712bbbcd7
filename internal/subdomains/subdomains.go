// Package subdomains extracts the set of unique hosts referenced by a
// newline-separated list of URLs — the scheduler's subdomain-extraction
// collaborator, referenced only through this boundary per the scan
// pipeline's contract.
package subdomains

import (
	"bufio"
	"io"
	"regexp"
	"sort"
)

var hostPattern = regexp.MustCompile(`https?://([^/\s]+)`)

// Extract reads every line from r and returns the deduplicated, sorted set
// of hosts found in any http(s) URL on those lines.
func Extract(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		for _, m := range hostPattern.FindAllStringSubmatch(sc.Text(), -1) {
			seen[m[1]] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Strings(out)
	return out, nil
}
