// Package scanner runs the per-URL pipeline state machine: fetch, persist,
// pattern-scan, archive-inspect, depth-bounded link recursion, screenshot
// dispatch. Ground: original_source crawler.rs's process_single_url, with
// the goroutine-per-screenshot spawn replaced by a caller-supplied
// dispatcher so tests can observe dispatch without a real browser pool.
package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/sigman78/webrecon/internal/archive"
	"github.com/sigman78/webrecon/internal/assets"
	"github.com/sigman78/webrecon/internal/htmllinks"
	"github.com/sigman78/webrecon/internal/patterns"
	"github.com/sigman78/webrecon/internal/report"
	"github.com/sigman78/webrecon/internal/wayback"
)

// Counters accumulates run-scoped counts across concurrently processed
// URLs. Every field is safe for concurrent increment; a nil *Counters is
// also safe — every Deps method that touches it checks first, so callers
// that don't care about the summary (most tests) can leave it unset.
type Counters struct {
	URLsProcessed       atomic.Int64
	FindingsWritten     atomic.Int64
	ArchivesInspected   atomic.Int64
	ScreenshotsCaptured atomic.Int64
	ScreenshotsFailed   atomic.Int64
}

// interestingNames are well-known paths worth probing on every HTML page's
// root, regardless of whether the page links to them.
var interestingNames = []string{"robots.txt", "sitemap.xml"}

// Fetcher resolves a URL to bytes, live or from the archive. Satisfied by
// *wayback.Fetcher; narrowed here so tests can fake it.
type Fetcher interface {
	FetchLiveOrArchive(ctx context.Context, rawURL string) (wayback.Resource, error)
}

// ScreenshotDispatcher fires a fire-and-forget screenshot capture for url.
// Errors are the dispatcher's own concern to log; ProcessURL never learns
// of them by design (matching the original's detached task::spawn).
type ScreenshotDispatcher func(url string)

// Deps bundles a URL processor run's collaborators.
type Deps struct {
	Fetch      Fetcher
	Store      assets.Storage
	Report     *report.Writer
	Screenshot ScreenshotDispatcher
	Log        zerolog.Logger
	// MaxDepth bounds how many hops of HTML link recursion a seed URL may
	// trigger. Values below 1 are treated as 1 (config.Parse clamps this
	// to [1,3] before it ever reaches here, but a zero-value Deps in tests
	// should still behave like the original one-level default).
	MaxDepth int
	// Counters, if set, receives run-scoped counts for the scheduler's
	// scan result summary. Left nil, it is simply never touched.
	Counters *Counters
}

// ProcessURL runs the full single-URL pipeline described in package docs.
// It returns nil for every non-fatal outcome (ignored path, fetch failure,
// non-UTF-8 body) — per-URL errors are logged and swallowed so one bad URL
// never halts a scan; a non-nil return indicates a collaborator
// misconfiguration the caller should treat as fatal (e.g. a nil Store).
func ProcessURL(ctx context.Context, d Deps, rawURL string) error {
	if patterns.ShouldIgnorePath(rawURL) {
		return nil
	}

	res, err := d.Fetch.FetchLiveOrArchive(ctx, rawURL)
	if err != nil {
		d.logf("fetch %s: %v", rawURL, err)
		return nil
	}

	return visit(ctx, d, res, effectiveMaxDepth(d))
}

func effectiveMaxDepth(d Deps) int {
	if d.MaxDepth < 1 {
		return 1
	}
	return d.MaxDepth
}

// visit persists and scans one fetched resource, then, while remaining
// link-hops are left, recurses into its HTML links with one fewer hop.
func visit(ctx context.Context, d Deps, res wayback.Resource, remaining int) error {
	if err := processFetched(ctx, d, res.EffectiveURL, res.Body); err != nil {
		return err
	}
	d.countURL()

	mainExt, _ := assets.DetectExt(res.EffectiveURL)
	if remaining > 0 && assets.IsHTMLExt(mainExt) {
		if err := recurseLinks(ctx, d, res.EffectiveURL, res.Body, remaining-1); err != nil {
			return err
		}
	}

	d.Screenshot(res.EffectiveURL)
	return nil
}

// processFetched persists effectiveURL's bytes, pattern-scans them, and
// archive-inspects them if the extension warrants it. Shared by the seed
// URL and every recursed child link.
func processFetched(_ context.Context, d Deps, effectiveURL string, body []byte) error {
	ext, ok := assets.DetectExt(effectiveURL)
	if !ok {
		ext = "bin"
	}
	path := assets.PathFor(effectiveURL, ext)
	if err := d.Store.Put(path, body); err != nil {
		return fmt.Errorf("persist %s: %w", effectiveURL, err)
	}

	if patterns.IsProbablyText(body) {
		findings := patterns.Scan(string(body))
		if err := d.Report.WriteBlock(effectiveURL, findings); err != nil {
			return fmt.Errorf("write report for %s: %w", effectiveURL, err)
		}
		d.countFindings(len(findings))
	}

	if assets.IsArchiveExt(ext) {
		d.countArchive()
		members, err := archive.Inspect(body, effectiveURL, ext, d.Store)
		if err != nil {
			d.logf("archive inspect %s: %v", effectiveURL, err)
		}
		var all []patterns.Finding
		for _, m := range members {
			all = append(all, m.Findings...)
		}
		if err := d.Report.WriteBlock(effectiveURL+" (архив)", all); err != nil {
			return fmt.Errorf("write archive report for %s: %w", effectiveURL, err)
		}
		d.countFindings(len(all))
	}

	return nil
}

// recurseLinks extracts every navigable link from an HTML page, augments
// them with well-known root-relative probes, deduplicates, and fetches
// each child exactly once. remaining is how many further hops each child
// may itself recurse — 0 means a child is fetched and scanned but its own
// links are not followed.
func recurseLinks(ctx context.Context, d Deps, effectiveURL string, body []byte, remaining int) error {
	if !patterns.IsProbablyText(body) {
		return nil
	}
	text := string(body)

	toVisit := make(map[string]struct{})
	for _, u := range htmllinks.Extract(text, effectiveURL) {
		toVisit[u] = struct{}{}
	}
	if root, ok := assets.RootOf(effectiveURL); ok {
		root = strings.TrimSuffix(root, "/")
		for _, name := range interestingNames {
			toVisit[root+"/"+name] = struct{}{}
		}
	}

	for childURL := range toVisit {
		if patterns.ShouldIgnorePath(childURL) {
			continue
		}

		res, err := d.Fetch.FetchLiveOrArchive(ctx, childURL)
		if err != nil {
			d.logf("fetch child %s: %v", childURL, err)
			continue
		}

		if err := visit(ctx, d, res, remaining); err != nil {
			return err
		}
	}

	return nil
}

func (d Deps) logf(format string, args ...any) {
	d.Log.Warn().Msg(fmt.Sprintf(format, args...))
}

func (d Deps) countURL() {
	if d.Counters != nil {
		d.Counters.URLsProcessed.Add(1)
	}
}

func (d Deps) countFindings(n int) {
	if d.Counters != nil && n > 0 {
		d.Counters.FindingsWritten.Add(int64(n))
	}
}

func (d Deps) countArchive() {
	if d.Counters != nil {
		d.Counters.ArchivesInspected.Add(1)
	}
}
