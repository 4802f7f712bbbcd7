// Package scheduler runs one domain scan end to end: list the domain's
// known URLs from the CDX index, extract subdomains, then fan the URL
// processor out over a bounded worker pool. Ground: spec.md's scheduler
// contract, wired onto sigman78/wayback-dl's workspace-file conventions
// (out.txt/subdomains.txt) and panjf2000/ants for the bounded pool the
// teacher's go.mod already declared but never called.
package scheduler

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/sigman78/webrecon/internal/progress"
	"github.com/sigman78/webrecon/internal/scanner"
	"github.com/sigman78/webrecon/internal/subdomains"
)

// DefaultConcurrency is the in-flight URL task bound the original design
// fixes at 4.
const DefaultConcurrency = 4

// DomainLister fetches the newline-separated URL listing for a domain.
// Satisfied by *wayback.Fetcher.FetchDomainURLs.
type DomainLister interface {
	FetchDomainURLs(ctx context.Context, domain string) (string, error)
}

// Config bundles one Run invocation's collaborators and knobs.
type Config struct {
	Lister       DomainLister
	Process      func(ctx context.Context, rawURL string) error
	WorkspaceDir string
	Concurrency  int
	Log          zerolog.Logger
	// ShowProgress enables a terminal progress bar across the URL fan-out.
	ShowProgress bool
	// Counters, if set, is read back into the returned Summary once every
	// URL task completes. Shared with the scanner.Deps a Process closure
	// was built from — see ProcessAdapter.
	Counters *scanner.Counters
}

// Summary reports run-scoped counts accumulated during Run: how many URLs
// were processed, findings written, archives inspected, and screenshots
// captured or failed. It exists for logging/exit-code purposes only — it
// is never persisted separately from the report file and asset tree Run
// already wrote.
type Summary struct {
	URLsProcessed       int64
	FindingsWritten     int64
	ArchivesInspected   int64
	ScreenshotsCaptured int64
	ScreenshotsFailed   int64
}

func summarize(c *scanner.Counters) Summary {
	if c == nil {
		return Summary{}
	}
	return Summary{
		URLsProcessed:       c.URLsProcessed.Load(),
		FindingsWritten:     c.FindingsWritten.Load(),
		ArchivesInspected:   c.ArchivesInspected.Load(),
		ScreenshotsCaptured: c.ScreenshotsCaptured.Load(),
		ScreenshotsFailed:   c.ScreenshotsFailed.Load(),
	}
}

// Run executes the four-step scheduler contract for domain against
// cfg.WorkspaceDir, which must already exist.
func Run(ctx context.Context, cfg Config, domain string) (Summary, error) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	listing, err := cfg.Lister.FetchDomainURLs(ctx, domain)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch domain listing for %s: %w", domain, err)
	}
	outPath := filepath.Join(cfg.WorkspaceDir, "out.txt")
	if err := os.WriteFile(outPath, []byte(listing), 0o644); err != nil {
		return Summary{}, fmt.Errorf("write %s: %w", outPath, err)
	}

	hosts, err := subdomains.Extract(strings.NewReader(listing))
	if err != nil {
		cfg.Log.Warn().Err(err).Msg("subdomain extraction failed")
	} else if len(hosts) > 0 {
		subPath := filepath.Join(cfg.WorkspaceDir, "subdomains.txt")
		if err := os.WriteFile(subPath, []byte(strings.Join(hosts, "\n")+"\n"), 0o644); err != nil {
			return Summary{}, fmt.Errorf("write %s: %w", subPath, err)
		}
	}

	urls := dedupLines(listing)

	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return Summary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var bar *progress.Bar
	if cfg.ShowProgress {
		bar = progress.NewScanProgress(len(urls))
	}

	var wg sync.WaitGroup
	for _, u := range urls {
		u := u
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			defer bar.Inc()
			if err := cfg.Process(ctx, u); err != nil {
				cfg.Log.Warn().Err(err).Str("url", u).Msg("processing failed")
			}
		})
		if submitErr != nil {
			wg.Done()
			cfg.Log.Warn().Err(submitErr).Str("url", u).Msg("submit to pool failed")
		}
	}
	wg.Wait()
	bar.Finish()

	return summarize(cfg.Counters), nil
}

// dedupLines splits listing into non-empty lines and removes duplicates,
// preserving first-seen order.
func dedupLines(listing string) []string {
	seen := make(map[string]struct{})
	var out []string

	sc := bufio.NewScanner(strings.NewReader(listing))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

// ProcessAdapter narrows scanner.ProcessURL plus its Deps into the
// Config.Process shape Run expects, without the caller wiring closures by
// hand at every call site.
func ProcessAdapter(d scanner.Deps) func(ctx context.Context, rawURL string) error {
	return func(ctx context.Context, rawURL string) error {
		return scanner.ProcessURL(ctx, d, rawURL)
	}
}
