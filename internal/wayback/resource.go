// Package wayback resolves URLs against the live web, falling back to the
// Internet Archive's Wayback Machine, and lists a domain's known URLs via
// the CDX index. Ground: sigman78/wayback-dl's internal/wayback/cdx.go —
// its rate limiter and Retry-After-aware exponential backoff are reused
// verbatim in spirit, generalized from "paginate every snapshot of a
// whole site" to the spec's narrower live-or-archive + domain-listing
// contract.
package wayback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Resource is one successfully resolved URL's bytes plus provenance.
type Resource struct {
	Body         []byte
	EffectiveURL string
	ArchiveUsed  bool
}

const (
	liveTimeout   = 15 * time.Second
	userAgent     = "webrecon/1.0 (+https://web.archive.org)"
	maxDomainURLs = 250 // spec'd hard cap; promote to a config knob later
	maxCDXRetries = 4
)

// Fetcher issues live and archive GETs over a shared *http.Client, and
// rate-limited, retried CDX lookups.
type Fetcher struct {
	Client *http.Client
	cdxLim *rate.Limiter
}

// NewFetcher returns a Fetcher with a client whose Timeout covers the
// archive/CDX legs; the live leg additionally enforces its own 15s
// per-request deadline via ctx so a slow-but-alive origin doesn't stall the
// whole fallback chain. CDX requests are throttled to cdxRatePerMin
// requests per minute; a non-positive value falls back to 60/min.
func NewFetcher(client *http.Client) *Fetcher {
	return NewFetcherWithRate(client, 60)
}

// NewFetcherWithRate is NewFetcher with an explicit CDX requests-per-minute
// budget.
func NewFetcherWithRate(client *http.Client, cdxRatePerMin int) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if cdxRatePerMin <= 0 {
		cdxRatePerMin = 60
	}
	return &Fetcher{
		Client: client,
		cdxLim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cdxRatePerMin)), 5),
	}
}

// FetchLiveOrArchive tries a live GET first; on timeout, network error, or
// non-2xx status it falls back to the most recent 200-status Wayback
// snapshot. Errors are returned for the caller to log and skip — they are
// never fatal to the scan.
func (f *Fetcher) FetchLiveOrArchive(ctx context.Context, rawURL string) (Resource, error) {
	if body, ok := f.tryLive(ctx, rawURL); ok {
		return Resource{Body: body, EffectiveURL: rawURL, ArchiveUsed: false}, nil
	}

	ts, err := f.latestSnapshotTimestamp(ctx, rawURL)
	if err != nil {
		return Resource{}, fmt.Errorf("wayback cdx lookup for %s: %w", rawURL, err)
	}

	archiveURL := fmt.Sprintf("https://web.archive.org/web/%sid_/%s", ts, rawURL)
	body, err := f.get(ctx, archiveURL)
	if err != nil {
		return Resource{}, fmt.Errorf("archive fetch %s: %w", archiveURL, err)
	}

	return Resource{Body: body, EffectiveURL: archiveURL, ArchiveUsed: true}, nil
}

func (f *Fetcher) tryLive(ctx context.Context, rawURL string) ([]byte, bool) {
	liveCtx, cancel := context.WithTimeout(ctx, liveTimeout)
	defer cancel()

	body, err := f.get(liveCtx, rawURL)
	if err != nil {
		return nil, false
	}
	return body, true
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}
	return io.ReadAll(resp.Body)
}

// retryDelay returns how long to wait before the next CDX attempt. It
// honours the Retry-After header when present, otherwise uses exponential
// backoff capped at 60s: 5s, 10s, 20s, 40s, 60s, ...
func retryDelay(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				d := time.Duration(secs) * time.Second
				if d > 120*time.Second {
					d = 120 * time.Second
				}
				return d
			}
		}
	}
	d := 5 * time.Second << uint(attempt)
	if d > 60*time.Second {
		d = 60 * time.Second
	}
	return d
}

// getCDX is the shared rate-limited, retried GET used by every CDX
// endpoint call. It retries on 429 and 5xx responses up to maxCDXRetries
// times with Retry-After-aware exponential backoff.
func (f *Fetcher) getCDX(ctx context.Context, apiURL string) ([]byte, error) {
	for attempt := 0; attempt <= maxCDXRetries; attempt++ {
		if err := f.cdxLim.Wait(ctx); err != nil {
			return nil, fmt.Errorf("cdx rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.Client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusOK {
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			return body, err
		}

		retriable := resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode == http.StatusServiceUnavailable ||
			(resp.StatusCode >= 500 && resp.StatusCode < 600)

		if !retriable || attempt == maxCDXRetries {
			status := resp.StatusCode
			_ = resp.Body.Close()
			return nil, fmt.Errorf("cdx HTTP %d for %s", status, apiURL)
		}

		delay := retryDelay(attempt, resp)
		_ = resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("cdx: exhausted retries for %s", apiURL)
}

// latestSnapshotTimestamp queries the CDX index for the most recent
// 200-status snapshot of rawURL and returns its timestamp.
func (f *Fetcher) latestSnapshotTimestamp(ctx context.Context, rawURL string) (string, error) {
	q := url.Values{
		"url":    {rawURL},
		"output": {"json"},
		"fl":     {"timestamp,original"},
		"filter": {"statuscode:200"},
		"limit":  {"1"},
		"sort":   {"descending"},
	}
	apiURL := "https://web.archive.org/cdx/search/cdx?" + q.Encode()

	body, err := f.getCDX(ctx, apiURL)
	if err != nil {
		return "", err
	}

	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return "", fmt.Errorf("cdx json decode: %w", err)
	}
	if len(rows) < 2 || len(rows[1]) < 1 {
		return "", fmt.Errorf("no timestamp")
	}
	return rows[1][0], nil
}

// FetchDomainURLs lists every URL the CDX index knows for domain (scheme
// and leading slashes stripped from the input), one per line, capped at
// maxDomainURLs entries — the spec's documented hard limit.
func (f *Fetcher) FetchDomainURLs(ctx context.Context, domain string) (string, error) {
	host := normalizeHost(domain)

	q := url.Values{
		"url":       {host + "/*"},
		"matchType": {"domain"},
		"collapse":  {"urlkey"},
		"output":    {"txt"},
		"fl":        {"original"},
		"limit":     {strconv.Itoa(maxDomainURLs)},
	}
	apiURL := "https://web.archive.org/cdx/search/cdx?" + q.Encode()

	body, err := f.getCDX(ctx, apiURL)
	if err != nil {
		return "", fmt.Errorf("fetch domain listing for %s: %w", domain, err)
	}
	return string(body), nil
}

func normalizeHost(domain string) string {
	h := strings.TrimSpace(domain)
	h = strings.TrimPrefix(h, "https://")
	h = strings.TrimPrefix(h, "http://")
	h = strings.TrimSuffix(h, "/")
	return h
}
