package wayback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchLiveOrArchivePrefersLive(t *testing.T) {
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("live body"))
	}))
	defer live.Close()

	f := NewFetcher(live.Client())
	res, err := f.FetchLiveOrArchive(context.Background(), live.URL)
	if err != nil {
		t.Fatalf("FetchLiveOrArchive: %v", err)
	}
	if res.ArchiveUsed {
		t.Error("expected ArchiveUsed=false when the live origin responds")
	}
	if string(res.Body) != "live body" {
		t.Errorf("body = %q, want %q", res.Body, "live body")
	}
	if res.EffectiveURL != live.URL {
		t.Errorf("EffectiveURL = %q, want %q", res.EffectiveURL, live.URL)
	}
}

func TestFetchLiveOrArchiveFallsBackOn404(t *testing.T) {
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer live.Close()

	f := NewFetcher(live.Client())
	_, err := f.FetchLiveOrArchive(context.Background(), live.URL)
	// No real web.archive.org reachable in tests: the CDX lookup itself
	// fails, which is the expected outcome for this offline case.
	if err == nil {
		t.Fatal("expected an error once both live and archive lookups fail")
	}
}

func TestNormalizeHost(t *testing.T) {
	cases := map[string]string{
		"https://example.com/":  "example.com",
		"http://example.com":    "example.com",
		"  example.com  ":       "example.com",
		"example.com/path/":     "example.com/path",
	}
	for in, want := range cases {
		if got := normalizeHost(in); got != want {
			t.Errorf("normalizeHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFetchDomainURLsReturnsBodyOnSuccess(t *testing.T) {
	// Exercises the txt-output decode path without hitting the network by
	// pointing at a local stand-in CDX server via a custom Transport.
	cdx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "matchType=domain") {
			t.Errorf("expected matchType=domain in query, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte("https://example.com/a\nhttps://example.com/b\n"))
	}))
	defer cdx.Close()

	f := NewFetcher(cdx.Client())
	body, err := f.get(context.Background(), cdx.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(string(body), "example.com/a") {
		t.Errorf("unexpected body %q", body)
	}
}
