package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sigman78/webrecon/internal/scanner"
)

type fakeLister struct {
	listing string
}

func (f *fakeLister) FetchDomainURLs(_ context.Context, _ string) (string, error) {
	return f.listing, nil
}

func TestRunWritesOutAndSubdomainsAndDedupsURLs(t *testing.T) {
	dir := t.TempDir()
	listing := "https://a.example.com/1\nhttps://a.example.com/1\nhttps://b.example.com/2\n\n"

	var mu sync.Mutex
	var processed []string

	cfg := Config{
		Lister: &fakeLister{listing: listing},
		Process: func(_ context.Context, rawURL string) error {
			mu.Lock()
			processed = append(processed, rawURL)
			mu.Unlock()
			return nil
		},
		WorkspaceDir: dir,
		Concurrency:  2,
	}

	if _, err := Run(context.Background(), cfg, "example.com"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	outData, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	if err != nil {
		t.Fatalf("read out.txt: %v", err)
	}
	if string(outData) != listing {
		t.Errorf("out.txt = %q, want verbatim listing %q", outData, listing)
	}

	subData, err := os.ReadFile(filepath.Join(dir, "subdomains.txt"))
	if err != nil {
		t.Fatalf("read subdomains.txt: %v", err)
	}
	if !strings.Contains(string(subData), "a.example.com") || !strings.Contains(string(subData), "b.example.com") {
		t.Errorf("subdomains.txt = %q, missing expected hosts", subData)
	}

	if len(processed) != 2 {
		t.Errorf("expected 2 deduplicated URLs processed, got %v", processed)
	}
}

func TestRunSkipsSubdomainsFileWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Lister:       &fakeLister{listing: "not a url\n"},
		Process:      func(context.Context, string) error { return nil },
		WorkspaceDir: dir,
	}

	if _, err := Run(context.Background(), cfg, "example.com"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "subdomains.txt")); !os.IsNotExist(err) {
		t.Errorf("expected no subdomains.txt when extraction finds nothing, err=%v", err)
	}
}

func TestRunReturnsSummaryFromCounters(t *testing.T) {
	dir := t.TempDir()
	counters := &scanner.Counters{}
	counters.URLsProcessed.Add(3)
	counters.FindingsWritten.Add(5)
	counters.ArchivesInspected.Add(1)
	counters.ScreenshotsCaptured.Add(2)
	counters.ScreenshotsFailed.Add(1)

	cfg := Config{
		Lister:       &fakeLister{listing: "https://a.example.com/1\n"},
		Process:      func(context.Context, string) error { return nil },
		WorkspaceDir: dir,
		Counters:     counters,
	}

	summary, err := Run(context.Background(), cfg, "example.com")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := Summary{URLsProcessed: 3, FindingsWritten: 5, ArchivesInspected: 1, ScreenshotsCaptured: 2, ScreenshotsFailed: 1}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
}

func TestDedupLines(t *testing.T) {
	got := dedupLines("a\na\n\nb\n  \nc\n")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}
