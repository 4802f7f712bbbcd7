package screenshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sigman78/webrecon/internal/fingerprint"
)

func TestDispatchSavesCapturedPNG(t *testing.T) {
	dir := t.TempDir()
	url := "https://example.com/page"

	fake := Capturer(func(_ context.Context, u string) ([]byte, error) {
		if u != url {
			t.Errorf("capturer called with %q, want %q", u, url)
		}
		return []byte("fake-png-bytes"), nil
	})

	var resultMu sync.Mutex
	var gotResult, resultOK bool

	Dispatch(context.Background(), fake, url, dir, func(string, ...any) {}, func(ok bool) {
		resultMu.Lock()
		gotResult, resultOK = true, ok
		resultMu.Unlock()
	})

	// Dispatch is fire-and-forget; poll briefly for the file to land.
	want := filepath.Join(dir, fingerprint.Of(url)+".png")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(want); err == nil {
			if string(data) != "fake-png-bytes" {
				t.Fatalf("saved contents = %q", data)
			}
			resultMu.Lock()
			defer resultMu.Unlock()
			if !gotResult || !resultOK {
				t.Fatalf("expected onResult(true), got called=%v ok=%v", gotResult, resultOK)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected screenshot file at %s within deadline", want)
}

func TestDispatchLogsCaptureError(t *testing.T) {
	dir := t.TempDir()
	var loggedMu sync.Mutex
	var logged bool
	var resultOK = true

	fake := Capturer(func(context.Context, string) ([]byte, error) {
		return nil, errors.New("navigation failed")
	})

	Dispatch(context.Background(), fake, "https://example.com/x", dir, func(format string, args ...any) {
		loggedMu.Lock()
		logged = true
		loggedMu.Unlock()
	}, func(ok bool) {
		loggedMu.Lock()
		resultOK = ok
		loggedMu.Unlock()
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		loggedMu.Lock()
		l, ok := logged, resultOK
		loggedMu.Unlock()
		if l {
			if ok {
				t.Fatal("expected onResult(false) for a capture failure")
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected capture failure to be logged")
}

func TestSaveIsAtomicAndFingerprinted(t *testing.T) {
	dir := t.TempDir()
	url := "https://example.com/page"
	if err := save(dir, url, []byte("png-data")); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file, got %d", len(entries))
	}
	if entries[0].Name() != fingerprint.Of(url)+".png" {
		t.Errorf("unexpected filename %q", entries[0].Name())
	}
}
