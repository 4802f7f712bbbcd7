package reportserver

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestHandlerServesFileWithMIME(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sensitive_info.txt"), []byte("leak"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	h := handler(dir, filepath.Dir(dir))
	req := httptest.NewRequest("GET", "/sensitive_info.txt", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "leak" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandlerServesIndexHTMLForRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	h := handler(dir, filepath.Dir(dir))
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestHandler404sOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	h := handler(dir, filepath.Dir(dir))
	req := httptest.NewRequest("GET", "/nope.txt", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCollapseDotDot(t *testing.T) {
	cases := map[string]string{
		"a/b/../c.txt":  "ac.txt",
		"a/../../c.txt": "../c.txt",
		"plain.txt":     "plain.txt",
		"../escape.txt": "../escape.txt",
	}
	for in, want := range cases {
		if got := collapseDotDot(in); got != want {
			t.Errorf("collapseDotDot(%q) = %q, want %q", in, got, want)
		}
	}
}
