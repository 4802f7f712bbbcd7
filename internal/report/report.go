// Package report appends scan findings to a single shared text report.
// Ground: original_source crawler.rs's Arc<Mutex<File>> discipline — every
// worker composes its block in memory first and only holds the lock long
// enough to append it, so slow disks never serialize URL processing.
package report

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sigman78/webrecon/internal/entropy"
	"github.com/sigman78/webrecon/internal/patterns"
)

// Writer appends findings blocks to a single append-only file.
type Writer struct {
	mu   sync.Mutex
	file *os.File
}

// Open creates or appends to path, ready for concurrent WriteBlock calls.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", path, err)
	}
	return &Writer{file: f}, nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	return w.file.Close()
}

// WriteBlock composes header and findings into a single buffer, then
// appends it to the report under the lock. Returns immediately without
// writing if findings is empty — an empty URL doesn't clutter the report.
// Each finding line carries its matched value's Shannon entropy, rounded to
// two decimal places, so a reviewer can triage by how secret-shaped a hit
// looks without re-deriving entropy by hand.
func (w *Writer) WriteBlock(header string, findings []patterns.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, f := range findings {
		bitsPerChar, totalBits, length := entropy.Shannon([]byte(f.Value))
		fmt.Fprintf(&b, "  - [%s] Найдено: %s | len=%d | H≈%.2f bits/char | total≈%.2f bits\n",
			f.Rule, f.Value, length, bitsPerChar, totalBits)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.file.WriteString(b.String())
	return err
}
