// Package progress wraps a terminal progress bar for the scheduler's
// URL fan-out. Ground: sigman78/wayback-dl's internal/wayback/progress.go
// Progress wrapper, adapted from a two-phase CDX/download bar pair to a
// single determinate bar tracking URL tasks completed.
package progress

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Bar is a nil-safe wrapper around progressbar.ProgressBar. A nil *Bar is
// valid; every method is a no-op, so scheduler tests can pass nil instead
// of stubbing out terminal output.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewScanProgress creates a determinate bar tracking total URL tasks.
func NewScanProgress(total int) *Bar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[green]Scanning URLs[reset]"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			_, _ = os.Stderr.WriteString("\n")
		}),
	)
	return &Bar{bar: bar}
}

// Inc advances the bar by one completed URL task.
func (b *Bar) Inc() {
	if b == nil {
		return
	}
	_ = b.bar.Add(1)
}

// Finish marks the bar complete.
func (b *Bar) Finish() {
	if b == nil {
		return
	}
	_ = b.bar.Finish()
}
