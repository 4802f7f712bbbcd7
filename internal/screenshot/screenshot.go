// Package screenshot captures a full-page PNG of a URL through the shared
// browser pool. Ground: original_source screenshot.rs's make_screenshot_task
// — same two-try-then-give-up shape on a transient browser-connection
// error, adapted from headless_chrome's tab API to chromedp.Run.
package screenshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/sigman78/webrecon/internal/fingerprint"
)

const navigateTimeout = 30 * time.Second

// Invalidator is the narrow slice of browser.Pool a screenshot task needs:
// get a usable context, or force a relaunch after a connection error.
type Invalidator interface {
	Get() (context.Context, error)
	Invalidate()
}

// Capturer fetches a PNG screenshot of url. Satisfied by Capture bound to
// a real Invalidator; narrowed here so callers needing a stub (tests, the
// null-configured build) can swap it in.
type Capturer func(ctx context.Context, url string) ([]byte, error)

// NewCapturer returns a Capturer backed by pool.
func NewCapturer(pool Invalidator) Capturer {
	return func(ctx context.Context, url string) ([]byte, error) {
		return capture(ctx, pool, url)
	}
}

// capture tries to screenshot url, retrying once after invalidating the
// pool if the failure looks like a stale browser connection. TODO: the
// substring match on "connection is closed"/"websocket" is inherited
// as-is from the original design and is fragile against chromedp error
// message changes; a typed sentinel error would be sturdier.
func capture(ctx context.Context, pool Invalidator, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		allocCtx, err := pool.Get()
		if err != nil {
			return nil, fmt.Errorf("acquire browser: %w", err)
		}

		tabCtx, cancel := chromedp.NewContext(allocCtx)
		navCtx, navCancel := context.WithTimeout(tabCtx, navigateTimeout)

		var png []byte
		runErr := chromedp.Run(navCtx,
			chromedp.Navigate(url),
			chromedp.FullScreenshot(&png, 90),
		)
		navCancel()
		cancel()

		if runErr == nil {
			return png, nil
		}

		lastErr = runErr
		msg := strings.ToLower(runErr.Error())
		if attempt == 1 && (strings.Contains(msg, "connection is closed") || strings.Contains(msg, "websocket")) {
			pool.Invalidate()
			continue
		}
		break
	}
	return nil, fmt.Errorf("screenshot %s: %w", url, lastErr)
}

// Dispatch fires a fire-and-forget capture of url into dir, logging errors
// via logf rather than propagating them — matching the original's
// detached tokio::spawn semantics. onResult, if non-nil, is called once
// with whether the capture+save succeeded, so a caller can feed a scan
// result summary without the capture itself needing to know about one.
func Dispatch(ctx context.Context, capture Capturer, url, dir string, logf func(format string, args ...any), onResult func(ok bool)) {
	go func() {
		png, err := capture(ctx, url)
		if err != nil {
			logf("screenshot %s: %v", url, err)
			if onResult != nil {
				onResult(false)
			}
			return
		}
		if err := save(dir, url, png); err != nil {
			logf("save screenshot %s: %v", url, err)
			if onResult != nil {
				onResult(false)
			}
			return
		}
		if onResult != nil {
			onResult(true)
		}
	}()
}

func save(dir, url string, png []byte) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	name := fingerprint.Of(url) + ".png"
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".webrecon-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(png); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
