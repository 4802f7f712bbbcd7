// Package browser manages a lazily-launched headless Chrome instance shared
// by every screenshot task. Ground: original_source browser_manager.rs's
// BrowserManager (Mutex<Option<Arc<Browser>>>, get/invalidate), adapted from
// headless_chrome's Browser/Tab handles to chromedp's allocator context,
// grounded in theaidguild-kirk-ai's chromedp.NewContext usage.
package browser

import (
	"context"
	"sync"

	"github.com/chromedp/chromedp"
)

type state int

const (
	uninitialized state = iota
	running
	invalidated
)

// Pool holds a single shared Chrome allocator context, launched on first
// use and torn down on Invalidate. Concurrent Get callers share the same
// underlying browser process; Invalidate swaps the slot atomically so a
// caller mid-Get either sees the old context or triggers a fresh launch,
// never a half-torn-down one.
type Pool struct {
	mu       sync.Mutex
	state    state
	allocCtx context.Context
	cancel   context.CancelFunc
}

// New returns an unlaunched pool. The first Get call launches Chrome.
func New() *Pool {
	return &Pool{state: uninitialized}
}

// Get returns a context bound to the shared Chrome instance, launching it
// if this is the first call or the pool was previously invalidated.
func (p *Pool) Get() (context.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == running {
		return p.allocCtx, nil
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)
	p.allocCtx = allocCtx
	p.cancel = cancel
	p.state = running
	return p.allocCtx, nil
}

// Invalidate tears down the current browser process, if any, and forces
// the next Get to launch a fresh one.
func (p *Pool) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.allocCtx = nil
	p.cancel = nil
	p.state = invalidated
}
