package querystate

import (
	"sync"
	"time"

	"github.com/dafoggo/klinh-admin/internal/filter"
)

// throttler runs at most one call per window. The first call of an idle
// window runs immediately; calls made while the window is open collapse into
// one trailing call when it closes.
type throttler struct {
	clock  filter.Clock
	window time.Duration

	mu      sync.Mutex
	timer   filter.Timer
	pending func()
}

func newThrottler(clock filter.Clock, window time.Duration) *throttler {
	return &throttler{clock: clock, window: window}
}

func (t *throttler) Do(fn func()) {
	if t.window <= 0 {
		fn()
		return
	}

	t.mu.Lock()
	if t.timer != nil {
		t.pending = fn
		t.mu.Unlock()
		return
	}
	t.timer = t.clock.AfterFunc(t.window, t.tick)
	t.mu.Unlock()

	fn()
}

func (t *throttler) tick() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	if fn == nil {
		t.timer = nil
		t.mu.Unlock()
		return
	}
	t.timer = t.clock.AfterFunc(t.window, t.tick)
	t.mu.Unlock()

	fn()
}

// Flush runs the trailing call now, if any
func (t *throttler) Flush() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Stop drops the trailing call
func (t *throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
