package filter

import (
	"sync"
	"time"
)

// Debouncer delays calls per key. A later call for the same key replaces the
// pending one and restarts its delay.
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*debounced
	seq     uint64
}

type debounced struct {
	timer Timer
	fn    func()
	seq   uint64
}

// NewDebouncer creates a debouncer. A nil clock uses real time.
func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	return &Debouncer{
		clock:   clock,
		delay:   delay,
		pending: make(map[string]*debounced),
	}
}

// Call schedules fn under key, cancelling whatever was pending for it
func (d *Debouncer) Call(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}

	d.seq++
	seq := d.seq
	entry := &debounced{fn: fn, seq: seq}
	entry.timer = d.clock.AfterFunc(d.delay, func() {
		d.fire(key, seq)
	})
	d.pending[key] = entry
}

func (d *Debouncer) fire(key string, seq uint64) {
	d.mu.Lock()
	entry, ok := d.pending[key]
	if !ok || entry.seq != seq {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	entry.fn()
}

// Cancel drops the pending call for key without running it
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if entry, ok := d.pending[key]; ok {
		entry.timer.Stop()
		delete(d.pending, key)
	}
}

// Pending reports whether a call is scheduled for key
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Flush runs every pending call now
func (d *Debouncer) Flush() {
	d.mu.Lock()
	calls := make([]func(), 0, len(d.pending))
	for key, entry := range d.pending {
		entry.timer.Stop()
		calls = append(calls, entry.fn)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, fn := range calls {
		fn()
	}
}

// Stop cancels every pending call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, entry := range d.pending {
		entry.timer.Stop()
		delete(d.pending, key)
	}
}
