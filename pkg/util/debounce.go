package util

import (
	"sync"
	"time"
)

// DefaultDebounce is the wait applied when Debounce receives a non-positive
// duration.
const DefaultDebounce = 160 * time.Millisecond

// Debouncer coalesces bursts of Trigger calls into one call of fn, made
// after wait has elapsed without a new trigger.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	fn    func()
	timer *time.Timer
}

// Debounce returns a Debouncer for fn.
func Debounce(wait time.Duration, fn func()) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger (re)starts the wait.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Stop cancels a pending call. It reports whether a call was cancelled.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}
