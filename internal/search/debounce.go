package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a search runs.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer collapses bursts of triggers into one call made after the input
// has been quiet for the wait period. The last triggered function wins.
type Debouncer struct {
	wait  time.Duration
	mu    sync.Mutex
	timer *time.Timer
	calls sync.WaitGroup // scheduled or running calls
}

// NewDebouncer creates a debouncer. A non-positive wait uses DefaultDebounce.
func NewDebouncer(wait time.Duration) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{wait: wait}
}

// Trigger schedules fn, cancelling any call still pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil && d.timer.Stop() {
		d.calls.Done()
	}
	d.calls.Add(1)
	d.timer = time.AfterFunc(d.wait, func() {
		defer d.calls.Done()
		fn()
	})
}

// Stop cancels the pending call, if any. It reports whether one was cancelled.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	if stopped {
		d.calls.Done()
	}
	d.timer = nil
	return stopped
}

// Wait blocks until every call that has started has returned. Call Stop or
// stop triggering first; a pending call is waited for, not cancelled.
func (d *Debouncer) Wait() {
	d.calls.Wait()
}
