package session

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into a single call of fn after a
// quiet period. Persistence is last-write-wins: fn reads the state at fire
// time, so a newer edit arriving before the timer expires simply pushes
// the deadline and the eventual write carries the newest state.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	pending bool
	stopped bool
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn after the quiet period, resetting the deadline if a
// call is already pending.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
		return
	}
	d.timer.Reset(d.delay)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Flush runs fn immediately if a trigger is pending. Used on shutdown so
// the final edits are not lost to the quiet period.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	run := d.pending && !d.stopped
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	if run {
		d.fn()
	}
}

// Stop cancels any pending call and rejects further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
