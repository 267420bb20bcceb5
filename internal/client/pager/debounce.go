package pager

import (
	"sync"
	"time"
)

// DefaultDebounce is the pause after the last keystroke before a search
// fires.
const DefaultDebounce = 350 * time.Millisecond

// Debouncer coalesces rapid calls into one invocation after a quiet
// period. Each Trigger restarts the timer; only the last scheduled
// function runs.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet period, cancelling any
// previously scheduled call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels a pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
