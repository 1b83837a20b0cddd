package schedule

import (
	"sync"
	"time"
)

// Debouncer collapses a burst of Trigger calls into one call of fn, made
// once delay has passed without a further Trigger. Each Trigger cancels the
// previously scheduled call, so the latest state always wins.
type Debouncer struct {
	mu      sync.Mutex
	clock   Clock
	delay   time.Duration
	fn      func()
	timer   Timer
	gen     uint64
	stopped bool
}

// NewDebouncer returns a Debouncer calling fn delay after the last Trigger.
// A nil clock uses the real clock.
func NewDebouncer(clock Clock, delay time.Duration, fn func()) *Debouncer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{clock: clock, delay: delay, fn: fn}
}

// Trigger (re)starts the delay.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.run(gen) })
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any scheduled call; later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) run(gen uint64) {
	d.mu.Lock()
	// A stale timer may still fire after Stop returned false.
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	fn := d.fn
	d.mu.Unlock()
	fn()
}
