package schedule

import "sync"

// Coalescer keeps at most one request pending. post hands a function to
// the thread that performs the work (the UI thread in the app); requests
// made while one is pending are dropped because the pending call reads the
// latest state when it runs.
type Coalescer struct {
	mu      sync.Mutex
	post    func(func())
	pending bool
}

// NewCoalescer returns a Coalescer scheduling work through post.
// A nil post runs the work synchronously.
func NewCoalescer(post func(func())) *Coalescer {
	if post == nil {
		post = func(f func()) { f() }
	}
	return &Coalescer{post: post}
}

// Request schedules fn unless a call is already pending. It reports whether
// fn was scheduled.
func (c *Coalescer) Request(fn func()) bool {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return false
	}
	c.pending = true
	c.mu.Unlock()

	c.post(func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
		fn()
	})
	return true
}

// Pending reports whether a call is waiting to run.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
