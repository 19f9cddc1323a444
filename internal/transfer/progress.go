package transfer

import "sync"

// Reporter receives milestone progress updates from a running transfer.
// Delivery is best-effort: a nil reporter is valid and updates are dropped.
// The reporter must not block for long; it runs inline with the transfer.
type Reporter func(Progress)

func (r Reporter) emit(p Progress) {
	if r != nil {
		r(p)
	}
}

// Tracker holds the latest progress snapshot of a transfer so that
// listeners (SSE handlers, CLI renderers) can poll or block for updates.
// Its Publish method satisfies Reporter.
type Tracker struct {
	mu     sync.Mutex
	latest Progress
	result *Result
	done   bool

	// Notification channel: close-and-replace pattern. Listeners call
	// Wait() to get the current channel, then block on it. Any update
	// closes the old channel and replaces it with a new one.
	notify chan struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{notify: make(chan struct{})}
}

// Publish records a progress update and wakes all waiting listeners.
func (t *Tracker) Publish(p Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest = p
	t.signal()
}

// Finish records the terminal result and wakes all waiting listeners.
// The tracker stays readable afterwards so late listeners can still see
// the final snapshot.
func (t *Tracker) Finish(result *Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = result
	t.done = true
	t.signal()
}

// Snapshot returns the latest progress, the terminal result (nil while the
// transfer is still running), and whether the transfer has finished.
func (t *Tracker) Snapshot() (Progress, *Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest, t.result, t.done
}

// Wait returns a channel that is closed when the next update occurs.
// Callers should select on it alongside a timeout for heartbeats.
func (t *Tracker) Wait() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notify
}

// signal closes the current notify channel and replaces it with a new one.
// Must be called with t.mu held.
func (t *Tracker) signal() {
	close(t.notify)
	t.notify = make(chan struct{})
}
