// Package poller waits for scheduled feeds to go live and keeps the day's
// schedule warm in the background.
package poller

import (
	"sync"
	"time"
)

// Status describes the recent health of a polling loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the loop has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

type statusTracker struct {
	mu     sync.RWMutex
	status Status
}

func (t *statusTracker) recordAttempt(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.LastAttempt = at
}

func (t *statusTracker) recordSuccess(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.ConsecutiveFailures = 0
	t.status.LastError = ""
	t.status.LastSuccess = at
}

func (t *statusTracker) recordFailure(err error, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.ConsecutiveFailures++
	if err != nil {
		t.status.LastError = err.Error()
	}
	t.status.LastAttempt = at
}

func (t *statusTracker) snapshot() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}
