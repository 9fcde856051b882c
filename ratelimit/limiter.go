package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window counter keyed by user id. State is
// process-lifetime only, a restart resets all counters. The persisted daily
// ad quota is a separate mechanism.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	actions map[int64][]time.Time
}

func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		now:     time.Now,
		actions: make(map[int64][]time.Time),
	}
}

// Allow prunes timestamps outside the window, then reports whether the user
// may act. The action is recorded only when allowed.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.actions[userID][:0]
	for _, ts := range l.actions[userID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.max {
		l.actions[userID] = kept
		return false
	}

	l.actions[userID] = append(kept, now)
	return true
}

// Reset clears the user's action history.
func (l *Limiter) Reset(userID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.actions, userID)
}
