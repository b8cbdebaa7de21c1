package blog

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ViewTracker suppresses duplicate view counts: one count per post per
// viewer per cooldown window. It is a single in-process map shared by all
// requests; entries are swept in the background once stale.
type ViewTracker struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

func NewViewTracker(cooldown time.Duration) *ViewTracker {
	return &ViewTracker{
		lastSeen: make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// NewViewTrackerWithClock injects the clock, for tests.
func NewViewTrackerWithClock(cooldown time.Duration, now func() time.Time) *ViewTracker {
	t := NewViewTracker(cooldown)
	t.now = now
	return t
}

// ShouldCount reports whether a view of postID by viewerKey should increment
// the persistent counter, and records the view if so. The check and the
// write are one critical section so two near-simultaneous views cannot both
// count.
func (t *ViewTracker) ShouldCount(postID uint, viewerKey string) bool {
	if viewerKey == "" {
		viewerKey = "anonymous"
	}
	key := fmt.Sprintf("%d:%s", postID, viewerKey)

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	last, ok := t.lastSeen[key]
	if ok && now.Sub(last) <= t.cooldown {
		return false
	}
	t.lastSeen[key] = now
	return true
}

// Len reports the number of tracked entries.
func (t *ViewTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lastSeen)
}

// StartSweep drops entries older than the cooldown at the given interval
// until ctx is cancelled. Stale entries no longer suppress anything, so
// removing them does not change observable counting behavior.
func (t *ViewTracker) StartSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

func (t *ViewTracker) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.cooldown)
	for key, last := range t.lastSeen {
		if last.Before(cutoff) {
			delete(t.lastSeen, key)
		}
	}
}
