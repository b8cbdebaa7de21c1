package blog

import (
	"testing"
	"time"
)

func TestViewTrackerCooldown(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewViewTrackerWithClock(time.Hour, func() time.Time { return now })

	if !tracker.ShouldCount(1, "viewer") {
		t.Fatal("first view should count")
	}

	now = now.Add(30 * time.Minute)
	if tracker.ShouldCount(1, "viewer") {
		t.Fatal("view inside cooldown should not count")
	}

	now = now.Add(31 * time.Minute) // 61 minutes since the counted view
	if !tracker.ShouldCount(1, "viewer") {
		t.Fatal("view after cooldown should count")
	}
}

func TestViewTrackerDistinctKeys(t *testing.T) {
	tracker := NewViewTracker(time.Hour)

	if !tracker.ShouldCount(1, "alice") {
		t.Fatal("alice's first view should count")
	}
	if !tracker.ShouldCount(1, "bob") {
		t.Fatal("bob is a different viewer")
	}
	if !tracker.ShouldCount(2, "alice") {
		t.Fatal("a different post is a fresh counter")
	}
	if tracker.ShouldCount(1, "alice") {
		t.Fatal("repeat view should not count")
	}
}

func TestViewTrackerAnonymousFallback(t *testing.T) {
	tracker := NewViewTracker(time.Hour)

	if !tracker.ShouldCount(1, "") {
		t.Fatal("first anonymous view should count")
	}
	// Viewers without a fingerprint share one key.
	if tracker.ShouldCount(1, "anonymous") {
		t.Fatal("empty key and the anonymous key must collapse")
	}
}

func TestViewTrackerSweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewViewTrackerWithClock(time.Hour, func() time.Time { return now })

	tracker.ShouldCount(1, "old")
	now = now.Add(2 * time.Hour)
	tracker.ShouldCount(1, "fresh")

	tracker.sweep()
	if got := tracker.Len(); got != 1 {
		t.Fatalf("after sweep Len() = %d, want 1", got)
	}

	// The surviving entry still dedups.
	if tracker.ShouldCount(1, "fresh") {
		t.Fatal("fresh entry must survive the sweep")
	}
	// The swept entry behaves like a first view again.
	if !tracker.ShouldCount(1, "old") {
		t.Fatal("swept entry should count as new")
	}
}
