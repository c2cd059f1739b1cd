package utils

import (
	"testing"
	"time"
)

func TestTrackerRecord(t *testing.T) {
	tracker := NewTracker()
	now := time.Now()
	window := 2 * time.Second

	if count := tracker.Record("k", "", window, now); count != 1 {
		t.Fatalf("expected 1, got %d", count)
	}
	tracker.Record("k", "", window, now.Add(500*time.Millisecond))
	if count := tracker.CountIn("k", window, now.Add(1*time.Second)); count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
	if count := tracker.CountIn("k", window, now.Add(3*time.Second)); count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestTrackerValuesOrder(t *testing.T) {
	tracker := NewTracker()
	now := time.Unix(0, 0)
	window := 10 * time.Second

	tracker.Record("k", "a", window, now)
	tracker.Record("k", "b", window, now.Add(1*time.Second))
	tracker.Record("k", "c", window, now.Add(2*time.Second))

	values := tracker.ValuesIn("k", window, now.Add(2*time.Second))
	if len(values) != 3 || values[0] != "a" || values[2] != "c" {
		t.Fatalf("expected [a b c], got %v", values)
	}

	values = tracker.ValuesIn("k", window, now.Add(10500*time.Millisecond))
	if len(values) != 2 || values[0] != "b" {
		t.Fatalf("expected [b c], got %v", values)
	}
}

func TestTrackerKeysIndependent(t *testing.T) {
	tracker := NewTracker()
	now := time.Now()
	window := time.Second

	tracker.Record("a", "", window, now)
	if count := tracker.CountIn("b", window, now); count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestRingTrims(t *testing.T) {
	ring := NewRing(3)
	ring.Push("k", "1")
	ring.Push("k", "2")
	ring.Push("k", "3")
	values := ring.Push("k", "4")
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[0] != "2" || values[2] != "4" {
		t.Fatalf("expected [2 3 4], got %v", values)
	}
}
