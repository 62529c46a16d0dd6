package quota

import (
	"testing"
	"time"
)

func TestTryConsumeEnforcesDailyMax(t *testing.T) {
	tracker := NewTracker()

	for i := 0; i < 3; i++ {
		if !tracker.TryConsume("test", 3) {
			t.Fatalf("Expected call %d to be allowed", i+1)
		}
	}

	if tracker.TryConsume("test", 3) {
		t.Error("Expected call over the daily max to be refused")
	}
	if got := tracker.Used("test"); got != 3 {
		t.Errorf("Expected refused call to leave counter at 3, got %d", got)
	}
}

func TestTryConsumeResetsOnDayRollover(t *testing.T) {
	current := time.Date(2025, 3, 1, 23, 50, 0, 0, time.UTC)
	tracker := NewTrackerWithClock(func() time.Time { return current })

	if !tracker.TryConsume("test", 1) {
		t.Fatal("Expected first call of the day to succeed")
	}
	if tracker.TryConsume("test", 1) {
		t.Fatal("Expected second call of the day to be refused")
	}

	// Cross midnight
	current = current.Add(20 * time.Minute)

	if !tracker.TryConsume("test", 1) {
		t.Error("Expected first call of the new day to succeed")
	}
	if got := tracker.Used("test"); got != 1 {
		t.Errorf("Expected fresh counter after rollover, got %d", got)
	}
}

func TestBucketsAreIndependent(t *testing.T) {
	tracker := NewTracker()

	if !tracker.TryConsume("a", 1) {
		t.Fatal("Expected bucket a to allow its first call")
	}
	if tracker.TryConsume("a", 1) {
		t.Error("Expected bucket a to be exhausted")
	}
	if !tracker.TryConsume("b", 1) {
		t.Error("Expected bucket b to be unaffected by bucket a")
	}
}

func TestUsedUnknownBucket(t *testing.T) {
	tracker := NewTracker()
	if got := tracker.Used("never-touched"); got != 0 {
		t.Errorf("Expected 0 for unknown bucket, got %d", got)
	}
}
