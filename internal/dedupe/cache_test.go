// ABOUTME: Tests for the activity dedupe cache
// ABOUTME: Covers duplicate detection, TTL expiry, and size-bounded eviction

package dedupe

import (
	"testing"
	"time"
)

func TestCheckAndMark(t *testing.T) {
	c := New(time.Minute, 100)

	key := ActivityKey("msteams", "activity-1")
	if c.CheckAndMark(key) {
		t.Error("first CheckAndMark returned true, want false")
	}
	if !c.CheckAndMark(key) {
		t.Error("second CheckAndMark returned false, want true")
	}
}

func TestCheckAndMark_DistinctChannels(t *testing.T) {
	c := New(time.Minute, 100)

	c.CheckAndMark(ActivityKey("msteams", "activity-1"))
	if c.CheckAndMark(ActivityKey("slack", "activity-1")) {
		t.Error("same activity id on a different channel reported as duplicate")
	}
}

func TestCheckAndMark_TTLExpiry(t *testing.T) {
	c := New(10*time.Millisecond, 100)

	key := ActivityKey("msteams", "activity-1")
	c.CheckAndMark(key)

	time.Sleep(20 * time.Millisecond)

	if c.CheckAndMark(key) {
		t.Error("expired key reported as duplicate")
	}
}

func TestEviction_RespectsMaxSize(t *testing.T) {
	c := New(time.Minute, 3)

	c.CheckAndMark(ActivityKey("msteams", "a"))
	time.Sleep(time.Millisecond)
	c.CheckAndMark(ActivityKey("msteams", "b"))
	time.Sleep(time.Millisecond)
	c.CheckAndMark(ActivityKey("msteams", "c"))
	time.Sleep(time.Millisecond)
	c.CheckAndMark(ActivityKey("msteams", "d"))

	if got := c.Len(); got > 3 {
		t.Errorf("Len() = %d, want at most 3", got)
	}

	// The oldest key should have been evicted to make room
	if c.CheckAndMark(ActivityKey("msteams", "a")) {
		t.Error("evicted key reported as duplicate")
	}
}
