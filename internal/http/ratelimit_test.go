package http

import (
	"testing"
	"time"
)

func TestRateLimiter_Window(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.stop()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1", now) {
			t.Fatalf("request %d rejected", i)
		}
	}
	if rl.allow("10.0.0.1", now.Add(time.Second)) {
		t.Fatal("fourth request in window allowed")
	}
	if !rl.allow("10.0.0.2", now) {
		t.Error("other client rejected")
	}
	if !rl.allow("10.0.0.1", now.Add(61*time.Second)) {
		t.Error("request in new window rejected")
	}
}

func TestRateLimiter_DefaultLimit(t *testing.T) {
	rl := newRateLimiter(0)
	defer rl.stop()
	if rl.limit != 60 {
		t.Errorf("limit = %d, want 60", rl.limit)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := newRateLimiter(5)
	defer rl.stop()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl.allow("a", now)
	rl.allow("b", now.Add(9*time.Minute))

	if removed := rl.cleanupStaleEntries(now.Add(11 * time.Minute)); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := rl.clients["b"]; !ok {
		t.Error("recent client removed")
	}

	rl.stop()
	rl.stop()
}
