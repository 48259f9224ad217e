package llm

import (
	"context"
	"testing"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

func TestLimiter_TryAcquire(t *testing.T) {
	l := NewLimiter(2, 0.001)

	if !l.TryAcquire() || !l.TryAcquire() {
		t.Fatal("bucket should start full")
	}
	if l.TryAcquire() {
		t.Error("third acquire should fail on an empty bucket")
	}
}

func TestLimiter_Refills(t *testing.T) {
	l := NewLimiter(1, 100) // fast refill so the test does not sleep long

	if !l.TryAcquire() {
		t.Fatal("first acquire should succeed")
	}
	time.Sleep(50 * time.Millisecond)
	if !l.TryAcquire() {
		t.Error("bucket should have refilled")
	}
}

func TestLimiter_AcquireHonorsCancellation(t *testing.T) {
	l := NewLimiter(1, 0.001)
	if !l.TryAcquire() {
		t.Fatal("draining the bucket failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Acquire(ctx); err == nil {
		t.Error("Acquire on an empty bucket should fail when the context expires")
	}
}

func TestWithThrottle_TakesTokenPerInvoke(t *testing.T) {
	l := NewLimiter(5, 0.001)
	inner := &flakyCaller{}
	caller := WithThrottle(inner, l)

	if _, err := caller.Invoke(context.Background(), "s", "u"); err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if got := l.Available(); got > 4.01 {
		t.Errorf("Available() = %v, want roughly 4", got)
	}
}

func TestWithThrottle_NilLimiterUnwrapped(t *testing.T) {
	inner := &flakyCaller{}
	if got := WithThrottle(inner, nil); got != core.LLMCaller(inner) {
		t.Error("nil limiter should return the caller unchanged")
	}
}
