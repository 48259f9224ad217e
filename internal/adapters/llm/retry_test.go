package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

type flakyCaller struct {
	calls    int
	failures int
	err      error
}

func (f *flakyCaller) Name() string { return "flaky" }

func (f *flakyCaller) Invoke(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return "ok", nil
}

func fastBackoff(attempts int) BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestWithRetry_RecoversFromTransientError(t *testing.T) {
	inner := &flakyCaller{
		failures: 2,
		err:      core.ErrNetwork(core.CodeBackendStatus, "openai returned HTTP 429"),
	}
	caller := WithRetry(inner, fastBackoff(3))

	out, err := caller.Invoke(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if out != "ok" {
		t.Errorf("output = %q, want ok", out)
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	inner := &flakyCaller{
		failures: 10,
		err:      core.ErrNetwork(core.CodeBackendStatus, "connection refused"),
	}
	caller := WithRetry(inner, fastBackoff(3))

	_, err := caller.Invoke(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestWithRetry_DoesNotRetryAuthErrors(t *testing.T) {
	inner := &flakyCaller{
		failures: 10,
		err:      core.ErrAuth(core.CodeMissingCredentials, "no api key"),
	}
	caller := WithRetry(inner, fastBackoff(3))

	_, err := caller.Invoke(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("auth error retried: calls = %d, want 1", inner.calls)
	}
}

func TestWithRetry_DoesNotRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &flakyCaller{failures: 10, err: ctx.Err()}
	caller := WithRetry(inner, fastBackoff(3))

	_, err := caller.Invoke(ctx, "s", "u")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("cancelled invoke retried: calls = %d, want 1", inner.calls)
	}
}

func TestWithRetry_SingleAttemptUnwrapped(t *testing.T) {
	inner := &flakyCaller{}
	if got := WithRetry(inner, BackoffPolicy{MaxAttempts: 1}); got != core.LLMCaller(inner) {
		t.Error("MaxAttempts<=1 should return the caller unchanged")
	}
}

func TestBackoffPolicy_DelayGrowsAndCaps(t *testing.T) {
	p := BackoffPolicy{
		BaseDelay:  time.Second,
		MaxDelay:   4 * time.Second,
		Multiplier: 2.0,
	}
	if d := p.Delay(1); d != time.Second {
		t.Errorf("Delay(1) = %v, want 1s", d)
	}
	if d := p.Delay(2); d != 2*time.Second {
		t.Errorf("Delay(2) = %v, want 2s", d)
	}
	if d := p.Delay(10); d != 4*time.Second {
		t.Errorf("Delay(10) = %v, want capped at 4s", d)
	}
}
