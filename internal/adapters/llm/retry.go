package llm

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// BackoffPolicy controls retry behavior for transient backend failures.
type BackoffPolicy struct {
	MaxAttempts  int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64 // 0.0 to 1.0
}

// DefaultBackoff returns the policy used for review calls. Three attempts
// covers the common transient cases (429, 5xx, dropped connection) without
// stretching a failing run past the point of usefulness.
func DefaultBackoff() BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts:  3,
		BaseDelay:    time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.2,
	}
}

// Delay computes the wait before the given attempt (1-based) retries.
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	delay := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if p.JitterFactor > 0 {
		jitter := delay * p.JitterFactor
		delay += (rand.Float64()*2 - 1) * jitter
	}
	return time.Duration(delay)
}

// retryCaller wraps a backend with exponential backoff on transient errors.
type retryCaller struct {
	caller core.LLMCaller
	policy BackoffPolicy
}

// WithRetry wraps a caller so transient backend failures are retried with
// exponential backoff. Validation and auth errors are never retried; they
// will not resolve on their own.
func WithRetry(caller core.LLMCaller, policy BackoffPolicy) core.LLMCaller {
	if policy.MaxAttempts <= 1 {
		return caller
	}
	return &retryCaller{caller: caller, policy: policy}
}

func (r *retryCaller) Name() string { return r.caller.Name() }

func (r *retryCaller) Invoke(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		resp, err := r.caller.Invoke(ctx, system, user)
		if err == nil {
			return resp, nil
		}
		if !retryable(err) {
			return "", err
		}
		lastErr = err
		if attempt == r.policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.policy.Delay(attempt)):
		}
	}
	return "", lastErr
}

// retryable reports whether another attempt could plausibly succeed.
// Network-category errors qualify; everything else (bad credentials,
// cancelled context) fails immediately.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var de *core.DomainError
	if errors.As(err, &de) {
		return de.Category == core.ErrCatNetwork
	}
	return false
}
