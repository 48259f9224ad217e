package llm

import (
	"context"
	"sync"
	"time"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// Limiter is a token bucket shared by every caller hitting one provider,
// so parallel agents cannot burst past the backend's rate limit.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewLimiter creates a bucket with the given capacity and refill rate.
func NewLimiter(maxTokens, refillPerSecond float64) *Limiter {
	return &Limiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillPerSecond,
		lastRefill: time.Now(),
	}
}

// Acquire blocks until a token is available or the context is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= 1 {
			l.tokens--
			l.mu.Unlock()
			return nil
		}
		wait := time.Duration(float64(time.Second) / l.refillRate)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// TryAcquire takes a token without blocking.
func (l *Limiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// Available returns the current token count.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	return l.tokens
}

func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill)
	l.lastRefill = now

	l.tokens += elapsed.Seconds() * l.refillRate
	if l.tokens > l.maxTokens {
		l.tokens = l.maxTokens
	}
}

type throttledCaller struct {
	caller  core.LLMCaller
	limiter *Limiter
}

// WithThrottle wraps a caller so each invocation first takes a token from
// the shared limiter. Wrap inside WithRetry so retries are throttled too.
func WithThrottle(caller core.LLMCaller, limiter *Limiter) core.LLMCaller {
	if limiter == nil {
		return caller
	}
	return &throttledCaller{caller: caller, limiter: limiter}
}

func (t *throttledCaller) Name() string { return t.caller.Name() }

func (t *throttledCaller) Invoke(ctx context.Context, system, user string) (string, error) {
	if err := t.limiter.Acquire(ctx); err != nil {
		return "", err
	}
	return t.caller.Invoke(ctx, system, user)
}
