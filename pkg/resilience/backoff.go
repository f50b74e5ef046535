package resilience

import (
	"math"
	"math/rand"
	"time"
)

// BackoffStrategy defines the delay applied between failover attempts.
type BackoffStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ImmediateBackoff retries with no delay. The Orbital failover contract is
// to switch to the secondary endpoint and retry right away, so this is the
// transport default.
type ImmediateBackoff struct{}

// NextDelay always returns zero.
func (ImmediateBackoff) NextDelay(attempt int) time.Duration { return 0 }

// FixedBackoff waits the same duration before every retry.
type FixedBackoff struct {
	Delay time.Duration
}

// NextDelay returns the fixed delay regardless of attempt number.
func (fb *FixedBackoff) NextDelay(attempt int) time.Duration { return fb.Delay }

// ExponentialBackoff implements exponential backoff with jitter, for
// operators who prefer spacing out the secondary-endpoint attempts.
type ExponentialBackoff struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	Jitter     float64 // 0.0-1.0, fraction of the delay randomized either way
}

// DefaultExponentialBackoff returns a short ramp suited to a synchronous
// payment call: ~100ms, ~200ms, ~400ms, capped at 2s.
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.1,
	}
}

// NextDelay calculates BaseDelay * Multiplier^attempt, capped at MaxDelay,
// with +/- Jitter applied.
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return eb.BaseDelay
	}

	delay := float64(eb.BaseDelay) * math.Pow(eb.Multiplier, float64(attempt))
	if delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	jitterAmount := delay * eb.Jitter
	jitter := (rand.Float64()*2 - 1) * jitterAmount

	final := time.Duration(delay + jitter)
	if final < 0 {
		final = eb.BaseDelay
	}
	return final
}
