package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestImmediateBackoff(t *testing.T) {
	b := ImmediateBackoff{}

	for attempt := 0; attempt < 5; attempt++ {
		assert.Equal(t, time.Duration(0), b.NextDelay(attempt))
	}
}

func TestFixedBackoff(t *testing.T) {
	b := &FixedBackoff{Delay: 250 * time.Millisecond}

	assert.Equal(t, 250*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 250*time.Millisecond, b.NextDelay(7))
}

func TestExponentialBackoff(t *testing.T) {
	b := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		Multiplier: 2.0,
		Jitter:     0, // deterministic for assertion
	}

	assert.Equal(t, 100*time.Millisecond, b.NextDelay(0))
	assert.Equal(t, 200*time.Millisecond, b.NextDelay(1))
	assert.Equal(t, 400*time.Millisecond, b.NextDelay(2))
	// Capped at MaxDelay from attempt 5 onward.
	assert.Equal(t, 2*time.Second, b.NextDelay(10))
	// Negative attempts fall back to the base delay.
	assert.Equal(t, 100*time.Millisecond, b.NextDelay(-1))
}

func TestExponentialBackoffJitterBounds(t *testing.T) {
	b := DefaultExponentialBackoff()

	for i := 0; i < 100; i++ {
		delay := b.NextDelay(1)
		assert.GreaterOrEqual(t, delay, 180*time.Millisecond)
		assert.LessOrEqual(t, delay, 220*time.Millisecond)
	}
}
