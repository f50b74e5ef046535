package orbital

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by Allow while the breaker is cooling off.
// The transport maps it into a ConnectionExhaustedError so callers only
// ever see the four public error kinds.
var ErrCircuitOpen = errors.New("gateway circuit is open")

// BreakerState represents the current state of the circuit breaker.
type BreakerState int

const (
	// StateClosed - attempts flow normally.
	StateClosed BreakerState = iota
	// StateOpen - attempts are rejected without touching the network.
	StateOpen
	// StateHalfOpen - a single probe attempt is in flight.
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures the breaker guarding the endpoint pair.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive connection failures,
	// across both endpoints, before the circuit opens.
	MaxFailures uint32
	// CoolOff is how long the circuit stays open before a probe attempt
	// is allowed through.
	CoolOff time.Duration
}

// DefaultBreakerConfig returns sensible defaults for a synchronous
// payment path.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 5,
		CoolOff:     30 * time.Second,
	}
}

// CircuitBreaker tracks connection failures across calls. Unlike a
// wrap-a-function breaker, it exposes Allow/Record so the failover loop
// can consult it per attempt while still making its own endpoint choice.
type CircuitBreaker struct {
	mu       sync.Mutex
	state    BreakerState
	failures uint32
	probing  bool
	openedAt time.Time
	config   BreakerConfig
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(config BreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		state:  StateClosed,
		config: config,
	}
}

// Allow reports whether an attempt may proceed. While open it returns
// ErrCircuitOpen until the cool-off elapses, then admits one probe.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if time.Since(cb.openedAt) < cb.config.CoolOff {
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		cb.probing = true
		return nil

	case StateHalfOpen:
		if cb.probing {
			return ErrCircuitOpen
		}
		cb.probing = true
		return nil

	default:
		return ErrCircuitOpen
	}
}

// RecordSuccess notes a completed round trip and closes the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
}

// RecordFailure notes a connection-level failure. The probe failing, or
// the failure threshold being reached, opens the circuit.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.probing = false

	switch cb.state {
	case StateHalfOpen:
		cb.open()
	case StateClosed:
		if cb.failures >= cb.config.MaxFailures {
			cb.open()
		}
	}
}

func (cb *CircuitBreaker) open() {
	cb.state = StateOpen
	cb.openedAt = time.Now()
	cb.probing = false
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset returns the breaker to closed. Useful in tests.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
}
