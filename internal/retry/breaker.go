package retry

import (
	"sync"
	"time"
)

// BreakerState is the circuit breaker's current position
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half-open"
)

// Breaker defaults
const (
	DefaultFailureThreshold = 5
	DefaultRecoveryWindow   = 60 * time.Second
)

// Breaker is a circuit breaker guarding one generation backend against
// retry cascades. Create one instance per backend identity; never share a
// process-wide singleton. Safe for concurrent use.
type Breaker struct {
	mu               sync.Mutex
	state            BreakerState
	failures         int
	lastFailure      time.Time
	failureThreshold int
	recoveryWindow   time.Duration
	now              func() time.Time // injectable for tests
}

// NewBreaker creates a closed breaker. Non-positive arguments fall back to
// the defaults.
func NewBreaker(failureThreshold int, recoveryWindow time.Duration) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = DefaultFailureThreshold
	}
	if recoveryWindow <= 0 {
		recoveryWindow = DefaultRecoveryWindow
	}
	return &Breaker{
		state:            BreakerClosed,
		failureThreshold: failureThreshold,
		recoveryWindow:   recoveryWindow,
		now:              time.Now,
	}
}

// RecordSuccess resets the failure count and closes the breaker
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.state = BreakerClosed
}

// RecordFailure increments the failure count; at the threshold the breaker
// opens and stamps the failure time
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	b.lastFailure = b.now()
	if b.failures >= b.failureThreshold {
		b.state = BreakerOpen
	}
}

// CanRetry reports whether a retry may be attempted now. When open and the
// recovery window has elapsed, the breaker transitions to half-open and
// allows exactly one probing retry; the next RecordSuccess/RecordFailure
// resolves the state.
func (b *Breaker) CanRetry() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerHalfOpen:
		return true
	case BreakerOpen:
		if b.now().Sub(b.lastFailure) >= b.recoveryWindow {
			b.state = BreakerHalfOpen
			return true
		}
		return false
	}
	return false
}

// State returns the current breaker state
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// ConsecutiveFailures returns the current failure count
func (b *Breaker) ConsecutiveFailures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
