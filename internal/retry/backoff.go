package retry

import (
	"math"
	"time"
)

// Backoff defaults
const (
	DefaultBaseDelay = time.Second
	DefaultMaxDelay  = 10 * time.Second

	backoffFactor    = 1.5
	maxJitterFrac    = 0.1
)

// Backoff computes the delay before the given attempt (1-based):
// base × 1.5^(attempt−1), capped at max, plus random jitter up to 10% of
// the delay so concurrent requests don't retry in lockstep. jitter must
// return a value in [0,1) and is injectable for tests.
func Backoff(attempt int, base, max time.Duration, jitter func() float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if max <= 0 {
		max = DefaultMaxDelay
	}

	delay := time.Duration(float64(base) * math.Pow(backoffFactor, float64(attempt-1)))
	if delay > max {
		delay = max
	}
	if jitter != nil {
		delay += time.Duration(jitter() * maxJitterFrac * float64(delay))
	}
	return delay
}
