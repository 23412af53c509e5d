package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(-1, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different backend has its own bucket.
	if err := limiter.Wait(ctx, "anthropic"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerBackendBuckets(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("openai") {
		t.Error("first request should pass")
	}
	if limiter.Allow("openai") {
		t.Error("expected the burst token consumed")
	}

	// Another backend is unaffected.
	if !limiter.Allow("anthropic") {
		t.Error("expected an independent bucket per backend")
	}
}

func TestLimiter_SetBackendRate(t *testing.T) {
	limiter := NewLimiter(10, 10)

	limiter.SetBackendRate("slow", 0.1, 1)

	if !limiter.Allow("slow") {
		t.Error("first request should pass")
	}
	if limiter.Allow("slow") {
		t.Error("second request should fail on the custom rate")
	}
	if !limiter.Allow("fast") {
		t.Error("default-rate backend should pass")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	ctx, cancel := context.WithCancel(context.Background())

	// Exhaust the burst token, then cancel while the next Wait blocks.
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	cancel()
	if err := limiter.Wait(ctx, "openai"); err == nil {
		t.Error("expected a context error from a cancelled wait")
	}
}
