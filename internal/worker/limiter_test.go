package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1) // 100 rps, burst 1
	ctx := context.Background()

	if err := limiter.Wait(ctx, "Phone"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different category should also work
	if err := limiter.Wait(ctx, "Tablet"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "Phone"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "Phone"); err == nil {
		t.Error("expected second wait to fail once the context expires")
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "Phone"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst of 1 is consumed
	if limiter.Allow("Phone") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Other keys have their own budget
	if !limiter.Allow("Watch") {
		t.Errorf("expected allow for other category")
	}
}

func TestLimiter_SetKeyRate(t *testing.T) {
	limiter := NewLimiter(10, 10) // fast default

	limiter.SetKeyRate("Laptop", 0.1, 1) // very slow

	if !limiter.Allow("Laptop") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("Laptop") {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("Phone") {
		t.Errorf("other category should pass")
	}
}
