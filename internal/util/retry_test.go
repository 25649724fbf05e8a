// ABOUTME: Tests for backoff calculation and cancellable waits
// ABOUTME: Checks jitter bounds, the ceiling and early return on cancellation
package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBackoff_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		base     time.Duration
		attempt  int
		min, max time.Duration
	}{
		{"no attempt", time.Second, 0, 0, 0},
		{"negative attempt", time.Second, -5, 0, 0},
		{"zero base", 0, 3, 0, 0},
		{"first retry", 100 * time.Millisecond, 1, 150 * time.Millisecond, 250 * time.Millisecond},
		{"third retry", 100 * time.Millisecond, 3, 600 * time.Millisecond, time.Second},
		{"ceiling", time.Second, 10, MaxBackoff * 3 / 4, MaxBackoff * 5 / 4},
		{"huge attempt", time.Millisecond, 1000, MaxBackoff * 3 / 4, MaxBackoff * 5 / 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 20 {
				got := CalculateBackoff(tt.base, tt.attempt)
				assert.GreaterOrEqual(t, got, tt.min)
				assert.LessOrEqual(t, got, tt.max)
			}
		})
	}
}

func TestCalculateBackoff_Jitters(t *testing.T) {
	seen := map[time.Duration]bool{}
	for range 50 {
		seen[CalculateBackoff(time.Second, 2)] = true
	}
	assert.Greater(t, len(seen), 1, "fifty samples should not all be equal")
}

func TestWaitBackoff(t *testing.T) {
	t.Run("sleeps", func(t *testing.T) {
		start := time.Now()
		require.NoError(t, WaitBackoff(context.Background(), 2*time.Millisecond, 1))
		assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, WaitBackoff(ctx, time.Hour, 4), context.Canceled)
	})

	t.Run("first attempt does not wait", func(t *testing.T) {
		assert.NoError(t, WaitBackoff(context.Background(), time.Hour, 0))
	})
}
