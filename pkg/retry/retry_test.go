package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFixedDelayIsConstant(t *testing.T) {
	cfg := Fixed(3 * time.Second)
	for attempt := 1; attempt <= 5; attempt++ {
		if got := cfg.Delay(attempt); got != 3*time.Second {
			t.Errorf("Delay(%d) = %s, want 3s", attempt, got)
		}
	}
}

func TestDelayBackoffCapped(t *testing.T) {
	cfg := Config{InitialWait: time.Second, MaxWait: 4 * time.Second, Multiplier: 2}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{6, 4 * time.Second},
	}
	for _, tt := range tests {
		if got := cfg.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestDoRetriesOnlyRetryable(t *testing.T) {
	cfg := Config{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond}

	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return errors.New("permanent")
	})
	if err == nil || calls != 1 {
		t.Fatalf("permanent error: calls = %d, err = %v", calls, err)
	}

	calls = 0
	err = Do(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("flaky"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsAtMaxAttempts(t *testing.T) {
	cfg := Config{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	calls := 0
	err := Do(context.Background(), cfg, func() error {
		calls++
		return Retryable(errors.New("down"))
	})
	if !IsRetryable(err) {
		t.Fatalf("expected last retryable error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDefaultConfigIsSingleAttempt(t *testing.T) {
	calls := 0
	Do(context.Background(), DefaultConfig(), func() error {
		calls++
		return Retryable(errors.New("down"))
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
