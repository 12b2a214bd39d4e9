package backoff

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordingSleep collects requested delays instead of sleeping.
func recordingSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDo_SuccessPassesThrough(t *testing.T) {
	got, err := Do(context.Background(), DefaultConfig(), func(context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Do() = %d, want 42", got)
	}
}

func TestDo_DelaysGrowAndCap(t *testing.T) {
	var delays []time.Duration
	cfg := Config{
		MaxRetries:   5,
		InitialDelay: 1000 * time.Millisecond,
		MaxDelay:     8000 * time.Millisecond,
		Factor:       2,
		Sleep:        recordingSleep(&delays),
	}

	failing := errors.New("down")
	_, err := Do(context.Background(), cfg, func(context.Context) (int, error) {
		return 0, failing
	})
	if err == nil {
		t.Fatal("Do() error = nil, want RetriesExhausted")
	}

	want := []time.Duration{
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
		8000 * time.Millisecond,
		8000 * time.Millisecond,
	}
	if len(delays) != len(want) {
		t.Fatalf("slept %d times, want %d (%v)", len(delays), len(want), delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestDo_ExhaustionAttemptCount(t *testing.T) {
	var delays []time.Duration
	cfg := Config{
		MaxRetries: 3,
		Sleep:      recordingSleep(&delays),
	}

	attempts := 0
	boom := errors.New("boom")
	_, err := Do(context.Background(), cfg, func(context.Context) (int, error) {
		attempts++
		return 0, boom
	})

	if attempts != 4 {
		t.Errorf("attempts = %d, want 4 (1 initial + 3 retries)", attempts)
	}

	var exhausted *RetriesExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want *RetriesExhausted", err)
	}
	if exhausted.Attempts != 4 {
		t.Errorf("Attempts = %d, want 4", exhausted.Attempts)
	}
	if !errors.Is(err, boom) {
		t.Errorf("RetriesExhausted does not wrap the last error: %v", err)
	}
}

func TestDo_ZeroRetriesMeansSingleAttempt(t *testing.T) {
	var delays []time.Duration
	cfg := Config{MaxRetries: 0, Sleep: recordingSleep(&delays)}

	attempts := 0
	_, err := Do(context.Background(), cfg, func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("nope")
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if len(delays) != 0 {
		t.Errorf("slept %d times, want 0", len(delays))
	}
	if err == nil {
		t.Error("Do() error = nil, want RetriesExhausted")
	}
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	var delays []time.Duration
	cfg := Config{MaxRetries: 5, Sleep: recordingSleep(&delays)}

	attempts := 0
	got, err := Do(context.Background(), cfg, func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Do() = %q, want %q", got, "ok")
	}
	if len(delays) != 2 {
		t.Errorf("slept %d times, want 2", len(delays))
	}
}

func TestDo_ContextCancelAbortsSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{MaxRetries: 5, InitialDelay: time.Hour}
	_, err := Do(ctx, cfg, func(context.Context) (int, error) {
		return 0, errors.New("fail once")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestDo_PanicBecomesError(t *testing.T) {
	cfg := Config{MaxRetries: 1, Sleep: recordingSleep(new([]time.Duration))}

	_, err := Do(context.Background(), cfg, func(context.Context) (int, error) {
		panic("not an error value")
	})

	var exhausted *RetriesExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("error = %v, want *RetriesExhausted", err)
	}
	if exhausted.Err == nil {
		t.Error("panic was not converted to an error")
	}
}
