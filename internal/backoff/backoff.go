package backoff

import (
	"context"
	"fmt"
	"time"
)

// Config bounds the retry schedule.
//
// MaxRetries counts retries, not attempts: MaxRetries = 0 means exactly one
// attempt. The delay grows by Factor after every failed attempt and is
// capped at MaxDelay.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64

	// Sleep overrides how delays are spent; tests inject a recorder.
	// Nil means a context-aware timer sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns the standard retry budget.
func DefaultConfig() Config {
	return Config{
		MaxRetries:   5,
		InitialDelay: time.Second,
		MaxDelay:     60 * time.Second,
		Factor:       2,
	}
}

// normalized fills zero-valued schedule fields. MaxRetries is left alone:
// an explicit 0 is a valid "single attempt" budget.
func (c Config) normalized() Config {
	if c.InitialDelay <= 0 {
		c.InitialDelay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 60 * time.Second
	}
	if c.Factor <= 0 {
		c.Factor = 2
	}
	if c.Sleep == nil {
		c.Sleep = sleep
	}
	return c
}

// RetriesExhausted is the terminal failure after the attempt budget is
// spent. It wraps the last error the operation returned.
type RetriesExhausted struct {
	Attempts int
	Err      error
}

func (e *RetriesExhausted) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetriesExhausted) Unwrap() error {
	return e.Err
}

// Do runs op, retrying failures with exponentially growing delay per cfg.
// On success the operation's value passes through. Once the budget is spent
// the last error is returned wrapped in *RetriesExhausted. A cancelled
// context aborts the schedule mid-sleep and returns ctx.Err().
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error)) (T, error) {
	var zero T
	cfg = cfg.normalized()
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		v, err := run(ctx, op)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == cfg.MaxRetries {
			break
		}
		if err := cfg.Sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay = time.Duration(float64(delay) * cfg.Factor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return zero, &RetriesExhausted{Attempts: cfg.MaxRetries + 1, Err: lastErr}
}

// run invokes op, converting a panic into a plain error so a misbehaving
// operation still surfaces through the normal retry path.
func run[T any](ctx context.Context, op func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation panicked: %v", r)
		}
	}()
	return op(ctx)
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
