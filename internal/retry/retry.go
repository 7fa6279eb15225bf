// Package retry provides bounded polling and retry loops that report
// exhaustion instead of giving up silently.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrExhausted = errors.New("retry: attempts exhausted")

type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	// Multiplier grows the interval after each failed attempt; values <= 1 keep it fixed.
	Multiplier float64
}

func Fixed(attempts int, interval time.Duration) Policy {
	return Policy{MaxAttempts: attempts, Interval: interval}
}

func Backoff(attempts int, initial time.Duration) Policy {
	return Policy{MaxAttempts: attempts, Interval: initial, Multiplier: 2}
}

// Poll calls predicate until it returns true, an attempt budget runs out, or
// ctx ends. A predicate error does not stop polling; the last one is wrapped
// into the ErrExhausted result.
func Poll(ctx context.Context, p Policy, predicate func(ctx context.Context) (bool, error)) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Interval

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		ok, err := predicate(ctx)
		if err == nil && ok {
			return nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		if p.Multiplier > 1 {
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
	}

	if lastErr != nil {
		return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
	}
	return fmt.Errorf("%w after %d attempts", ErrExhausted, attempts)
}

// Do retries fn until it succeeds. Errors wrapped with Permanent stop immediately.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	var permanent error
	err := Poll(ctx, p, func(ctx context.Context) (bool, error) {
		err := fn(ctx)
		var perm *permanentError
		if errors.As(err, &perm) {
			permanent = perm.err
			return true, nil
		}
		return err == nil, err
	})
	if permanent != nil {
		return permanent
	}
	return err
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}
