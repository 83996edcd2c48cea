package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a remote cache backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// maxBackoff caps the delay between two attempts.
const maxBackoff = 5 * time.Second

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as worth another attempt. Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether err, or an error it wraps, was marked with
// Transient.
func IsTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// transient, or has been called attempts times. The delay starts at base and
// doubles after every failure, capped at five seconds.
func RetryWithBackoff(ctx context.Context, attempts int, base time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	delay := base
	for i := 1; ; i++ {
		err := fn(ctx)
		if err == nil || !IsTransient(err) || i == attempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay = min(2*delay, maxBackoff)
	}
}
