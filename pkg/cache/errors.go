package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss is returned by GetJSON when a key is absent or its entry
	// cannot be decoded.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnavailable is returned when a remote cache cannot be reached.
	ErrUnavailable = errors.New("cache unavailable")
)

// RetryableError marks a transient failure that RetryWithBackoff retries.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or any error it wraps, is a
// RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts is how often RetryWithBackoff calls fn at most.
const retryAttempts = 3

// retryDelay is the wait before the second attempt. It doubles after
// every further failure.
var retryDelay = 100 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, fails with an error that is
// not retryable, or has been called retryAttempts times. The last error is
// returned, or ctx.Err() if ctx ends while waiting.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
