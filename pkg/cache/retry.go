package cache

import (
	"context"
	"errors"
	"time"
)

// retryAttempts is how many times RetryWithBackoff calls fn.
const retryAttempts = 3

// RetryableError marks a transient failure, such as a refused connection
// while a Redis or Mongo server is still starting.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, fails permanently or has been
// tried retryAttempts times. The wait starts at base and doubles. It is used
// when connecting to remote caches and stores.
func RetryWithBackoff(ctx context.Context, base time.Duration, fn func() error) error {
	delay := base
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
