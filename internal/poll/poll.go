// Package poll re-runs a probe at a fixed interval until it succeeds or gives up.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Defaults give roughly five seconds of polling.
const (
	DefaultInterval    = 100 * time.Millisecond
	DefaultMaxAttempts = 50
)

// ErrAttemptsExhausted is returned when every attempt failed with a retryable error.
var ErrAttemptsExhausted = errors.New("poll: attempts exhausted")

// Options configures Until.
type Options struct {
	Interval    time.Duration // Minimum spacing between attempts; zero polls back to back
	MaxAttempts int           // Total attempts including the first; values below 1 mean 1

	// Retryable reports whether a probe error warrants another attempt.
	// Nil retries every error.
	Retryable func(error) bool

	// OnAttempt, when set, is called after each failed attempt.
	OnAttempt func(attempt int, err error)
}

// DefaultOptions returns the default interval and attempt ceiling.
func DefaultOptions() Options {
	return Options{
		Interval:    DefaultInterval,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Until calls probe immediately and then once per interval until it returns
// a nil error, a non-retryable error, the attempts run out or ctx is done.
// When attempts run out the error wraps both ErrAttemptsExhausted and the
// last probe error.
func Until[T any](ctx context.Context, opts Options, probe func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, ctxErr
			}
			// The next slot falls past the context deadline.
			return zero, fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}

		v, err := probe(ctx)
		if err == nil {
			return v, nil
		}
		if opts.Retryable != nil && !opts.Retryable(err) {
			return zero, err
		}
		lastErr = err
		if opts.OnAttempt != nil {
			opts.OnAttempt(attempt, err)
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempts, lastErr)
}
