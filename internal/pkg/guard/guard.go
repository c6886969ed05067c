// Package guard bounds how long a caller waits for an operation.
//
// The deadline only selects which result the caller sees. The operation keeps the
// caller's context and is never cancelled by the guard, so it may finish after the
// deadline; its late result is dropped.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is matched by every error the guard produces for an elapsed deadline
var ErrTimeout = errors.New("operation timed out")

// TimeoutError is returned by WithRejection when the deadline elapses first
type TimeoutError struct {
	Message  string
	Deadline time.Duration
}

func (e *TimeoutError) Error() string {
	return e.Message
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// Operation is the unit of work raced against the deadline
type Operation[T any] func(ctx context.Context) (T, error)

// Option customizes WithFallback
type Option func(*settings)

type settings struct {
	onFallback func(err error)
}

// OnFallback registers fn to be told why the fallback value was used.
// err is ErrTimeout, the operation's error, a recovered panic, or the context error.
func OnFallback(fn func(err error)) Option {
	return func(s *settings) {
		s.onFallback = fn
	}
}

type outcome[T any] struct {
	value T
	err   error
}

// WithFallback returns op's result if it completes within deadline, and fallback
// when it times out, fails, panics or ctx is done first.
func WithFallback[T any](ctx context.Context, op Operation[T], deadline time.Duration, fallback T, opts ...Option) T {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	value, err := race(ctx, op, deadline)
	if err != nil {
		if s.onFallback != nil {
			s.onFallback(err)
		}
		return fallback
	}
	return value
}

// WithRejection returns op's result or error unchanged if it completes within deadline.
// An elapsed deadline yields a *TimeoutError carrying message.
func WithRejection[T any](ctx context.Context, op Operation[T], deadline time.Duration, message string) (T, error) {
	value, err := race(ctx, op, deadline)
	if errors.Is(err, errDeadline) {
		var zero T
		return zero, &TimeoutError{Message: message, Deadline: deadline}
	}
	return value, err
}

var errDeadline = fmt.Errorf("deadline elapsed: %w", ErrTimeout)

// race runs op in its own goroutine. A non-positive deadline waits without a timer.
func race[T any](ctx context.Context, op Operation[T], deadline time.Duration) (T, error) {
	// Buffered so a late operation never blocks after the caller has moved on
	done := make(chan outcome[T], 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome[T]{err: fmt.Errorf("operation panicked: %v", rec)}
			}
		}()

		value, err := op(ctx)
		done <- outcome[T]{value: value, err: err}
	}()

	var expired <-chan time.Time
	if deadline > 0 {
		timer := time.NewTimer(deadline)
		defer timer.Stop()
		expired = timer.C
	}

	var zero T
	select {
	case out := <-done:
		return out.value, out.err
	case <-expired:
		return zero, errDeadline
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
