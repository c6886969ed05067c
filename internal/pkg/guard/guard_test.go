package guard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func never[T any](ctx context.Context) (T, error) {
	<-ctx.Done()
	var zero T
	return zero, ctx.Err()
}

func TestWithFallback_ReturnsResult(t *testing.T) {
	got := WithFallback(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	}, time.Second, -1)

	assert.Equal(t, 42, got)
}

func TestWithFallback_TimeoutSubstitutesFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	got := WithFallback(ctx, never[string], 50*time.Millisecond, "fallback")
	elapsed := time.Since(start)

	assert.Equal(t, "fallback", got)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 150*time.Millisecond)
}

func TestWithFallback_ErrorSubstitutesFallback(t *testing.T) {
	var reported error
	got := WithFallback(context.Background(), func(context.Context) (int, error) {
		return 7, errors.New("query failed")
	}, time.Second, 0, OnFallback(func(err error) { reported = err }))

	assert.Equal(t, 0, got)
	assert.EqualError(t, reported, "query failed")
}

func TestWithFallback_PanicSubstitutesFallback(t *testing.T) {
	var reported error
	got := WithFallback(context.Background(), func(context.Context) ([]string, error) {
		panic("boom")
	}, time.Second, []string{}, OnFallback(func(err error) { reported = err }))

	assert.Equal(t, []string{}, got)
	require.Error(t, reported)
	assert.Contains(t, reported.Error(), "boom")
}

func TestWithFallback_ReportsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reported error
	WithFallback(ctx, never[int], 10*time.Millisecond, 0, OnFallback(func(err error) { reported = err }))

	assert.ErrorIs(t, reported, ErrTimeout)
}

func TestWithFallback_DoesNotCancelOperation(t *testing.T) {
	var finished atomic.Bool
	release := make(chan struct{})

	got := WithFallback(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		if ctx.Err() == nil {
			finished.Store(true)
		}
		return 1, nil
	}, 10*time.Millisecond, 0)
	assert.Equal(t, 0, got)

	// The operation still runs to completion with a live context after the deadline
	close(release)
	assert.Eventually(t, finished.Load, time.Second, 5*time.Millisecond)
}

func TestWithFallback_CallerContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var reported error
	got := WithFallback(ctx, never[int], time.Second, 5, OnFallback(func(err error) { reported = err }))

	assert.Equal(t, 5, got)
	assert.ErrorIs(t, reported, context.Canceled)
}

func TestWithFallback_NonPositiveDeadlineWaits(t *testing.T) {
	got := WithFallback(context.Background(), func(context.Context) (int, error) {
		time.Sleep(20 * time.Millisecond)
		return 3, nil
	}, 0, -1)

	assert.Equal(t, 3, got)
}

func TestWithRejection_ReturnsResult(t *testing.T) {
	got, err := WithRejection(context.Background(), func(context.Context) (string, error) {
		return "ok", nil
	}, time.Second, "too slow")

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestWithRejection_TimeoutCarriesMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := WithRejection(ctx, never[int], 20*time.Millisecond, "stats query timed out")

	require.Error(t, err)
	assert.EqualError(t, err, "stats query timed out")
	assert.ErrorIs(t, err, ErrTimeout)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 20*time.Millisecond, timeoutErr.Deadline)
}

func TestWithRejection_PropagatesOperationError(t *testing.T) {
	sentinel := errors.New("connection refused")

	_, err := WithRejection(context.Background(), func(context.Context) (int, error) {
		return 0, sentinel
	}, time.Second, "too slow")

	assert.Same(t, sentinel, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}
