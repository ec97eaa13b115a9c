package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/circulation-engine-go/example/shared/core"
	"github.com/shelfwise/circulation-engine-go/example/shared/shell"
)

func Test_RetryWithExponentialBackoff_SucceedsFirstAttempt(t *testing.T) {
	// arrange
	calls := 0

	// act
	metrics, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		calls++
		return nil
	})

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, metrics.Attempts)
	assert.Equal(t, "none", metrics.LastErrorType)
	assert.False(t, metrics.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RetriesConcurrentModification(t *testing.T) {
	// arrange
	calls := 0

	// act
	metrics, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		calls++
		if calls < 3 {
			return core.ErrConcurrentModification
		}
		return nil
	}, shell.WithBaseDelay(time.Millisecond))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, metrics.Attempts)
	assert.Equal(t, "none", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_PermanentErrorFailsFast(t *testing.T) {
	// arrange
	permanent := errors.New("copy not found")
	calls := 0

	// act
	metrics, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		calls++
		return permanent
	})

	// assert
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "other", metrics.LastErrorType)
	assert.False(t, metrics.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_ExhaustsAttempts(t *testing.T) {
	// arrange
	calls := 0

	// act
	metrics, err := shell.RetryWithExponentialBackoff(context.Background(), func(_ context.Context) error {
		calls++
		return core.ErrConcurrentModification
	}, shell.WithMaxAttempts(3), shell.WithBaseDelay(time.Millisecond))

	// assert
	assert.ErrorIs(t, err, core.ErrConcurrentModification)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, metrics.Attempts)
	assert.True(t, metrics.RetriesExhausted)
	assert.Equal(t, "concurrent_modification", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_ContextCancellationStopsRetrying(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())

	// act
	metrics, err := shell.RetryWithExponentialBackoff(ctx, func(_ context.Context) error {
		cancel()
		return core.ErrConcurrentModification
	}, shell.WithBaseDelay(time.Second))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "context_canceled", metrics.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	noop := func(_ context.Context) error { return nil }

	_, err := shell.RetryWithExponentialBackoff(context.Background(), noop, shell.WithMaxAttempts(0))
	assert.ErrorIs(t, err, shell.ErrInvalidMaxAttempts)

	_, err = shell.RetryWithExponentialBackoff(context.Background(), noop, shell.WithBaseDelay(-time.Second))
	assert.ErrorIs(t, err, shell.ErrNegativeBaseDelay)

	_, err = shell.RetryWithExponentialBackoff(context.Background(), noop, shell.WithJitterFactor(1.5))
	assert.ErrorIs(t, err, shell.ErrInvalidJitterFactor)
}
