package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func recordingSleep(sleeps *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	var sleeps []time.Duration
	var retried []int
	calls := 0

	_, err := Do(context.Background(), Policy{
		MaxAttempts: 5,
		Delay:       5 * time.Second,
		Retryable:   func(err error) bool { return errors.Is(err, errFlaky) },
		Sleep:       recordingSleep(&sleeps),
		OnRetry:     func(attempt int, _ error) { retried = append(retried, attempt) },
	}, func(context.Context) (int, error) {
		calls++
		return 0, errFlaky
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 5, calls)
	assert.Len(t, sleeps, 4)
	assert.Equal(t, 5*time.Second, sleeps[0])
	assert.Equal(t, []int{1, 2, 3, 4}, retried)
}

func TestDo_NonRetryableStops(t *testing.T) {
	var sleeps []time.Duration
	calls := 0
	fatal := errors.New("fatal")

	_, err := Do(context.Background(), Policy{
		MaxAttempts: 5,
		Retryable:   func(err error) bool { return errors.Is(err, errFlaky) },
		Sleep:       recordingSleep(&sleeps),
	}, func(context.Context) (string, error) {
		calls++
		return "", fatal
	})

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps)
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	got, err := Do(context.Background(), Policy{
		MaxAttempts: 5,
		Sleep:       recordingSleep(&sleeps),
	}, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errFlaky
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
	assert.Len(t, sleeps, 2)
}

func TestDo_CancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := Do(ctx, Policy{
		MaxAttempts: 5,
		Delay:       time.Hour,
		OnRetry:     func(int, error) { cancel() },
	}, func(context.Context) (int, error) {
		calls++
		return 0, errFlaky
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
