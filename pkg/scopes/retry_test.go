package scopes

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/testscope/pkg/errors"
)

func TestRetryReturnsImmediateSuccess(t *testing.T) {
	calls := 0
	result, err := Retry(func() (string, error) {
		calls++
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 1, calls)
}

func TestRetrySucceedsAfterAssertionFailures(t *testing.T) {
	calls := 0
	result, err := Retry(func() (int, error) {
		calls++
		if calls < 3 {
			return 0, Assertionf("not ready on attempt %d", calls)
		}
		return calls, nil
	}, WithTimeout(10*time.Second))

	require.NoError(t, err)
	assert.Equal(t, 3, result)
	assert.Equal(t, 3, calls)
}

func TestRetryReturnsLastAssertionAfterDeadline(t *testing.T) {
	calls := 0
	_, err := Retry(func() (int, error) {
		calls++
		return 0, Assertionf("attempt %d failed", calls)
	}, WithTimeout(0))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAssertion))
	assert.Contains(t, err.Error(), "attempt 1 failed")
}

func TestRetryTimesOutOnUnsatisfiedCondition(t *testing.T) {
	_, err := Retry(func() (int, error) {
		return 0, ErrUnsatisfied
	}, WithTimeout(0))

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCallableTimeout),
		"a condition that never raises must time out with CALLABLE_TIMED_OUT, got %v", err)
	assert.False(t, errors.IsCode(err, errors.ErrAssertion))
}

func TestRetryPropagatesUnexpectedErrors(t *testing.T) {
	boom := fmt.Errorf("unexpected failure")
	calls := 0
	_, err := Retry(func() (int, error) {
		calls++
		return 0, boom
	}, WithTimeout(10*time.Second))

	assert.True(t, stderrors.Is(err, boom))
	assert.Equal(t, 1, calls, "non-retried failures must propagate on the first attempt")
}

func TestRetryWithCustomRetriedError(t *testing.T) {
	retriable := fmt.Errorf("flaky")
	calls := 0
	result, err := Retry(func() (string, error) {
		calls++
		if calls < 2 {
			return "", retriable
		}
		return "ok", nil
	}, WithTimeout(10*time.Second), WithRetriedError(func(err error) bool {
		return stderrors.Is(err, retriable)
	}))

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
}

func TestRetryBackoffDoublesUpToCap(t *testing.T) {
	var pauses []time.Duration
	cfg := retryConfig{
		timeout:     10 * time.Second,
		shouldRetry: func(error) bool { return true },
		sleep:       func(d time.Duration) { pauses = append(pauses, d) },
		now:         time.Now,
	}

	calls := 0
	_, err := retryWithConfig(func() (int, error) {
		calls++
		if calls <= 6 {
			return 0, Assertionf("attempt %d", calls)
		}
		return calls, nil
	}, cfg)

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}, pauses)
}

func TestAwaitSucceedsWhenConditionComesTrue(t *testing.T) {
	calls := 0
	err := Await(func() bool {
		calls++
		return calls >= 2
	}, WithTimeout(10*time.Second))

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestAwaitTimesOut(t *testing.T) {
	err := Await(func() bool { return false }, WithTimeout(0))

	assert.True(t, errors.IsCode(err, errors.ErrCallableTimeout))
}
