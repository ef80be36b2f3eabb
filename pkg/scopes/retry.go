package scopes

import (
	stderrors "errors"
	"time"

	"github.com/arthur-debert/testscope/pkg/errors"
	"github.com/arthur-debert/testscope/pkg/logging"
)

// ErrUnsatisfied signals that an operation's condition has not come true yet
// and the operation should be retried. When a Retry deadline passes while the
// operation keeps returning ErrUnsatisfied, the result is a CALLABLE_TIMED_OUT
// failure, never an assertion failure -- the two are distinguishable by code.
var ErrUnsatisfied = errors.New(errors.ErrUnsatisfied, "condition not yet satisfied")

// Assertionf builds an assertion-kind failure, the kind Retry retries by
// default.
func Assertionf(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrAssertion, format, args...)
}

// Retry timing. Sleeps start small to keep latency low for fast-resolving
// conditions and double up to a cap to bound polling cost.
const (
	DefaultRetryTimeout = 60 * time.Second
	initialBackoff      = 100 * time.Millisecond
	maxBackoff          = time.Second
)

type retryConfig struct {
	timeout     time.Duration
	shouldRetry func(error) bool
	sleep       func(time.Duration)
	now         func() time.Time
}

// RetryOption adjusts Retry behavior.
type RetryOption func(*retryConfig)

// WithTimeout sets the deadline for the whole retry loop.
func WithTimeout(timeout time.Duration) RetryOption {
	return func(cfg *retryConfig) {
		cfg.timeout = timeout
	}
}

// WithRetriedError replaces the predicate deciding which failures are
// retried. The default retries assertion-kind failures.
func WithRetriedError(match func(error) bool) RetryOption {
	return func(cfg *retryConfig) {
		cfg.shouldRetry = match
	}
}

// Retry repeatedly invokes op until it succeeds or the deadline passes.
//
// op returning a nil error is success and its value is returned immediately.
// op returning ErrUnsatisfied or a failure matching the retried predicate is
// retried. Any other error propagates at once.
//
// Once the deadline (start + timeout) has passed, the most recent retried
// failure is returned; if op only ever returned ErrUnsatisfied, a distinct
// CALLABLE_TIMED_OUT failure is returned instead.
//
// The deadline is checked after a failed attempt and before the sleep, so the
// final backoff interval may overshoot the timeout by up to the backoff cap.
func Retry[T any](op func() (T, error), opts ...RetryOption) (T, error) {
	cfg := retryConfig{
		timeout: DefaultRetryTimeout,
		shouldRetry: func(err error) bool {
			return errors.IsCode(err, errors.ErrAssertion)
		},
		sleep: time.Sleep,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return retryWithConfig(op, cfg)
}

func retryWithConfig[T any](op func() (T, error), cfg retryConfig) (T, error) {
	logger := logging.GetLogger("scopes.retry")
	deadline := cfg.now().Add(cfg.timeout)
	pause := initialBackoff
	attempt := 0

	var zero T
	for {
		attempt++
		result, err := op()
		if err == nil {
			return result, nil
		}

		switch {
		case stderrors.Is(err, ErrUnsatisfied):
			if cfg.now().After(deadline) {
				return zero, errors.Newf(errors.ErrCallableTimeout,
					"callable kept returning false for %s", cfg.timeout)
			}
		case cfg.shouldRetry(err):
			if cfg.now().After(deadline) {
				return zero, err
			}
		default:
			return zero, err
		}

		logger.Trace().Int("attempt", attempt).Dur("pause", pause).Err(err).Msg("Retrying")
		cfg.sleep(pause)
		if pause < maxBackoff {
			pause *= 2
			if pause > maxBackoff {
				pause = maxBackoff
			}
		}
	}
}

// Await retries a boolean condition until it reports true or the deadline
// passes, in which case the CALLABLE_TIMED_OUT failure is returned.
func Await(cond func() bool, opts ...RetryOption) error {
	_, err := Retry(func() (struct{}, error) {
		if cond() {
			return struct{}{}, nil
		}
		return struct{}{}, ErrUnsatisfied
	}, opts...)
	return err
}
