package retry

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
)

// Strategy determines whether or not an action should be retried. Strategies
// are allowed to delay.
type Strategy func(ctx context.Context, attempts uint, err error) bool

// Limit returns a strategy that limits the total number of attempts.
// maxAttempts should be >= 1, since the action is evaluated first.
func Limit(maxAttempts uint) Strategy {
	return func(_ context.Context, attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors returns a strategy that specifies which errors can be retried.
func RetriableErrors(retriableErrors ...error) Strategy {
	return func(_ context.Context, _ uint, err error) bool {
		for _, e := range retriableErrors {
			if errors.Is(err, e) {
				return true
			}
		}
		return false
	}
}

// NonRetriableErrors returns a strategy that specifies which errors should not be retried.
func NonRetriableErrors(nonRetriableErrors ...error) Strategy {
	return func(_ context.Context, _ uint, err error) bool {
		for _, e := range nonRetriableErrors {
			if errors.Is(err, e) {
				return false
			}
		}
		return true
	}
}

// Delay provides the amount of time to wait before the next attempt. Note:
// attempts starts at 1
type Delay func(attempts uint) time.Duration

// ConstantDelay always waits interval.
func ConstantDelay(interval time.Duration) Delay {
	return func(uint) time.Duration {
		return interval
	}
}

// ExponentialDelay waits baseDelay * base^(attempts - 1), saturating instead
// of overflowing.
func ExponentialDelay(baseDelay time.Duration, base float64) Delay {
	return func(attempts uint) time.Duration {
		delay := float64(baseDelay) * math.Pow(base, float64(attempts-1))
		if delay >= math.MaxInt64 || math.IsNaN(delay) {
			return math.MaxInt64
		}
		return time.Duration(delay)
	}
}

// Backoff returns a strategy that sleeps before the next attempt, capped at
// maxBackoff. The sleep is cut short, and no retry happens, when ctx is done.
func Backoff(delay Delay, maxBackoff time.Duration) Strategy {
	return func(ctx context.Context, attempts uint, _ error) bool {
		d := delay(attempts)
		if d > maxBackoff {
			d = maxBackoff
		}
		return sleeperImpl.Sleep(ctx, d) == nil
	}
}

type sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var sleeperImpl sleeper = realSleeper{}
