package retry

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSleeper struct {
	sleepTimes []time.Duration
}

func (t *testSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t.sleepTimes = append(t.sleepTimes, d)
	return ctx.Err()
}

func useTestSleeper(t *testing.T) *testSleeper {
	ts := &testSleeper{}
	sleeperImpl = ts
	t.Cleanup(func() { sleeperImpl = realSleeper{} })
	return ts
}

func TestRetry_HappyPath(t *testing.T) {
	attempts, err := Retry(context.Background(), func(context.Context) error { return nil }, Limit(5))
	require.NoError(t, err)
	assert.EqualValues(t, 1, attempts)
}

func TestRetry_Limit(t *testing.T) {
	strategy := Limit(2)

	// One attempt has been made. Try again.
	assert.True(t, strategy(context.Background(), 1, errors.New("test")))
	// Two attempts have been made. Do not try again.
	assert.False(t, strategy(context.Background(), 2, errors.New("test")))

	attempts, err := Retry(context.Background(), func(context.Context) error {
		return errors.New("test")
	}, Limit(2))
	assert.EqualError(t, err, "test")
	assert.EqualValues(t, 2, attempts)
}

func TestRetry_StrategyOrderDoesNotMatter(t *testing.T) {
	retriableErr := errors.New("retriable")
	strategies := []Strategy{Limit(5), RetriableErrors(retriableErr)}

	attempts, err := Retry(context.Background(), func(context.Context) error { return errors.New("unknown") }, strategies...)
	assert.EqualError(t, err, "unknown")
	assert.EqualValues(t, 1, attempts)

	attempts, err = Retry(context.Background(), func(context.Context) error {
		return errors.Wrap(retriableErr, "wrapped")
	}, strategies...)
	assert.True(t, errors.Is(err, retriableErr))
	assert.EqualValues(t, 5, attempts)
}

func TestRetriableErrors(t *testing.T) {
	retriableErrors := []error{
		errors.New("retriableA"),
		errors.New("retriableB"),
	}

	strategy := RetriableErrors(retriableErrors...)
	for _, err := range retriableErrors {
		assert.True(t, strategy(context.Background(), 1, err))
		assert.True(t, strategy(context.Background(), 1, errors.Wrap(err, "wrapper")))
	}
	assert.False(t, strategy(context.Background(), 2, errors.New("unexpected")))
}

func TestNonRetriableErrors(t *testing.T) {
	nonRetriable := errors.New("nonRetriable")

	strategy := NonRetriableErrors(nonRetriable)
	assert.False(t, strategy(context.Background(), 1, nonRetriable))
	assert.False(t, strategy(context.Background(), 1, errors.Wrap(nonRetriable, "wrapper")))
	assert.True(t, strategy(context.Background(), 1, errors.New("unexpected")))
}

func TestDelays(t *testing.T) {
	constant := ConstantDelay(time.Second)
	assert.Equal(t, time.Second, constant(1))
	assert.Equal(t, time.Second, constant(10))

	exponential := ExponentialDelay(time.Second, 3)
	assert.Equal(t, time.Second, exponential(1))
	assert.Equal(t, 3*time.Second, exponential(2))
	assert.Equal(t, 9*time.Second, exponential(3))
	assert.EqualValues(t, math.MaxInt64, exponential(1000))
}

func TestBackoff(t *testing.T) {
	ts := useTestSleeper(t)

	attempts, err := Retry(
		context.Background(),
		func(context.Context) error { return errors.New("err") },
		Limit(5),
		Backoff(ExponentialDelay(time.Millisecond, 2), 5*time.Millisecond),
	)
	assert.Error(t, err)
	assert.EqualValues(t, 5, attempts)
	assert.Equal(t, []time.Duration{
		time.Millisecond,
		2 * time.Millisecond,
		4 * time.Millisecond,
		5 * time.Millisecond,
	}, ts.sleepTimes)
}

func TestBackoff_ContextCancelled(t *testing.T) {
	ts := useTestSleeper(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts, err := Retry(
		ctx,
		func(context.Context) error { return errors.New("err") },
		Backoff(ConstantDelay(time.Millisecond), time.Second),
	)
	assert.EqualError(t, err, "err")
	assert.EqualValues(t, 1, attempts)
	assert.Len(t, ts.sleepTimes, 1)
}

func TestRealSleeper(t *testing.T) {
	start := time.Now()
	require.NoError(t, realSleeper{}.Sleep(context.Background(), 50*time.Millisecond))
	assert.True(t, time.Since(start) >= 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, context.Canceled, realSleeper{}.Sleep(ctx, time.Hour))
}
