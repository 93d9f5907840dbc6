// Package retry re-runs actions that fail with transient errors, such as an
// order rejected by a rate limit.
package retry

import (
	"context"
)

// Action is a function to be performed in a retriable manner.
type Action func(ctx context.Context) error

// Retry executes the provided action, potentially multiple times based off of
// the provided strategies. Retry blocks until the action succeeds, one of the
// strategies indicates no further retries should be performed, or ctx is done.
//
// The strategies are executed in the provided order, so any strategies that
// induce delays should be specified last.
func Retry(ctx context.Context, action Action, strategies ...Strategy) (uint, error) {
	for i := uint(1); ; i++ {
		err := action(ctx)
		if err == nil {
			return i, nil
		}

		for _, s := range strategies {
			if shouldRetry := s(ctx, i, err); !shouldRetry {
				return i, err
			}
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return i, ctxErr
		}
	}
}
