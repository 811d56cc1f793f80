package gas

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// withRetry runs op with a small bounded retry budget and constant delay.
// RPC nodes fail transiently often enough that one-shot calls are too flaky,
// but long backoff would stall the whole estimate.
func withRetry(ctx context.Context, attempts uint64, delay time.Duration, op func() error) error {
	if attempts == 0 {
		attempts = 1
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), attempts-1)
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}
