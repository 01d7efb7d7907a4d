package fetch

import (
	"context"
	"fmt"
	"time"
)

// RetryFetcher wraps another Fetcher with a bounded number of attempts
// and a fixed delay between them.
type RetryFetcher struct {
	Inner    Fetcher
	Attempts int
	Delay    time.Duration
}

func (r *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		body, err := r.Inner.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(r.Delay):
			}
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
