package adapter

import (
	"context"
	"time"
)

const (
	// defaultRetryAttempts and defaultRetryDelay bound the wait for a raw
	// item to appear in the cache: the cache is populated asynchronously
	// relative to the render events that consume it.
	defaultRetryAttempts = 10
	defaultRetryDelay    = 200 * time.Millisecond
)

// RetryUntil polls fn up to maxAttempts times, sleeping delay between
// attempts, until fn reports success. The first attempt happens
// immediately. Exhausting the budget or ctx cancellation yields ok=false;
// the retry loop always terminates.
func RetryUntil[T any](ctx context.Context, fn func() (T, bool), maxAttempts int, delay time.Duration) (T, bool) {
	var zero T
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if v, ok := fn(); ok {
			return v, true
		}
		if attempt == maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, false
		case <-time.After(delay):
		}
	}
	return zero, false
}
