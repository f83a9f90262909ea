package scraper

import (
	"context"
	"time"
)

// RetryPolicy is the one shared bounded-retry-with-backoff used by every
// adapter, instead of each site growing its own ad hoc loop.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
	//Retryable decides whether an error is worth another attempt. Session
	//death, for one, is not: the caller has to rebuild, not retry.
	Retryable func(error) bool

	sleep func(time.Duration)
}

// DefaultDetailRetry covers transient detail-page fetch failures.
func DefaultDetailRetry(retryable func(error) bool) RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 2 * time.Second, Retryable: retryable}
}

// Do runs op up to Attempts times, backing off linearly between tries.
// The last error is returned after exhaustion.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = op(); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt < p.Attempts {
			sleep(p.Backoff * time.Duration(attempt))
		}
	}
	return err
}
