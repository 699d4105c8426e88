package runner

import (
	"context"
	"time"
)

const maxRetryDelay = 30 * time.Second

// retryPolicy retries a whole operation with exponential backoff. onRetry,
// when set, is called with the failed attempt number and its error before
// waiting.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	onRetry    func(attempt int, err error)
}

func (p retryPolicy) do(ctx context.Context, fn func(context.Context) error) error {
	maxRetries := p.maxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delay := p.baseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt >= maxRetries {
			return err
		}
		if p.onRetry != nil {
			p.onRetry(attempt+1, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}
