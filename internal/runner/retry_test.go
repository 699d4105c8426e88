package runner

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyEventuallySucceeds(t *testing.T) {
	attempts := 0
	err := retryPolicy{maxRetries: 3, baseDelay: time.Millisecond}.do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts mismatch: %d", attempts)
	}
}

func TestRetryPolicyGivesUp(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	var retried []int
	policy := retryPolicy{
		maxRetries: 2,
		baseDelay:  time.Millisecond,
		onRetry:    func(attempt int, _ error) { retried = append(retried, attempt) },
	}
	err := policy.do(context.Background(), func(context.Context) error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts mismatch: %d", attempts)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Fatalf("retry callbacks mismatch: %v", retried)
	}
}

func TestRetryPolicyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := retryPolicy{maxRetries: 5, baseDelay: time.Hour}.do(ctx, func(context.Context) error {
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
