package llm

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// withRetry runs op with exponential backoff while it keeps failing with a
// transient error: a network timeout, or a 408/429/503 from the provider.
// Auth failures and other statuses return immediately.
func withRetry(ctx context.Context, maxAttempts int, baseDelay time.Duration, op func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		err = op()
		if err == nil || attempt == maxAttempts || !isRetriable(err) {
			return err
		}

		// 100ms, 200ms, 400ms... capped at 1s, then -10%..+10% jitter
		delay := baseDelay << (attempt - 1)
		if delay > time.Second {
			delay = time.Second
		}
		jitter := time.Duration(rand.Int63n(int64(delay/5) + 1))
		delay = delay - delay/10 + jitter

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetriable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch statusCode(err) {
	case http.StatusTooManyRequests, http.StatusRequestTimeout, http.StatusServiceUnavailable:
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
