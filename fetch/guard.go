package fetch

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"golang.org/x/time/rate"

	"pitwall/metrics"
)

// RetryConfig controls retry behavior for API calls.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig mirrors the collection policy: three attempts total,
// exponential waits between 4s and 10s.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	InitialWait: 4 * time.Second,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

func (rc RetryConfig) wait(attempt int) time.Duration {
	w := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt-1)))
	if w > rc.MaxWait {
		w = rc.MaxWait
	}
	return w
}

// Guard wraps every API call with a blocking call-rate limiter and bounded
// retry. One guard is shared by service init, page fetches, and detail
// chunk fetches, so they all draw from the same call budget.
type Guard struct {
	limiter *rate.Limiter
	retry   RetryConfig
	logger  *slog.Logger
}

// NewGuard admits at most calls API calls per period. Calls beyond the
// limit block until window capacity frees up.
func NewGuard(calls int, period time.Duration, rc RetryConfig, logger *slog.Logger) *Guard {
	return &Guard{
		limiter: rate.NewLimiter(rate.Limit(float64(calls)/period.Seconds()), calls),
		retry:   rc,
		logger:  logger,
	}
}

// Do executes fn under the guard's rate limit and retry policy. The error
// returned is always classified. Auth failures are surfaced immediately;
// quota and transient failures are retried until attempts run out.
func Do[T any](ctx context.Context, g *Guard, op string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= g.retry.MaxAttempts; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return zero, err
		}

		metrics.APICalls.WithLabelValues(op).Inc()
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = Classify(err)

		var authErr *AuthError
		if errors.As(lastErr, &authErr) {
			return zero, lastErr
		}

		if attempt < g.retry.MaxAttempts {
			wait := g.retry.wait(attempt)
			metrics.APIRetries.WithLabelValues(op).Inc()
			g.logger.Warn("api call failed, retrying",
				slog.String("op", op),
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait),
				slog.Any("error", lastErr))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	return zero, lastErr
}
