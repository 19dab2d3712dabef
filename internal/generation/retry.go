package generation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// Retry policy defaults. The backoff is intentionally aggressive (4s, 16s,
// 64s, 256s nominal) because the upstream model call is itself slow —
// requests may legitimately take several minutes — and transient throttling
// needs room to clear.
const (
	defaultMaxAttempts = 5
	defaultBackoffBase = 4.0
)

// Call is one transport round trip returning raw model output text.
type Call func(ctx context.Context) (string, error)

// RetryingInvoker wraps a transport call with a classified-retry loop:
// transient failures are retried with exponential backoff plus jitter,
// everything else propagates immediately. After the final attempt the last
// observed error is returned verbatim, preserving its classification.
type RetryingInvoker struct {
	logger      *slog.Logger
	maxAttempts int
	backoffBase float64

	// jitter and sleep are injectable for deterministic tests.
	jitter func() float64
	sleep  func(ctx context.Context, d time.Duration) error
}

// RetryOption customizes a RetryingInvoker.
type RetryOption func(*RetryingInvoker)

// WithMaxAttempts overrides the total attempt budget (initial + retries).
func WithMaxAttempts(n int) RetryOption {
	return func(ri *RetryingInvoker) {
		if n > 0 {
			ri.maxAttempts = n
		}
	}
}

// WithBackoffBase overrides the exponential backoff base.
func WithBackoffBase(base float64) RetryOption {
	return func(ri *RetryingInvoker) {
		if base > 1 {
			ri.backoffBase = base
		}
	}
}

// WithJitter replaces the jitter source. The function must return values
// in [0, 1).
func WithJitter(jitter func() float64) RetryOption {
	return func(ri *RetryingInvoker) {
		if jitter != nil {
			ri.jitter = jitter
		}
	}
}

// WithSleeper replaces the inter-attempt sleep, letting tests observe the
// computed delays without waiting them out.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) RetryOption {
	return func(ri *RetryingInvoker) {
		if sleep != nil {
			ri.sleep = sleep
		}
	}
}

// NewRetryingInvoker creates a RetryingInvoker with the default policy.
// A nil logger falls back to the default slog logger.
func NewRetryingInvoker(logger *slog.Logger, opts ...RetryOption) *RetryingInvoker {
	if logger == nil {
		logger = slog.Default()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ri := &RetryingInvoker{
		logger:      logger.With(slog.String("component", "retrying_invoker")),
		maxAttempts: defaultMaxAttempts,
		backoffBase: defaultBackoffBase,
		jitter:      rng.Float64,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(ri)
	}
	return ri
}

// Invoke runs call until it succeeds, fails permanently, or the attempt
// budget is exhausted. Each attempt is a fresh, independent call with
// identical input; no partial state is carried between attempts.
func (ri *RetryingInvoker) Invoke(ctx context.Context, call Call) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= ri.maxAttempts; attempt++ {
		ri.logger.InfoContext(ctx, "invoking model transport",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", ri.maxAttempts))

		result, err := call(ctx)
		if err == nil {
			ri.logger.InfoContext(ctx, "model transport call succeeded",
				slog.Int("attempt", attempt))
			return result, nil
		}

		ri.logger.ErrorContext(ctx, "model transport call failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
			slog.Bool("transient", IsTransient(err)))

		if !IsTransient(err) {
			return "", err
		}

		lastErr = err
		if attempt == ri.maxAttempts {
			ri.logger.WarnContext(ctx, "retry budget exhausted",
				slog.Int("attempts", ri.maxAttempts))
			break
		}

		// delay before attempt n+1 = base^n + uniform[0,1) seconds
		delaySeconds := math.Pow(ri.backoffBase, float64(attempt)) + ri.jitter()
		delay := time.Duration(delaySeconds * float64(time.Second))

		ri.logger.InfoContext(ctx, "retrying after backoff",
			slog.Int("next_attempt", attempt+1),
			slog.Float64("delay_seconds", delaySeconds))

		if err := ri.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("retry wait interrupted: %w", err)
		}
	}

	// Exhausted: re-return the last error untouched so the caller still
	// sees its classification.
	return "", lastErr
}

// sleepContext blocks for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
