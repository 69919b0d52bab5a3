package upstream

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"exam-portal/internal/platform/config"
)

// Retrier wraps upstream calls with linear backoff. Client errors (HTTP
// status in [400,500)) fail immediately; 5xx responses, timeouts and
// connection failures are considered transient. After the attempts are
// exhausted the last observed error is returned unchanged so the classifier
// sees the original failure.
type Retrier struct {
	attempts int
	delay    time.Duration
	logger   *slog.Logger
	onRetry  func(operation string)
}

// RetrierOption configures a Retrier.
type RetrierOption func(*Retrier)

// WithRetryLogger sets the logger used for per-attempt warnings.
func WithRetryLogger(logger *slog.Logger) RetrierOption {
	return func(r *Retrier) { r.logger = logger }
}

// WithRetryCallback registers a hook invoked once per retry, keyed by the
// operation label. Services use it to feed the retry counter.
func WithRetryCallback(fn func(operation string)) RetrierOption {
	return func(r *Retrier) { r.onRetry = fn }
}

// NewRetrier builds a Retrier from the shared upstream configuration.
func NewRetrier(cfg config.Upstream, opts ...RetrierOption) *Retrier {
	r := &Retrier{
		attempts: cfg.RetryAttempts,
		delay:    cfg.RetryDelay,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do executes fn with the configured retry policy. The operation label only
// appears in logs and metrics.
func (r *Retrier) Do(ctx context.Context, operation string, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(uint(r.attempts)+1),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			// Linear backoff: delay × attempt number, 1-indexed.
			return r.delay * time.Duration(n+1)
		}),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			r.logger.WarnContext(ctx, "retrying upstream call",
				"operation", operation,
				"attempt", n+1,
				"max_attempts", r.attempts+1,
				"error", err.Error(),
			)
			if r.onRetry != nil {
				r.onRetry(operation)
			}
		}),
		retry.LastErrorOnly(true),
	)
}

// isTransient reports whether an upstream failure is worth retrying.
// Client errors represent invalid input or a missing record; retrying them
// wastes upstream calls.
func isTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status < 400 || se.Status >= 500
	}
	return true
}
