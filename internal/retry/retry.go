// Package retry wraps asynchronous operations with bounded
// exponential-backoff retry, classifying errors as retryable or fatal.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config controls retry behavior for a single operation.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultConfig returns the retry settings used for outbound HTTP calls.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// HTTPError carries an HTTP status code so the classifier can decide
// whether the failure is worth retrying.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("http error: %s", e.Status)
	}
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// IsRetryable reports whether an error is transient: network-class
// errors, timeouts, or HTTP status 408, 429 and 5xx.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == 408, httpErr.StatusCode == 429:
			return true
		case httpErr.StatusCode >= 500 && httpErr.StatusCode <= 599:
			return true
		default:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	return false
}

// Do executes op, retrying transient failures with exponential backoff
// and ±20% jitter. Non-retryable errors and exhaustion return the last
// error unchanged. Every retry and the final failure are logged.
func Do(ctx context.Context, logger *slog.Logger, name string, cfg Config, op func() error) error {
	_, err := DoValue(ctx, logger, name, cfg, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

// DoValue is Do for operations producing a value.
func DoValue[T any](ctx context.Context, logger *slog.Logger, name string, cfg Config, op func() (T, error)) (T, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = cfg.Multiplier
	b.RandomizationFactor = 0.2
	b.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	attempt := 0
	wrapped := func() (T, error) {
		attempt++
		val, err := op()
		if err != nil && !IsRetryable(err) {
			var zero T
			return zero, backoff.Permanent(err)
		}
		return val, err
	}

	notify := func(err error, delay time.Duration) {
		logger.Warn("operation failed, retrying",
			slog.String("operation", name),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.Any("error", err))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1)), ctx)

	val, err := backoff.RetryNotifyWithData(wrapped, policy, notify)
	if err != nil {
		logger.Error("operation failed after retries",
			slog.String("operation", name),
			slog.Int("attempts", attempt),
			slog.Any("error", err))
		var zero T
		return zero, err
	}
	return val, nil
}
