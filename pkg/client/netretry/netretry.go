// Package netretry provides retry utilities for transient provider and network errors.
package netretry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/siderolabs/go-retry/retry"
)

// DefaultBase is the first backoff step used when a Policy leaves Base unset.
const DefaultBase = time.Second

// ErrRetryTimeout is returned when the retry budget ran out while the last
// attempt still failed with a retryable error.
var ErrRetryTimeout = errors.New("retry budget exhausted")

// httpStatusCodePattern matches HTTP 5xx status codes at word boundaries
// to avoid false positives on port numbers like ":5000".
var httpStatusCodePattern = regexp.MustCompile(`\b50[0-4]\b`)

// Policy bounds an exponential backoff loop.
type Policy struct {
	// Timeout is the total time budget. Zero runs a single attempt.
	Timeout time.Duration
	// Base is the first backoff step; later steps double.
	Base time.Duration
}

// Retry runs fn until it succeeds, fails with an error retryable rejects,
// the policy's budget is spent or ctx is cancelled.
//
// Non-retryable errors are returned unchanged. When the budget runs out on a
// retryable error the result wraps both ErrRetryTimeout and that error.
func Retry(
	ctx context.Context,
	policy Policy,
	retryable func(error) bool,
	fn func(ctx context.Context) error,
) error {
	if policy.Timeout <= 0 {
		return fn(ctx)
	}

	base := policy.Base
	if base <= 0 {
		base = DefaultBase
	}

	var lastErr error

	err := retry.Exponential(policy.Timeout, retry.WithUnits(base)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			lastErr = fn(ctx)
			if lastErr != nil && retryable(lastErr) {
				return retry.ExpectedError(lastErr)
			}

			return lastErr
		})
	if err == nil {
		return nil
	}

	if lastErr == nil {
		return fmt.Errorf("retry: %w", err)
	}

	if retryable(lastErr) {
		return fmt.Errorf("%w: %w", ErrRetryTimeout, lastErr)
	}

	return lastErr
}

// IsRetryable returns true if the error indicates a transient network error
// that should be retried. This covers HTTP 5xx status codes and TCP-level errors
// such as connection resets, timeouts, and unexpected EOF.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()

	textPatterns := []string{
		"Internal Server Error", "Bad Gateway",
		"Service Unavailable", "Gateway Timeout",
		"connection reset by peer", "connection refused",
		"i/o timeout", "TLS handshake timeout",
		"unexpected EOF", "no such host",
	}

	for _, pattern := range textPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(errMsg)
}
