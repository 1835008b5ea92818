// Package netretry classifies transient network errors and retries operations that hit them.
// It backs the install-manifest download.
package netretry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/siderolabs/go-retry/retry"
)

// httpStatusCodePattern matches 500-504 at word boundaries so ports like ":5000" do not.
var httpStatusCodePattern = regexp.MustCompile(`\b50[0-4]\b`)

var transientPatterns = []string{
	"Internal Server Error", "Bad Gateway",
	"Service Unavailable", "Gateway Timeout",
	"connection reset by peer", "connection refused",
	"i/o timeout", "TLS handshake timeout",
	"unexpected EOF", "no such host",
	"Client.Timeout exceeded",
}

// IsRetryable reports whether err looks transient: HTTP 5xx responses, resets,
// refusals, timeouts and truncated reads.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errMsg := err.Error()
	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(errMsg)
}

// Policy bounds Do. Timeout caps the whole retry window; zero derives one
// from Attempts and Interval.
type Policy struct {
	Attempts int
	Interval time.Duration
	Timeout  time.Duration
}

func (p Policy) window(attempts int) time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}

	return time.Duration(attempts) * (p.Interval + time.Minute)
}

// Do runs operation until it succeeds, fails with a non-retryable error, or
// policy.Attempts is reached. The last operation error is returned.
func Do(ctx context.Context, policy Policy, operation func(ctx context.Context) error) error {
	attempts := max(policy.Attempts, 1)
	attempt := 0

	var lastErr error

	err := retry.Constant(policy.window(attempts), retry.WithUnits(policy.Interval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			attempt++

			lastErr = operation(ctx)
			if lastErr == nil {
				return nil
			}

			if IsRetryable(lastErr) && attempt < attempts {
				return retry.ExpectedError(lastErr)
			}

			return lastErr
		})
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("retry cancelled: %w", ctx.Err())
	}

	return lastErr
}
