package readiness

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// PollInterval is the delay between readiness checks.
const PollInterval = 2 * time.Second

// PollForReadiness calls poll immediately and then every PollInterval until it reports
// true, returns an error, or deadline elapses. Cancellation of ctx is returned as-is;
// an elapsed deadline is reported as ErrTimeoutExceeded.
func PollForReadiness(
	ctx context.Context,
	deadline time.Duration,
	poll func(ctx context.Context) (bool, error),
) error {
	return pollWithInterval(ctx, PollInterval, deadline, poll)
}

func pollWithInterval(
	ctx context.Context,
	interval time.Duration,
	deadline time.Duration,
	poll func(ctx context.Context) (bool, error),
) error {
	err := wait.PollUntilContextTimeout(ctx, interval, deadline, true, poll)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("readiness wait cancelled: %w", ctx.Err())
	}

	if wait.Interrupted(err) {
		return fmt.Errorf("%w after %s", ErrTimeoutExceeded, deadline)
	}

	return err
}
