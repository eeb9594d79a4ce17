// Package poll waits for a remote job by checking it on a fixed interval.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrTimeout is returned when the job is still pending after MaxAttempts
// checks.
var ErrTimeout = errors.New("poll: job still pending")

var errPending = errors.New("pending")

type Config struct {
	Interval time.Duration
	// MaxAttempts bounds the number of delayed checks. Zero or less means
	// no bound.
	MaxAttempts int
}

// CheckFunc reports whether the job is done. A non-nil error stops polling
// and is returned as is.
type CheckFunc func(ctx context.Context, attempt int) (done bool, err error)

// Until calls check immediately and then once per Interval until it reports
// done, fails, the attempts run out or ctx is cancelled.
func Until(ctx context.Context, cfg Config, check CheckFunc) error {
	var b retry.Backoff = retry.NewConstant(cfg.Interval)
	if cfg.MaxAttempts > 0 {
		b = retry.WithMaxRetries(uint64(cfg.MaxAttempts), b)
	}

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		done, err := check(ctx, attempt)
		attempt++
		if err != nil {
			return err
		}
		if !done {
			return retry.RetryableError(errPending)
		}
		return nil
	})
	if errors.Is(err, errPending) {
		return fmt.Errorf("%w after %d checks", ErrTimeout, attempt)
	}
	return err
}
