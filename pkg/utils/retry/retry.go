// Package retry runs external calls under a per-attempt timeout and a bounded
// exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/cenkalti/backoff/v4"
)

// Policy bounds one external call.
type Policy struct {
	// Timeout is applied to every attempt. Zero disables the per-attempt deadline.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64
	// InitialInterval is the first backoff wait.
	InitialInterval time.Duration
	// MaxInterval caps a single backoff wait.
	MaxInterval time.Duration
}

// DefaultPolicy is used for platform and calendar calls when nothing else is configured.
func DefaultPolicy() Policy {
	return Policy{
		Timeout:         15 * time.Second,
		MaxRetries:      2,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Permanent marks err so that Do stops retrying and returns it as is.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Do calls op until it succeeds, returns a permanent error, the retry budget
// is spent, or ctx is done. The last error is returned.
func Do(ctx context.Context, p Policy, name string, op func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		callCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}

		err := op(callCtx)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logging.From(ctx).Warn("external call failed, retrying",
			"call", name,
			"attempt", attempt,
			"wait", wait,
			"error", err.Error(),
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx), notify)

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
