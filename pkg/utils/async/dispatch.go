package async

import (
	"context"

	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch runs handler in its own goroutine, detached from the caller's
// cancellation but keeping its logger. task labels log lines and error
// reports. Failures and panics are reported, never returned.
func Dispatch(ctx context.Context, task string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx).With("task", task))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errutil.Handle(bgCtx, goerr.New("panic in background task",
					goerr.V("task", task), goerr.V("panic", r)), "background task panicked")
			}
		}()

		if err := handler(bgCtx); err != nil {
			errutil.Handle(bgCtx, goerr.Wrap(err, "background task failed", goerr.V("task", task)), "background task failed")
		}
	}()
}
