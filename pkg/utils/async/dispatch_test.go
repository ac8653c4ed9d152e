package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aadee-inc/steward/pkg/utils/async"
	"github.com/m-mizutani/gt"
)

func TestDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	async.Dispatch(ctx, "test", func(ctx context.Context) error {
		done <- ctx.Err()
		return nil
	})
	cancel()

	select {
	case err := <-done:
		// the task context is detached from the caller
		gt.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}

func TestDispatch_FailureAndPanicAreContained(t *testing.T) {
	done := make(chan struct{}, 2)

	async.Dispatch(context.Background(), "failing", func(ctx context.Context) error {
		defer func() { done <- struct{}{} }()
		return errors.New("boom")
	})
	async.Dispatch(context.Background(), "panicking", func(ctx context.Context) error {
		defer func() { done <- struct{}{} }()
		panic("boom")
	})

	for range 2 {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("task did not finish")
		}
	}
}
