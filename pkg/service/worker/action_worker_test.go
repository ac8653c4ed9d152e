package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/repository/memory"
	"github.com/aadee-inc/steward/pkg/service/integration"
	"github.com/aadee-inc/steward/pkg/service/worker"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/m-mizutani/gt"
)

type fakeScanner struct {
	mu        sync.Mutex
	workerIDs []string
	calls     atomic.Int32
	err       error
	delay     time.Duration
	finished  atomic.Int32
}

func (s *fakeScanner) ProcessApproved(ctx context.Context, workerID string) (*usecase.ScanSummary, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.workerIDs = append(s.workerIDs, workerID)
	s.mu.Unlock()

	time.Sleep(s.delay)
	s.finished.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.ScanSummary{Processed: 2, Successful: 1, Failed: 1}, nil
}

type fakeGenerator struct {
	orgIDs chan string
}

func (g *fakeGenerator) GenerateSuggestions(ctx context.Context, orgID string) ([]*model.Suggestion, error) {
	g.orgIDs <- orgID
	return nil, nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestActionWorker_RunOnce(t *testing.T) {
	t.Run("passes worker ID", func(t *testing.T) {
		scanner := &fakeScanner{}
		w := worker.NewActionWorker(scanner, worker.WithWorkerID("worker-a"))

		summary, err := w.RunOnce(context.Background())
		gt.NoError(t, err)
		gt.Value(t, summary.Processed).Equal(2)
		gt.A(t, scanner.workerIDs).Equal([]string{"worker-a"})
	})

	t.Run("default worker ID", func(t *testing.T) {
		scanner := &fakeScanner{}
		w := worker.NewActionWorker(scanner)

		_, err := w.RunOnce(context.Background())
		gt.NoError(t, err)
		gt.A(t, scanner.workerIDs).Equal([]string{usecase.DefaultWorkerID})
	})

	t.Run("scan error is wrapped", func(t *testing.T) {
		boom := errors.New("store unavailable")
		w := worker.NewActionWorker(&fakeScanner{err: boom})

		_, err := w.RunOnce(context.Background())
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, boom)).True()
	})
}

func TestActionWorker_ExecutesApprovedActions(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	uc := usecase.NewActionUseCase(repo, integration.NewDispatcher(nil), config.NewBusiness("org-1"))

	action, err := uc.CreateAction(ctx, usecase.CreateActionInput{
		OrgID: "org-1",
		Type:  types.ActionTypeUpdateBusinessHours,
		Params: map[string]any{
			"hours": map[string]any{"friday": "09:00-15:00"},
		},
	})
	gt.NoError(t, err)
	_, err = uc.ReviewAction(ctx, action.ID, true, "", "alice")
	gt.NoError(t, err)

	w := worker.NewActionWorker(uc, worker.WithWorkerID("worker-b"))
	summary, err := w.RunOnce(ctx)
	gt.NoError(t, err)
	gt.Value(t, summary.Processed).Equal(1)

	stored, err := repo.Action().Get(ctx, action.ID)
	gt.NoError(t, err)
	gt.Bool(t, stored.Status.IsTerminal()).True()
	gt.Value(t, stored.ExecutedBy).Equal("worker-b")
}

func TestActionWorker_Start(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		w := worker.NewActionWorker(&fakeScanner{}, worker.WithSchedule("every now and then"))
		gt.Error(t, w.Start(context.Background()))
		w.Stop()
	})

	t.Run("start twice", func(t *testing.T) {
		w := worker.NewActionWorker(&fakeScanner{})
		gt.NoError(t, w.Start(context.Background()))
		defer w.Stop()
		gt.Error(t, w.Start(context.Background()))
	})

	t.Run("scans on schedule", func(t *testing.T) {
		scanner := &fakeScanner{}
		w := worker.NewActionWorker(scanner, worker.WithSchedule("@every 1s"))
		gt.NoError(t, w.Start(context.Background()))
		defer w.Stop()

		waitFor(t, 5*time.Second, func() bool { return scanner.calls.Load() >= 1 })
	})

	t.Run("scan errors keep the schedule alive", func(t *testing.T) {
		scanner := &fakeScanner{err: errors.New("store unavailable")}
		w := worker.NewActionWorker(scanner, worker.WithSchedule("@every 1s"))
		gt.NoError(t, w.Start(context.Background()))
		defer w.Stop()

		waitFor(t, 5*time.Second, func() bool { return scanner.calls.Load() >= 2 })
	})

	t.Run("suggestion job", func(t *testing.T) {
		gen := &fakeGenerator{orgIDs: make(chan string, 4)}
		w := worker.NewActionWorker(&fakeScanner{},
			worker.WithSuggestionJob(gen, "org-9", "@every 1s"),
		)
		gt.NoError(t, w.Start(context.Background()))
		defer w.Stop()

		select {
		case orgID := <-gen.orgIDs:
			gt.Value(t, orgID).Equal("org-9")
		case <-time.After(5 * time.Second):
			t.Fatal("suggestion job did not run")
		}
	})
}

func TestActionWorker_StopWaitsForRunningScan(t *testing.T) {
	scanner := &fakeScanner{delay: 500 * time.Millisecond}
	w := worker.NewActionWorker(scanner, worker.WithSchedule("@every 1s"))
	gt.NoError(t, w.Start(context.Background()))

	waitFor(t, 5*time.Second, func() bool { return scanner.calls.Load() >= 1 })
	w.Stop()

	gt.Value(t, scanner.finished.Load()).Equal(scanner.calls.Load())

	// Stop is idempotent.
	w.Stop()
}

func TestValidateSchedule(t *testing.T) {
	gt.NoError(t, worker.ValidateSchedule(worker.DefaultScanSchedule))
	gt.NoError(t, worker.ValidateSchedule(worker.DefaultSuggestionSchedule))
	gt.NoError(t, worker.ValidateSchedule("*/5 * * * *"))
	gt.Error(t, worker.ValidateSchedule("61 * * * *"))
	gt.Error(t, worker.ValidateSchedule(""))
}
