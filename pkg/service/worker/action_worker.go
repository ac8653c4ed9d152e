package worker

import (
	"context"
	"sync"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"
)

// Defaults of ActionWorker.
const (
	DefaultScanSchedule       = "@every 3m"
	DefaultSuggestionSchedule = "0 6 * * *"
)

// Scanner executes every approved action once.
type Scanner interface {
	ProcessApproved(ctx context.Context, workerID string) (*usecase.ScanSummary, error)
}

// SuggestionGenerator creates the proactive suggestions that apply now.
type SuggestionGenerator interface {
	GenerateSuggestions(ctx context.Context, orgID string) ([]*model.Suggestion, error)
}

// ActionWorker runs periodic, stateless scans of approved actions. Scans
// that are still running when the next tick fires are skipped, and a panic
// inside a scan is recovered by the scheduler.
//
// Several workers, in one process or many, may run against the same store.
// Each action is claimed with a compare-and-swap transition, so overlapping
// scans never execute an action twice.
type ActionWorker struct {
	scanner  Scanner
	workerID string
	schedule string

	suggestions        SuggestionGenerator
	suggestionOrgID    string
	suggestionSchedule string

	mu     sync.Mutex
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// Option is a functional option for ActionWorker
type Option func(*ActionWorker)

// WithSchedule sets the cron spec of the scan. Standard five-field specs and
// descriptors such as "@every 3m" are accepted.
func WithSchedule(spec string) Option {
	return func(w *ActionWorker) {
		w.schedule = spec
	}
}

// WithWorkerID sets the executor recorded on claimed actions
func WithWorkerID(id string) Option {
	return func(w *ActionWorker) {
		w.workerID = id
	}
}

// WithSuggestionJob adds a job generating suggestions for orgID on spec.
func WithSuggestionJob(gen SuggestionGenerator, orgID, spec string) Option {
	return func(w *ActionWorker) {
		w.suggestions = gen
		w.suggestionOrgID = orgID
		w.suggestionSchedule = spec
	}
}

func NewActionWorker(scanner Scanner, opts ...Option) *ActionWorker {
	w := &ActionWorker{
		scanner:            scanner,
		workerID:           usecase.DefaultWorkerID,
		schedule:           DefaultScanSchedule,
		suggestionSchedule: DefaultSuggestionSchedule,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ValidateSchedule checks a cron spec the way Start parses it.
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return goerr.Wrap(err, "invalid cron schedule", goerr.V("schedule", spec))
	}
	return nil
}

// Start schedules the jobs and returns immediately. ctx bounds every run.
func (w *ActionWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cron != nil {
		return goerr.New("action worker already started")
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(
			cron.SkipIfStillRunning(logger),
			cron.Recover(logger),
		),
	)

	w.ctx, w.cancel = context.WithCancel(ctx)

	if _, err := c.AddFunc(w.schedule, w.scan); err != nil {
		w.cancel()
		return goerr.Wrap(err, "failed to schedule action scan", goerr.V("schedule", w.schedule))
	}

	if w.suggestions != nil {
		if _, err := c.AddFunc(w.suggestionSchedule, w.generate); err != nil {
			w.cancel()
			return goerr.Wrap(err, "failed to schedule suggestion generation",
				goerr.V("schedule", w.suggestionSchedule))
		}
	}

	w.cron = c
	c.Start()

	logging.From(ctx).Info("action worker started",
		"worker_id", w.workerID,
		"schedule", w.schedule,
		"suggestions", w.suggestions != nil,
	)
	return nil
}

// Stop stops scheduling and waits for a running scan to finish. A cancelled
// scan claims nothing new, and an action it already claimed is still driven
// to a terminal state before Stop returns.
func (w *ActionWorker) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c == nil {
		return
	}

	logging.Default().Info("action worker stopping", "worker_id", w.workerID)
	<-c.Stop().Done()
	w.cancel()
	logging.Default().Info("action worker stopped", "worker_id", w.workerID)
}

// RunOnce performs a single scan outside the schedule.
func (w *ActionWorker) RunOnce(ctx context.Context) (*usecase.ScanSummary, error) {
	summary, err := w.scanner.ProcessApproved(ctx, w.workerID)
	if err != nil {
		return nil, goerr.Wrap(err, "action scan failed", goerr.V("worker_id", w.workerID))
	}
	return summary, nil
}

func (w *ActionWorker) scan() {
	ctx := w.ctx
	if _, err := w.RunOnce(ctx); err != nil {
		// Logged only; the next tick retries.
		errutil.Handle(ctx, err, "scheduled action scan failed")
	}
}

func (w *ActionWorker) generate() {
	ctx := w.ctx
	created, err := w.suggestions.GenerateSuggestions(ctx, w.suggestionOrgID)
	if err != nil {
		errutil.Handle(ctx, err, "scheduled suggestion generation failed")
		return
	}
	logging.From(ctx).Debug("scheduled suggestion generation finished", "created", len(created))
}

// cronLogger routes scheduler messages to the process logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logging.Default().Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logging.Default().Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
