package config

import (
	"log/slog"

	"github.com/aadee-inc/steward/pkg/service/worker"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Worker configures the periodic scan and suggestion jobs
type Worker struct {
	scanSchedule       string
	suggestionSchedule string
	workerID           string
	disabled           bool
}

func (x *Worker) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "scan-schedule",
			Usage:       "Cron spec for scanning approved actions",
			Category:    "Worker",
			Value:       worker.DefaultScanSchedule,
			Sources:     cli.EnvVars("STEWARD_SCAN_SCHEDULE"),
			Destination: &x.scanSchedule,
		},
		&cli.StringFlag{
			Name:        "suggestion-schedule",
			Usage:       "Cron spec for generating suggestions (empty disables the job)",
			Category:    "Worker",
			Value:       worker.DefaultSuggestionSchedule,
			Sources:     cli.EnvVars("STEWARD_SUGGESTION_SCHEDULE"),
			Destination: &x.suggestionSchedule,
		},
		&cli.StringFlag{
			Name:        "worker-id",
			Usage:       "Identity recorded as executed_by for scanned actions",
			Category:    "Worker",
			Value:       usecase.DefaultWorkerID,
			Sources:     cli.EnvVars("STEWARD_WORKER_ID"),
			Destination: &x.workerID,
		},
		&cli.BoolFlag{
			Name:        "disable-worker",
			Usage:       "Do not run scheduled jobs in this process",
			Category:    "Worker",
			Sources:     cli.EnvVars("STEWARD_DISABLE_WORKER"),
			Destination: &x.disabled,
		},
	}
}

func (x Worker) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("scan_schedule", x.scanSchedule),
		slog.String("suggestion_schedule", x.suggestionSchedule),
		slog.String("worker_id", x.workerID),
		slog.Bool("disabled", x.disabled),
	)
}

func (x *Worker) WorkerID() string {
	return x.workerID
}

func (x *Worker) Disabled() bool {
	return x.disabled
}

// Configure validates both schedules and builds the worker. It returns nil
// when the worker is disabled.
func (x *Worker) Configure(scanner worker.Scanner, gen worker.SuggestionGenerator, orgID string) (*worker.ActionWorker, error) {
	if x.disabled {
		return nil, nil
	}

	if err := worker.ValidateSchedule(x.scanSchedule); err != nil {
		return nil, goerr.Wrap(ErrInvalidSchedule, err.Error(), goerr.V(ScheduleKey, x.scanSchedule))
	}

	opts := []worker.Option{
		worker.WithSchedule(x.scanSchedule),
		worker.WithWorkerID(x.workerID),
	}

	if x.suggestionSchedule != "" && gen != nil {
		if err := worker.ValidateSchedule(x.suggestionSchedule); err != nil {
			return nil, goerr.Wrap(ErrInvalidSchedule, err.Error(), goerr.V(ScheduleKey, x.suggestionSchedule))
		}
		opts = append(opts, worker.WithSuggestionJob(gen, orgID, x.suggestionSchedule))
	}

	return worker.NewActionWorker(scanner, opts...), nil
}
