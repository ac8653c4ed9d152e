package cli

import (
	"context"
	"encoding/json"

	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdScan() *cli.Command {
	var rtCfg runtimeConfig
	var workerID string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "worker-id",
			Usage:       "Identity recorded as executed_by",
			Value:       usecase.DefaultWorkerID,
			Sources:     cli.EnvVars("STEWARD_WORKER_ID"),
			Destination: &workerID,
		},
	}
	flags = append(flags, rtCfg.Flags()...)

	return &cli.Command{
		Name:  "scan",
		Usage: "Execute every approved action once and print the summary",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := rtCfg.build(ctx, "", false)
			if err != nil {
				return err
			}
			defer rt.close()

			summary, err := rt.uc.Action.ProcessApproved(ctx, workerID)
			if err != nil {
				return goerr.Wrap(err, "scan failed")
			}

			logging.Default().Info("Scan completed",
				"processed", summary.Processed,
				"successful", summary.Successful,
				"failed", summary.Failed,
				"skipped", summary.Skipped,
			)

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
}
