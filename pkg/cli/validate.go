package cli

import (
	"context"
	"net/http"

	"github.com/aadee-inc/steward/pkg/cli/config"
	"github.com/aadee-inc/steward/pkg/service/integration"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// ErrConnectionCheck is returned when at least one integration fails its
// connection test.
var ErrConnectionCheck = goerr.New("integration connection check failed")

func cmdValidate() *cli.Command {
	var bizCfg config.Business
	var externalCfg config.External
	var checkConnections bool

	var flags []cli.Flag
	flags = append(flags, bizCfg.Flags()...)
	flags = append(flags, externalCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "check-connections",
		Usage:       "Also call TestConnection on every configured platform",
		Destination: &checkConnections,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the business profile and optionally test platform connections",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate the business profile
			biz, err := bizCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"org_id", biz.OrgID,
				"timezone", biz.Location.String(),
				"hours_platforms", biz.HoursPlatforms,
				"platform_count", len(biz.Platforms),
			)

			// Step 2: Build clients, and test them when requested
			integrations, err := integration.Build(ctx, biz, &http.Client{})
			if err != nil {
				return goerr.Wrap(err, "integration configuration failed")
			}

			if !checkConnections {
				logger.Info("Connection check skipped", "integration_count", len(integrations))
				return nil
			}

			policy, err := externalCfg.Policy()
			if err != nil {
				return err
			}

			failed := 0
			dispatcher := integration.NewDispatcher(integrations, integration.WithRetryPolicy(policy))
			for _, st := range dispatcher.Report(ctx) {
				if !st.Connected {
					failed++
					logger.Warn("Integration connection failed",
						"platform", st.Platform,
						"capabilities", st.Capabilities,
						"error", st.Error,
					)
					continue
				}
				logger.Info("Integration connected", "platform", st.Platform, "capabilities", st.Capabilities)
			}

			if failed > 0 {
				return goerr.Wrap(ErrConnectionCheck, "some integrations are unreachable", goerr.V("failed", failed))
			}

			logger.Info("Connection check passed")
			return nil
		},
	}
}
