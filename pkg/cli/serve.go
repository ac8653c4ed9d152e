package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aadee-inc/steward/pkg/cli/config"
	httpctrl "github.com/aadee-inc/steward/pkg/controller/http"
	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var rtCfg runtimeConfig
	var workerCfg config.Worker
	var tracingCfg config.Tracing

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("STEWARD_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL for links in notifications (e.g., https://steward.example.com)",
			Sources:     cli.EnvVars("STEWARD_BASE_URL"),
			Destination: &baseURL,
		},
	}

	flags = append(flags, rtCfg.Flags()...)
	flags = append(flags, workerCfg.Flags()...)
	flags = append(flags, tracingCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server and scheduled jobs",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			shutdownTracing, err := tracingCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					logger.Warn("failed to flush traces", "error", err.Error())
				}
			}()

			rt, err := rtCfg.build(ctx, baseURL, true)
			if err != nil {
				return err
			}
			defer rt.close()

			actionWorker, err := workerCfg.Configure(rt.uc.Action, rt.uc.Suggestion, rt.uc.Business().OrgID)
			if err != nil {
				return goerr.Wrap(err, "failed to configure worker")
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithWorkerID(workerCfg.WorkerID()),
			}
			if rtCfg.slack.IsInteractionConfigured() {
				httpOpts = append(httpOpts, httpctrl.WithSlackInteraction(rtCfg.slack.SigningSecret()))
				logger.Info("Slack interaction handler enabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(rt.uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if actionWorker != nil {
				if err := actionWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start action worker")
				}
				logger.Info("Action worker started", "worker", workerCfg)
			} else {
				logger.Info("Scheduled jobs are disabled in this process")
			}

			eg, ctx := errgroup.WithContext(ctx)

			eg.Go(func() error {
				logger.Info("Starting HTTP server", "addr", addr, "base_url", baseURL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
				return nil
			})

			eg.Go(func() error {
				<-ctx.Done()
				logger.Info("Shutting down")

				if actionWorker != nil {
					actionWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return errutil.Handle(ctx, err, "server stopped with error")
			}

			logger.Info("Server shutdown completed")
			return nil
		},
	}
}
