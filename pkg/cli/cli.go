package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/aadee-inc/steward/pkg/cli/config"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const envFileFlag = "env-file"

// loadEnvFile loads variables from the --env-file argument or
// STEWARD_ENV_FILE. It runs before flag parsing so that the file can feed
// every STEWARD_* source. Variables already set in the environment win.
func loadEnvFile(args []string) (string, error) {
	path := os.Getenv("STEWARD_ENV_FILE")
	for i, arg := range args {
		switch {
		case arg == "--"+envFileFlag && i+1 < len(args):
			path = args[i+1]
		case strings.HasPrefix(arg, "--"+envFileFlag+"="):
			path = strings.TrimPrefix(arg, "--"+envFileFlag+"=")
		}
	}
	if path == "" {
		return "", nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", goerr.Wrap(config.ErrConfigNotFound, "env file does not exist", goerr.V(config.ConfigPathKey, path))
		}
		return "", goerr.Wrap(err, "failed to load env file", goerr.V(config.ConfigPathKey, path))
	}
	return path, nil
}

func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, os.Stdout)
}

// run executes the app writing command output to w.
func run(ctx context.Context, args []string, version string, w io.Writer) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	envFile, err := loadEnvFile(args)
	if err != nil {
		return err
	}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    envFileFlag,
			Usage:   "Load environment variables from this file before reading flags",
			Sources: cli.EnvVars("STEWARD_ENV_FILE"),
		},
	}
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "steward",
		Usage:   "Approval-gated business operations assistant",
		Version: version,
		Writer:  w,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Info("Starting steward",
				"version", version,
				"logger", loggerCfg,
				"sentry", sentryCfg,
				"env_file", envFile,
			)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdScan(),
			cmdMigrate(),
			cmdParse(),
			cmdValidate(),
			cmdCalendar(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
