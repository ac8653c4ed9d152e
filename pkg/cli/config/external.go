package config

import (
	"time"

	"github.com/aadee-inc/steward/pkg/utils/retry"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// External bounds every platform and calendar call
type External struct {
	timeout time.Duration
	retries int
}

func (x *External) Flags() []cli.Flag {
	def := retry.DefaultPolicy()
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "external-timeout",
			Usage:       "Timeout of one attempt of a platform or calendar call",
			Category:    "Integration",
			Value:       def.Timeout,
			Sources:     cli.EnvVars("STEWARD_EXTERNAL_TIMEOUT"),
			Destination: &x.timeout,
		},
		&cli.IntFlag{
			Name:        "external-retries",
			Usage:       "Retries after the first failed attempt of a platform or calendar call",
			Category:    "Integration",
			Value:       int(def.MaxRetries),
			Sources:     cli.EnvVars("STEWARD_EXTERNAL_RETRIES"),
			Destination: &x.retries,
		},
	}
}

// Policy returns the retry policy built from the flags
func (x *External) Policy() (retry.Policy, error) {
	if x.timeout <= 0 {
		return retry.Policy{}, goerr.Wrap(ErrInvalidConfig, "external timeout must be positive", goerr.V(FlagKey, "external-timeout"))
	}
	if x.retries < 0 {
		return retry.Policy{}, goerr.Wrap(ErrInvalidConfig, "external retries must not be negative", goerr.V(FlagKey, "external-retries"))
	}

	p := retry.DefaultPolicy()
	p.Timeout = x.timeout
	p.MaxRetries = uint64(x.retries)
	return p, nil
}
