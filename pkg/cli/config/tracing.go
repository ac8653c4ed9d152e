package config

import (
	"context"

	"github.com/aadee-inc/steward/pkg/utils/tracing"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Tracing configures the OTLP span exporter
type Tracing struct {
	enabled     bool
	serviceName string
}

func (x *Tracing) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "enable-tracing",
			Usage:       "Export spans over OTLP/HTTP (endpoint from OTEL_EXPORTER_OTLP_ENDPOINT)",
			Category:    "Tracing",
			Sources:     cli.EnvVars("STEWARD_ENABLE_TRACING"),
			Destination: &x.enabled,
		},
		&cli.StringFlag{
			Name:        "trace-service-name",
			Usage:       "Service name attached to spans",
			Category:    "Tracing",
			Value:       "steward",
			Sources:     cli.EnvVars("STEWARD_TRACE_SERVICE_NAME"),
			Destination: &x.serviceName,
		},
	}
}

// Configure installs the tracer provider. The returned function flushes
// and stops it.
func (x *Tracing) Configure(ctx context.Context) (func(context.Context) error, error) {
	if !x.enabled {
		return func(context.Context) error { return nil }, nil
	}

	shutdown, err := tracing.Setup(ctx, x.serviceName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to set up tracing")
	}
	return shutdown, nil
}
