package config

import (
	"context"
	"log/slog"

	"github.com/aadee-inc/steward/pkg/service/event"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// NATS configures the lifecycle event publisher
type NATS struct {
	url    string
	prefix string
}

func (x *NATS) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "nats-url",
			Usage:       "NATS server URL for action lifecycle events (disabled when empty)",
			Category:    "Events",
			Sources:     cli.EnvVars("STEWARD_NATS_URL"),
			Destination: &x.url,
		},
		&cli.StringFlag{
			Name:        "nats-subject-prefix",
			Usage:       "Subject prefix; events go to <prefix>.<status>",
			Category:    "Events",
			Value:       event.DefaultSubjectPrefix,
			Sources:     cli.EnvVars("STEWARD_NATS_SUBJECT_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

func (x NATS) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", x.url),
		slog.String("prefix", x.prefix),
	)
}

func (x *NATS) IsConfigured() bool {
	return x.url != ""
}

// Configure connects the publisher. It returns nil when no URL is set. The
// caller closes the returned publisher.
func (x *NATS) Configure(ctx context.Context) (*event.Publisher, error) {
	if !x.IsConfigured() {
		return nil, nil
	}

	pub, err := event.Connect(ctx, x.url, event.WithSubjectPrefix(x.prefix))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure event publisher")
	}
	return pub, nil
}
