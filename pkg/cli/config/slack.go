package config

import (
	"log/slog"

	"github.com/aadee-inc/steward/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken      string
	channel       string
	signingSecret string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for operator notifications)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("STEWARD_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel name or ID that receives action notifications",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("STEWARD_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for approve/reject button verification)",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("STEWARD_SLACK_SIGNING_SECRET"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("channel", x.channel),
		slog.Int("bot-token.len", len(x.botToken)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
	)
}

// BotToken returns the Slack bot token
func (x *Slack) BotToken() string {
	return x.botToken
}

// Channel returns the notification channel
func (x *Slack) Channel() string {
	return x.channel
}

// IsConfigured checks if notifications can be sent
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channel != ""
}

// IsInteractionConfigured checks if button callbacks can be verified
func (x *Slack) IsInteractionConfigured() bool {
	return x.signingSecret != ""
}

// SigningSecret returns the Slack signing secret
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// Configure builds the operator notifier. It returns nil when Slack is not
// configured. A token without a channel is rejected.
func (x *Slack) Configure(baseURL string) (*slack.Notifier, error) {
	if x.botToken == "" {
		if x.channel != "" {
			return nil, goerr.Wrap(ErrMissingCredential, "--slack-channel requires --slack-bot-token")
		}
		return nil, nil
	}
	if x.channel == "" {
		return nil, goerr.Wrap(ErrMissingCredential, "--slack-bot-token requires --slack-channel")
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}

	return slack.NewNotifier(svc, x.channel, slack.WithBaseURL(baseURL)), nil
}
