package config

import (
	"log/slog"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/service/calendar"
	"github.com/aadee-inc/steward/pkg/utils/retry"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// Calendar configures the Google Calendar connector. The OAuth client is
// only needed to refresh expired access tokens.
type Calendar struct {
	clientID     string
	clientSecret string
}

func (x *Calendar) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "google-oauth-client-id",
			Usage:       "OAuth client ID used to refresh stored calendar tokens",
			Category:    "Calendar",
			Sources:     cli.EnvVars("STEWARD_GOOGLE_OAUTH_CLIENT_ID"),
			Destination: &x.clientID,
		},
		&cli.StringFlag{
			Name:        "google-oauth-client-secret",
			Usage:       "OAuth client secret used to refresh stored calendar tokens",
			Category:    "Calendar",
			Sources:     cli.EnvVars("STEWARD_GOOGLE_OAUTH_CLIENT_SECRET"),
			Destination: &x.clientSecret,
		},
	}
}

func (x Calendar) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("client-id.len", len(x.clientID)),
		slog.Int("client-secret.len", len(x.clientSecret)),
	)
}

// CanRefresh reports whether expired tokens can be refreshed
func (x *Calendar) CanRefresh() bool {
	return x.clientID != "" && x.clientSecret != ""
}

// Configure builds the connector over the stored credentials
func (x *Calendar) Configure(credentials interfaces.CalendarCredentialRepository, policy retry.Policy) *calendar.Connector {
	opts := []calendar.Option{calendar.WithRetryPolicy(policy)}
	if x.CanRefresh() {
		opts = append(opts, calendar.WithOAuthConfig(&oauth2.Config{
			ClientID:     x.clientID,
			ClientSecret: x.clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarEventsScope},
		}))
	}
	return calendar.NewConnector(credentials, opts...)
}
