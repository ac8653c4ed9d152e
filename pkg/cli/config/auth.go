package config

import (
	"log/slog"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// minSecretLength is the shortest accepted HS256 signing secret in bytes.
const minSecretLength = 32

// Auth configures operator login
type Auth struct {
	secret   string
	password string
	ttl      time.Duration
	noAuth   string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-secret",
			Usage:       "HS256 secret for signing bearer tokens (at least 32 bytes)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("STEWARD_AUTH_SECRET"),
			Destination: &x.secret,
		},
		&cli.StringFlag{
			Name:        "auth-password",
			Usage:       "Shared operator password accepted by /api/auth/login",
			Category:    "Authentication",
			Sources:     cli.EnvVars("STEWARD_AUTH_PASSWORD"),
			Destination: &x.password,
		},
		&cli.DurationFlag{
			Name:        "auth-token-ttl",
			Usage:       "Lifetime of issued bearer tokens",
			Category:    "Authentication",
			Value:       usecase.DefaultTokenTTL,
			Sources:     cli.EnvVars("STEWARD_AUTH_TOKEN_TTL"),
			Destination: &x.ttl,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and act as the given user name (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("STEWARD_NO_AUTH"),
			Destination: &x.noAuth,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("secret.len", len(x.secret)),
		slog.Int("password.len", len(x.password)),
		slog.Duration("ttl", x.ttl),
		slog.String("no_auth", x.noAuth),
	)
}

// IsNoAuthMode returns true if no-auth mode is enabled
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuth != ""
}

// Configure returns the authenticator. --no-auth takes precedence over the
// secret and password.
func (x *Auth) Configure(tokens interfaces.TokenStore) (usecase.Authenticator, error) {
	if x.noAuth != "" {
		return usecase.NewNoAuthnUseCase(x.noAuth), nil
	}

	if x.secret == "" || x.password == "" {
		return nil, goerr.Wrap(ErrMissingCredential, "authentication is required: set --auth-secret and --auth-password, or use --no-auth")
	}
	if len(x.secret) < minSecretLength {
		return nil, goerr.Wrap(ErrInvalidConfig, "auth secret is too short", goerr.V(FlagKey, "auth-secret"), goerr.V("min", minSecretLength))
	}
	if x.ttl <= 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "token TTL must be positive", goerr.V(FlagKey, "auth-token-ttl"))
	}

	return usecase.NewAuthUseCase(tokens, []byte(x.secret), x.password, usecase.WithTokenTTL(x.ttl)), nil
}
