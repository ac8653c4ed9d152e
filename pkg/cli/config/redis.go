package config

import (
	"context"
	"log/slog"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/repository/redis"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Redis configures the optional Redis session token store
type Redis struct {
	addr     string
	password string
	db       int
	prefix   string
}

func (x *Redis) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address for session tokens (host:port). Tokens are kept in the repository when empty",
			Category:    "Redis",
			Sources:     cli.EnvVars("STEWARD_REDIS_ADDR"),
			Destination: &x.addr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Category:    "Redis",
			Sources:     cli.EnvVars("STEWARD_REDIS_PASSWORD"),
			Destination: &x.password,
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Category:    "Redis",
			Sources:     cli.EnvVars("STEWARD_REDIS_DB"),
			Destination: &x.db,
		},
		&cli.StringFlag{
			Name:        "redis-key-prefix",
			Usage:       "Key prefix for session tokens",
			Category:    "Redis",
			Value:       "steward:token:",
			Sources:     cli.EnvVars("STEWARD_REDIS_KEY_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

func (x Redis) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", x.addr),
		slog.Int("password.len", len(x.password)),
		slog.Int("db", x.db),
	)
}

func (x *Redis) IsConfigured() bool {
	return x.addr != ""
}

// Configure moves the token store of repo to Redis when an address is set.
// Otherwise repo is returned unchanged.
func (x *Redis) Configure(ctx context.Context, repo interfaces.Repository) (interfaces.Repository, error) {
	if !x.IsConfigured() {
		return repo, nil
	}

	store, err := redis.Connect(ctx, x.addr, x.password, x.db, redis.WithKeyPrefix(x.prefix))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect redis token store")
	}

	logging.Default().Info("Using Redis token store", "redis", x)
	return OverrideTokenStore(repo, store, store.Close), nil
}
