package config_test

import (
	"errors"
	"testing"

	"github.com/aadee-inc/steward/pkg/cli/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestConfigErrors_SentinelIdentification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		sentinelError error
		wantMatch     bool
	}{
		{
			name:          "ErrConfigNotFound can be identified",
			err:           goerr.Wrap(config.ErrConfigNotFound, "failed to load config"),
			sentinelError: config.ErrConfigNotFound,
			wantMatch:     true,
		},
		{
			name:          "ErrInvalidTimezone can be identified",
			err:           goerr.Wrap(config.ErrInvalidTimezone, "bad zone"),
			sentinelError: config.ErrInvalidTimezone,
			wantMatch:     true,
		},
		{
			name:          "ErrInvalidSchedule survives double wrapping",
			err:           goerr.Wrap(goerr.Wrap(config.ErrInvalidSchedule, "bad spec"), "worker"),
			sentinelError: config.ErrInvalidSchedule,
			wantMatch:     true,
		},
		{
			name:          "Different sentinel errors do not match",
			err:           goerr.Wrap(config.ErrConfigNotFound, "failed to load config"),
			sentinelError: config.ErrInvalidConfig,
			wantMatch:     false,
		},
		{
			name:          "Backend and credential errors are distinct",
			err:           goerr.Wrap(config.ErrInvalidBackend, "unsupported"),
			sentinelError: config.ErrMissingCredential,
			wantMatch:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := errors.Is(tt.err, tt.sentinelError)
			gt.Value(t, matched).Equal(tt.wantMatch)
		})
	}
}

func TestConfigErrors_ContextValues(t *testing.T) {
	var repoCfg = config.NewRepositoryForTest("cassandra")
	_, err := repoCfg.Configure(t.Context())
	gt.Error(t, err).Is(config.ErrInvalidBackend)

	var ge *goerr.Error
	gt.Bool(t, errors.As(err, &ge)).True().Required()
	gt.Value(t, ge.Values()[config.BackendKey]).Equal("cassandra")
}
