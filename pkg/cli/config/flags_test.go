package config_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aadee-inc/steward/pkg/cli/config"
	"github.com/aadee-inc/steward/pkg/repository/memory"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuth_Configure(t *testing.T) {
	store := memory.New().Token()

	t.Run("no-auth wins over credentials", func(t *testing.T) {
		authn, err := config.NewAuthForTest(testSecret, "pw", time.Hour, "alice").Configure(store)
		gt.NoError(t, err).Required()
		gt.Bool(t, authn.IsNoAuthn()).True()

		token, err := authn.ValidateToken(t.Context(), "")
		gt.NoError(t, err).Required()
		gt.Value(t, token.Name).Equal("alice")
	})

	t.Run("secret and password enable login", func(t *testing.T) {
		authn, err := config.NewAuthForTest(testSecret, "pw", time.Hour, "").Configure(store)
		gt.NoError(t, err).Required()
		gt.Bool(t, authn.IsNoAuthn()).False()

		raw, _, err := authn.Login(t.Context(), "bob", "pw")
		gt.NoError(t, err).Required()
		token, err := authn.ValidateToken(t.Context(), raw)
		gt.NoError(t, err).Required()
		gt.Value(t, token.Name).Equal("bob")
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := config.NewAuthForTest(testSecret, "", time.Hour, "").Configure(store)
		gt.Error(t, err).Is(config.ErrMissingCredential)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := config.NewAuthForTest("short", "pw", time.Hour, "").Configure(store)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		_, err := config.NewAuthForTest(testSecret, "pw", 0, "").Configure(store)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

type nopScanner struct{}

func (nopScanner) ProcessApproved(ctx context.Context, workerID string) (*usecase.ScanSummary, error) {
	return &usecase.ScanSummary{}, nil
}

func TestWorker_Configure(t *testing.T) {
	t.Run("disabled returns nil", func(t *testing.T) {
		w, err := config.NewWorkerForTest("@every 3m", "", "w1", true).Configure(nopScanner{}, nil, "acme")
		gt.NoError(t, err)
		gt.Value(t, w).Nil()
	})

	t.Run("valid schedules", func(t *testing.T) {
		w, err := config.NewWorkerForTest("@every 3m", "0 6 * * *", "w1", false).Configure(nopScanner{}, nil, "acme")
		gt.NoError(t, err)
		gt.Value(t, w).NotNil()
	})

	t.Run("invalid scan schedule", func(t *testing.T) {
		_, err := config.NewWorkerForTest("every three minutes", "", "w1", false).Configure(nopScanner{}, nil, "acme")
		gt.Error(t, err).Is(config.ErrInvalidSchedule)
	})
}

func TestRepository_Configure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest(config.BackendMemory).Configure(t.Context())
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("firestore requires project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendFirestore).Configure(t.Context())
		gt.Error(t, err).Is(config.ErrMissingCredential)
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		_, err := config.NewRepositoryForTest(config.BackendPostgres).Configure(t.Context())
		gt.Error(t, err).Is(config.ErrMissingCredential)
	})
}

func TestOverrideTokenStore(t *testing.T) {
	base := memory.New()
	other := memory.New()
	closed := false

	repo := config.OverrideTokenStore(base, other.Token(), func() error {
		closed = true
		return nil
	})
	gt.Value(t, repo.Token()).Equal(other.Token())
	gt.Value(t, repo.Action()).Equal(base.Action())

	gt.NoError(t, repo.Close())
	gt.Bool(t, closed).True()
}

func TestExternal_Policy(t *testing.T) {
	p, err := config.NewExternalForTest(3*time.Second, 4).Policy()
	gt.NoError(t, err).Required()
	gt.Value(t, p.Timeout).Equal(3 * time.Second)
	gt.Value(t, p.MaxRetries).Equal(uint64(4))

	_, err = config.NewExternalForTest(0, 1).Policy()
	gt.Error(t, err).Is(config.ErrInvalidConfig)

	_, err = config.NewExternalForTest(time.Second, -1).Policy()
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestLogger_Configure(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "steward.log")
		closer, err := config.NewLoggerForTest("debug", "json", path).Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("console", func(t *testing.T) {
		closer, err := config.NewLoggerForTest("info", "console", "stderr").Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := config.NewLoggerForTest("loud", "json", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := config.NewLoggerForTest("info", "xml", "stdout").Configure()
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}
