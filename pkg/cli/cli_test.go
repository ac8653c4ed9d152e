package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aadee-inc/steward/pkg/cli"
	"github.com/aadee-inc/steward/pkg/cli/config"
	"github.com/aadee-inc/steward/pkg/repository/firestore"
	"github.com/m-mizutani/gt"
)

func TestRun_ParseCommand(t *testing.T) {
	t.Run("business hours", func(t *testing.T) {
		out, err := runCLI(t, "parse", "Change our hours to Monday through Friday 9am to 5pm")
		gt.NoError(t, err).Required()

		var got struct {
			Intent string            `json:"intent"`
			Hours  map[string]string `json:"hours"`
		}
		gt.NoError(t, json.Unmarshal([]byte(out), &got)).Required()
		gt.Value(t, got.Intent).Equal("business_hours")
		gt.Value(t, got.Hours["monday"]).Equal("09:00-17:00")
		gt.Value(t, got.Hours["friday"]).Equal("09:00-17:00")
		_, weekend := got.Hours["saturday"]
		gt.Bool(t, weekend).False()
	})

	t.Run("no intent", func(t *testing.T) {
		out, err := runCLI(t, "parse", "good", "morning")
		gt.NoError(t, err).Required()
		gt.String(t, out).Contains(`"intent": "none"`)
	})

	t.Run("empty message", func(t *testing.T) {
		_, err := runCLI(t, "parse")
		gt.Value(t, err).NotNil()
	})
}

func TestRun_ScanCommand_Memory(t *testing.T) {
	out, err := runCLI(t, "scan", "--repository-backend", "memory", "--worker-id", "cli-test")
	gt.NoError(t, err).Required()

	var summary struct {
		Processed int `json:"processed"`
	}
	gt.NoError(t, json.Unmarshal([]byte(out), &summary)).Required()
	gt.Value(t, summary.Processed).Equal(0)
}

func TestRun_ScanCommand_InvalidTimeout(t *testing.T) {
	_, err := runCLI(t, "scan", "--repository-backend", "memory", "--external-timeout", "0s")
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestRun_MigrateCommand(t *testing.T) {
	t.Run("postgres dry run prints schema", func(t *testing.T) {
		out, err := runCLI(t, "migrate", "--repository-backend", "postgres", "--dry-run")
		gt.NoError(t, err).Required()
		gt.String(t, out).Contains("CREATE TABLE IF NOT EXISTS")
	})

	t.Run("memory backend has nothing to migrate", func(t *testing.T) {
		_, err := runCLI(t, "migrate", "--repository-backend", "memory")
		gt.Error(t, err).Is(config.ErrInvalidBackend)
	})

	t.Run("firestore requires project", func(t *testing.T) {
		_, err := runCLI(t, "migrate", "--repository-backend", "firestore")
		gt.Error(t, err).Is(config.ErrMissingCredential)
	})
}

func TestIndexConfig(t *testing.T) {
	cfg := cli.IndexConfig()

	names := make([]string, 0, len(cfg.Collections))
	for _, c := range cfg.Collections {
		names = append(names, c.Name)
		gt.Number(t, len(c.Indexes)).Greater(0)
	}
	gt.Array(t, names).Equal([]string{
		firestore.ActionsCollection,
		firestore.SuggestionsCollection,
		firestore.ChatMessagesCollection,
	})
}

func TestRun_CalendarImport(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		token := writeFile(t, "token.json", `{"access_token":"ya29.a","refresh_token":"1//r","token_type":"Bearer","expiry":"2030-01-01T00:00:00Z"}`)
		_, err := runCLI(t, "calendar", "import", "--token-file", token, "--repository-backend", "memory", "--org-id", "acme")
		gt.NoError(t, err)
	})

	t.Run("empty token", func(t *testing.T) {
		token := writeFile(t, "token.json", `{"token_type":"Bearer"}`)
		_, err := runCLI(t, "calendar", "import", "--token-file", token, "--repository-backend", "memory")
		gt.Error(t, err).Is(config.ErrMissingCredential)
	})

	t.Run("not JSON", func(t *testing.T) {
		token := writeFile(t, "token.json", `access_token=abc`)
		_, err := runCLI(t, "calendar", "import", "--token-file", token, "--repository-backend", "memory")
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "steward.env")
	gt.NoError(t, os.WriteFile(path, []byte("STEWARD_TEST_ENV_FILE_VALUE=loaded\n"), 0o600)).Required()
	t.Setenv("STEWARD_ENV_FILE", "")
	t.Setenv("STEWARD_TEST_ENV_FILE_VALUE", "")
	os.Unsetenv("STEWARD_TEST_ENV_FILE_VALUE")

	t.Run("flag with separate value", func(t *testing.T) {
		got, err := cli.LoadEnvFile([]string{"steward", "--env-file", path, "serve"})
		gt.NoError(t, err).Required()
		gt.Value(t, got).Equal(path)
		gt.Value(t, os.Getenv("STEWARD_TEST_ENV_FILE_VALUE")).Equal("loaded")
	})

	t.Run("no file requested", func(t *testing.T) {
		got, err := cli.LoadEnvFile([]string{"steward", "serve"})
		gt.NoError(t, err)
		gt.Value(t, got).Equal("")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := cli.LoadEnvFile([]string{"steward", "--env-file=" + filepath.Join(dir, "nope.env")})
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})
}
