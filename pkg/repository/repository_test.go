package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/repository/firestore"
	"github.com/aadee-inc/steward/pkg/repository/memory"
	"github.com/aadee-inc/steward/pkg/repository/postgres"
	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
)

type repoFactory func(t *testing.T) interfaces.Repository

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("STEWARD_TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("STEWARD_TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("STEWARD_TEST_FIRESTORE_DATABASE_ID")

	repo, err := firestore.New(context.Background(), projectID, databaseID,
		firestore.WithCollectionPrefix("test_"+uuid.NewString()[:8]))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("STEWARD_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("STEWARD_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	repo, err := postgres.New(ctx, dsn)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Migrate(ctx)).Required()
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// runAllBackends runs fn against every backend. Remote backends skip
// themselves when their environment is not configured.
func runAllBackends(t *testing.T, fn func(t *testing.T, newRepo repoFactory)) {
	t.Run("Memory", func(t *testing.T) { fn(t, newMemoryRepository) })
	t.Run("Firestore", func(t *testing.T) { fn(t, newFirestoreRepository) })
	t.Run("Postgres", func(t *testing.T) { fn(t, newPostgresRepository) })
}

// newOrgID isolates test data on shared backends.
func newOrgID() string {
	return "org-" + uuid.NewString()
}
