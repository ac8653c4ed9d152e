package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model/auth"
	"github.com/aadee-inc/steward/pkg/repository/redis"
	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
)

func runTokenStoreTest(t *testing.T, newStore func(t *testing.T) interfaces.TokenStore) {
	t.Helper()

	t.Run("put get delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		token := auth.NewToken("alice", "Alice", time.Now().UTC().Truncate(time.Second), time.Hour)
		gt.NoError(t, store.PutToken(ctx, token)).Required()

		got, err := store.GetToken(ctx, token.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Sub).Equal("alice")
		gt.Value(t, got.Name).Equal("Alice")

		gt.NoError(t, store.DeleteToken(ctx, token.ID)).Required()

		_, err = store.GetToken(ctx, token.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)

		err = store.DeleteToken(ctx, token.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("expired token is not returned", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		token := auth.NewToken("bob", "Bob", time.Now().Add(-2*time.Hour), time.Hour)
		gt.NoError(t, store.PutToken(ctx, token)).Required()

		_, err := store.GetToken(ctx, token.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("malformed token id is rejected", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetToken(context.Background(), auth.TokenID("not-a-uuid"))
		gt.Value(t, err).NotNil()
	})
}

func TestTokenStore(t *testing.T) {
	runAllBackends(t, func(t *testing.T, newRepo repoFactory) {
		runTokenStoreTest(t, func(t *testing.T) interfaces.TokenStore {
			return newRepo(t).Token()
		})
	})

	t.Run("Redis", func(t *testing.T) {
		addr := os.Getenv("STEWARD_TEST_REDIS_ADDR")
		if addr == "" {
			t.Skip("STEWARD_TEST_REDIS_ADDR not set")
		}

		runTokenStoreTest(t, func(t *testing.T) interfaces.TokenStore {
			store, err := redis.Connect(context.Background(), addr, "", 0,
				redis.WithKeyPrefix("steward-test:"+uuid.NewString()[:8]+":"))
			gt.NoError(t, err).Required()
			t.Cleanup(func() { _ = store.Close() })
			return store
		})
	})
}
