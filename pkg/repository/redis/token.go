// Package redis keeps session tokens in Redis with a native TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model/auth"
	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"
)

// TokenStore implements interfaces.TokenStore on Redis.
type TokenStore struct {
	client    goredis.UniversalClient
	keyPrefix string
	now       func() time.Time
}

var _ interfaces.TokenStore = &TokenStore{}

type Option func(*TokenStore)

// WithKeyPrefix changes the key namespace. The default is "steward:token:".
func WithKeyPrefix(prefix string) Option {
	return func(s *TokenStore) {
		s.keyPrefix = prefix
	}
}

// New wraps an existing client.
func New(client goredis.UniversalClient, opts ...Option) *TokenStore {
	s := &TokenStore{
		client:    client,
		keyPrefix: "steward:token:",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect dials addr and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int, opts ...Option) (*TokenStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to ping redis", goerr.V("addr", addr))
	}
	return New(client, opts...), nil
}

func (s *TokenStore) key(id auth.TokenID) string {
	return s.keyPrefix + id.String()
}

// tokenRecord is the stored JSON form.
type tokenRecord struct {
	ID        string    `json:"id"`
	Sub       string    `json:"sub"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *TokenStore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	var ttl time.Duration
	if !token.ExpiresAt.IsZero() {
		ttl = token.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			// nothing to keep: an expired token must never be returned
			return nil
		}
	}

	raw, err := json.Marshal(tokenRecord{
		ID:        token.ID.String(),
		Sub:       token.Sub,
		Name:      token.Name,
		CreatedAt: token.CreatedAt,
		ExpiresAt: token.ExpiresAt,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to encode token")
	}

	if err := s.client.Set(ctx, s.key(token.ID), raw, ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to put token to redis", goerr.V("token_id", token.ID))
	}
	return nil
}

func (s *TokenStore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	raw, err := s.client.Get(ctx, s.key(tokenID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
		}
		return nil, goerr.Wrap(err, "failed to get token from redis", goerr.V("token_id", tokenID))
	}

	var rec tokenRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, goerr.Wrap(err, "failed to decode token", goerr.V("token_id", tokenID))
	}

	return &auth.Token{
		ID:        auth.TokenID(rec.ID),
		Sub:       rec.Sub,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (s *TokenStore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	n, err := s.client.Del(ctx, s.key(tokenID)).Result()
	if err != nil {
		return goerr.Wrap(err, "failed to delete token from redis", goerr.V("token_id", tokenID))
	}
	if n == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
	}
	return nil
}

// Close closes the underlying client.
func (s *TokenStore) Close() error {
	return s.client.Close()
}
