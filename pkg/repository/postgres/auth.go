package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model/auth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
)

type tokenStore struct {
	pool *pgxpool.Pool
}

func (s *tokenStore) PutToken(ctx context.Context, token *auth.Token) error {
	if err := token.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token")
	}

	var expires *time.Time
	if !token.ExpiresAt.IsZero() {
		expires = &token.ExpiresAt
	}

	_, err := s.pool.Exec(ctx, `INSERT INTO tokens (id, sub, name, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET sub = EXCLUDED.sub, name = EXCLUDED.name, expires_at = EXCLUDED.expires_at`,
		token.ID.String(), token.Sub, token.Name, token.CreatedAt, expires)
	if err != nil {
		return goerr.Wrap(err, "failed to put token", goerr.V("token_id", token.ID))
	}
	return nil
}

func (s *tokenStore) GetToken(ctx context.Context, tokenID auth.TokenID) (*auth.Token, error) {
	if err := tokenID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid token ID")
	}

	var (
		t       auth.Token
		id      string
		expires *time.Time
	)
	err := s.pool.QueryRow(ctx, `SELECT id, sub, name, created_at, expires_at FROM tokens
		WHERE id = $1 AND (expires_at IS NULL OR expires_at > now())`, tokenID.String()).
		Scan(&id, &t.Sub, &t.Name, &t.CreatedAt, &expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
		}
		return nil, goerr.Wrap(err, "failed to get token", goerr.V("token_id", tokenID))
	}
	t.ID = auth.TokenID(id)
	if expires != nil {
		t.ExpiresAt = *expires
	}
	return &t, nil
}

func (s *tokenStore) DeleteToken(ctx context.Context, tokenID auth.TokenID) error {
	if err := tokenID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid token ID")
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM tokens WHERE id = $1`, tokenID.String())
	if err != nil {
		return goerr.Wrap(err, "failed to delete token", goerr.V("token_id", tokenID))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "token not found", goerr.V("token_id", tokenID))
	}
	return nil
}
