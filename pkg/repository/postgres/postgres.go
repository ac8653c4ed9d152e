// Package postgres stores aggregates in PostgreSQL through pgx.
package postgres

import (
	"context"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
)

type Postgres struct {
	pool       *pgxpool.Pool
	action     *actionRepository
	suggestion *suggestionRepository
	chat       *chatRepository
	calendar   *calendarCredentialRepository
	tokens     *tokenStore
}

var _ interfaces.Repository = &Postgres{}

// New opens a connection pool and verifies it with a ping.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, goerr.Wrap(err, "failed to ping postgres")
	}

	return &Postgres{
		pool:       pool,
		action:     &actionRepository{pool: pool},
		suggestion: &suggestionRepository{pool: pool},
		chat:       &chatRepository{pool: pool},
		calendar:   &calendarCredentialRepository{pool: pool},
		tokens:     &tokenStore{pool: pool},
	}, nil
}

// Migrate creates missing tables and indexes. Every statement is idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to apply schema statement", goerr.V("statement", stmt))
		}
	}
	return nil
}

// Statements returns the DDL applied by Migrate.
func Statements() []string {
	return append([]string(nil), schema...)
}

func (p *Postgres) Action() interfaces.ActionRepository {
	return p.action
}

func (p *Postgres) Suggestion() interfaces.SuggestionRepository {
	return p.suggestion
}

func (p *Postgres) Chat() interfaces.ChatRepository {
	return p.chat
}

func (p *Postgres) CalendarCredential() interfaces.CalendarCredentialRepository {
	return p.calendar
}

func (p *Postgres) Token() interfaces.TokenStore {
	return p.tokens
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// limitArg maps a non-positive limit to SQL "LIMIT ALL".
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}
