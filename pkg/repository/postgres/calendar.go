package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
)

type calendarCredentialRepository struct {
	pool *pgxpool.Pool
}

func (r *calendarCredentialRepository) Put(ctx context.Context, cred *model.CalendarCredential) error {
	if cred.OrgID == "" {
		return goerr.New("calendar credential requires org_id")
	}

	var expiry *time.Time
	if !cred.Expiry.IsZero() {
		expiry = &cred.Expiry
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO calendar_credentials
			(org_id, calendar_id, access_token, refresh_token, token_type, expiry, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (org_id) DO UPDATE SET
			calendar_id = EXCLUDED.calendar_id, access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token, token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry, updated_at = EXCLUDED.updated_at`,
		cred.OrgID, cred.CalendarID, cred.AccessToken, cred.RefreshToken, cred.TokenType, expiry, time.Now().UTC())
	if err != nil {
		return goerr.Wrap(err, "failed to upsert calendar credential", goerr.V("org_id", cred.OrgID))
	}
	return nil
}

func (r *calendarCredentialRepository) Get(ctx context.Context, orgID string) (*model.CalendarCredential, error) {
	var (
		c      model.CalendarCredential
		expiry *time.Time
	)
	err := r.pool.QueryRow(ctx, `SELECT org_id, calendar_id, access_token, refresh_token, token_type, expiry, updated_at
		FROM calendar_credentials WHERE org_id = $1`, orgID).
		Scan(&c.OrgID, &c.CalendarID, &c.AccessToken, &c.RefreshToken, &c.TokenType, &expiry, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "calendar credential not found", goerr.V("org_id", orgID))
		}
		return nil, goerr.Wrap(err, "failed to get calendar credential", goerr.V("org_id", orgID))
	}
	if expiry != nil {
		c.Expiry = *expiry
	}
	return &c, nil
}
