package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
)

const actionColumns = `id, org_id, session_id, type, status, params, description, result, error_message,
	review_note, created_by, approved_by, approved_at, executed_by, executed_at, created_at, updated_at`

type actionRepository struct {
	pool *pgxpool.Pool
}

func scanAction(row pgx.Row) (*model.Action, error) {
	var (
		a              model.Action
		id, typ, state string
	)
	err := row.Scan(&id, &a.OrgID, &a.SessionID, &typ, &state, &a.Params, &a.Description, &a.Result,
		&a.ErrorMessage, &a.ReviewNote, &a.CreatedBy, &a.ApprovedBy, &a.ApprovedAt,
		&a.ExecutedBy, &a.ExecutedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ID = model.ActionID(id)
	a.Type = types.ActionType(typ)
	a.Status = types.ActionStatus(state)
	return &a, nil
}

func (r *actionRepository) Create(ctx context.Context, action *model.Action) (*model.Action, error) {
	created := action.Copy()
	if created.ID == "" {
		created.ID = model.ActionID(uuid.Must(uuid.NewV7()).String())
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO actions (`+actionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		created.ID.String(), created.OrgID, created.SessionID, created.Type.String(), created.Status.String(),
		created.Params, created.Description, created.Result, created.ErrorMessage, created.ReviewNote,
		created.CreatedBy, created.ApprovedBy, created.ApprovedAt, created.ExecutedBy, created.ExecutedAt,
		created.CreatedAt, created.UpdatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert action", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *actionRepository) Get(ctx context.Context, id model.ActionID) (*model.Action, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+actionColumns+` FROM actions WHERE id = $1`, id.String())
	a, err := scanAction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "action not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action", goerr.V("id", id))
	}
	return a, nil
}

func (r *actionRepository) List(ctx context.Context, q interfaces.ActionQuery) ([]*model.Action, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+actionColumns+` FROM actions
		WHERE org_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		q.OrgID, q.Status.String(), limitArg(q.Limit), q.Offset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list actions", goerr.V("org_id", q.OrgID))
	}
	return collectActions(rows)
}

func (r *actionRepository) ListByStatus(ctx context.Context, status types.ActionStatus, limit int) ([]*model.Action, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+actionColumns+` FROM actions
		WHERE status = $1 ORDER BY created_at ASC, id ASC LIMIT $2`,
		status.String(), limitArg(limit))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list actions by status", goerr.V("status", status))
	}
	return collectActions(rows)
}

func collectActions(rows pgx.Rows) ([]*model.Action, error) {
	defer rows.Close()

	actions := make([]*model.Action, 0)
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan action")
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate actions")
	}
	return actions, nil
}

// Transition writes the applied action only while the row still carries
// tr.From. Zero affected rows means another writer moved it first.
func (r *actionRepository) Transition(ctx context.Context, id model.ActionID, tr model.ActionTransition) (*model.Action, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := current.Copy()
	if err := tr.Apply(next); err != nil {
		return nil, err
	}

	tag, err := r.pool.Exec(ctx, `UPDATE actions SET
			status = $3, result = $4, error_message = $5, review_note = $6,
			approved_by = $7, approved_at = $8, executed_by = $9, executed_at = $10, updated_at = $11
		WHERE id = $1 AND status = $2`,
		id.String(), tr.From.String(), next.Status.String(), next.Result, next.ErrorMessage, next.ReviewNote,
		next.ApprovedBy, next.ApprovedAt, next.ExecutedBy, next.ExecutedAt, next.UpdatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action status", goerr.V("id", id), goerr.V("to", tr.To))
	}
	if tag.RowsAffected() == 0 {
		return nil, goerr.Wrap(model.ErrStatusMismatch, "action status changed before update",
			goerr.V("id", id), goerr.V("expected", tr.From))
	}

	return next, nil
}
