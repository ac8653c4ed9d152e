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

const suggestionColumns = `id, org_id, type, priority, title, description, suggested_action, metadata, status,
	dismissed_by, dismissed_at, dismissal_note, action_id, actioned_at, created_at, updated_at`

type suggestionRepository struct {
	pool *pgxpool.Pool
}

// suggestedActionRow is the JSONB form of model.SuggestedAction.
type suggestedActionRow struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

func scanSuggestion(row pgx.Row) (*model.Suggestion, error) {
	var (
		s                        model.Suggestion
		id, typ, prio, st, actID string
		suggested                *suggestedActionRow
	)
	err := row.Scan(&id, &s.OrgID, &typ, &prio, &s.Title, &s.Description, &suggested, &s.Metadata, &st,
		&s.DismissedBy, &s.DismissedAt, &s.DismissalNote, &actID, &s.ActionedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ID = model.SuggestionID(id)
	s.Type = types.SuggestionType(typ)
	s.Priority = types.SuggestionPriority(prio)
	s.Status = types.SuggestionStatus(st)
	s.ActionID = model.ActionID(actID)
	if suggested != nil {
		s.SuggestedAction = &model.SuggestedAction{
			Type:   types.ActionType(suggested.Type),
			Params: suggested.Params,
		}
	}
	return &s, nil
}

func suggestedActionArg(s *model.Suggestion) *suggestedActionRow {
	if s.SuggestedAction == nil {
		return nil
	}
	return &suggestedActionRow{
		Type:   s.SuggestedAction.Type.String(),
		Params: s.SuggestedAction.Params,
	}
}

func (r *suggestionRepository) Create(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	created := s.Copy()
	if created.ID == "" {
		created.ID = model.SuggestionID(uuid.Must(uuid.NewV7()).String())
	}
	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = created.CreatedAt
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO suggestions (`+suggestionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		created.ID.String(), created.OrgID, string(created.Type), string(created.Priority), created.Title,
		created.Description, suggestedActionArg(created), created.Metadata, string(created.Status),
		created.DismissedBy, created.DismissedAt, created.DismissalNote, created.ActionID.String(),
		created.ActionedAt, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert suggestion", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *suggestionRepository) Get(ctx context.Context, id model.SuggestionID) (*model.Suggestion, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+suggestionColumns+` FROM suggestions WHERE id = $1`, id.String())
	s, err := scanSuggestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "suggestion not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get suggestion", goerr.V("id", id))
	}
	return s, nil
}

func (r *suggestionRepository) List(ctx context.Context, q interfaces.SuggestionQuery) ([]*model.Suggestion, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+suggestionColumns+` FROM suggestions
		WHERE org_id = $1 AND ($2 = '' OR status = $2) AND ($3 = '' OR priority = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`,
		q.OrgID, string(q.Status), string(q.Priority), limitArg(q.Limit), q.Offset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list suggestions", goerr.V("org_id", q.OrgID))
	}
	defer rows.Close()

	suggestions := make([]*model.Suggestion, 0)
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan suggestion")
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate suggestions")
	}
	return suggestions, nil
}

func (r *suggestionRepository) Update(ctx context.Context, s *model.Suggestion) (*model.Suggestion, error) {
	updated := s.Copy()
	updated.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `UPDATE suggestions SET
			priority = $2, title = $3, description = $4, suggested_action = $5, metadata = $6, status = $7,
			dismissed_by = $8, dismissed_at = $9, dismissal_note = $10, action_id = $11, actioned_at = $12,
			updated_at = $13
		WHERE id = $1`,
		updated.ID.String(), string(updated.Priority), updated.Title, updated.Description,
		suggestedActionArg(updated), updated.Metadata, string(updated.Status), updated.DismissedBy,
		updated.DismissedAt, updated.DismissalNote, updated.ActionID.String(), updated.ActionedAt,
		updated.UpdatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update suggestion", goerr.V("id", s.ID))
	}
	if tag.RowsAffected() == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "suggestion not found", goerr.V("id", s.ID))
	}
	return updated, nil
}
