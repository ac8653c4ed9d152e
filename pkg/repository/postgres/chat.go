package postgres

import (
	"context"
	"slices"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
)

type chatRepository struct {
	pool *pgxpool.Pool
}

func (r *chatRepository) AppendMessage(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error) {
	stored := *msg
	if stored.ID == "" {
		stored.ID = uuid.Must(uuid.NewV7()).String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO chat_messages (id, org_id, session_id, role, content, action_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		stored.ID, stored.OrgID, stored.SessionID, string(stored.Role), stored.Content,
		stored.ActionID.String(), stored.CreatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert chat message", goerr.V("session_id", stored.SessionID))
	}
	return &stored, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID string, limit int) ([]*model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, org_id, session_id, role, content, action_id, created_at
		FROM chat_messages WHERE session_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		sessionID, limitArg(limit))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list chat messages", goerr.V("session_id", sessionID))
	}
	defer rows.Close()

	messages := make([]*model.ChatMessage, 0)
	for rows.Next() {
		var (
			m           model.ChatMessage
			role, actID string
		)
		if err := rows.Scan(&m.ID, &m.OrgID, &m.SessionID, &role, &m.Content, &actID, &m.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan chat message")
		}
		m.Role = model.ChatRole(role)
		m.ActionID = model.ActionID(actID)
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate chat messages")
	}

	slices.Reverse(messages)
	return messages, nil
}
