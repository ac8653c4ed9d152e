package interfaces

import (
	"context"

	"github.com/aadee-inc/steward/pkg/domain/model"
)

// ChatRepository stores session histories.
type ChatRepository interface {
	AppendMessage(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error)
	// ListMessages returns the last limit messages of a session, oldest
	// first. A non-positive limit returns the whole history.
	ListMessages(ctx context.Context, sessionID string, limit int) ([]*model.ChatMessage, error)
}
