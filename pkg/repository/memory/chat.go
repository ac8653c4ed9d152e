package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/google/uuid"
)

type chatRepository struct {
	mu       sync.RWMutex
	sessions map[string][]*model.ChatMessage
}

func newChatRepository() *chatRepository {
	return &chatRepository{
		sessions: make(map[string][]*model.ChatMessage),
	}
}

func (r *chatRepository) AppendMessage(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *msg
	if stored.ID == "" {
		stored.ID = uuid.Must(uuid.NewV7()).String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.sessions[stored.SessionID] = append(r.sessions[stored.SessionID], &stored)
	out := stored
	return &out, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID string, limit int) ([]*model.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.sessions[sessionID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	out := make([]*model.ChatMessage, len(history))
	for i, m := range history {
		c := *m
		out[i] = &c
	}
	return out, nil
}
