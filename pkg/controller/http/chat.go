package http

import (
	"net/http"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

type chatMessageRequest struct {
	OrgID     string `json:"org_id"`
	SessionID string `json:"session_id" validate:"required"`
	Message   string `json:"message"    validate:"required"`
}

type chatMessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ActionID  string    `json:"action_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) chatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	reply, err := s.uc.Chat.HandleMessage(r.Context(), usecase.ChatInput{
		OrgID:     req.OrgID,
		SessionID: req.SessionID,
		Text:      req.Message,
		User:      actor(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"reply":   reply.Reply,
		"intent":  reply.Intent,
		"actions": toActionResponses(reply.Actions),
	})
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	msgs, err := s.uc.Chat.History(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]chatMessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = toChatMessageResponse(m)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"messages": out})
}

func toChatMessageResponse(m *model.ChatMessage) chatMessageResponse {
	return chatMessageResponse{
		ID:        m.ID,
		Role:      string(m.Role),
		Content:   m.Content,
		ActionID:  m.ActionID.String(),
		CreatedAt: m.CreatedAt,
	}
}
