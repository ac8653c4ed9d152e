package http

import (
	"net/http"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

type actionResponse struct {
	ID           string         `json:"id"`
	OrgID        string         `json:"org_id"`
	SessionID    string         `json:"session_id,omitempty"`
	Type         string         `json:"type"`
	Status       string         `json:"status"`
	Params       map[string]any `json:"params"`
	Description  string         `json:"description"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	ReviewNote   string         `json:"review_note,omitempty"`
	CreatedBy    string         `json:"created_by,omitempty"`
	ApprovedBy   string         `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	ExecutedBy   string         `json:"executed_by,omitempty"`
	ExecutedAt   *time.Time     `json:"executed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func toActionResponse(a *model.Action) *actionResponse {
	if a == nil {
		return nil
	}
	return &actionResponse{
		ID:           a.ID.String(),
		OrgID:        a.OrgID,
		SessionID:    a.SessionID,
		Type:         a.Type.String(),
		Status:       a.Status.String(),
		Params:       a.Params,
		Description:  a.Description,
		Result:       a.Result,
		ErrorMessage: a.ErrorMessage,
		ReviewNote:   a.ReviewNote,
		CreatedBy:    a.CreatedBy,
		ApprovedBy:   a.ApprovedBy,
		ApprovedAt:   a.ApprovedAt,
		ExecutedBy:   a.ExecutedBy,
		ExecutedAt:   a.ExecutedAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toActionResponses(actions []*model.Action) []*actionResponse {
	out := make([]*actionResponse, len(actions))
	for i, a := range actions {
		out[i] = toActionResponse(a)
	}
	return out
}

type createActionRequest struct {
	OrgID       string         `json:"org_id"      validate:"required"`
	SessionID   string         `json:"session_id"`
	Type        string         `json:"type"        validate:"required"`
	Params      map[string]any `json:"params"      validate:"required"`
	Description string         `json:"description"`
}

func (s *Server) createAction(w http.ResponseWriter, r *http.Request) {
	var req createActionRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	action, err := s.uc.Action.CreateAction(r.Context(), usecase.CreateActionInput{
		OrgID:       req.OrgID,
		SessionID:   req.SessionID,
		Type:        types.ActionType(req.Type),
		Params:      req.Params,
		Description: req.Description,
		CreatedBy:   actor(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{"action": toActionResponse(action)})
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	actions, err := s.uc.Action.ListActions(r.Context(), usecase.ListActionsInput{
		OrgID:  q.Get("org_id"),
		Status: q.Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"actions": toActionResponses(actions),
		"count":   len(actions),
	})
}

func (s *Server) getAction(w http.ResponseWriter, r *http.Request) {
	action, err := s.uc.Action.GetAction(r.Context(), model.ActionID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"action": toActionResponse(action)})
}

type reviewActionRequest struct {
	ActionID string `json:"action_id" validate:"required"`
	Approve  *bool  `json:"approve"   validate:"required"`
	Note     string `json:"note"`
}

func (s *Server) reviewAction(w http.ResponseWriter, r *http.Request) {
	var req reviewActionRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	action, err := s.uc.Action.ReviewAction(r.Context(), model.ActionID(req.ActionID), *req.Approve, req.Note, actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"action":  toActionResponse(action),
		"message": "Action " + action.Status.String(),
	})
}

func (s *Server) executeAction(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.uc.Action.ExecuteAction(r.Context(), model.ActionID(chi.URLParam(r, "id")), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"outcome": outcome,
		"action":  toActionResponse(outcome.Action),
	})
}

func (s *Server) scanActions(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.Action.ProcessApproved(r.Context(), s.workerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"summary": summary})
}
