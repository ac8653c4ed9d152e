package http

import (
	"net/http"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

type suggestedActionBody struct {
	Type   string         `json:"type"   validate:"required"`
	Params map[string]any `json:"params"`
}

type suggestionResponse struct {
	ID              string               `json:"id"`
	OrgID           string               `json:"org_id"`
	Type            string               `json:"type"`
	Priority        string               `json:"priority"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	SuggestedAction *suggestedActionBody `json:"suggested_action,omitempty"`
	Metadata        map[string]any       `json:"metadata,omitempty"`
	Status          string               `json:"status"`
	DismissedBy     string               `json:"dismissed_by,omitempty"`
	DismissedAt     *time.Time           `json:"dismissed_at,omitempty"`
	DismissalNote   string               `json:"dismissal_note,omitempty"`
	ActionID        string               `json:"action_id,omitempty"`
	ActionedAt      *time.Time           `json:"actioned_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func toSuggestionResponse(s *model.Suggestion) *suggestionResponse {
	resp := &suggestionResponse{
		ID:            string(s.ID),
		OrgID:         s.OrgID,
		Type:          string(s.Type),
		Priority:      string(s.Priority),
		Title:         s.Title,
		Description:   s.Description,
		Metadata:      s.Metadata,
		Status:        string(s.Status),
		DismissedBy:   s.DismissedBy,
		DismissedAt:   s.DismissedAt,
		DismissalNote: s.DismissalNote,
		ActionID:      s.ActionID.String(),
		ActionedAt:    s.ActionedAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.SuggestedAction != nil {
		resp.SuggestedAction = &suggestedActionBody{
			Type:   s.SuggestedAction.Type.String(),
			Params: s.SuggestedAction.Params,
		}
	}
	return resp
}

func toSuggestionResponses(list []*model.Suggestion) []*suggestionResponse {
	out := make([]*suggestionResponse, len(list))
	for i, s := range list {
		out[i] = toSuggestionResponse(s)
	}
	return out
}

type createSuggestionRequest struct {
	OrgID           string               `json:"org_id"   validate:"required"`
	Type            string               `json:"type"     validate:"required"`
	Priority        string               `json:"priority"`
	Title           string               `json:"title"    validate:"required"`
	Description     string               `json:"description"`
	SuggestedAction *suggestedActionBody `json:"suggested_action"`
	Metadata        map[string]any       `json:"metadata"`
}

func (s *Server) createSuggestion(w http.ResponseWriter, r *http.Request) {
	var req createSuggestionRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := usecase.CreateSuggestionInput{
		OrgID:       req.OrgID,
		Type:        types.SuggestionType(req.Type),
		Priority:    types.SuggestionPriority(req.Priority),
		Title:       req.Title,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
	if req.SuggestedAction != nil {
		in.SuggestedAction = &model.SuggestedAction{
			Type:   types.ActionType(req.SuggestedAction.Type),
			Params: req.SuggestedAction.Params,
		}
	}

	created, err := s.uc.Suggestion.CreateSuggestion(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]any{"suggestion": toSuggestionResponse(created)})
}

func (s *Server) listSuggestions(w http.ResponseWriter, r *http.Request) {
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
	list, err := s.uc.Suggestion.ListSuggestions(r.Context(), usecase.ListSuggestionsInput{
		OrgID:    q.Get("org_id"),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"suggestions": toSuggestionResponses(list),
		"count":       len(list),
	})
}

func (s *Server) getSuggestion(w http.ResponseWriter, r *http.Request) {
	sg, err := s.uc.Suggestion.GetSuggestion(r.Context(), model.SuggestionID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"suggestion": toSuggestionResponse(sg)})
}

type dismissSuggestionRequest struct {
	Note string `json:"note" validate:"max=1000"`
}

func (s *Server) dismissSuggestion(w http.ResponseWriter, r *http.Request) {
	var req dismissSuggestionRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sg, err := s.uc.Suggestion.DismissSuggestion(r.Context(), model.SuggestionID(chi.URLParam(r, "id")), actor(r), req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"suggestion": toSuggestionResponse(sg)})
}

type suggestionActionRequest struct {
	Overrides map[string]any `json:"overrides"`
}

func (s *Server) createActionFromSuggestion(w http.ResponseWriter, r *http.Request) {
	var req suggestionActionRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	action, sg, err := s.uc.Suggestion.CreateActionFromSuggestion(r.Context(),
		model.SuggestionID(chi.URLParam(r, "id")), req.Overrides, actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]any{
		"action":     toActionResponse(action),
		"suggestion": toSuggestionResponse(sg),
		"message":    "Action created from suggestion",
	})
}

func (s *Server) suggestionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.uc.Suggestion.Stats(r.Context(), r.URL.Query().Get("org_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"total":              stats.Total,
			"by_status":          stats.ByStatus,
			"active_by_priority": stats.ActiveByPriority,
			"recent":             toSuggestionResponses(stats.Recent),
		},
	})
}

type generateSuggestionsRequest struct {
	OrgID string `json:"org_id"`
}

func (s *Server) generateSuggestions(w http.ResponseWriter, r *http.Request) {
	var req generateSuggestionsRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.OrgID == "" {
		req.OrgID = s.uc.Business().OrgID
	}

	created, err := s.uc.Suggestion.GenerateSuggestions(r.Context(), req.OrgID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"suggestions": toSuggestionResponses(created),
		"count":       len(created),
	})
}
