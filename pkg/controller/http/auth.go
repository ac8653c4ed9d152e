package http

import (
	"net/http"

	"github.com/aadee-inc/steward/pkg/domain/model/auth"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	raw, token, err := s.uc.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"token":      raw,
		"token_type": "Bearer",
		"expires_at": token.ExpiresAt,
		"user":       userResponse{ID: token.Sub, Name: token.Name},
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, nil)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	token, err := auth.TokenFromContext(r.Context())
	if err != nil {
		writeError(w, r, goerr.Wrap(usecase.ErrUnauthorized, "no authenticated user"))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"user": userResponse{ID: token.Sub, Name: token.Name},
	})
}
