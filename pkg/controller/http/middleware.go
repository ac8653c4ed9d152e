package http

import (
	"net/http"
	"strings"

	"github.com/aadee-inc/steward/pkg/domain/model/auth"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

// bearerToken extracts the token of an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// authMiddleware validates authentication for protected requests
func authMiddleware(authUC usecase.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Without authUC every request runs as the anonymous user
			if authUC == nil {
				ctx := auth.ContextWithToken(r.Context(), auth.NewAnonymousUser())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			raw := bearerToken(r)
			if raw == "" && !authUC.IsNoAuthn() {
				writeError(w, r, goerr.Wrap(usecase.ErrUnauthorized, "authentication required"))
				return
			}

			token, err := authUC.ValidateToken(r.Context(), raw)
			if err != nil {
				writeError(w, r, err)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// actor names the authenticated operator of r.
func actor(r *http.Request) string {
	token, err := auth.TokenFromContext(r.Context())
	if err != nil {
		return auth.AnonymousUserID
	}
	if token.Name != "" {
		return token.Name
	}
	return token.Sub
}
