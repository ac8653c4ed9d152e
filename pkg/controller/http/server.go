package http

import (
	"net/http"
	"time"

	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

type Server struct {
	router             *chi.Mux
	uc                 *usecase.UseCases
	validate           *validator.Validate
	slackSigningSecret string
	workerID           string
}

type Options func(*Server)

// WithSlackInteraction enables the Slack review buttons endpoint. Requests
// are verified with signingSecret.
func WithSlackInteraction(signingSecret string) Options {
	return func(s *Server) {
		s.slackSigningSecret = signingSecret
	}
}

// WithWorkerID sets the executor recorded by on-demand scans.
func WithWorkerID(id string) Options {
	return func(s *Server) {
		s.workerID = id
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		uc:       uc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		workerID: usecase.DefaultWorkerID,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(uc.Auth))

			r.Post("/auth/logout", s.logout)
			r.Get("/auth/me", s.me)

			r.Route("/actions", func(r chi.Router) {
				r.Post("/", s.createAction)
				r.Get("/", s.listActions)
				r.Post("/review", s.reviewAction)
				r.Post("/scan", s.scanActions)
				r.Get("/{id}", s.getAction)
				r.Post("/{id}/execute", s.executeAction)
			})

			r.Post("/chat/message", s.chatMessage)
			r.Get("/chat/sessions/{id}/messages", s.chatHistory)

			r.Get("/availability", s.availability)
			r.Post("/bookings", s.book)

			r.Route("/suggestions", func(r chi.Router) {
				r.Post("/", s.createSuggestion)
				r.Get("/", s.listSuggestions)
				r.Get("/stats", s.suggestionStats)
				r.Post("/generate", s.generateSuggestions)
				r.Get("/{id}", s.getSuggestion)
				r.Post("/{id}/dismiss", s.dismissSuggestion)
				r.Post("/{id}/action", s.createActionFromSuggestion)
			})

			r.Get("/integrations", s.integrations)
		})
	})

	// Slack interaction endpoint - No bearer auth, uses signature verification
	if s.slackSigningSecret != "" {
		r.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.slackSigningSecret))
			r.Post("/interaction", NewSlackInteractionHandler(uc.Action).ServeHTTP)
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) integrations(w http.ResponseWriter, r *http.Request) {
	var report any = []any{}
	if s.uc.Integrations != nil {
		report = s.uc.Integrations.Report(r.Context())
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"integrations": report})
}
