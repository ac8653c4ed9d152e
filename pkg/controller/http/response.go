package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/aadee-inc/steward/pkg/utils/safe"
	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/moogar0880/problems"
)

// writeJSON writes body with "success": true merged in.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, body map[string]any) {
	if body == nil {
		body = map[string]any{}
	}
	body["success"] = true

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.EncodeJSON(r.Context(), w, body)
}

// statusOf maps an error category to its HTTP status.
func statusOf(category usecase.ErrorCategory) int {
	switch category {
	case usecase.CategoryValidation:
		return http.StatusBadRequest
	case usecase.CategoryUnauthorized:
		return http.StatusUnauthorized
	case usecase.CategoryNotFound:
		return http.StatusNotFound
	case usecase.CategoryConflict:
		return http.StatusConflict
	case usecase.CategoryNotConnected:
		return http.StatusServiceUnavailable
	case usecase.CategoryIntegration, usecase.CategoryUnknownType:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as an application/problem+json body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	category := usecase.Category(err)
	status := statusOf(category)

	problem := problems.NewStatusProblem(status).
		WithInstance(r.URL.Path).
		WithType(string(category))

	if status >= http.StatusInternalServerError {
		errutil.Handle(ctx, err, "request failed")
		if category != usecase.CategoryInternal {
			problem = problem.WithDetail(err.Error())
		}
	} else {
		logging.From(ctx).Info("request rejected", "status", status, "error", err.Error())
		problem = problem.WithDetail(err.Error())
	}

	w.Header().Set("Content-Type", problems.ProblemMediaType)
	w.WriteHeader(status)
	safe.EncodeJSON(ctx, w, problem)
}

// decodeBody reads a JSON body into v and validates it.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return goerr.Wrap(usecase.ErrValidation, "invalid JSON body", goerr.V("cause", err.Error()))
	}
	return s.check(v)
}

func (s *Server) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return goerr.Wrap(usecase.ErrValidation, "invalid field "+fe.Field()+": "+fe.Tag(),
				goerr.V("field", fe.Field()), goerr.V("rule", fe.Tag()))
		}
		return goerr.Wrap(usecase.ErrValidation, "invalid request", goerr.V("cause", err.Error()))
	}
	return nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrValidation, name+" must be an integer", goerr.V(name, raw))
	}
	return n, nil
}

func validationError(msg, field string, value any) error {
	return goerr.Wrap(usecase.ErrValidation, msg, goerr.V(field, value))
}
