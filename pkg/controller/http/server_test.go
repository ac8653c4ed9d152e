package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpctrl "github.com/aadee-inc/steward/pkg/controller/http"
	"github.com/aadee-inc/steward/pkg/domain/interfaces"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/repository/memory"
	"github.com/aadee-inc/steward/pkg/service/integration"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/m-mizutani/gt"
)

type fakeHours struct {
	platform types.Platform
}

func (f *fakeHours) Platform() types.Platform                 { return f.platform }
func (f *fakeHours) TestConnection(ctx context.Context) error { return nil }

func (f *fakeHours) UpdateBusinessHours(ctx context.Context, hours model.BusinessHoursMap) (map[string]any, error) {
	return map[string]any{"message": "hours updated"}, nil
}

func (f *fakeHours) GetBusinessHours(ctx context.Context) (model.BusinessHoursMap, error) {
	return nil, nil
}

func newTestServer(t *testing.T, opts ...usecase.Option) (*httpctrl.Server, *usecase.UseCases) {
	t.Helper()
	dispatcher := integration.NewDispatcher([]interfaces.Integration{
		&fakeHours{platform: types.PlatformGoogleBusiness},
	})
	base := []usecase.Option{
		usecase.WithBusiness(config.NewBusiness("org-1")),
		usecase.WithDispatcher(dispatcher),
	}
	uc := usecase.New(memory.New(), append(base, opts...)...)
	return httpctrl.New(uc), uc
}

type response struct {
	code        int
	contentType string
	body        map[string]any
}

func call(t *testing.T, h http.Handler, method, path string, body any, token string) response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	resp := response{code: rec.Code, contentType: rec.Header().Get("Content-Type")}
	if rec.Body.Len() > 0 {
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp.body)).Required()
	}
	return resp
}

func fridayHours() map[string]any {
	return map[string]any{
		"hours":     map[string]any{"friday": "09:00-15:00"},
		"platforms": []string{"google_business"},
	}
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := call(t, srv, http.MethodGet, "/health", nil, "")
	gt.Value(t, resp.code).Equal(http.StatusOK)
	gt.Value(t, resp.body["success"]).Equal(any(true))
	gt.Value(t, resp.body["status"]).Equal(any("ok"))
}

func TestServer_ActionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	created := call(t, srv, http.MethodPost, "/api/actions", map[string]any{
		"org_id": "org-1",
		"type":   "update_business_hours",
		"params": fridayHours(),
	}, "")
	gt.Value(t, created.code).Equal(http.StatusCreated)
	gt.Value(t, created.body["success"]).Equal(any(true))
	action := created.body["action"].(map[string]any)
	gt.Value(t, action["status"]).Equal(any("pending"))
	id := action["id"].(string)

	got := call(t, srv, http.MethodGet, "/api/actions/"+id, nil, "")
	gt.Value(t, got.code).Equal(http.StatusOK)

	// Executing before approval is a conflict.
	early := call(t, srv, http.MethodPost, "/api/actions/"+id+"/execute", nil, "")
	gt.Value(t, early.code).Equal(http.StatusConflict)
	gt.Value(t, early.contentType).Equal("application/problem+json")
	gt.Value(t, early.body["type"]).Equal(any("conflict"))

	reviewed := call(t, srv, http.MethodPost, "/api/actions/review", map[string]any{
		"action_id": id,
		"approve":   true,
		"note":      "ok",
	}, "")
	gt.Value(t, reviewed.code).Equal(http.StatusOK)
	gt.Value(t, reviewed.body["action"].(map[string]any)["status"]).Equal(any("approved"))
	gt.Value(t, reviewed.body["action"].(map[string]any)["approved_by"]).Equal(any("anonymous"))

	executed := call(t, srv, http.MethodPost, "/api/actions/"+id+"/execute", nil, "")
	gt.Value(t, executed.code).Equal(http.StatusOK)
	done := executed.body["action"].(map[string]any)
	gt.Value(t, done["status"]).Equal(any("completed"))
	gt.Value(t, done["result"].(map[string]any)["message"]).Equal(any("Business hours update completed"))

	again := call(t, srv, http.MethodPost, "/api/actions/"+id+"/execute", nil, "")
	gt.Value(t, again.code).Equal(http.StatusConflict)

	rereview := call(t, srv, http.MethodPost, "/api/actions/review", map[string]any{
		"action_id": id,
		"approve":   false,
	}, "")
	gt.Value(t, rereview.code).Equal(http.StatusConflict)

	list := call(t, srv, http.MethodGet, "/api/actions?org_id=org-1&status=completed", nil, "")
	gt.Value(t, list.code).Equal(http.StatusOK)
	gt.Value(t, list.body["count"]).Equal(any(float64(1)))
}

func TestServer_ActionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		code   int
	}{
		{name: "missing org", method: http.MethodPost, path: "/api/actions",
			body: map[string]any{"type": "update_business_hours", "params": fridayHours()}, code: http.StatusBadRequest},
		{name: "unknown type", method: http.MethodPost, path: "/api/actions",
			body: map[string]any{"org_id": "org-1", "type": "launch_rocket", "params": map[string]any{"x": 1}}, code: http.StatusBadRequest},
		{name: "missing params", method: http.MethodPost, path: "/api/actions",
			body: map[string]any{"org_id": "org-1", "type": "update_business_hours"}, code: http.StatusBadRequest},
		{name: "review without approve flag", method: http.MethodPost, path: "/api/actions/review",
			body: map[string]any{"action_id": "a"}, code: http.StatusBadRequest},
		{name: "review unknown action", method: http.MethodPost, path: "/api/actions/review",
			body: map[string]any{"action_id": "missing", "approve": true}, code: http.StatusNotFound},
		{name: "limit not a number", method: http.MethodGet, path: "/api/actions?org_id=org-1&limit=abc", code: http.StatusBadRequest},
		{name: "limit too large", method: http.MethodGet, path: "/api/actions?org_id=org-1&limit=500", code: http.StatusBadRequest},
		{name: "negative offset", method: http.MethodGet, path: "/api/actions?org_id=org-1&offset=-1", code: http.StatusBadRequest},
		{name: "unknown status", method: http.MethodGet, path: "/api/actions?org_id=org-1&status=lost", code: http.StatusBadRequest},
		{name: "unknown id", method: http.MethodGet, path: "/api/actions/missing", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, srv, tt.method, tt.path, tt.body, "")
			gt.Value(t, resp.code).Equal(tt.code)
			gt.Value(t, resp.contentType).Equal("application/problem+json")
			gt.Value(t, resp.body["status"]).Equal(any(float64(tt.code)))
		})
	}
}

func TestServer_Scan(t *testing.T) {
	srv, uc := newTestServer(t)
	ctx := context.Background()

	action, err := uc.Action.CreateAction(ctx, usecase.CreateActionInput{
		OrgID:  "org-1",
		Type:   types.ActionTypeUpdateBusinessHours,
		Params: fridayHours(),
	})
	gt.NoError(t, err).Required()
	_, err = uc.Action.ReviewAction(ctx, action.ID, true, "", "alice")
	gt.NoError(t, err).Required()

	resp := call(t, srv, http.MethodPost, "/api/actions/scan", nil, "")
	gt.Value(t, resp.code).Equal(http.StatusOK)
	summary := resp.body["summary"].(map[string]any)
	gt.Value(t, summary["processed"]).Equal(any(float64(1)))
	gt.Value(t, summary["successful"]).Equal(any(float64(1)))

	stored, err := uc.Action.GetAction(ctx, action.ID)
	gt.NoError(t, err)
	gt.Value(t, stored.ExecutedBy).Equal(usecase.DefaultWorkerID)
}

func TestServer_Chat(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := call(t, srv, http.MethodPost, "/api/chat/message", map[string]any{
		"session_id": "s-1",
		"message":    "Please update our hours: Friday 9-3",
	}, "")
	gt.Value(t, resp.code).Equal(http.StatusOK)
	gt.Value(t, resp.body["intent"]).Equal(any("business_hours"))
	gt.A(t, resp.body["actions"].([]any)).Length(1)

	history := call(t, srv, http.MethodGet, "/api/chat/sessions/s-1/messages", nil, "")
	gt.Value(t, history.code).Equal(http.StatusOK)
	msgs := history.body["messages"].([]any)
	gt.A(t, msgs).Length(2)
	gt.Value(t, msgs[0].(map[string]any)["role"]).Equal(any("user"))

	missing := call(t, srv, http.MethodPost, "/api/chat/message", map[string]any{"message": "hi"}, "")
	gt.Value(t, missing.code).Equal(http.StatusBadRequest)
}

func TestServer_AvailabilityAndBooking(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("degrades without a calendar", func(t *testing.T) {
		resp := call(t, srv, http.MethodGet, "/api/availability?days=3", nil, "")
		gt.Value(t, resp.code).Equal(http.StatusOK)
		gt.Value(t, resp.body["degraded"]).Equal(any(true))
		gt.Value(t, resp.body["timezone"]).Equal(any("America/New_York"))
	})

	t.Run("days out of range", func(t *testing.T) {
		resp := call(t, srv, http.MethodGet, "/api/availability?days=31", nil, "")
		gt.Value(t, resp.code).Equal(http.StatusBadRequest)
	})

	t.Run("booking without a calendar", func(t *testing.T) {
		resp := call(t, srv, http.MethodPost, "/api/bookings", map[string]any{
			"start":    "2026-03-03T15:00:00Z",
			"attendee": "guest@example.com",
		}, "")
		gt.Value(t, resp.code).Equal(http.StatusServiceUnavailable)
		gt.Value(t, resp.body["type"]).Equal(any("not_connected"))
	})

	t.Run("booking validation", func(t *testing.T) {
		resp := call(t, srv, http.MethodPost, "/api/bookings", map[string]any{
			"start":    "2026-03-03T15:00:00Z",
			"attendee": "not-an-email",
		}, "")
		gt.Value(t, resp.code).Equal(http.StatusBadRequest)

		resp = call(t, srv, http.MethodPost, "/api/bookings", map[string]any{
			"start":    "tomorrow at noon",
			"attendee": "guest@example.com",
		}, "")
		gt.Value(t, resp.code).Equal(http.StatusBadRequest)
	})
}

func TestServer_Suggestions(t *testing.T) {
	srv, _ := newTestServer(t)

	created := call(t, srv, http.MethodPost, "/api/suggestions", map[string]any{
		"org_id":      "org-1",
		"type":        "hours_optimization",
		"priority":    "high",
		"title":       "Open later on Fridays",
		"description": "Evening foot traffic is up",
		"suggested_action": map[string]any{
			"type":   "update_business_hours",
			"params": fridayHours(),
		},
	}, "")
	gt.Value(t, created.code).Equal(http.StatusCreated)
	id := created.body["suggestion"].(map[string]any)["id"].(string)

	list := call(t, srv, http.MethodGet, "/api/suggestions?org_id=org-1", nil, "")
	gt.Value(t, list.code).Equal(http.StatusOK)
	gt.Value(t, list.body["count"]).Equal(any(float64(1)))

	stats := call(t, srv, http.MethodGet, "/api/suggestions/stats?org_id=org-1", nil, "")
	gt.Value(t, stats.code).Equal(http.StatusOK)
	gt.Value(t, stats.body["stats"].(map[string]any)["total"]).Equal(any(float64(1)))

	fromSuggestion := call(t, srv, http.MethodPost, "/api/suggestions/"+id+"/action", map[string]any{}, "")
	gt.Value(t, fromSuggestion.code).Equal(http.StatusCreated)
	gt.Value(t, fromSuggestion.body["action"].(map[string]any)["status"]).Equal(any("pending"))
	gt.Value(t, fromSuggestion.body["suggestion"].(map[string]any)["status"]).Equal(any("actioned"))

	dismiss := call(t, srv, http.MethodPost, "/api/suggestions/"+id+"/dismiss", map[string]any{"note": "done"}, "")
	gt.Value(t, dismiss.code).Equal(http.StatusConflict)

	missing := call(t, srv, http.MethodGet, "/api/suggestions/missing", nil, "")
	gt.Value(t, missing.code).Equal(http.StatusNotFound)

	generated := call(t, srv, http.MethodPost, "/api/suggestions/generate", map[string]any{}, "")
	gt.Value(t, generated.code).Equal(http.StatusOK)
}

func TestServer_Integrations(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := call(t, srv, http.MethodGet, "/api/integrations", nil, "")
	gt.Value(t, resp.code).Equal(http.StatusOK)

	report := resp.body["integrations"].([]any)
	gt.A(t, report).Length(1)
	entry := report[0].(map[string]any)
	gt.Value(t, entry["platform"]).Equal(any("google_business"))
	gt.Value(t, entry["connected"]).Equal(any(true))
}

func TestServer_Auth(t *testing.T) {
	repo := memory.New()
	authUC := usecase.NewAuthUseCase(repo.Token(), []byte("0123456789abcdef0123456789abcdef"), "letmein")
	uc := usecase.New(repo, usecase.WithBusiness(config.NewBusiness("org-1")), usecase.WithAuth(authUC))
	srv := httpctrl.New(uc)

	t.Run("protected routes need a token", func(t *testing.T) {
		resp := call(t, srv, http.MethodGet, "/api/actions?org_id=org-1", nil, "")
		gt.Value(t, resp.code).Equal(http.StatusUnauthorized)

		resp = call(t, srv, http.MethodGet, "/api/actions?org_id=org-1", nil, "garbage")
		gt.Value(t, resp.code).Equal(http.StatusUnauthorized)
	})

	t.Run("health stays public", func(t *testing.T) {
		gt.Value(t, call(t, srv, http.MethodGet, "/health", nil, "").code).Equal(http.StatusOK)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := call(t, srv, http.MethodPost, "/api/auth/login", map[string]any{
			"username": "alice", "password": "nope",
		}, "")
		gt.Value(t, resp.code).Equal(http.StatusUnauthorized)
	})

	t.Run("login, me, logout", func(t *testing.T) {
		login := call(t, srv, http.MethodPost, "/api/auth/login", map[string]any{
			"username": "alice", "password": "letmein",
		}, "")
		gt.Value(t, login.code).Equal(http.StatusOK)
		token := login.body["token"].(string)

		me := call(t, srv, http.MethodGet, "/api/auth/me", nil, token)
		gt.Value(t, me.code).Equal(http.StatusOK)
		gt.Value(t, me.body["user"].(map[string]any)["id"]).Equal(any("alice"))

		created := call(t, srv, http.MethodPost, "/api/actions", map[string]any{
			"org_id": "org-1", "type": "update_business_hours", "params": fridayHours(),
		}, token)
		gt.Value(t, created.code).Equal(http.StatusCreated)
		gt.Value(t, created.body["action"].(map[string]any)["created_by"]).Equal(any("alice"))

		logout := call(t, srv, http.MethodPost, "/api/auth/logout", nil, token)
		gt.Value(t, logout.code).Equal(http.StatusOK)

		after := call(t, srv, http.MethodGet, "/api/auth/me", nil, token)
		gt.Value(t, after.code).Equal(http.StatusUnauthorized)
	})
}
