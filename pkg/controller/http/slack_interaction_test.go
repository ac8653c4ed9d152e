package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	httpctrl "github.com/aadee-inc/steward/pkg/controller/http"
	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/model/config"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/repository/memory"
	"github.com/aadee-inc/steward/pkg/service/integration"
	"github.com/aadee-inc/steward/pkg/service/slack"
	"github.com/aadee-inc/steward/pkg/usecase"
	"github.com/m-mizutani/gt"
	goslack "github.com/slack-go/slack"
)

func newPendingAction(t *testing.T) (*usecase.ActionUseCase, model.ActionID) {
	t.Helper()
	repo := memory.New()
	actionUC := usecase.NewActionUseCase(repo, integration.NewDispatcher(nil), config.NewBusiness("org-1"))

	action, err := actionUC.CreateAction(t.Context(), usecase.CreateActionInput{
		OrgID:  "org-1",
		Type:   types.ActionTypeUpdateBusinessHours,
		Params: fridayHours(),
	})
	gt.NoError(t, err).Required()
	return actionUC, action.ID
}

func interactionBody(t *testing.T, actionID, value string) string {
	t.Helper()
	callback := goslack.InteractionCallback{
		Type: goslack.InteractionTypeBlockActions,
		User: goslack.User{ID: "U001", Name: "bob"},
		ActionCallback: goslack.ActionCallbacks{
			BlockActions: []*goslack.BlockAction{
				{ActionID: actionID, Value: value},
			},
		},
	}
	payloadJSON, err := json.Marshal(callback)
	gt.NoError(t, err).Required()

	form := url.Values{"payload": {string(payloadJSON)}}
	return form.Encode()
}

func interactionRequest(t *testing.T, actionID, value string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/hooks/slack/interaction",
		strings.NewReader(interactionBody(t, actionID, value)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSlackInteractionHandler(t *testing.T) {
	t.Run("approve button approves the action", func(t *testing.T) {
		actionUC, id := newPendingAction(t)
		handler := httpctrl.NewSlackInteractionHandler(actionUC)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, interactionRequest(t, slack.ActionIDApprove, id.String()))
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		action, err := actionUC.GetAction(t.Context(), id)
		gt.NoError(t, err).Required()
		gt.Value(t, action.Status).Equal(types.ActionStatusApproved)
		gt.Value(t, action.ApprovedBy).Equal("slack:bob")
	})

	t.Run("reject button rejects the action", func(t *testing.T) {
		actionUC, id := newPendingAction(t)
		handler := httpctrl.NewSlackInteractionHandler(actionUC)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, interactionRequest(t, slack.ActionIDReject, id.String()))
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		action, err := actionUC.GetAction(t.Context(), id)
		gt.NoError(t, err).Required()
		gt.Value(t, action.Status).Equal(types.ActionStatusRejected)
	})

	t.Run("second click is ignored", func(t *testing.T) {
		actionUC, id := newPendingAction(t)
		handler := httpctrl.NewSlackInteractionHandler(actionUC)

		handler.ServeHTTP(httptest.NewRecorder(), interactionRequest(t, slack.ActionIDApprove, id.String()))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, interactionRequest(t, slack.ActionIDReject, id.String()))
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		action, err := actionUC.GetAction(t.Context(), id)
		gt.NoError(t, err).Required()
		gt.Value(t, action.Status).Equal(types.ActionStatusApproved)
	})

	t.Run("unknown button is ignored", func(t *testing.T) {
		actionUC, id := newPendingAction(t)
		handler := httpctrl.NewSlackInteractionHandler(actionUC)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, interactionRequest(t, "something_else", id.String()))
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		action, err := actionUC.GetAction(t.Context(), id)
		gt.NoError(t, err).Required()
		gt.Value(t, action.Status).Equal(types.ActionStatusPending)
	})

	t.Run("missing payload", func(t *testing.T) {
		actionUC, _ := newPendingAction(t)
		handler := httpctrl.NewSlackInteractionHandler(actionUC)

		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/interaction", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestServer_SlackInteractionRoute(t *testing.T) {
	const secret = "test-signing-secret"
	repo := memory.New()
	uc := usecase.New(repo, usecase.WithBusiness(config.NewBusiness("org-1")))
	srv := httpctrl.New(uc, httpctrl.WithSlackInteraction(secret))

	action, err := uc.Action.CreateAction(t.Context(), usecase.CreateActionInput{
		OrgID:  "org-1",
		Type:   types.ActionTypeUpdateBusinessHours,
		Params: fridayHours(),
	})
	gt.NoError(t, err).Required()

	t.Run("unsigned request is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, interactionRequest(t, slack.ActionIDApprove, action.ID.String()))
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("signed request reviews the action", func(t *testing.T) {
		body := interactionBody(t, slack.ActionIDApprove, action.ID.String())
		req := httptest.NewRequest(http.MethodPost, "/hooks/slack/interaction", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		ts := strconv.FormatInt(time.Now().Unix(), 10)
		req.Header.Set("X-Slack-Request-Timestamp", ts)
		req.Header.Set("X-Slack-Signature", computeSlackSignature(secret, ts, body))

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		got, err := uc.Action.GetAction(t.Context(), action.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.ActionStatusApproved)
	})
}
