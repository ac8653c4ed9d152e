package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/service/slack"
	"github.com/aadee-inc/steward/pkg/utils/errutil"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	goslack "github.com/slack-go/slack"
)

// ActionReviewer approves or rejects a pending action.
type ActionReviewer interface {
	ReviewAction(ctx context.Context, id model.ActionID, approve bool, note, reviewer string) (*model.Action, error)
}

// SlackInteractionHandler handles the review buttons of action notifications
type SlackInteractionHandler struct {
	reviewer ActionReviewer
}

// NewSlackInteractionHandler creates a new Slack interaction handler
func NewSlackInteractionHandler(reviewer ActionReviewer) *SlackInteractionHandler {
	return &SlackInteractionHandler{
		reviewer: reviewer,
	}
}

// ServeHTTP handles Slack interaction webhook requests
func (h *SlackInteractionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Slack sends interaction payloads as application/x-www-form-urlencoded
	// with a "payload" field containing JSON
	payload := r.FormValue("payload")
	if payload == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing payload field in interaction request"), http.StatusBadRequest)
		return
	}

	var callback goslack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse interaction payload"), http.StatusBadRequest)
		return
	}

	// Only handle block_actions (button clicks)
	if callback.Type != goslack.InteractionTypeBlockActions {
		w.WriteHeader(http.StatusOK)
		return
	}

	reviewer := callback.User.Name
	if reviewer == "" {
		reviewer = callback.User.ID
	}

	for _, action := range callback.ActionCallback.BlockActions {
		var approve bool
		switch action.ActionID {
		case slack.ActionIDApprove:
			approve = true
		case slack.ActionIDReject:
			approve = false
		default:
			continue
		}

		id := model.ActionID(action.Value)
		// The lifecycle notifier refreshes the message after the review.
		if _, err := h.reviewer.ReviewAction(ctx, id, approve, "Reviewed in Slack", "slack:"+reviewer); err != nil {
			logging.From(ctx).Warn("failed to review action from Slack",
				"error", err,
				"action_id", id,
				"approve", approve,
				"user_id", callback.User.ID,
			)
		}
	}

	w.WriteHeader(http.StatusOK)
}
