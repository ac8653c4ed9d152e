package slack

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	goslack "github.com/slack-go/slack"
)

// Block Kit action IDs of the review buttons. The button value is the
// action ID.
const (
	ActionIDApprove = "steward_approve"
	ActionIDReject  = "steward_reject"

	reviewBlockID = "steward_review"
)

// Notifier posts one message per action to an operator channel and keeps it
// current as the action moves through its lifecycle.
type Notifier struct {
	svc     Service
	channel string
	baseURL string

	mu       sync.Mutex
	messages map[model.ActionID]string
}

// NotifierOption is a functional option for Notifier
type NotifierOption func(*Notifier)

// WithBaseURL links each message to the action page under url.
func WithBaseURL(url string) NotifierOption {
	return func(n *Notifier) {
		n.baseURL = strings.TrimRight(url, "/")
	}
}

func NewNotifier(svc Service, channel string, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		svc:      svc,
		channel:  channel,
		messages: make(map[model.ActionID]string),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ActionChanged posts the action on first sight and updates the message on
// every later change. Messages posted before a restart are not tracked, so
// the first change after one posts a new message.
func (n *Notifier) ActionChanged(ctx context.Context, action *model.Action, previous types.ActionStatus) error {
	channelID, err := n.svc.ResolveChannelID(ctx, n.channel)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve notification channel")
	}

	blocks := buildActionBlocks(action, n.actionURL(action))
	text := fmt.Sprintf("Action %s: %s", action.Status, action.Description)

	n.mu.Lock()
	ts, posted := n.messages[action.ID]
	n.mu.Unlock()

	if posted {
		if err := n.svc.UpdateMessage(ctx, channelID, ts, blocks, text); err != nil {
			return goerr.Wrap(err, "failed to update action message",
				goerr.V("action_id", action.ID), goerr.V("previous", previous))
		}
	} else {
		ts, err = n.svc.PostMessage(ctx, channelID, blocks, text)
		if err != nil {
			return goerr.Wrap(err, "failed to post action message", goerr.V("action_id", action.ID))
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if action.Status.IsTerminal() {
		delete(n.messages, action.ID)
	} else {
		n.messages[action.ID] = ts
	}
	return nil
}

func (n *Notifier) actionURL(action *model.Action) string {
	if n.baseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/api/actions/%s", n.baseURL, action.ID)
}

func statusEmoji(s types.ActionStatus) string {
	switch s {
	case types.ActionStatusPending:
		return ":hourglass_flowing_sand:"
	case types.ActionStatusApproved:
		return ":thumbsup:"
	case types.ActionStatusRejected:
		return ":no_entry_sign:"
	case types.ActionStatusExecuting:
		return ":gear:"
	case types.ActionStatusCompleted:
		return ":white_check_mark:"
	case types.ActionStatusFailed:
		return ":x:"
	default:
		return ":grey_question:"
	}
}

// buildActionBlocks constructs Block Kit blocks for an action notification message.
func buildActionBlocks(action *model.Action, actionURL string) []goslack.Block {
	header := truncateToMaxBytes(fmt.Sprintf("%s %s", action.Type, action.Status), 150)
	blocks := []goslack.Block{
		goslack.NewHeaderBlock(
			goslack.NewTextBlockObject(goslack.PlainTextType, header, true, false),
		),
	}

	if action.Description != "" {
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, truncateToMaxBytes(action.Description, maxSectionText), false, false),
			nil, nil,
		))
	}

	switch action.Status {
	case types.ActionStatusPending:
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, "*Awaiting approval*", false, false),
			nil, nil,
		))

		approve := goslack.NewButtonBlockElement(ActionIDApprove, action.ID.String(),
			goslack.NewTextBlockObject(goslack.PlainTextType, "Approve", true, false),
		)
		approve.Style = goslack.StylePrimary
		reject := goslack.NewButtonBlockElement(ActionIDReject, action.ID.String(),
			goslack.NewTextBlockObject(goslack.PlainTextType, "Reject", true, false),
		)
		reject.Style = goslack.StyleDanger
		blocks = append(blocks, goslack.NewActionBlock(reviewBlockID, approve, reject))
	case types.ActionStatusCompleted:
		if msg, ok := action.Result["message"].(string); ok && msg != "" {
			blocks = append(blocks, goslack.NewSectionBlock(
				goslack.NewTextBlockObject(goslack.MarkdownType, truncateToMaxBytes(msg, maxSectionText), false, false),
				nil, nil,
			))
		}
	case types.ActionStatusFailed:
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType,
				truncateToMaxBytes("*Error:* "+action.ErrorMessage, maxSectionText), false, false),
			nil, nil,
		))
	}

	parts := []string{
		statusEmoji(action.Status) + " Status: " + action.Status.String(),
		"ID: `" + action.ID.String() + "`",
	}
	if action.ApprovedBy != "" {
		parts = append(parts, "Reviewed by: "+action.ApprovedBy)
	}
	if action.ReviewNote != "" {
		parts = append(parts, "Note: "+action.ReviewNote)
	}
	if actionURL != "" {
		parts = append(parts, fmt.Sprintf(":link: <%s|Link>", actionURL))
	}

	blocks = append(blocks, goslack.NewContextBlock("",
		goslack.NewTextBlockObject(goslack.MarkdownType, strings.Join(parts, "  |  "), false, false),
	))

	return blocks
}
