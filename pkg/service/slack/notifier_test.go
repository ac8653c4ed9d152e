package slack_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/service/slack"
	"github.com/m-mizutani/gt"
	goslack "github.com/slack-go/slack"
)

type postedMessage struct {
	channelID string
	ts        string
	text      string
	blocks    []goslack.Block
	update    bool
}

// mockSlackService is a mock implementation of slack.Service for testing
type mockSlackService struct {
	mu         sync.Mutex
	messages   []postedMessage
	postErr    error
	resolveErr error
	seq        int
}

func (m *mockSlackService) ListJoinedChannels(ctx context.Context) ([]slack.Channel, error) {
	return []slack.Channel{{ID: "C0123ABCD", Name: "ops"}}, nil
}

func (m *mockSlackService) ResolveChannelID(ctx context.Context, channel string) (string, error) {
	if m.resolveErr != nil {
		return "", m.resolveErr
	}
	return "C0123ABCD", nil
}

func (m *mockSlackService) PostMessage(ctx context.Context, channelID string, blocks []goslack.Block, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return "", m.postErr
	}
	m.seq++
	ts := "1700000000.00000" + string(rune('0'+m.seq))
	m.messages = append(m.messages, postedMessage{channelID: channelID, ts: ts, text: text, blocks: blocks})
	return ts, nil
}

func (m *mockSlackService) UpdateMessage(ctx context.Context, channelID string, timestamp string, blocks []goslack.Block, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, postedMessage{channelID: channelID, ts: timestamp, text: text, blocks: blocks, update: true})
	return nil
}

func newAction(status types.ActionStatus) *model.Action {
	return &model.Action{
		ID:          "act-1",
		OrgID:       "org-1",
		Type:        types.ActionTypeUpdateBusinessHours,
		Status:      status,
		Description: "Update business hours: friday 09:00-15:00",
	}
}

func blocksText(t *testing.T, blocks []goslack.Block) string {
	t.Helper()
	raw, err := json.Marshal(blocks)
	gt.NoError(t, err)
	return string(raw)
}

func TestNotifier_ActionChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("posts then updates the same message", func(t *testing.T) {
		svc := &mockSlackService{}
		n := slack.NewNotifier(svc, "#ops", slack.WithBaseURL("https://steward.example.com/"))

		action := newAction(types.ActionStatusPending)
		gt.NoError(t, n.ActionChanged(ctx, action, ""))

		approved := newAction(types.ActionStatusApproved)
		approved.ApprovedBy = "alice"
		gt.NoError(t, n.ActionChanged(ctx, approved, types.ActionStatusPending))

		gt.A(t, svc.messages).Length(2)
		first, second := svc.messages[0], svc.messages[1]
		gt.Bool(t, first.update).False()
		gt.Bool(t, second.update).True()
		gt.Value(t, second.ts).Equal(first.ts)
		gt.Value(t, first.channelID).Equal("C0123ABCD")

		pending := blocksText(t, first.blocks)
		gt.String(t, pending).Contains("Awaiting approval")
		gt.String(t, pending).Contains(slack.ActionIDApprove)
		gt.String(t, pending).Contains("https://steward.example.com/api/actions/act-1")
		gt.String(t, blocksText(t, second.blocks)).Contains("Reviewed by: alice")
		gt.Bool(t, strings.Contains(blocksText(t, second.blocks), slack.ActionIDApprove)).False()
	})

	t.Run("terminal state releases the message", func(t *testing.T) {
		svc := &mockSlackService{}
		n := slack.NewNotifier(svc, "#ops")

		gt.NoError(t, n.ActionChanged(ctx, newAction(types.ActionStatusPending), ""))

		failed := newAction(types.ActionStatusFailed)
		failed.ErrorMessage = "Unknown action type: bogus"
		gt.NoError(t, n.ActionChanged(ctx, failed, types.ActionStatusExecuting))
		gt.String(t, blocksText(t, svc.messages[1].blocks)).Contains("Unknown action type: bogus")

		// A later change is posted as a new message.
		gt.NoError(t, n.ActionChanged(ctx, failed, types.ActionStatusExecuting))
		gt.A(t, svc.messages).Length(3)
		gt.Bool(t, svc.messages[2].update).False()
	})

	t.Run("completed shows the result message", func(t *testing.T) {
		svc := &mockSlackService{}
		n := slack.NewNotifier(svc, "#ops")

		done := newAction(types.ActionStatusCompleted)
		done.Result = map[string]any{"success": true, "message": "Business hours update completed"}
		gt.NoError(t, n.ActionChanged(ctx, done, types.ActionStatusExecuting))
		gt.String(t, blocksText(t, svc.messages[0].blocks)).Contains("Business hours update completed")
	})

	t.Run("slack errors are returned", func(t *testing.T) {
		svc := &mockSlackService{postErr: errors.New("rate limited")}
		n := slack.NewNotifier(svc, "#ops")
		gt.Error(t, n.ActionChanged(ctx, newAction(types.ActionStatusPending), ""))

		svc = &mockSlackService{resolveErr: errors.New("channel_not_found")}
		n = slack.NewNotifier(svc, "#ops")
		gt.Error(t, n.ActionChanged(ctx, newAction(types.ActionStatusPending), ""))
	})
}

func TestClient(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/conversations.list", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		_, _ = w.Write([]byte(`{"ok":true,"channels":[
			{"id":"C0123ABCD","name":"ops-alerts","is_member":true},
			{"id":"C9999ZZZZ","name":"random","is_member":false}
		],"response_metadata":{"next_cursor":""}}`))
	})
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm())
		gt.Value(t, r.PostForm.Get("channel")).Equal("C0123ABCD")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C0123ABCD","ts":"1700000000.000100"}`))
	})
	mux.HandleFunc("/chat.update", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm())
		gt.Value(t, r.PostForm.Get("ts")).Equal("1700000000.000100")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C0123ABCD","ts":"1700000000.000100","text":""}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc, err := slack.New("xoxb-test", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()
	ctx := context.Background()

	t.Run("lists joined channels only", func(t *testing.T) {
		channels, err := svc.ListJoinedChannels(ctx)
		gt.NoError(t, err)
		gt.A(t, channels).Length(1)
		gt.Value(t, channels[0].Name).Equal("ops-alerts")
	})

	t.Run("resolves names through the cache", func(t *testing.T) {
		before := listCalls.Load()
		id, err := svc.ResolveChannelID(ctx, "#Ops Alerts")
		gt.NoError(t, err)
		gt.Value(t, id).Equal("C0123ABCD")

		id, err = svc.ResolveChannelID(ctx, "ops-alerts")
		gt.NoError(t, err)
		gt.Value(t, id).Equal("C0123ABCD")
		gt.Value(t, listCalls.Load()-before).Equal(int32(1))
	})

	t.Run("IDs are used as is", func(t *testing.T) {
		id, err := svc.ResolveChannelID(ctx, "C7777AAAA")
		gt.NoError(t, err)
		gt.Value(t, id).Equal("C7777AAAA")
	})

	t.Run("unknown channel", func(t *testing.T) {
		_, err := svc.ResolveChannelID(ctx, "#random")
		gt.Error(t, err)
	})

	t.Run("post and update", func(t *testing.T) {
		ts, err := svc.PostMessage(ctx, "C0123ABCD", nil, "hello")
		gt.NoError(t, err)
		gt.Value(t, ts).Equal("1700000000.000100")
		gt.NoError(t, svc.UpdateMessage(ctx, "C0123ABCD", ts, nil, "hello again"))
	})
}

func TestNew(t *testing.T) {
	_, err := slack.New("")
	gt.Error(t, err)
}
