package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aadee-inc/steward/pkg/domain/model"
	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/aadee-inc/steward/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is prepended to the status in every subject, giving
// subjects such as steward.actions.completed.
const DefaultSubjectPrefix = "steward.actions"

// ActionEvent is the JSON payload of a lifecycle event.
type ActionEvent struct {
	ActionID     string         `json:"action_id"`
	OrgID        string         `json:"org_id"`
	ActionType   string         `json:"action_type"`
	Status       string         `json:"status"`
	Previous     string         `json:"previous_status,omitempty"`
	Description  string         `json:"description"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Timestamp    int64          `json:"timestamp"`
}

// Conn is the part of a NATS connection the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher announces action lifecycle changes on NATS.
type Publisher struct {
	conn   Conn
	nc     *nats.Conn
	prefix string
	now    func() time.Time
}

// Option is a functional option for Publisher
type Option func(*Publisher)

func WithSubjectPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithClock replaces the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// Connect dials natsURL and returns a publisher owning the connection.
func Connect(ctx context.Context, natsURL string, opts ...Option) (*Publisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("steward"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to NATS", goerr.V("url", natsURL))
	}

	logging.From(ctx).Info("connected to NATS", "url", natsURL)

	p := NewPublisher(nc, opts...)
	p.nc = nc
	return p, nil
}

// NewPublisher wraps an existing connection. The caller keeps ownership.
func NewPublisher(conn Conn, opts ...Option) *Publisher {
	p := &Publisher{
		conn:   conn,
		prefix: DefaultSubjectPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subject returns the subject for a status.
func (p *Publisher) Subject(status types.ActionStatus) string {
	return p.prefix + "." + status.String()
}

// ActionChanged publishes the new state of action.
func (p *Publisher) ActionChanged(ctx context.Context, action *model.Action, previous types.ActionStatus) error {
	ev := ActionEvent{
		ActionID:     action.ID.String(),
		OrgID:        action.OrgID,
		ActionType:   action.Type.String(),
		Status:       action.Status.String(),
		Previous:     previous.String(),
		Description:  action.Description,
		Result:       action.Result,
		ErrorMessage: action.ErrorMessage,
		Timestamp:    p.now().Unix(),
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal action event", goerr.V("action_id", action.ID))
	}

	subject := p.Subject(action.Status)
	if err := p.conn.Publish(subject, data); err != nil {
		return goerr.Wrap(err, "failed to publish action event",
			goerr.V("action_id", action.ID), goerr.V("subject", subject))
	}

	logging.From(ctx).Debug("published action event", "subject", subject, "action_id", action.ID)
	return nil
}

// Close drains and closes a connection opened by Connect.
func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
	p.nc = nil
}

// IsConnected reports the state of a connection opened by Connect. A
// publisher over a caller owned connection is always reported connected.
func (p *Publisher) IsConnected() bool {
	if p.nc == nil {
		return p.conn != nil
	}
	return p.nc.IsConnected()
}
