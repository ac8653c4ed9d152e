package model

import (
	"time"

	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ActionTransition describes one status change. Repositories apply it as a
// compare-and-swap: it only takes effect while the stored status equals From.
type ActionTransition struct {
	From types.ActionStatus
	To   types.ActionStatus
	At   time.Time

	// Actor is recorded as approver for review transitions and as executor
	// for the claim.
	Actor string
	Note  string

	Result       map[string]any
	ErrorMessage string
}

// Validate checks the transition against the lifecycle graph and the
// payload rules of its target state.
func (t ActionTransition) Validate() error {
	if !t.From.CanTransitionTo(t.To) {
		return goerr.Wrap(ErrInvalidTransition, "transition is not allowed",
			goerr.V("from", t.From), goerr.V("to", t.To))
	}
	if t.At.IsZero() {
		return goerr.New("transition time is required")
	}

	switch t.To {
	case types.ActionStatusApproved, types.ActionStatusRejected, types.ActionStatusExecuting:
		if t.Actor == "" {
			return goerr.New("transition actor is required", goerr.V("to", t.To))
		}
	case types.ActionStatusCompleted:
		if t.ErrorMessage != "" {
			return goerr.New("completed transition cannot carry an error message")
		}
	case types.ActionStatusFailed:
		if t.Result != nil {
			return goerr.New("failed transition cannot carry a result")
		}
		if t.ErrorMessage == "" {
			return goerr.New("failed transition requires an error message")
		}
	}
	return nil
}

// Apply mutates a according to t. It returns ErrStatusMismatch when a is not
// in t.From and leaves a unchanged on any error.
func (t ActionTransition) Apply(a *Action) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if a.Status != t.From {
		return goerr.Wrap(ErrStatusMismatch, "action is not in the expected status",
			goerr.V(ActionIDKey, a.ID), goerr.V("expected", t.From), goerr.V("actual", a.Status))
	}
	if t.To == types.ActionStatusExecuting && a.ApprovedAt == nil {
		return goerr.Wrap(ErrInvalidTransition, "action has never been approved", goerr.V(ActionIDKey, a.ID))
	}

	at := t.At.UTC()
	switch t.To {
	case types.ActionStatusApproved, types.ActionStatusRejected:
		a.ApprovedBy = t.Actor
		a.ApprovedAt = &at
		a.ReviewNote = t.Note
	case types.ActionStatusExecuting:
		a.ExecutedBy = t.Actor
		a.ExecutedAt = &at
	case types.ActionStatusCompleted:
		a.Result = copyMap(t.Result)
		if a.Result == nil {
			a.Result = map[string]any{}
		}
	case types.ActionStatusFailed:
		a.ErrorMessage = t.ErrorMessage
	}

	a.Status = t.To
	a.UpdatedAt = at
	return nil
}
