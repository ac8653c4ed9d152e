package types

import "fmt"

// ActionStatus is the lifecycle state of an Action.
type ActionStatus string

const (
	ActionStatusPending   ActionStatus = "pending"
	ActionStatusApproved  ActionStatus = "approved"
	ActionStatusRejected  ActionStatus = "rejected"
	ActionStatusExecuting ActionStatus = "executing"
	ActionStatusCompleted ActionStatus = "completed"
	ActionStatusFailed    ActionStatus = "failed"
)

// AllActionStatuses returns all valid action statuses
func AllActionStatuses() []ActionStatus {
	return []ActionStatus{
		ActionStatusPending,
		ActionStatusApproved,
		ActionStatusRejected,
		ActionStatusExecuting,
		ActionStatusCompleted,
		ActionStatusFailed,
	}
}

// actionTransitions is the complete transition graph. A status missing from
// the map has no outgoing edges.
var actionTransitions = map[ActionStatus][]ActionStatus{
	ActionStatusPending:   {ActionStatusApproved, ActionStatusRejected},
	ActionStatusApproved:  {ActionStatusExecuting},
	ActionStatusExecuting: {ActionStatusCompleted, ActionStatusFailed},
}

// IsValid checks if the action status is valid
func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionStatusPending,
		ActionStatusApproved,
		ActionStatusRejected,
		ActionStatusExecuting,
		ActionStatusCompleted,
		ActionStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s ActionStatus) IsTerminal() bool {
	return s.IsValid() && len(actionTransitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is an edge of the lifecycle graph.
func (s ActionStatus) CanTransitionTo(next ActionStatus) bool {
	for _, to := range actionTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// String returns the string representation of the action status
func (s ActionStatus) String() string {
	return string(s)
}

// ParseActionStatus parses a string into an ActionStatus
func ParseActionStatus(s string) (ActionStatus, error) {
	status := ActionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid action status: %s", s)
	}
	return status, nil
}
