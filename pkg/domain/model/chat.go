package model

import "time"

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// ChatMessage is one entry of a session history.
type ChatMessage struct {
	ID        string
	OrgID     string
	SessionID string
	Role      ChatRole
	Content   string
	ActionID  ActionID
	CreatedAt time.Time
}

// ChatReply is the assistant's answer to one inbound message.
type ChatReply struct {
	Reply  string
	Intent string
	// Actions are the PENDING actions created for this message.
	Actions []*Action
}
