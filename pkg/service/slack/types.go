package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service is the part of the Slack API the notifier needs
type Service interface {
	// ListJoinedChannels retrieves the public channels the bot has joined
	ListJoinedChannels(ctx context.Context) ([]Channel, error)

	// ResolveChannelID returns the ID of a channel given its ID, its name or
	// its "#name" form. The lookup is cached.
	ResolveChannelID(ctx context.Context, channel string) (string, error)

	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// The text parameter is used as a fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)

	// UpdateMessage updates an existing Block Kit message identified by channel and timestamp.
	UpdateMessage(ctx context.Context, channelID string, timestamp string, blocks []slack.Block, text string) error
}

// Channel represents a Slack channel
type Channel struct {
	ID   string
	Name string
}
