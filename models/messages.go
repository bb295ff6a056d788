package models

import "time"

// ChatPlatform identifies which connector produced an inbound event
type ChatPlatform string

const (
	ChatPlatformWebhook ChatPlatform = "webhook"
	ChatPlatformSlack   ChatPlatform = "slack"
	ChatPlatformDiscord ChatPlatform = "discord"
)

// MessageEvent is the normalized inbound chat event every connector produces.
// Only message-type activities reach the dispatcher.
type MessageEvent struct {
	Platform     ChatPlatform
	ChannelID    string
	TeamID       string
	MessageID    string
	Text         string
	Sender       ExternalIdentity
	BotMentioned bool // set by connectors that carry explicit mention entities
}

// CachedMessage is the most recent non-command message for one (channel, user) key
type CachedMessage struct {
	Text      string    `json:"text"`
	MessageID string    `json:"message_id,omitempty"`
	StoredAt  time.Time `json:"stored_at"`
}
