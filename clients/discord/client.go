package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordMessenger sends replies through an open discordgo session. The
// session itself is owned by the Discord events handler.
type DiscordMessenger struct {
	session *discordgo.Session
}

func NewDiscordMessenger(session *discordgo.Session) *DiscordMessenger {
	return &DiscordMessenger{session: session}
}

// PostMessage sends a plain text reply to the originating channel.
// discordgo does not take a context; the session handles its own timeouts.
func (m *DiscordMessenger) PostMessage(_ context.Context, channelID, text string) error {
	if _, err := m.session.ChannelMessageSend(channelID, text); err != nil {
		return fmt.Errorf("failed to send Discord message: %w", err)
	}
	return nil
}
