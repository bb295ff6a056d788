package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"eztestbot/models"
	"eztestbot/usecases/chat"
)

// DiscordEventsHandler owns the Discord gateway session and feeds guild
// messages into the dispatcher.
type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	chatUseCase      *chat.ChatUseCase
	botUserID        string
}

func NewDiscordEventsHandler(botToken string, chatUseCase *chat.ChatUseCase) (*DiscordEventsHandler, error) {
	// Create a new Discord session using the provided bot token
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	handler := &DiscordEventsHandler{
		discordSDKClient: session,
		chatUseCase:      chatUseCase,
	}

	// Register event handlers
	session.AddHandler(handler.handleMessageCreatedEvent)

	// Set intents to receive message events and their content
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return handler, nil
}

// Session exposes the open gateway session so the reply messenger can share it
func (h *DiscordEventsHandler) Session() *discordgo.Session {
	return h.discordSDKClient
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	// Open a websocket connection to Discord and begin listening
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	if h.discordSDKClient.State != nil && h.discordSDKClient.State.User != nil {
		h.botUserID = h.discordSDKClient.State.User.ID
	}

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordEventsHandler) StopBot() {
	h.discordSDKClient.Close()
}

// handleMessageCreatedEvent handles incoming Discord messages
func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	// the bot's own replies come back through the gateway too
	if m.Author == nil || m.Author.Bot {
		return
	}

	log.Printf("📨 Discord message received from %s in guild %s, channel %s",
		m.Author.Username, m.GuildID, m.ChannelID)

	ctx := context.Background()
	event := h.mapToMessageEvent(m)

	if _, err := h.chatUseCase.ProcessMessageEvent(ctx, event); err != nil {
		log.Printf("❌ Failed to process Discord message: %v", err)
	}
}

// mapToMessageEvent maps a Discord SDK message event to the dispatcher model.
// Discord exposes no email, so the username stands in as the principal name
// for identity resolution.
func (h *DiscordEventsHandler) mapToMessageEvent(m *discordgo.MessageCreate) models.MessageEvent {
	botMentioned := false
	for _, mentionedUser := range m.Mentions {
		if h.botUserID != "" && mentionedUser.ID == h.botUserID {
			botMentioned = true
			break
		}
	}

	displayName := m.Author.GlobalName
	if displayName == "" {
		displayName = m.Author.Username
	}

	return models.MessageEvent{
		Platform:     models.ChatPlatformDiscord,
		ChannelID:    m.ChannelID,
		TeamID:       m.GuildID,
		MessageID:    m.ID,
		Text:         m.Content,
		BotMentioned: botMentioned,
		Sender: models.ExternalIdentity{
			ObjectID:      m.Author.ID,
			PrincipalName: m.Author.Username,
			DisplayName:   displayName,
		},
	}
}
