package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	slackclient "eztestbot/clients/slack"
	"eztestbot/models"
	"eztestbot/usecases/chat"
)

// SlackEventsHandler adapts the Slack Events API to the dispatcher. Plain
// channel messages feed the message cache; app mentions run as commands.
type SlackEventsHandler struct {
	signingSecret string
	slackClient   *slackclient.SlackClient
	chatUseCase   *chat.ChatUseCase
}

func NewSlackEventsHandler(
	signingSecret string,
	slackClient *slackclient.SlackClient,
	chatUseCase *chat.ChatUseCase,
) *SlackEventsHandler {
	return &SlackEventsHandler{
		signingSecret: signingSecret,
		slackClient:   slackClient,
		chatUseCase:   chatUseCase,
	}
}

// verifySlackSignature verifies the authenticity of a Slack webhook request
func (h *SlackEventsHandler) verifySlackSignature(r *http.Request, body []byte) error {
	// Extract headers
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")

	if timestamp == "" || signature == "" {
		return fmt.Errorf("missing required headers")
	}

	// Verify timestamp freshness (within 5 minutes)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp format: %v", err)
	}

	if time.Now().Unix()-ts > 300 { // 5 minutes
		return fmt.Errorf("request timestamp too old")
	}

	// Create signature base string: v0:timestamp:body
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))

	// Compute HMAC-SHA256
	mac := hmac.New(sha256.New, []byte(h.signingSecret))
	mac.Write([]byte(baseString))
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	// Secure comparison
	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

func (h *SlackEventsHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack event received from %s", r.RemoteAddr)

	// Read raw body for signature verification
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	// Verify Slack signature
	if err := h.verifySlackSignature(r, bodyBytes); err != nil {
		log.Printf("❌ Slack signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Parse JSON from body bytes
	var body map[string]any
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		log.Printf("❌ Failed to parse JSON body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	if body["type"] == "url_verification" {
		log.Printf("🔐 Slack URL verification challenge received")
		challenge, ok := body["challenge"].(string)
		if !ok {
			log.Printf("❌ Challenge not found in verification request")
			http.Error(w, "challenge not found", http.StatusBadRequest)
			return
		}
		log.Printf("✅ Responding to Slack URL verification challenge")
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(challenge)); err != nil {
			log.Printf("❌ Failed to write challenge response: %v", err)
		}
		return
	}

	if body["type"] != "event_callback" {
		log.Printf("📋 Non-event callback received: %s", body["type"])
		w.WriteHeader(http.StatusOK)
		return
	}

	teamID, ok := body["team_id"].(string)
	if !ok || teamID == "" {
		log.Printf("❌ Team ID not found in Slack event")
		http.Error(w, "team_id not found", http.StatusBadRequest)
		return
	}

	event, ok := body["event"].(map[string]any)
	if !ok {
		log.Printf("❌ Event payload not found in event callback")
		http.Error(w, "event not found", http.StatusBadRequest)
		return
	}
	eventType, _ := event["type"].(string)

	switch eventType {
	case "app_mention":
		if err := h.handleMessage(r.Context(), event, teamID, true); err != nil {
			log.Printf("❌ Failed to handle app mention: %v", err)
		}
	case "message":
		if err := h.handleMessage(r.Context(), event, teamID, false); err != nil {
			log.Printf("❌ Failed to handle channel message: %v", err)
		}
	default:
		log.Printf("📋 Ignoring unsupported event type: %s", eventType)
	}

	w.WriteHeader(http.StatusOK)
}

// handleMessage maps one Slack message or mention to a dispatcher event.
// botMentioned distinguishes app_mention deliveries, where Slack has already
// matched the bot's mention entity.
func (h *SlackEventsHandler) handleMessage(
	ctx context.Context,
	event map[string]any,
	teamID string,
	botMentioned bool,
) error {
	// bot echoes and message edits carry a subtype and are not user turns
	if subtype, ok := event["subtype"].(string); ok && subtype != "" {
		log.Printf("📋 Ignoring message with subtype: %s", subtype)
		return nil
	}
	if botID, ok := event["bot_id"].(string); ok && botID != "" {
		return nil
	}

	channel, _ := event["channel"].(string)
	user, _ := event["user"].(string)
	text, _ := event["text"].(string)
	timestamp, _ := event["ts"].(string)
	if channel == "" || user == "" {
		return fmt.Errorf("message event missing channel or user")
	}

	log.Printf("📨 Slack message from %s in %s (mention=%t)", user, channel, botMentioned)

	sender, err := h.slackClient.GetExternalIdentity(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to resolve Slack sender: %w", err)
	}

	messageEvent := models.MessageEvent{
		Platform:     models.ChatPlatformSlack,
		ChannelID:    channel,
		TeamID:       teamID,
		MessageID:    timestamp,
		Text:         text,
		BotMentioned: botMentioned,
		Sender:       sender,
	}

	if _, err := h.chatUseCase.ProcessMessageEvent(ctx, messageEvent); err != nil {
		return fmt.Errorf("failed to process Slack message event: %w", err)
	}
	return nil
}

func (h *SlackEventsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack webhook endpoints")

	router.HandleFunc("/slack/events", h.HandleSlackEvent).Methods("POST")
	log.Printf("✅ POST /slack/events endpoint registered")
}
