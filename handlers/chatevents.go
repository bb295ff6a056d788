// Package handlers adapts the inbound surfaces (generic chat webhook, Slack
// Events API, Discord gateway, admin HTTP API) to the dispatcher.
package handlers

import (
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

	"eztestbot/models"
	"eztestbot/usecases/chat"
)

// ChatWebhookHandler receives message activities from a Teams-style chat
// service over a signed webhook and feeds them into the dispatcher.
type ChatWebhookHandler struct {
	sharedSecret string
	chatUseCase  *chat.ChatUseCase
}

func NewChatWebhookHandler(sharedSecret string, chatUseCase *chat.ChatUseCase) *ChatWebhookHandler {
	return &ChatWebhookHandler{
		sharedSecret: sharedSecret,
		chatUseCase:  chatUseCase,
	}
}

// inboundActivity is the wire shape the chat service posts. Only message
// activities carry the fields the dispatcher needs.
type inboundActivity struct {
	Type         string `json:"type"`
	ID           string `json:"id"`
	Text         string `json:"text"`
	BotMentioned bool   `json:"botMentioned"`
	From         struct {
		ObjectID      string `json:"id"`
		Email         string `json:"email"`
		PrincipalName string `json:"userPrincipalName"`
		DisplayName   string `json:"name"`
	} `json:"from"`
	Conversation struct {
		ID string `json:"id"`
	} `json:"conversation"`
	ChannelData struct {
		TeamID string `json:"teamId"`
	} `json:"channelData"`
}

// verifySignature checks the HMAC-SHA256 signature over timestamp and body
func (h *ChatWebhookHandler) verifySignature(r *http.Request, body []byte) error {
	// Extract headers
	timestamp := r.Header.Get("X-Chat-Request-Timestamp")
	signature := r.Header.Get("X-Chat-Signature")

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
	mac := hmac.New(sha256.New, []byte(h.sharedSecret))
	mac.Write([]byte(baseString))
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	// Secure comparison
	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

func (h *ChatWebhookHandler) HandleChatEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Chat webhook event received from %s", r.RemoteAddr)

	// Read raw body for signature verification
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	// Verify webhook signature
	if err := h.verifySignature(r, bodyBytes); err != nil {
		log.Printf("❌ Chat webhook signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var activity inboundActivity
	if err := json.Unmarshal(bodyBytes, &activity); err != nil {
		log.Printf("❌ Failed to parse activity body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	if activity.Type != "message" {
		log.Printf("📋 Non-message activity received: %s", activity.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	if activity.Conversation.ID == "" || activity.From.ObjectID == "" {
		log.Printf("❌ Message activity missing conversation or sender")
		http.Error(w, "conversation or sender not found", http.StatusBadRequest)
		return
	}

	event := models.MessageEvent{
		Platform:     models.ChatPlatformWebhook,
		ChannelID:    activity.Conversation.ID,
		TeamID:       activity.ChannelData.TeamID,
		MessageID:    activity.ID,
		Text:         activity.Text,
		BotMentioned: activity.BotMentioned,
		Sender: models.ExternalIdentity{
			ObjectID:      activity.From.ObjectID,
			Email:         activity.From.Email,
			PrincipalName: activity.From.PrincipalName,
			DisplayName:   activity.From.DisplayName,
		},
	}

	// Event delivery is acknowledged regardless of dispatch outcome; command
	// failures answer in the channel, not over the webhook
	if _, err := h.chatUseCase.ProcessMessageEvent(r.Context(), event); err != nil {
		log.Printf("❌ Failed to process chat webhook message: %v", err)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *ChatWebhookHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering chat webhook endpoints")

	router.HandleFunc("/chat/events", h.HandleChatEvent).Methods("POST")
	log.Printf("✅ POST /chat/events endpoint registered")
}
