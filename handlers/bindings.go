package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"eztestbot/core"
	"eztestbot/middleware"
	"eztestbot/models"
	"eztestbot/services"
)

// BindingsAPIHandler exposes the channel binding registry over the admin API
type BindingsAPIHandler struct {
	bindingsService services.ChannelBindingsService
}

func NewBindingsAPIHandler(bindingsService services.ChannelBindingsService) *BindingsAPIHandler {
	return &BindingsAPIHandler{
		bindingsService: bindingsService,
	}
}

type ChannelBindingResponse struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channel_id"`
	TeamID       string    `json:"team_id"`
	ProjectID    string    `json:"project_id"`
	ConfiguredBy string    `json:"configured_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toChannelBindingResponse(binding *models.ChannelBinding) ChannelBindingResponse {
	return ChannelBindingResponse{
		ID:           binding.ID,
		ChannelID:    binding.ChannelID,
		TeamID:       binding.TeamID,
		ProjectID:    binding.ProjectID,
		ConfiguredBy: binding.ConfiguredBy,
		CreatedAt:    binding.CreatedAt,
		UpdatedAt:    binding.UpdatedAt,
	}
}

func (h *BindingsAPIHandler) HandleListBindings(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List channel bindings request received from %s", r.RemoteAddr)

	bindings, err := h.bindingsService.ListBindings(r.Context())
	if err != nil {
		log.Printf("❌ Failed to list channel bindings: %v", err)
		http.Error(w, "failed to list channel bindings", http.StatusInternalServerError)
		return
	}

	response := make([]ChannelBindingResponse, len(bindings))
	for i, binding := range bindings {
		response[i] = toChannelBindingResponse(binding)
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

func (h *BindingsAPIHandler) HandleDeleteBinding(w http.ResponseWriter, r *http.Request) {
	channelID := mux.Vars(r)["channelID"]
	log.Printf("🗑️ Delete channel binding request received for channel %s", channelID)

	if err := h.bindingsService.UnbindChannel(r.Context(), channelID); err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "channel binding not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ Failed to delete channel binding: %v", err)
		http.Error(w, "failed to delete channel binding", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Channel binding deleted for channel %s", channelID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *BindingsAPIHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to write JSON response: %v", err)
	}
}

func (h *BindingsAPIHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.AdminAuthMiddleware) {
	log.Printf("🚀 Registering admin bindings endpoints")

	router.HandleFunc("/api/bindings", authMiddleware.WithAuth(h.HandleListBindings)).Methods("GET")
	router.HandleFunc("/api/bindings/{channelID}", authMiddleware.WithAuth(h.HandleDeleteBinding)).Methods("DELETE")
	log.Printf("✅ Admin bindings endpoints registered")
}
