package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"eztestbot/clients/discord"
	domainclient "eztestbot/clients/domain"
	"eztestbot/clients/msteams"
	slackclient "eztestbot/clients/slack"
	"eztestbot/config"
	"eztestbot/db"
	"eztestbot/handlers"
	"eztestbot/middleware"
	"eztestbot/models"
	"eztestbot/services/channelbindings"
	"eztestbot/services/identity"
	"eztestbot/services/messagecache"
	"eztestbot/usecases/chat"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repository with shared connection
	bindingsRepo := db.NewPostgresChannelBindingsRepository(dbConn, cfg.DatabaseSchema)

	// Domain API client, shared by every service that talks to the backend
	domainClient := domainclient.NewDomainHTTPClient(
		&http.Client{Timeout: 30 * time.Second},
		cfg.DomainAPIConfig.BaseURL,
		cfg.DomainAPIConfig.APIToken,
	)

	roleMatrix := identity.DefaultRoleMatrix()
	if cfg.RolePermissionsFile != "" {
		roleMatrix, err = identity.LoadRoleMatrix(cfg.RolePermissionsFile)
		if err != nil {
			return err
		}
		log.Printf("✅ Loaded role permission matrix from %s", cfg.RolePermissionsFile)
	}

	bindingsService := channelbindings.NewChannelBindingsService(bindingsRepo, domainClient)
	identityService := identity.NewIdentityService(domainClient, roleMatrix)

	messageCache := messagecache.NewMessageCacheService(cfg.CacheTTL, cfg.CacheSweepInterval)
	messageCache.Start()
	defer messageCache.Stop()

	chatUseCase := chat.NewChatUseCase(cfg.BotName, messageCache, bindingsService, identityService, domainClient)

	// Create a new router
	router := mux.NewRouter()

	// Wire the connectors that are configured
	if cfg.SlackConfig.IsConfigured() {
		slackSDKClient := slackclient.NewSlackClient(cfg.SlackConfig.BotToken)
		botUserID, err := slackSDKClient.AuthTest()
		if err != nil {
			return err
		}
		log.Printf("✅ Slack bot authenticated as %s", botUserID)

		chatUseCase.RegisterMessenger(models.ChatPlatformSlack, slackSDKClient)
		slackHandler := handlers.NewSlackEventsHandler(cfg.SlackConfig.SigningSecret, slackSDKClient, chatUseCase)
		slackHandler.SetupEndpoints(router)
	}

	var discordHandler *handlers.DiscordEventsHandler
	if cfg.DiscordConfig.IsConfigured() {
		discordHandler, err = handlers.NewDiscordEventsHandler(cfg.DiscordConfig.BotToken, chatUseCase)
		if err != nil {
			return err
		}
		if err := discordHandler.StartBot(); err != nil {
			return err
		}
		defer discordHandler.StopBot()

		chatUseCase.RegisterMessenger(models.ChatPlatformDiscord, discord.NewDiscordMessenger(discordHandler.Session()))
	}

	if cfg.ChatWebhookConfig.IsConfigured() {
		teamsMessenger := msteams.NewTeamsMessenger(
			&http.Client{Timeout: 30 * time.Second},
			cfg.ChatWebhookConfig.ServiceURL,
			cfg.ChatWebhookConfig.APIToken,
		)
		chatUseCase.RegisterMessenger(models.ChatPlatformWebhook, teamsMessenger)

		webhookHandler := handlers.NewChatWebhookHandler(cfg.ChatWebhookConfig.SharedSecret, chatUseCase)
		webhookHandler.SetupEndpoints(router)
	}

	// Admin API for binding inspection and cleanup
	authMiddleware := middleware.NewAdminAuthMiddleware(cfg.AdminAPIToken)
	bindingsHandler := handlers.NewBindingsAPIHandler(bindingsService)
	bindingsHandler.SetupEndpoints(router, authMiddleware)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.CORSAllowedOrigins},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsHandler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("🚀 %s server starting on port %s", cfg.BotName, cfg.Port)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		log.Printf("🛑 Shutdown signal received: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("⚠️ Graceful shutdown failed, forcing close: %v", err)
			server.Close()
		}
	}

	log.Printf("✅ Server stopped cleanly")
	return nil
}
