package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type SlackConfig struct {
	SigningSecret string
	BotToken      string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.SigningSecret != "" &&
		c.BotToken != ""
}

type DiscordConfig struct {
	BotToken string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != ""
}

type ChatWebhookConfig struct {
	SharedSecret string
	ServiceURL   string
	APIToken     string
}

// IsConfigured returns true if all required webhook connector configuration is present.
// ServiceURL and APIToken power the reply path; without them the connector
// still accepts events but cannot answer.
func (c ChatWebhookConfig) IsConfigured() bool {
	return c.SharedSecret != "" &&
		c.ServiceURL != "" &&
		c.APIToken != ""
}

type DomainAPIConfig struct {
	BaseURL  string
	APIToken string
}

// IsConfigured returns true if all required domain API configuration is present
func (c DomainAPIConfig) IsConfigured() bool {
	return c.BaseURL != "" &&
		c.APIToken != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	BotName            string // Optional with default "EZTest"
	AdminAPIToken      string
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	// Message cache tuning
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// Optional role matrix override file
	RolePermissionsFile string

	// Integration configurations (grouped)
	DomainAPIConfig   DomainAPIConfig
	SlackConfig       SlackConfig
	DiscordConfig     DiscordConfig
	ChatWebhookConfig ChatWebhookConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	adminAPIToken, err := getEnvRequired("ADMIN_API_TOKEN")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := getEnvMinutes("CACHE_TTL_MINUTES", 10)
	if err != nil {
		return nil, err
	}
	cacheSweep, err := getEnvMinutes("CACHE_SWEEP_MINUTES", 5)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		// Core configuration
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		BotName:            getEnvWithDefault("BOT_NAME", "EZTest"),
		AdminAPIToken:      adminAPIToken,
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		CacheTTL:           cacheTTL,
		CacheSweepInterval: cacheSweep,

		RolePermissionsFile: os.Getenv("ROLE_PERMISSIONS_FILE"),

		// Domain API configuration (required for every command surface)
		DomainAPIConfig: DomainAPIConfig{
			BaseURL:  os.Getenv("DOMAIN_API_URL"),
			APIToken: os.Getenv("DOMAIN_API_TOKEN"),
		},

		// Slack configuration (optional)
		SlackConfig: SlackConfig{
			SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
			BotToken:      os.Getenv("SLACK_BOT_TOKEN"),
		},

		// Discord configuration (optional)
		DiscordConfig: DiscordConfig{
			BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		},

		// Generic chat webhook configuration (optional)
		ChatWebhookConfig: ChatWebhookConfig{
			SharedSecret: os.Getenv("CHAT_WEBHOOK_SECRET"),
			ServiceURL:   os.Getenv("CHAT_SERVICE_URL"),
			APIToken:     os.Getenv("CHAT_SERVICE_TOKEN"),
		},
	}

	// The domain API is not an integration to toggle - without it no command
	// can complete
	if !config.DomainAPIConfig.IsConfigured() {
		return nil, fmt.Errorf("domain API is not fully configured (DOMAIN_API_URL, DOMAIN_API_TOKEN)")
	}

	// Log which integrations are configured
	if config.SlackConfig.IsConfigured() {
		log.Printf("✅ Slack integration configured")
	} else {
		log.Printf("⚠️ Slack integration not configured - Slack features will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("slack integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.DiscordConfig.IsConfigured() {
		log.Printf("✅ Discord integration configured")
	} else {
		log.Printf("⚠️ Discord integration not configured - Discord features will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("discord integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.ChatWebhookConfig.IsConfigured() {
		log.Printf("✅ Chat webhook integration configured")
	} else {
		log.Printf("⚠️ Chat webhook integration not configured - webhook features will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("chat webhook integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvMinutes(key string, defaultMinutes int) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(defaultMinutes) * time.Minute, nil
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return time.Duration(minutes) * time.Minute, nil
}
