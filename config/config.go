package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultJiraScopes are the scopes every login requests
var DefaultJiraScopes = []string{"read:jira-work", "write:jira-work", "read:jira-user"}

type SlackConfig struct {
	BotToken        string
	SigningSecret   string
	AlertWebhookURL string `validate:"omitempty,url"`
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.BotToken != "" && c.SigningSecret != ""
}

type DiscordConfig struct {
	BotToken string
}

func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != ""
}

type JiraConfig struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string `validate:"omitempty,url"`
	Scopes        []string
	WebhookSecret string
}

// IsConfigured returns true if the OAuth app credentials are present.
// WebhookSecret is optional; without it the webhook endpoint is unauthenticated.
func (c JiraConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverBadger   = "badger"
)

type StorageConfig struct {
	Driver         string `validate:"oneof=postgres badger"`
	DatabaseURL    string `validate:"required_if=Driver postgres"`
	DatabaseSchema string `validate:"required_if=Driver postgres"`
	BadgerPath     string `validate:"required_if=Driver badger"`
}

type AppConfig struct {
	Port               string `validate:"required,numeric"`
	CORSAllowedOrigins string
	Environment        string
	ServerLogsURL      string `validate:"omitempty,url"`
	LogLevel           string `validate:"oneof=trace debug info warn error"`
	LogFormat          string `validate:"oneof=console json"`
	SubscriptionsFile  string
	UseStrictConfig    bool // If true, error when Slack or Jira is not fully configured

	SlackConfig   SlackConfig
	DiscordConfig DiscordConfig
	JiraConfig    JiraConfig
	StorageConfig StorageConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ Could not load .env file, continuing with system env vars")
	}

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:      os.Getenv("SERVER_LOGS_URL"),
		LogLevel:           strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnvWithDefault("LOG_FORMAT", "console")),
		SubscriptionsFile:  os.Getenv("SUBSCRIPTIONS_FILE"),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		SlackConfig: SlackConfig{
			BotToken:        os.Getenv("SLACK_BOT_TOKEN"),
			SigningSecret:   os.Getenv("SLACK_SIGNING_SECRET"),
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},

		DiscordConfig: DiscordConfig{
			BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		},

		JiraConfig: JiraConfig{
			ClientID:      os.Getenv("JIRA_CLIENT_ID"),
			ClientSecret:  os.Getenv("JIRA_CLIENT_SECRET"),
			RedirectURL:   os.Getenv("JIRA_REDIRECT_URL"),
			Scopes:        parseScopes(os.Getenv("JIRA_OAUTH_SCOPES")),
			WebhookSecret: os.Getenv("JIRA_WEBHOOK_SECRET"),
		},

		StorageConfig: loadStorageConfig(),
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if config.SlackConfig.IsConfigured() {
		log.Info().Msg("✅ Slack integration configured")
	} else {
		log.Warn().Msg("⚠️ Slack integration not configured - slash commands and notifications will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("slack integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.JiraConfig.IsConfigured() {
		log.Info().Msg("✅ Jira OAuth app configured")
	} else {
		log.Warn().Msg("⚠️ Jira OAuth app not configured - login will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("jira oauth app is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.JiraConfig.WebhookSecret == "" {
		log.Warn().Msg("⚠️ JIRA_WEBHOOK_SECRET not set - webhook requests are accepted unauthenticated")
	}

	// Discord only carries seeded subscriptions, so it never fails strict mode
	if config.DiscordConfig.IsConfigured() {
		log.Info().Msg("✅ Discord delivery configured")
	} else {
		log.Info().Msg("Discord delivery not configured - discord subscriptions will fail to deliver")
	}

	return config, nil
}

// LoadStorageConfig reads only the storage settings. Used by repository tests.
func LoadStorageConfig() (*StorageConfig, error) {
	cfg := loadStorageConfig()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}
	return &cfg, nil
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:         strings.ToLower(getEnvWithDefault("STORAGE_DRIVER", StorageDriverPostgres)),
		DatabaseURL:    os.Getenv("DB_URL"),
		DatabaseSchema: os.Getenv("DB_SCHEMA"),
		BadgerPath:     getEnvWithDefault("BADGER_PATH", "./data/badger"),
	}
}

// parseScopes accepts space or comma separated scopes and always keeps the defaults
func parseScopes(raw string) []string {
	scopes := append([]string{}, DefaultJiraScopes...)
	seen := map[string]bool{}
	for _, s := range scopes {
		seen[s] = true
	}

	for _, s := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		if !seen[s] {
			seen[s] = true
			scopes = append(scopes, s)
		}
	}
	return scopes
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
