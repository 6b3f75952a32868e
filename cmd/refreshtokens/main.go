package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"jirabackend/clients/atlassian"
	slackclient "jirabackend/clients/slack"
	"jirabackend/config"
	"jirabackend/db/storage"
	"jirabackend/models"
	"jirabackend/services"
	"jirabackend/services/credentials"
	"jirabackend/services/oauth"
)

// Tokens expiring within this window are refreshed ahead of time
const refreshWindow = 15 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}
	config.SetupLogger(cfg)
	ctx := context.Background()

	repos, err := storage.Open(ctx, cfg.StorageConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open storage")
	}
	defer repos.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	atlassianClient := atlassian.NewAtlassianClient(
		httpClient,
		cfg.JiraConfig.ClientID,
		cfg.JiraConfig.ClientSecret,
		cfg.JiraConfig.RedirectURL,
		cfg.JiraConfig.Scopes,
		atlassian.DefaultEndpoints(),
	)
	credentialsService := credentials.NewCredentialsService(repos.Credentials)
	oauthService := oauth.NewOAuthService(
		atlassianClient,
		credentialsService,
		slackclient.NewSlackClient(cfg.SlackConfig.BotToken, httpClient, ""),
	)

	log.Info().Msg("🔄 Starting jira token refresh process")
	summary, err := refreshExpiring(ctx, credentialsService, oauthService, time.Now())
	if err != nil {
		repos.Close()
		log.Fatal().Err(err).Msg("❌ Failed to list jira credentials")
	}

	log.Info().
		Int("found", summary.Found).
		Int("refreshed", summary.Refreshed).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("✅ Token refresh process completed")

	if summary.Errors > 0 {
		repos.Close()
		os.Exit(1)
	}
}

type refreshSummary struct {
	Found     int
	Refreshed int
	Skipped   int
	Errors    int
}

func refreshExpiring(
	ctx context.Context,
	credentialsService services.CredentialsService,
	oauthService services.OAuthService,
	now time.Time,
) (refreshSummary, error) {
	all, err := credentialsService.List(ctx)
	if err != nil {
		return refreshSummary{}, err
	}

	summary := refreshSummary{Found: len(all)}
	for _, credential := range all {
		if !needsRefresh(credential, now) {
			summary.Skipped++
			continue
		}

		if _, err := oauthService.RefreshCredential(ctx, credential); err != nil {
			log.Error().Err(err).Str("user_id", credential.UserID).Msg("❌ Failed to refresh jira token")
			summary.Errors++
			continue
		}
		summary.Refreshed++
	}
	return summary, nil
}

func needsRefresh(credential *models.Credential, now time.Time) bool {
	if credential.RefreshToken == "" {
		log.Debug().Str("user_id", credential.UserID).Msg("⏭️ Skipping credential without refresh token")
		return false
	}
	if credential.ExpiresAt.IsZero() {
		return false
	}
	return credential.IsExpired(now.Add(refreshWindow))
}
