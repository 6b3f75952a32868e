package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"jirabackend/clients"
	"jirabackend/clients/atlassian"
	discordclient "jirabackend/clients/discord"
	jiraclient "jirabackend/clients/jira"
	slackclient "jirabackend/clients/slack"
	"jirabackend/config"
	"jirabackend/db/storage"
	"jirabackend/handlers"
	"jirabackend/middleware"
	"jirabackend/models"
	"jirabackend/services/credentials"
	"jirabackend/services/issues"
	"jirabackend/services/notifications"
	"jirabackend/services/oauth"
	"jirabackend/services/subscriptions"
	jirausecase "jirabackend/usecases/jira"
)

const httpClientTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("❌ Fatal error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	config.SetupLogger(cfg)
	ctx := context.Background()

	httpClient := &http.Client{Timeout: httpClientTimeout}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "jirabackend",
		LogsURL:     cfg.ServerLogsURL,
	}, httpClient)

	repos, err := storage.Open(ctx, cfg.StorageConfig)
	if err != nil {
		return err
	}
	defer repos.Close()

	slackClient := slackclient.NewSlackClient(cfg.SlackConfig.BotToken, httpClient, "")
	messengers := map[models.ChannelType]clients.Messenger{
		models.ChannelTypeSlack: slackClient,
	}
	if cfg.DiscordConfig.IsConfigured() {
		discordClient, err := discordclient.NewDiscordClient(httpClient, cfg.DiscordConfig.BotToken)
		if err != nil {
			return err
		}
		messengers[models.ChannelTypeDiscord] = discordClient
		log.Info().Msg("✅ Discord delivery enabled")
	}

	atlassianClient := atlassian.NewAtlassianClient(
		httpClient,
		cfg.JiraConfig.ClientID,
		cfg.JiraConfig.ClientSecret,
		cfg.JiraConfig.RedirectURL,
		cfg.JiraConfig.Scopes,
		atlassian.DefaultEndpoints(),
	)
	jiraClient := jiraclient.NewJiraClient(httpClient, jiraclient.DefaultAPIBaseURL)

	credentialsService := credentials.NewCredentialsService(repos.Credentials)
	oauthService := oauth.NewOAuthService(atlassianClient, credentialsService, slackClient)
	subscriptionsService := subscriptions.NewSubscriptionsService(repos.ChannelSubscriptions, repos.UserSubscriptions)
	notificationsService := notifications.NewNotificationsService(subscriptionsService, messengers, models.ChannelTypeSlack)
	issuesService := issues.NewIssuesService(jiraClient, slackClient)

	if cfg.SubscriptionsFile != "" {
		count, err := subscriptionsService.LoadSeedFile(ctx, cfg.SubscriptionsFile)
		if err != nil {
			return err
		}
		log.Info().Int("count", count).Str("file", cfg.SubscriptionsFile).Msg("✅ Loaded subscription seed file")
	}

	jiraUseCase := jirausecase.NewJiraUseCase(slackClient, oauthService, issuesService, subscriptionsService)

	router := mux.NewRouter()
	handlers.NewJiraWebhookHandler(notificationsService, cfg.JiraConfig.WebhookSecret).SetupEndpoints(router)
	handlers.NewOAuthCallbackHandler(jiraUseCase).SetupEndpoints(router)
	handlers.NewSlackHandler(cfg.SlackConfig.SigningSecret, jiraUseCase, alertMiddleware.Go).SetupEndpoints(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Error().Err(err).Msg("❌ Failed to write health check response")
		}
	}).Methods("GET")

	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Msgf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("❌ Server error")
		}
	}()

	<-stop
	log.Info().Msg("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("❌ Server shutdown error")
		return err
	}

	log.Info().Msg("✅ Server stopped gracefully")
	return nil
}
