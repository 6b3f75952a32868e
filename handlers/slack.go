package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"jirabackend/models"
	"jirabackend/usecases"
)

const JiraSlashCommand = "/jira"

// BackgroundRunner runs work that continues after Slack has been answered
type BackgroundRunner func(taskName string, task func() error)

type SlackHandler struct {
	signingSecret string
	jiraUseCase   usecases.JiraUseCaseInterface
	runBackground BackgroundRunner
}

func NewSlackHandler(signingSecret string, jiraUseCase usecases.JiraUseCaseInterface, runBackground BackgroundRunner) *SlackHandler {
	return &SlackHandler{
		signingSecret: signingSecret,
		jiraUseCase:   jiraUseCase,
		runBackground: runBackground,
	}
}

// verifyRequest checks the Slack signature and leaves the body readable again
func (h *SlackHandler) verifyRequest(w http.ResponseWriter, r *http.Request) bool {
	var buf bytes.Buffer
	tee := io.TeeReader(r.Body, &buf)

	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Invalid Slack secret verifier")
		http.Error(w, "invalid secret verifier", http.StatusUnauthorized)
		return false
	}
	if _, err := io.Copy(&verifier, tee); err != nil {
		log.Error().Err(err).Msg("❌ Failed to read Slack request body")
		http.Error(w, "failed to read body", http.StatusInternalServerError)
		return false
	}
	if err := verifier.Ensure(); err != nil {
		log.Warn().Err(err).Msg("⚠️ Slack signature verification failed")
		http.Error(w, "signature verification failed", http.StatusUnauthorized)
		return false
	}

	r.Body = io.NopCloser(&buf)
	return true
}

func (h *SlackHandler) HandleSlackCommand(w http.ResponseWriter, r *http.Request) {
	if !h.verifyRequest(w, r) {
		return
	}

	command, err := slack.SlashCommandParse(r)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to parse slash command")
		http.Error(w, "failed to parse slash command", http.StatusBadRequest)
		return
	}

	if command.Command != JiraSlashCommand {
		log.Warn().Str("command", command.Command).Msg("⚠️ Unknown slash command")
		w.WriteHeader(http.StatusOK)
		return
	}

	cmd := models.SlashCommand{
		UserID:    command.UserID,
		UserName:  command.UserName,
		ChannelID: command.ChannelID,
		TeamID:    command.TeamID,
		TriggerID: command.TriggerID,
		Text:      command.Text,
	}
	log.Info().Str("user_id", cmd.UserID).Str("channel_id", cmd.ChannelID).Str("text", cmd.Text).Msg("⚡ Received /jira command")

	// Slack expects an answer within 3 seconds, the command itself may take longer
	ctx := context.WithoutCancel(r.Context())
	w.WriteHeader(http.StatusOK)
	h.runBackground("jira command", func() error {
		return h.jiraUseCase.ProcessSlashCommand(ctx, cmd)
	})
}

func (h *SlackHandler) HandleSlackInteraction(w http.ResponseWriter, r *http.Request) {
	if !h.verifyRequest(w, r) {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(r.PostFormValue("payload")), &callback); err != nil {
		log.Warn().Err(err).Msg("⚠️ Malformed Slack interaction payload")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	switch callback.Type {
	case slack.InteractionTypeViewSubmission:
		response, err := h.jiraUseCase.ProcessViewSubmission(r.Context(), callback)
		if err != nil {
			log.Warn().Err(err).Str("callback_id", callback.View.CallbackID).Msg("⚠️ Failed to process modal submission")
		}
		if response == nil {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Error().Err(err).Msg("❌ Failed to write modal submission response")
		}

	case slack.InteractionTypeBlockActions:
		ctx := context.WithoutCancel(r.Context())
		w.WriteHeader(http.StatusOK)
		h.runBackground("jira block action", func() error {
			return h.jiraUseCase.ProcessBlockActions(ctx, callback)
		})

	default:
		log.Debug().Str("type", string(callback.Type)).Msg("ignoring slack interaction")
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/slack/commands", h.HandleSlackCommand).Methods("POST")
	log.Info().Msg("✅ POST /slack/commands endpoint registered")

	router.HandleFunc("/slack/interactions", h.HandleSlackInteraction).Methods("POST")
	log.Info().Msg("✅ POST /slack/interactions endpoint registered")
}
