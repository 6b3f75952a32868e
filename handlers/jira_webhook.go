package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"jirabackend/models"
	"jirabackend/services"
)

const maxWebhookBodyBytes = 5 << 20

type JiraWebhookHandler struct {
	notificationsService services.NotificationsService
	webhookSecret        string
}

// NewJiraWebhookHandler accepts Jira webhooks. With an empty webhookSecret every
// request is accepted.
func NewJiraWebhookHandler(notificationsService services.NotificationsService, webhookSecret string) *JiraWebhookHandler {
	return &JiraWebhookHandler{
		notificationsService: notificationsService,
		webhookSecret:        webhookSecret,
	}
}

func (h *JiraWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to read jira webhook body")
		writeStatus(w, http.StatusBadRequest)
		return
	}

	if err := h.verifySecret(r, body); err != nil {
		log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("⚠️ Rejected jira webhook")
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Warn().Err(err).Msg("⚠️ Malformed jira webhook payload")
		writeStatus(w, http.StatusBadRequest)
		return
	}

	report, err := h.notificationsService.Fanout(r.Context(), &payload)
	if err != nil {
		log.Error().Err(err).Str("event", payload.WebhookEvent).Msg("❌ Jira webhook fanout failed")
		writeStatus(w, http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("event", payload.WebhookEvent).
		Int("recipients", len(report.Outcomes)).
		Msg("📋 Completed successfully - handled jira webhook")
	writeStatus(w, http.StatusOK)
}

// verifySecret accepts either the shared secret as ?secret= or an
// X-Hub-Signature: sha256=<hex hmac of the body> header.
func (h *JiraWebhookHandler) verifySecret(r *http.Request, body []byte) error {
	if h.webhookSecret == "" {
		return nil
	}

	if secret := r.URL.Query().Get("secret"); secret != "" {
		if hmac.Equal([]byte(secret), []byte(h.webhookSecret)) {
			return nil
		}
		return fmt.Errorf("webhook secret mismatch")
	}

	signature := r.Header.Get("X-Hub-Signature")
	if signature == "" {
		return fmt.Errorf("missing webhook secret or signature")
	}
	algorithm, digest, ok := strings.Cut(signature, "=")
	if !ok || algorithm != "sha256" {
		return fmt.Errorf("unsupported signature format")
	}

	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(digest))) {
		return fmt.Errorf("webhook signature verification failed")
	}
	return nil
}

func (h *JiraWebhookHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/jira/webhook", h.HandleWebhook).Methods("POST")
	log.Info().Msg("✅ POST /jira/webhook endpoint registered")
}

func writeStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]int{"status": status}); err != nil {
		log.Error().Err(err).Msg("❌ Failed to write status response")
	}
}
