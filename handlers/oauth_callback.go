package handlers

import (
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"jirabackend/usecases"
)

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em;">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

type callbackPageData struct {
	Title   string
	Message string
}

type OAuthCallbackHandler struct {
	jiraUseCase usecases.JiraUseCaseInterface
}

func NewOAuthCallbackHandler(jiraUseCase usecases.JiraUseCaseInterface) *OAuthCallbackHandler {
	return &OAuthCallbackHandler{jiraUseCase: jiraUseCase}
}

// HandleCallback completes the Atlassian authorization. state carries the chat user id.
func (h *OAuthCallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID := query.Get("state")
	code := query.Get("code")

	if denied := query.Get("error"); denied != "" {
		log.Warn().Str("user_id", userID).Str("error", denied).Msg("⚠️ Jira authorization was not granted")
		renderCallbackPage(w, http.StatusBadRequest, callbackPageData{
			Title:   "Login failed",
			Message: "Jira did not grant access: " + query.Get("error_description"),
		})
		return
	}
	if userID == "" || code == "" {
		renderCallbackPage(w, http.StatusBadRequest, callbackPageData{
			Title:   "Login failed",
			Message: "The login link is incomplete. Please run /jira login again.",
		})
		return
	}

	credential, err := h.jiraUseCase.CompleteLogin(r.Context(), code, userID)
	if err != nil {
		renderCallbackPage(w, http.StatusBadGateway, callbackPageData{
			Title:   "Login failed",
			Message: "We could not complete the Jira login. Please run /jira login again.",
		})
		return
	}

	site := credential.CloudURL
	if site == "" {
		site = "Jira"
	}
	renderCallbackPage(w, http.StatusOK, callbackPageData{
		Title:   "Login successful 🚀",
		Message: "You are connected to " + site + ". You can close this window and return to Slack.",
	})
}

func renderCallbackPage(w http.ResponseWriter, status int, data callbackPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := callbackPage.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("❌ Failed to render oauth callback page")
	}
}

func (h *OAuthCallbackHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/jira/oauth/callback", h.HandleCallback).Methods("GET")
	log.Info().Msg("✅ GET /jira/oauth/callback endpoint registered")
}
