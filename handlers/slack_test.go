package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jirabackend/models"
	jirausecase "jirabackend/usecases/jira"
)

const testSigningSecret = "test_signing_secret"

func runNow(_ string, task func() error) {
	_ = task()
}

func newSlackRouter(useCase *jirausecase.MockJiraUseCase) *mux.Router {
	router := mux.NewRouter()
	NewSlackHandler(testSigningSecret, useCase, runNow).SetupEndpoints(router)
	return router
}

func signedRequest(t *testing.T, target string, form url.Values, secret string) *http.Request {
	t.Helper()
	body := form.Encode()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	_, err := fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func commandForm(command, text string) url.Values {
	return url.Values{
		"command":    {command},
		"text":       {text},
		"user_id":    {"U1"},
		"user_name":  {"alice"},
		"channel_id": {"C1"},
		"team_id":    {"T0"},
		"trigger_id": {"trig-1"},
	}
}

func TestSlackHandler_HandleSlackCommand(t *testing.T) {
	t.Run("dispatches /jira", func(t *testing.T) {
		useCase := &jirausecase.MockJiraUseCase{}
		useCase.On("ProcessSlashCommand", mock.Anything, models.SlashCommand{
			UserID: "U1", UserName: "alice", ChannelID: "C1", TeamID: "T0", TriggerID: "trig-1", Text: "assign AB-1 me",
		}).Return(nil).Once()

		rec := httptest.NewRecorder()
		newSlackRouter(useCase).ServeHTTP(rec, signedRequest(t, "/slack/commands", commandForm("/jira", "assign AB-1 me"), testSigningSecret))

		assert.Equal(t, http.StatusOK, rec.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("rejects a bad signature", func(t *testing.T) {
		useCase := &jirausecase.MockJiraUseCase{}
		rec := httptest.NewRecorder()
		newSlackRouter(useCase).ServeHTTP(rec, signedRequest(t, "/slack/commands", commandForm("/jira", "my"), "wrong"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		useCase.AssertNotCalled(t, "ProcessSlashCommand", mock.Anything, mock.Anything)
	})

	t.Run("ignores other commands", func(t *testing.T) {
		useCase := &jirausecase.MockJiraUseCase{}
		rec := httptest.NewRecorder()
		newSlackRouter(useCase).ServeHTTP(rec, signedRequest(t, "/slack/commands", commandForm("/cc", "hi"), testSigningSecret))

		assert.Equal(t, http.StatusOK, rec.Code)
		useCase.AssertNotCalled(t, "ProcessSlashCommand", mock.Anything, mock.Anything)
	})
}

func TestSlackHandler_HandleSlackInteraction(t *testing.T) {
	interaction := func(payload string) url.Values {
		return url.Values{"payload": {payload}}
	}

	t.Run("view submission response is returned to slack", func(t *testing.T) {
		useCase := &jirausecase.MockJiraUseCase{}
		view := slack.ModalViewRequest{Type: slack.VTModal, CallbackID: jirausecase.SearchResultsModalCallbackID}
		useCase.On("ProcessViewSubmission", mock.Anything, mock.MatchedBy(func(cb slack.InteractionCallback) bool {
			return cb.View.CallbackID == jirausecase.SearchModalCallbackID && cb.User.ID == "U1"
		})).Return(slack.NewUpdateViewSubmissionResponse(&view), nil).Once()

		payload := `{"type":"view_submission","user":{"id":"U1"},"view":{"callback_id":"jira-search-modal"}}`
		rec := httptest.NewRecorder()
		newSlackRouter(useCase).ServeHTTP(rec, signedRequest(t, "/slack/interactions", interaction(payload), testSigningSecret))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "update", body["response_action"])
		useCase.AssertExpectations(t)
	})

	t.Run("view submission without response closes the modal", func(t *testing.T) {
		useCase := &jirausecase.MockJiraUseCase{}
		useCase.On("ProcessViewSubmission", mock.Anything, mock.Anything).Return(nil, nil).Once()

		payload := `{"type":"view_submission","user":{"id":"U1"},"view":{"callback_id":"jira-create-modal"}}`
		rec := httptest.NewRecorder()
		newSlackRouter(useCase).ServeHTTP(rec, signedRequest(t, "/slack/interactions", interaction(payload), testSigningSecret))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("block actions run after the ack", func(t *testing.T) {
		useCase := &jirausecase.MockJiraUseCase{}
		useCase.On("ProcessBlockActions", mock.Anything, mock.MatchedBy(func(cb slack.InteractionCallback) bool {
			return len(cb.ActionCallback.BlockActions) == 1 && cb.ActionCallback.BlockActions[0].ActionID == jirausecase.ViewIssueButtonActionID
		})).Return(nil).Once()

		payload := `{"type":"block_actions","user":{"id":"U1"},"trigger_id":"trig-2","actions":[{"block_id":"b1","action_id":"jira-view-issue-button","value":"AB-1"}]}`
		rec := httptest.NewRecorder()
		newSlackRouter(useCase).ServeHTTP(rec, signedRequest(t, "/slack/interactions", interaction(payload), testSigningSecret))

		assert.Equal(t, http.StatusOK, rec.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("malformed payload", func(t *testing.T) {
		useCase := &jirausecase.MockJiraUseCase{}
		rec := httptest.NewRecorder()
		newSlackRouter(useCase).ServeHTTP(rec, signedRequest(t, "/slack/interactions", interaction("{"), testSigningSecret))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
