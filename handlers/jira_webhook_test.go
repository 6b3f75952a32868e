package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jirabackend/clients"
	slackclient "jirabackend/clients/slack"
	"jirabackend/db/badgerstore"
	"jirabackend/models"
	"jirabackend/services/notifications"
	"jirabackend/services/subscriptions"
	"jirabackend/testutils"
)

const commentCreatedPayload = `{"webhookEvent":"comment_created",
	"issue":{"key":"AB-1","fields":{"summary":"S"}},
	"comment":{"author":{"displayName":"X"},"body":"hello"}}`

type webhookFixture struct {
	router        *mux.Router
	subscriptions *subscriptions.SubscriptionsService
	messenger     *slackclient.MockSlackClient
}

func newWebhookFixture(t *testing.T, secret string) *webhookFixture {
	t.Helper()
	store := testutils.NewBadgerStore(t)
	subscriptionsService := subscriptions.NewSubscriptionsService(
		badgerstore.NewChannelSubscriptionsRepository(store),
		badgerstore.NewUserSubscriptionsRepository(store),
	)
	messenger := &slackclient.MockSlackClient{}
	notificationsService := notifications.NewNotificationsService(subscriptionsService,
		map[models.ChannelType]clients.Messenger{models.ChannelTypeSlack: messenger}, models.ChannelTypeSlack)

	router := mux.NewRouter()
	NewJiraWebhookHandler(notificationsService, secret).SetupEndpoints(router)
	return &webhookFixture{router: router, subscriptions: subscriptionsService, messenger: messenger}
}

func postWebhook(router http.Handler, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJiraWebhookHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("comment created reaches the subscribed room", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		_, err := f.subscriptions.SubscribeChannel(ctx, models.ChannelTypeSlack, "C1", "AB", nil)
		require.NoError(t, err)
		f.messenger.On("SendMessage", mock.Anything, "C1", mock.MatchedBy(func(text string) bool {
			return strings.Contains(text, "AB-1") && strings.Contains(text, "S") &&
				strings.Contains(text, "X") && strings.Contains(text, "hello")
		})).Return(nil).Once()

		rec := postWebhook(f.router, "/jira/webhook", commentCreatedPayload, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":200}`, rec.Body.String())
		f.messenger.AssertExpectations(t)
		f.messenger.AssertNumberOfCalls(t, "SendMessage", 1)
	})

	t.Run("unknown event with no subscribers is still ok", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		rec := postWebhook(f.router, "/jira/webhook", `{"webhookEvent":"board_configuration_changed"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":200}`, rec.Body.String())
	})

	t.Run("malformed json", func(t *testing.T) {
		f := newWebhookFixture(t, "")
		rec := postWebhook(f.router, "/jira/webhook", `{"webhookEvent":`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("fanout failure answers 500", func(t *testing.T) {
		service := &notifications.MockNotificationsService{}
		service.On("Fanout", mock.Anything, mock.Anything).Return(nil, errors.New("store unavailable"))
		router := mux.NewRouter()
		NewJiraWebhookHandler(service, "").SetupEndpoints(router)

		rec := postWebhook(router, "/jira/webhook", commentCreatedPayload, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":500}`, rec.Body.String())
	})

	t.Run("shared secret in the query", func(t *testing.T) {
		f := newWebhookFixture(t, "s3cret")

		rec := postWebhook(f.router, "/jira/webhook?secret=wrong", commentCreatedPayload, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = postWebhook(f.router, "/jira/webhook", commentCreatedPayload, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = postWebhook(f.router, "/jira/webhook?secret=s3cret", commentCreatedPayload, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("hmac signature header", func(t *testing.T) {
		f := newWebhookFixture(t, "s3cret")
		mac := hmac.New(sha256.New, []byte("s3cret"))
		mac.Write([]byte(commentCreatedPayload))
		signature := "sha256=" + hex.EncodeToString(mac.Sum(nil))

		rec := postWebhook(f.router, "/jira/webhook", commentCreatedPayload, map[string]string{"X-Hub-Signature": signature})
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = postWebhook(f.router, "/jira/webhook", commentCreatedPayload, map[string]string{"X-Hub-Signature": "sha256=deadbeef"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
