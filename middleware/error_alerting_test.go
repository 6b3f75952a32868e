package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type recordedAlerts struct {
	mu      sync.Mutex
	sources []string
}

func (r *recordedAlerts) record(_ string, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, source)
}

func newTestMiddleware() (*ErrorAlertMiddleware, *recordedAlerts) {
	m := NewErrorAlertMiddleware(SlackAlertConfig{AppName: "jirabackend", Environment: "test"}, http.DefaultClient)
	alerts := &recordedAlerts{}
	m.send = alerts.record
	return m, alerts
}

func TestHTTPMiddleware_RecoversPanics(t *testing.T) {
	m, alerts := newTestMiddleware()
	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jira/webhook", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 500, body["status"])
	assert.Equal(t, []string{"HTTP POST /jira/webhook (PANIC)"}, alerts.sources)
}

func TestHTTPMiddleware_PassesThrough(t *testing.T) {
	m, alerts := newTestMiddleware()
	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, alerts.sources)
}

func TestWrapBackgroundTask(t *testing.T) {
	t.Run("same error alerts once within the cooldown", func(t *testing.T) {
		m, alerts := newTestMiddleware()
		task := m.WrapBackgroundTask("jira command", func() error { return errors.New("slack down") })

		task()
		task()

		assert.Equal(t, []string{"Background task: jira command"}, alerts.sources)
	})

	t.Run("panics do not escape", func(t *testing.T) {
		m, alerts := newTestMiddleware()
		assert.NotPanics(t, m.WrapBackgroundTask("explode", func() error { panic("bad") }))
		assert.Equal(t, []string{"Background task: explode (PANIC)"}, alerts.sources)
	})

	t.Run("success is silent", func(t *testing.T) {
		m, alerts := newTestMiddleware()
		m.WrapBackgroundTask("ok", func() error { return nil })()
		assert.Empty(t, alerts.sources)
	})
}

func TestSendSlackAlert(t *testing.T) {
	received := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- body
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := NewErrorAlertMiddleware(SlackAlertConfig{
		WebhookURL:  server.URL,
		Environment: "dev",
		AppName:     "jirabackend",
		LogsURL:     "https://logs.example.com",
	}, server.Client())

	m.sendSlackAlert("something broke", "HTTP GET /x")

	body := <-received
	assert.Equal(t, "something broke", gjson.GetBytes(body, "text").String())
	assert.Equal(t, "🚨 [dev] [jirabackend] Error Alert", gjson.GetBytes(body, "blocks.0.text.text").String())
	assert.Equal(t, 4, int(gjson.GetBytes(body, "blocks.#").Int()))
}
