package middleware

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	httpClient    *http.Client
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	// send delivers an alert; replaced in tests
	send func(errorMsg, source string)
}

func NewErrorAlertMiddleware(config SlackAlertConfig, httpClient *http.Client) *ErrorAlertMiddleware {
	m := &ErrorAlertMiddleware{
		config:        config,
		httpClient:    httpClient,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute,
	}
	m.send = func(errorMsg, source string) { go m.sendSlackAlert(errorMsg, source) }
	return m
}

// HTTPMiddleware recovers panics in handlers, answers them with a 500 status body
// and raises an alert.
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.reportPanic(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path), rec)
				writeStatus(w, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WrapBackgroundTask runs work started after a request was answered. Errors and
// panics are logged and alerted, never propagated.
func (m *ErrorAlertMiddleware) WrapBackgroundTask(taskName string, task func() error) func() {
	return func() {
		source := fmt.Sprintf("Background task: %s", taskName)
		defer func() {
			if rec := recover(); rec != nil {
				m.reportPanic(source, rec)
			}
		}()

		if err := task(); err != nil {
			log.Warn().Err(err).Str("task", taskName).Msg("⚠️ Background task failed")
			m.alertOnError(err, source)
		}
	}
}

// Go runs a background task on its own goroutine
func (m *ErrorAlertMiddleware) Go(taskName string, task func() error) {
	go m.WrapBackgroundTask(taskName, task)()
}

func (m *ErrorAlertMiddleware) alertOnError(err error, source string) {
	errorMsg := fmt.Sprintf("%s: %v", source, err)
	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		return
	}
	m.alertedErrors[hash] = time.Now()
	m.send(errorMsg, source)
}

func (m *ErrorAlertMiddleware) reportPanic(source string, rec any) {
	errorMsg := fmt.Sprintf("%s: PANIC - %v", source, rec)
	log.Error().Str("source", source).Msgf("❌ %s", errorMsg)
	m.send(errorMsg, source+" (PANIC)")
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, source string) {
	if m.config.WebhookURL == "" {
		return
	}

	prefix := ""
	if m.config.Environment == "dev" {
		prefix = "[dev] "
	}
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("🚨 %s[%s] Error Alert", prefix, m.config.AppName), true, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, "*Service:* "+m.config.AppName, false, false),
			slack.NewTextBlockObject(slack.MarkdownType, "*Environment:* "+m.config.Environment, false, false),
			slack.NewTextBlockObject(slack.MarkdownType, "*Context:* "+source, false, false),
		}, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false), nil, nil),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false), nil, nil))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	msg := &slack.WebhookMessage{Text: errorMsg, Blocks: &slack.Blocks{BlockSet: blocks}}
	if err := slack.PostWebhookCustomHTTPContext(ctx, m.config.WebhookURL, m.httpClient, msg); err != nil {
		log.Error().Err(err).Msg("❌ Failed to send Slack alert")
	}
}

func writeStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]int{"status": status})
}
