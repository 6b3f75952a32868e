package discord

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"jirabackend/clients"
)

// maxMessageLength is Discord's per-message content limit
const maxMessageLength = 2000

// DiscordClient delivers notifications to Discord channels with a bot token
type DiscordClient struct {
	session *discordgo.Session
}

func NewDiscordClient(httpClient *http.Client, botToken string) (clients.Messenger, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Client = httpClient

	return &DiscordClient{session: session}, nil
}

func (c *DiscordClient) SendMessage(ctx context.Context, roomID, text string) error {
	for _, chunk := range splitMessage(ToDiscordMarkdown(text), maxMessageLength) {
		if _, err := c.session.ChannelMessageSend(roomID, chunk, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to send discord message to %s: %w", roomID, err)
		}
	}
	return nil
}

func (c *DiscordClient) OpenDirectRoom(ctx context.Context, userID string) (string, error) {
	channel, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to open discord direct message with %s: %w", userID, err)
	}
	return channel.ID, nil
}

var slackBoldPattern = regexp.MustCompile(`(^|[^*])\*([^*\n]+)\*`)

// ToDiscordMarkdown converts Slack-style *bold* to Discord **bold**
func ToDiscordMarkdown(text string) string {
	return slackBoldPattern.ReplaceAllString(text, "$1**$2**")
}

// splitMessage breaks text into chunks no longer than limit runes, preferring line boundaries
func splitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if currentLen+len(runes) > limit {
			flush()
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()
	return chunks
}
