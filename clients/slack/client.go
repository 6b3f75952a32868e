package slack

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/slack-go/slack"

	"jirabackend/clients"
)

// SlackClient implements clients.SlackClient using the slack-go/slack SDK
type SlackClient struct {
	*slack.Client
}

// NewSlackClient creates a Slack client for the bot token. apiURL overrides the
// Slack API base and is only set in tests.
func NewSlackClient(botToken string, httpClient *http.Client, apiURL string) clients.SlackClient {
	options := []slack.Option{slack.OptionHTTPClient(httpClient)}
	if apiURL != "" {
		options = append(options, slack.OptionAPIURL(apiURL))
	}
	return &SlackClient{Client: slack.New(botToken, options...)}
}

func (c *SlackClient) SendMessage(ctx context.Context, roomID, text string) error {
	_, _, err := c.Client.PostMessageContext(ctx, roomID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post slack message to %s: %w", roomID, err)
	}
	return nil
}

func (c *SlackClient) PostBlocks(ctx context.Context, channelID, fallbackText string, blocks ...slack.Block) error {
	_, _, err := c.Client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(fallbackText, false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return fmt.Errorf("failed to post slack blocks to %s: %w", channelID, err)
	}
	return nil
}

func (c *SlackClient) PostEphemeral(ctx context.Context, channelID, userID, text string, blocks ...slack.Block) error {
	options := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		options = append(options, slack.MsgOptionBlocks(blocks...))
	}
	if _, err := c.Client.PostEphemeralContext(ctx, channelID, userID, options...); err != nil {
		return fmt.Errorf("failed to post ephemeral message to %s: %w", userID, err)
	}
	return nil
}

func (c *SlackClient) OpenDirectRoom(ctx context.Context, userID string) (string, error) {
	channel, _, _, err := c.Client.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users:    []string{userID},
		ReturnIM: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to open direct message with %s: %w", userID, err)
	}
	return channel.ID, nil
}

func (c *SlackClient) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if _, err := c.Client.OpenViewContext(ctx, triggerID, view); err != nil {
		return fmt.Errorf("failed to open modal %s: %w", view.CallbackID, err)
	}
	return nil
}

func (c *SlackClient) PushView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if _, err := c.Client.PushViewContext(ctx, triggerID, view); err != nil {
		return fmt.Errorf("failed to push modal %s: %w", view.CallbackID, err)
	}
	return nil
}

func (c *SlackClient) LookupUserEmail(ctx context.Context, userRef string) (string, error) {
	userID, handle := ParseUserRef(userRef)
	if userID != "" {
		user, err := c.Client.GetUserInfoContext(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("failed to get slack user %s: %w", userID, err)
		}
		if user.Profile.Email == "" {
			return "", fmt.Errorf("slack user %s has no visible email", userID)
		}
		return user.Profile.Email, nil
	}

	if handle == "" {
		return "", fmt.Errorf("invalid user reference %q", userRef)
	}

	users, err := c.Client.GetUsersContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list slack users: %w", err)
	}
	for _, user := range users {
		if user.Deleted {
			continue
		}
		if strings.EqualFold(user.Name, handle) || strings.EqualFold(user.Profile.DisplayName, handle) {
			if user.Profile.Email == "" {
				return "", fmt.Errorf("slack user @%s has no visible email", handle)
			}
			return user.Profile.Email, nil
		}
	}
	return "", fmt.Errorf("slack user @%s not found", handle)
}

var (
	mentionPattern = regexp.MustCompile(`^<@([UW][A-Z0-9]+)(\|[^>]*)?>$`)
	userIDPattern  = regexp.MustCompile(`^[UW][A-Z0-9]{6,}$`)
)

// ParseUserRef splits a user reference into either a Slack user id or a handle.
// "<@U123|bob>" and "U123ABC" yield an id, "@bob" and "bob" yield a handle.
func ParseUserRef(ref string) (userID, handle string) {
	ref = strings.TrimSpace(ref)
	if match := mentionPattern.FindStringSubmatch(ref); match != nil {
		return match[1], ""
	}
	if userIDPattern.MatchString(ref) {
		return ref, ""
	}
	return "", strings.TrimPrefix(ref, "@")
}
