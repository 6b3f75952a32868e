package jira

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"jirabackend/clients"
	"jirabackend/models"
	"jirabackend/services"
)

const NotLoggedInMessage = "You are not logged in. Please login to Jira first using /jira login"

// JiraUseCase drives the /jira command, its modals and the login round trip
type JiraUseCase struct {
	slackClient          clients.SlackClient
	oauthService         services.OAuthService
	issuesService        services.IssuesService
	subscriptionsService services.SubscriptionsService

	commands     map[string]commandHandler
	submissions  map[string]submissionHandler
	blockActions map[string]blockActionHandler
}

func NewJiraUseCase(
	slackClient clients.SlackClient,
	oauthService services.OAuthService,
	issuesService services.IssuesService,
	subscriptionsService services.SubscriptionsService,
) *JiraUseCase {
	u := &JiraUseCase{
		slackClient:          slackClient,
		oauthService:         oauthService,
		issuesService:        issuesService,
		subscriptionsService: subscriptionsService,
	}
	u.commands = u.commandTable()
	u.submissions = u.submissionTable()
	u.blockActions = u.blockActionTable()
	return u
}

func (u *JiraUseCase) CompleteLogin(ctx context.Context, code, userID string) (*models.Credential, error) {
	credential, err := u.oauthService.ExchangeCodeForToken(ctx, code, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("❌ Jira login failed")
		if userID != "" {
			u.direct(ctx, userID, "❌ Login with Jira failed. Please try again using /jira login")
		}
		return nil, err
	}
	return credential, nil
}

// credentialFor returns the caller's credential or tells them to log in first. The
// bool is false when the caller was told and the operation should stop.
func (u *JiraUseCase) credentialFor(ctx context.Context, userID, channelID string) (*models.Credential, bool, error) {
	maybeCredential, err := u.oauthService.AuthorizedCredential(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load credential for %s: %w", userID, err)
	}
	credential, ok := maybeCredential.Get()
	if !ok {
		u.notify(ctx, channelID, userID, NotLoggedInMessage)
		return nil, false, nil
	}
	return credential, true, nil
}

// notify shows a message only to userID in channelID, or in the direct room with the
// bot when there is no channel.
func (u *JiraUseCase) notify(ctx context.Context, channelID, userID, text string) {
	if channelID == "" {
		u.direct(ctx, userID, text)
		return
	}
	if err := u.slackClient.PostEphemeral(ctx, channelID, userID, text); err != nil {
		log.Warn().Err(err).Str("channel_id", channelID).Msg("⚠️ Failed to post ephemeral notification")
	}
}

func (u *JiraUseCase) direct(ctx context.Context, userID, text string) {
	roomID, err := u.slackClient.OpenDirectRoom(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ Failed to open direct message")
		return
	}
	if err := u.slackClient.SendMessage(ctx, roomID, text); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ Failed to send direct message")
	}
}

// announce posts a message everyone in the channel can see
func (u *JiraUseCase) announce(ctx context.Context, channelID, userID, text string) {
	if channelID == "" {
		u.direct(ctx, userID, text)
		return
	}
	if err := u.slackClient.SendMessage(ctx, channelID, text); err != nil {
		log.Warn().Err(err).Str("channel_id", channelID).Msg("⚠️ Failed to post channel message, falling back to ephemeral")
		u.notify(ctx, channelID, userID, text)
	}
}
