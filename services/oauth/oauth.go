package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/mo"

	"jirabackend/clients"
	"jirabackend/models"
	"jirabackend/services"
)

const LoginSuccessMessage = "Login successful 🚀"

type OAuthService struct {
	oauthClient        clients.AtlassianOAuthClient
	credentialsService services.CredentialsService
	messenger          clients.Messenger
	now                func() time.Time
}

// NewOAuthService wires the login flow. messenger is used for the best-effort
// direct message sent once a login completes.
func NewOAuthService(
	oauthClient clients.AtlassianOAuthClient,
	credentialsService services.CredentialsService,
	messenger clients.Messenger,
) *OAuthService {
	return &OAuthService{
		oauthClient:        oauthClient,
		credentialsService: credentialsService,
		messenger:          messenger,
		now:                time.Now,
	}
}

// BuildAuthorizationURL returns the consent URL for userID. The user id travels as
// the OAuth state and comes back on the callback.
func (s *OAuthService) BuildAuthorizationURL(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}
	return s.oauthClient.AuthCodeURL(userID), nil
}

func (s *OAuthService) ExchangeCodeForToken(ctx context.Context, code, userID string) (*models.Credential, error) {
	log.Info().Str("user_id", userID).Msg("📋 Starting to exchange jira authorization code")
	if code == "" {
		return nil, fmt.Errorf("authorization code cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	token, err := s.oauthClient.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code with atlassian: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("no access token in atlassian token response")
	}

	resources, err := s.oauthClient.GetAccessibleResources(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get accessible jira sites: %w", err)
	}
	if len(resources) == 0 {
		return nil, fmt.Errorf("no accessible jira site for this account")
	}
	site := resources[0]

	now := s.now().UTC()
	credential := &models.Credential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.UTC(),
		Scope:        token.Scope,
		CloudID:      site.ID,
		CloudURL:     site.URL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	profile, err := s.oauthClient.GetProfile(ctx, token.AccessToken)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ Could not read atlassian profile, continuing without account details")
	} else {
		credential.AccountID = profile.AccountID
		credential.AccountEmail = profile.Email
		credential.AccountName = profile.Name
	}

	if err := s.credentialsService.Put(ctx, userID, credential); err != nil {
		return nil, fmt.Errorf("failed to persist jira credential: %w", err)
	}

	s.notify(ctx, userID, LoginSuccessMessage)

	log.Info().Str("user_id", userID).Str("cloud_id", site.ID).Msg("📋 Completed successfully - jira login stored")
	return credential, nil
}

func (s *OAuthService) Logout(ctx context.Context, userID string) error {
	log.Info().Str("user_id", userID).Msg("📋 Starting to log out of jira")
	if err := s.credentialsService.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to remove jira credential: %w", err)
	}
	log.Info().Str("user_id", userID).Msg("📋 Completed successfully - logged out of jira")
	return nil
}

// AuthorizedCredential returns the stored credential. An expired credential with a
// refresh token is refreshed once and written back; if that fails, or there is no
// refresh token, the stored credential is returned unchanged.
func (s *OAuthService) AuthorizedCredential(ctx context.Context, userID string) (mo.Option[*models.Credential], error) {
	maybeCredential, err := s.credentialsService.Get(ctx, userID)
	if err != nil {
		return mo.None[*models.Credential](), fmt.Errorf("failed to load jira credential: %w", err)
	}
	credential, ok := maybeCredential.Get()
	if !ok {
		return maybeCredential, nil
	}

	if !credential.IsExpired(s.now()) || credential.RefreshToken == "" {
		return maybeCredential, nil
	}

	refreshed, err := s.RefreshCredential(ctx, credential)
	if refreshed != nil {
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ Using refreshed jira token that could not be stored")
		}
		return mo.Some(refreshed), nil
	}
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ Token refresh failed, using stored credential")
	}
	return maybeCredential, nil
}

// RefreshCredential trades the refresh token for a new access token and stores the result.
// When the write fails the refreshed credential is returned together with the error,
// since the provider may already have rotated the stored refresh token.
func (s *OAuthService) RefreshCredential(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	if credential.RefreshToken == "" {
		return nil, fmt.Errorf("credential for %s has no refresh token", credential.UserID)
	}

	log.Info().Str("user_id", credential.UserID).Msg("📋 Starting to refresh jira token")
	token, err := s.oauthClient.RefreshToken(ctx, credential.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh jira token: %w", err)
	}

	refreshed := *credential
	refreshed.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		refreshed.RefreshToken = token.RefreshToken
	}
	refreshed.ExpiresAt = token.Expiry.UTC()
	if token.Scope != "" {
		refreshed.Scope = token.Scope
	}
	refreshed.UpdatedAt = s.now().UTC()

	if err := s.credentialsService.Put(ctx, credential.UserID, &refreshed); err != nil {
		return &refreshed, fmt.Errorf("failed to persist refreshed jira token: %w", err)
	}

	log.Info().Str("user_id", credential.UserID).Msg("📋 Completed successfully - refreshed jira token")
	return &refreshed, nil
}

func (s *OAuthService) notify(ctx context.Context, userID, text string) {
	roomID, err := s.messenger.OpenDirectRoom(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ Could not open direct message for login notification")
		return
	}
	if err := s.messenger.SendMessage(ctx, roomID, text); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("⚠️ Could not send login notification")
	}
}
