package services

import (
	"context"

	"github.com/samber/mo"

	"jirabackend/models"
)

// CredentialsService stores the Atlassian grant of each chat user
type CredentialsService interface {
	Put(ctx context.Context, userID string, credential *models.Credential) error
	Get(ctx context.Context, userID string) (mo.Option[*models.Credential], error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context) ([]*models.Credential, error)
}

// OAuthService runs the Atlassian 3LO login of a chat user
type OAuthService interface {
	BuildAuthorizationURL(userID string) (string, error)
	ExchangeCodeForToken(ctx context.Context, code, userID string) (*models.Credential, error)
	Logout(ctx context.Context, userID string) error
	// AuthorizedCredential returns the user's credential, refreshed once if it expired
	AuthorizedCredential(ctx context.Context, userID string) (mo.Option[*models.Credential], error)
	RefreshCredential(ctx context.Context, credential *models.Credential) (*models.Credential, error)
}

// NotificationsService fans webhook events out to subscribed rooms and users
type NotificationsService interface {
	Fanout(ctx context.Context, payload *models.WebhookPayload) (*models.FanoutReport, error)
}

// IssuesService wraps Jira issue operations into user-presentable results
type IssuesService interface {
	Create(ctx context.Context, credential *models.Credential, req models.CreateIssueRequest) models.Result[*models.CreatedIssue]
	Search(ctx context.Context, credential *models.Credential, filter models.SearchFilter) models.Result[[]models.Issue]
	MyIssues(ctx context.Context, credential *models.Credential) models.Result[[]models.Issue]
	Unassigned(ctx context.Context, credential *models.Credential) models.Result[[]models.Issue]
	Assign(ctx context.Context, credential *models.Credential, issueKey, assignee string) models.Result[*models.Assignment]
	AddComment(ctx context.Context, credential *models.Credential, issueKey, body string) models.Result[*models.Comment]
	IssueDetails(ctx context.Context, credential *models.Credential, issueKey string) models.Result[*models.IssueDetails]
	Projects(ctx context.Context, credential *models.Credential) models.Result[[]models.Project]
}

// SubscriptionsService manages which rooms and users receive which events
type SubscriptionsService interface {
	SubscribeChannel(ctx context.Context, platform models.ChannelType, roomID, projectKey string, events []string) (*models.ChannelSubscription, error)
	UnsubscribeChannel(ctx context.Context, platform models.ChannelType, roomID, projectKey string) (bool, error)
	ListChannelSubscriptions(ctx context.Context, projectKey string) ([]*models.ChannelSubscription, error)
	ListRoomSubscriptions(ctx context.Context, platform models.ChannelType, roomID string) ([]*models.ChannelSubscription, error)
	WatchIssue(ctx context.Context, userID, accountID, issueKey string, events []string) (*models.UserSubscription, error)
	UnwatchIssue(ctx context.Context, userID, issueKey string) (bool, error)
	ListIssueWatchers(ctx context.Context, issueKey string) ([]*models.UserSubscription, error)
	ListUserWatches(ctx context.Context, userID string) ([]*models.UserSubscription, error)
	LoadSeedFile(ctx context.Context, path string) (int, error)
}
