package db

import (
	"context"

	"github.com/samber/mo"

	"jirabackend/models"
)

// CredentialsRepository persists one credential per chat user
type CredentialsRepository interface {
	UpsertCredential(ctx context.Context, credential *models.Credential) error
	GetCredentialByUserID(ctx context.Context, userID string) (mo.Option[*models.Credential], error)
	// DeleteCredentialByUserID reports whether a row existed
	DeleteCredentialByUserID(ctx context.Context, userID string) (bool, error)
	ListCredentials(ctx context.Context) ([]*models.Credential, error)
}

type ChannelSubscriptionsRepository interface {
	// UpsertChannelSubscription keeps the existing ID and CreatedAt when
	// (platform, room, project) is already subscribed and writes them back into sub
	UpsertChannelSubscription(ctx context.Context, sub *models.ChannelSubscription) error
	GetChannelSubscriptionsByProjectKey(ctx context.Context, projectKey string) ([]*models.ChannelSubscription, error)
	GetChannelSubscriptionsByRoomID(ctx context.Context, platform models.ChannelType, roomID string) ([]*models.ChannelSubscription, error)
	DeleteChannelSubscription(ctx context.Context, platform models.ChannelType, roomID, projectKey string) (bool, error)
}

type UserSubscriptionsRepository interface {
	UpsertUserSubscription(ctx context.Context, sub *models.UserSubscription) error
	GetUserSubscriptionsByIssueKey(ctx context.Context, issueKey string) ([]*models.UserSubscription, error)
	GetUserSubscriptionsByUserID(ctx context.Context, userID string) ([]*models.UserSubscription, error)
	DeleteUserSubscription(ctx context.Context, userID, issueKey string) (bool, error)
}
