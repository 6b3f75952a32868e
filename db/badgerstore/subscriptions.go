package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"jirabackend/models"
)

func channelKey(platform models.ChannelType, roomID, projectKey string) string {
	return string(platform) + "|" + roomID + "|" + projectKey
}

func userKey(userID, issueKey string) string {
	return userID + "|" + issueKey
}

type ChannelSubscriptionsRepository struct {
	store *Store
}

func NewChannelSubscriptionsRepository(store *Store) *ChannelSubscriptionsRepository {
	return &ChannelSubscriptionsRepository{store: store}
}

func (r *ChannelSubscriptionsRepository) UpsertChannelSubscription(ctx context.Context, sub *models.ChannelSubscription) error {
	key := channelKey(sub.Platform, sub.RoomID, sub.ProjectKey)
	now := time.Now().UTC()

	var existing models.ChannelSubscription
	err := r.store.hold.Get(key, &existing)
	switch {
	case err == nil:
		sub.ID = existing.ID
		sub.CreatedAt = existing.CreatedAt
	case errors.Is(err, badgerhold.ErrNotFound):
		sub.CreatedAt = now
	default:
		return fmt.Errorf("failed to read channel subscription: %w", err)
	}
	sub.UpdatedAt = now

	if err := r.store.hold.Upsert(key, sub); err != nil {
		return fmt.Errorf("failed to upsert channel subscription: %w", err)
	}
	return nil
}

func (r *ChannelSubscriptionsRepository) GetChannelSubscriptionsByProjectKey(ctx context.Context, projectKey string) ([]*models.ChannelSubscription, error) {
	var found []models.ChannelSubscription
	if err := r.store.hold.Find(&found, badgerhold.Where("ProjectKey").Eq(projectKey)); err != nil {
		return nil, fmt.Errorf("failed to get channel subscriptions: %w", err)
	}

	subs := make([]*models.ChannelSubscription, 0, len(found))
	for i := range found {
		subs = append(subs, &found[i])
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].CreatedAt.Before(subs[j].CreatedAt)
	})
	return subs, nil
}

func (r *ChannelSubscriptionsRepository) GetChannelSubscriptionsByRoomID(ctx context.Context, platform models.ChannelType, roomID string) ([]*models.ChannelSubscription, error) {
	var found []models.ChannelSubscription
	if err := r.store.hold.Find(&found, badgerhold.Where("RoomID").Eq(roomID)); err != nil {
		return nil, fmt.Errorf("failed to get channel subscriptions: %w", err)
	}

	subs := make([]*models.ChannelSubscription, 0, len(found))
	for i := range found {
		if found[i].Platform == platform {
			subs = append(subs, &found[i])
		}
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].ProjectKey < subs[j].ProjectKey })
	return subs, nil
}

func (r *ChannelSubscriptionsRepository) DeleteChannelSubscription(ctx context.Context, platform models.ChannelType, roomID, projectKey string) (bool, error) {
	err := r.store.hold.Delete(channelKey(platform, roomID, projectKey), &models.ChannelSubscription{})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete channel subscription: %w", err)
	}
	return true, nil
}

type UserSubscriptionsRepository struct {
	store *Store
}

func NewUserSubscriptionsRepository(store *Store) *UserSubscriptionsRepository {
	return &UserSubscriptionsRepository{store: store}
}

func (r *UserSubscriptionsRepository) UpsertUserSubscription(ctx context.Context, sub *models.UserSubscription) error {
	key := userKey(sub.UserID, sub.IssueKey)
	now := time.Now().UTC()

	var existing models.UserSubscription
	err := r.store.hold.Get(key, &existing)
	switch {
	case err == nil:
		sub.ID = existing.ID
		sub.CreatedAt = existing.CreatedAt
	case errors.Is(err, badgerhold.ErrNotFound):
		sub.CreatedAt = now
	default:
		return fmt.Errorf("failed to read user subscription: %w", err)
	}
	sub.UpdatedAt = now

	if err := r.store.hold.Upsert(key, sub); err != nil {
		return fmt.Errorf("failed to upsert user subscription: %w", err)
	}
	return nil
}

func (r *UserSubscriptionsRepository) GetUserSubscriptionsByIssueKey(ctx context.Context, issueKey string) ([]*models.UserSubscription, error) {
	var found []models.UserSubscription
	if err := r.store.hold.Find(&found, badgerhold.Where("IssueKey").Eq(issueKey)); err != nil {
		return nil, fmt.Errorf("failed to get user subscriptions: %w", err)
	}

	subs := make([]*models.UserSubscription, 0, len(found))
	for i := range found {
		subs = append(subs, &found[i])
	}
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].ID < subs[j].ID
		}
		return subs[i].CreatedAt.Before(subs[j].CreatedAt)
	})
	return subs, nil
}

func (r *UserSubscriptionsRepository) GetUserSubscriptionsByUserID(ctx context.Context, userID string) ([]*models.UserSubscription, error) {
	var found []models.UserSubscription
	if err := r.store.hold.Find(&found, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to get user subscriptions: %w", err)
	}

	subs := make([]*models.UserSubscription, 0, len(found))
	for i := range found {
		subs = append(subs, &found[i])
	}
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].IssueKey < subs[j].IssueKey })
	return subs, nil
}

func (r *UserSubscriptionsRepository) DeleteUserSubscription(ctx context.Context, userID, issueKey string) (bool, error) {
	err := r.store.hold.Delete(userKey(userID, issueKey), &models.UserSubscription{})
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete user subscription: %w", err)
	}
	return true, nil
}
