package subscriptions

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jirabackend/models"
)

// MockSubscriptionsService is a mock implementation of services.SubscriptionsService
type MockSubscriptionsService struct {
	mock.Mock
}

func (m *MockSubscriptionsService) SubscribeChannel(ctx context.Context, platform models.ChannelType, roomID, projectKey string, events []string) (*models.ChannelSubscription, error) {
	args := m.Called(ctx, platform, roomID, projectKey, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelSubscription), args.Error(1)
}

func (m *MockSubscriptionsService) UnsubscribeChannel(ctx context.Context, platform models.ChannelType, roomID, projectKey string) (bool, error) {
	args := m.Called(ctx, platform, roomID, projectKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionsService) ListChannelSubscriptions(ctx context.Context, projectKey string) ([]*models.ChannelSubscription, error) {
	args := m.Called(ctx, projectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChannelSubscription), args.Error(1)
}

func (m *MockSubscriptionsService) ListRoomSubscriptions(ctx context.Context, platform models.ChannelType, roomID string) ([]*models.ChannelSubscription, error) {
	args := m.Called(ctx, platform, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ChannelSubscription), args.Error(1)
}

func (m *MockSubscriptionsService) WatchIssue(ctx context.Context, userID, accountID, issueKey string, events []string) (*models.UserSubscription, error) {
	args := m.Called(ctx, userID, accountID, issueKey, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSubscription), args.Error(1)
}

func (m *MockSubscriptionsService) UnwatchIssue(ctx context.Context, userID, issueKey string) (bool, error) {
	args := m.Called(ctx, userID, issueKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionsService) ListIssueWatchers(ctx context.Context, issueKey string) ([]*models.UserSubscription, error) {
	args := m.Called(ctx, issueKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserSubscription), args.Error(1)
}

func (m *MockSubscriptionsService) ListUserWatches(ctx context.Context, userID string) ([]*models.UserSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserSubscription), args.Error(1)
}

func (m *MockSubscriptionsService) LoadSeedFile(ctx context.Context, path string) (int, error) {
	args := m.Called(ctx, path)
	return args.Int(0), args.Error(1)
}
