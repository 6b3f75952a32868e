package atlassian

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jirabackend/models"
)

// MockAtlassianClient is a mock implementation of clients.AtlassianOAuthClient
type MockAtlassianClient struct {
	mock.Mock
}

func (m *MockAtlassianClient) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockAtlassianClient) ExchangeCode(ctx context.Context, code string) (*models.OAuthToken, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OAuthToken), args.Error(1)
}

func (m *MockAtlassianClient) RefreshToken(ctx context.Context, refreshToken string) (*models.OAuthToken, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OAuthToken), args.Error(1)
}

func (m *MockAtlassianClient) GetProfile(ctx context.Context, accessToken string) (*models.AtlassianProfile, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AtlassianProfile), args.Error(1)
}

func (m *MockAtlassianClient) GetAccessibleResources(ctx context.Context, accessToken string) ([]models.AccessibleResource, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AccessibleResource), args.Error(1)
}
