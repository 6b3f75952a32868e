package oauth

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"jirabackend/models"
)

// MockOAuthService is a mock implementation of services.OAuthService
type MockOAuthService struct {
	mock.Mock
}

func (m *MockOAuthService) BuildAuthorizationURL(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockOAuthService) ExchangeCodeForToken(ctx context.Context, code, userID string) (*models.Credential, error) {
	args := m.Called(ctx, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *MockOAuthService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockOAuthService) AuthorizedCredential(ctx context.Context, userID string) (mo.Option[*models.Credential], error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(mo.Option[*models.Credential]), args.Error(1)
}

func (m *MockOAuthService) RefreshCredential(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}
