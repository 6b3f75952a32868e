package credentials

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"jirabackend/models"
)

// MockCredentialsService is a mock implementation of services.CredentialsService
type MockCredentialsService struct {
	mock.Mock
}

func (m *MockCredentialsService) Put(ctx context.Context, userID string, credential *models.Credential) error {
	args := m.Called(ctx, userID, credential)
	return args.Error(0)
}

func (m *MockCredentialsService) Get(ctx context.Context, userID string) (mo.Option[*models.Credential], error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(mo.Option[*models.Credential]), args.Error(1)
}

func (m *MockCredentialsService) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCredentialsService) List(ctx context.Context) ([]*models.Credential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Credential), args.Error(1)
}
