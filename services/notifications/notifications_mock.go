package notifications

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jirabackend/models"
)

// MockNotificationsService is a mock implementation of services.NotificationsService
type MockNotificationsService struct {
	mock.Mock
}

func (m *MockNotificationsService) Fanout(ctx context.Context, payload *models.WebhookPayload) (*models.FanoutReport, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FanoutReport), args.Error(1)
}
