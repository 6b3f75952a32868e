package jira

import (
	"context"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/mock"

	"jirabackend/models"
)

// MockJiraUseCase is a mock implementation of usecases.JiraUseCaseInterface
type MockJiraUseCase struct {
	mock.Mock
}

func (m *MockJiraUseCase) ProcessSlashCommand(ctx context.Context, cmd models.SlashCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *MockJiraUseCase) ProcessViewSubmission(ctx context.Context, callback slack.InteractionCallback) (*slack.ViewSubmissionResponse, error) {
	args := m.Called(ctx, callback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slack.ViewSubmissionResponse), args.Error(1)
}

func (m *MockJiraUseCase) ProcessBlockActions(ctx context.Context, callback slack.InteractionCallback) error {
	args := m.Called(ctx, callback)
	return args.Error(0)
}

func (m *MockJiraUseCase) CompleteLogin(ctx context.Context, code, userID string) (*models.Credential, error) {
	args := m.Called(ctx, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}
