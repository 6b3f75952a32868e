package issues

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jirabackend/models"
)

// MockIssuesService is a mock implementation of services.IssuesService
type MockIssuesService struct {
	mock.Mock
}

func (m *MockIssuesService) Create(ctx context.Context, credential *models.Credential, req models.CreateIssueRequest) models.Result[*models.CreatedIssue] {
	args := m.Called(ctx, credential, req)
	return args.Get(0).(models.Result[*models.CreatedIssue])
}

func (m *MockIssuesService) Search(ctx context.Context, credential *models.Credential, filter models.SearchFilter) models.Result[[]models.Issue] {
	args := m.Called(ctx, credential, filter)
	return args.Get(0).(models.Result[[]models.Issue])
}

func (m *MockIssuesService) MyIssues(ctx context.Context, credential *models.Credential) models.Result[[]models.Issue] {
	args := m.Called(ctx, credential)
	return args.Get(0).(models.Result[[]models.Issue])
}

func (m *MockIssuesService) Unassigned(ctx context.Context, credential *models.Credential) models.Result[[]models.Issue] {
	args := m.Called(ctx, credential)
	return args.Get(0).(models.Result[[]models.Issue])
}

func (m *MockIssuesService) Assign(ctx context.Context, credential *models.Credential, issueKey, assignee string) models.Result[*models.Assignment] {
	args := m.Called(ctx, credential, issueKey, assignee)
	return args.Get(0).(models.Result[*models.Assignment])
}

func (m *MockIssuesService) AddComment(ctx context.Context, credential *models.Credential, issueKey, body string) models.Result[*models.Comment] {
	args := m.Called(ctx, credential, issueKey, body)
	return args.Get(0).(models.Result[*models.Comment])
}

func (m *MockIssuesService) IssueDetails(ctx context.Context, credential *models.Credential, issueKey string) models.Result[*models.IssueDetails] {
	args := m.Called(ctx, credential, issueKey)
	return args.Get(0).(models.Result[*models.IssueDetails])
}

func (m *MockIssuesService) Projects(ctx context.Context, credential *models.Credential) models.Result[[]models.Project] {
	args := m.Called(ctx, credential)
	return args.Get(0).(models.Result[[]models.Project])
}
