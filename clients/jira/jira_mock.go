package jira

import (
	"context"

	"github.com/stretchr/testify/mock"

	"jirabackend/models"
)

// MockJiraClient is a mock implementation of clients.JiraClient
type MockJiraClient struct {
	mock.Mock
}

func (m *MockJiraClient) CreateIssue(ctx context.Context, auth models.JiraAuth, req models.CreateIssueRequest, assigneeAccountID string) (*models.CreatedIssue, error) {
	args := m.Called(ctx, auth, req, assigneeAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreatedIssue), args.Error(1)
}

func (m *MockJiraClient) SearchIssues(ctx context.Context, auth models.JiraAuth, jql string, maxResults int) ([]models.Issue, error) {
	args := m.Called(ctx, auth, jql, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Issue), args.Error(1)
}

func (m *MockJiraClient) SearchUsers(ctx context.Context, auth models.JiraAuth, query string) ([]models.JiraUser, error) {
	args := m.Called(ctx, auth, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JiraUser), args.Error(1)
}

func (m *MockJiraClient) AssignIssue(ctx context.Context, auth models.JiraAuth, issueKey, accountID string) error {
	args := m.Called(ctx, auth, issueKey, accountID)
	return args.Error(0)
}

func (m *MockJiraClient) AddComment(ctx context.Context, auth models.JiraAuth, issueKey, body string) (*models.Comment, error) {
	args := m.Called(ctx, auth, issueKey, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockJiraClient) GetIssue(ctx context.Context, auth models.JiraAuth, issueKey string) (*models.Issue, error) {
	args := m.Called(ctx, auth, issueKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Issue), args.Error(1)
}

func (m *MockJiraClient) GetComments(ctx context.Context, auth models.JiraAuth, issueKey string) ([]models.Comment, error) {
	args := m.Called(ctx, auth, issueKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockJiraClient) ListProjects(ctx context.Context, auth models.JiraAuth) ([]models.Project, error) {
	args := m.Called(ctx, auth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}
