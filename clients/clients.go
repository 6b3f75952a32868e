package clients

import (
	"context"

	"github.com/slack-go/slack"

	"jirabackend/models"
)

// Messenger delivers plain chat messages to a room on one platform
type Messenger interface {
	SendMessage(ctx context.Context, roomID, text string) error
	// OpenDirectRoom returns the direct-message room between the bot and userID
	OpenDirectRoom(ctx context.Context, userID string) (string, error)
}

// UserDirectory resolves chat users to their profile email
type UserDirectory interface {
	// LookupUserEmail accepts a user id, a <@U123|name> mention or an @name handle
	LookupUserEmail(ctx context.Context, userRef string) (string, error)
}

// SlackClient defines the Slack operations the command surface needs
type SlackClient interface {
	Messenger
	UserDirectory

	PostBlocks(ctx context.Context, channelID, fallbackText string, blocks ...slack.Block) error
	PostEphemeral(ctx context.Context, channelID, userID, text string, blocks ...slack.Block) error
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
	PushView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
}

// AtlassianOAuthClient wraps the Atlassian 3LO authorization server and identity endpoints
type AtlassianOAuthClient interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*models.OAuthToken, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.OAuthToken, error)
	GetProfile(ctx context.Context, accessToken string) (*models.AtlassianProfile, error)
	GetAccessibleResources(ctx context.Context, accessToken string) ([]models.AccessibleResource, error)
}

// JiraClient performs one Jira Cloud REST call per method
type JiraClient interface {
	CreateIssue(ctx context.Context, auth models.JiraAuth, req models.CreateIssueRequest, assigneeAccountID string) (*models.CreatedIssue, error)
	SearchIssues(ctx context.Context, auth models.JiraAuth, jql string, maxResults int) ([]models.Issue, error)
	SearchUsers(ctx context.Context, auth models.JiraAuth, query string) ([]models.JiraUser, error)
	AssignIssue(ctx context.Context, auth models.JiraAuth, issueKey, accountID string) error
	AddComment(ctx context.Context, auth models.JiraAuth, issueKey, body string) (*models.Comment, error)
	GetIssue(ctx context.Context, auth models.JiraAuth, issueKey string) (*models.Issue, error)
	GetComments(ctx context.Context, auth models.JiraAuth, issueKey string) ([]models.Comment, error)
	ListProjects(ctx context.Context, auth models.JiraAuth) ([]models.Project, error)
}
