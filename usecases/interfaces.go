package usecases

import (
	"context"

	"github.com/slack-go/slack"

	"jirabackend/models"
)

// JiraUseCaseInterface is the chat-facing surface of the Jira integration
type JiraUseCaseInterface interface {
	ProcessSlashCommand(ctx context.Context, cmd models.SlashCommand) error
	// ProcessViewSubmission answers a modal submission. A nil response closes the modal.
	ProcessViewSubmission(ctx context.Context, callback slack.InteractionCallback) (*slack.ViewSubmissionResponse, error)
	ProcessBlockActions(ctx context.Context, callback slack.InteractionCallback) error
	// CompleteLogin finishes the OAuth round trip started by the login command
	CompleteLogin(ctx context.Context, code, userID string) (*models.Credential, error)
}
