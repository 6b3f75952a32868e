package jira

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"jirabackend/models"
)

type submissionHandler func(ctx context.Context, callback slack.InteractionCallback, credential *models.Credential, meta viewMetadata) (*slack.ViewSubmissionResponse, error)

type blockActionHandler func(ctx context.Context, callback slack.InteractionCallback, action *slack.BlockAction) error

func (u *JiraUseCase) submissionTable() map[string]submissionHandler {
	return map[string]submissionHandler{
		CreateModalCallbackID:     u.submitCreate,
		SearchModalCallbackID:     u.submitSearch,
		AssignModalCallbackID:     u.submitAssign,
		AddCommentModalCallbackID: u.submitComment,
	}
}

func (u *JiraUseCase) blockActionTable() map[string]blockActionHandler {
	return map[string]blockActionHandler{
		AddCommentButtonActionID: u.openCommentModal,
		ViewIssueButtonActionID:  u.pushIssueDetails,
		LoginButtonActionID:      acknowledge,
		OpenIssueButtonActionID:  acknowledge,
	}
}

func (u *JiraUseCase) ProcessViewSubmission(ctx context.Context, callback slack.InteractionCallback) (*slack.ViewSubmissionResponse, error) {
	callbackID := callback.View.CallbackID
	log.Info().Str("user_id", callback.User.ID).Str("callback_id", callbackID).Msg("📋 Starting to process jira modal submission")

	handler, ok := u.submissions[callbackID]
	if !ok {
		log.Warn().Str("callback_id", callbackID).Msg("⚠️ Unhandled jira modal submission")
		return nil, nil
	}

	meta := decodeMetadata(callback.View.PrivateMetadata)
	credential, ok, err := u.credentialFor(ctx, callback.User.ID, meta.ChannelID)
	if !ok {
		return nil, err
	}

	response, err := handler(ctx, callback, credential, meta)
	if err != nil {
		return nil, fmt.Errorf("modal %s: %w", callbackID, err)
	}
	log.Info().Str("callback_id", callbackID).Msg("📋 Completed successfully - processed jira modal submission")
	return response, nil
}

func (u *JiraUseCase) ProcessBlockActions(ctx context.Context, callback slack.InteractionCallback) error {
	for _, action := range callback.ActionCallback.BlockActions {
		handler, ok := u.blockActions[action.ActionID]
		if !ok {
			log.Warn().Str("action_id", action.ActionID).Msg("⚠️ Unhandled jira block action")
			continue
		}
		if err := handler(ctx, callback, action); err != nil {
			return fmt.Errorf("block action %s: %w", action.ActionID, err)
		}
	}
	return nil
}

func acknowledge(context.Context, slack.InteractionCallback, *slack.BlockAction) error {
	return nil
}

// stateValue reads whatever kind of value the input holds
func stateValue(view slack.View, blockID, actionID string) string {
	if view.State == nil {
		return ""
	}
	action, ok := view.State.Values[blockID][actionID]
	if !ok {
		return ""
	}
	switch {
	case action.SelectedOption.Value != "":
		return action.SelectedOption.Value
	case action.SelectedUser != "":
		return action.SelectedUser
	case action.SelectedDate != "":
		return action.SelectedDate
	default:
		return strings.TrimSpace(action.Value)
	}
}

// mention turns a selected Slack user id into a reference the assignee resolver accepts
func mention(userID string) string {
	if userID == "" {
		return ""
	}
	return "<@" + userID + ">"
}

func (u *JiraUseCase) submitCreate(ctx context.Context, callback slack.InteractionCallback, credential *models.Credential, meta viewMetadata) (*slack.ViewSubmissionResponse, error) {
	view := callback.View
	req := models.CreateIssueRequest{
		ProjectKey:  stateValue(view, ProjectBlockID, ProjectActionID),
		IssueType:   stateValue(view, IssueTypeBlockID, IssueTypeActionID),
		Summary:     stateValue(view, SummaryBlockID, SummaryActionID),
		Description: stateValue(view, DescriptionBlockID, DescriptionActionID),
		Priority:    stateValue(view, PriorityBlockID, PriorityActionID),
		Assignee:    mention(stateValue(view, AssigneeBlockID, AssigneeActionID)),
		DueDate:     stateValue(view, DeadlineBlockID, DeadlineActionID),
	}
	if req.Summary == "" {
		return slack.NewErrorsViewSubmissionResponse(map[string]string{SummaryBlockID: "A summary is required"}), nil
	}
	u.createIssue(ctx, credential, meta.ChannelID, callback.User.ID, req)
	return nil, nil
}

// submitSearch replaces the search form with its results
func (u *JiraUseCase) submitSearch(ctx context.Context, callback slack.InteractionCallback, credential *models.Credential, meta viewMetadata) (*slack.ViewSubmissionResponse, error) {
	view := callback.View
	filter := models.SearchFilter{
		ProjectKey: strings.ToUpper(stateValue(view, ProjectBlockID, ProjectActionID)),
		Status:     stateValue(view, StatusBlockID, StatusActionID),
		IssueType:  stateValue(view, IssueTypeBlockID, IssueTypeActionID),
		Priority:   stateValue(view, PriorityBlockID, PriorityActionID),
		Assignee:   stateValue(view, AssigneeBlockID, AssigneeActionID),
		Text:       stateValue(view, TextBlockID, TextActionID),
	}
	if filter.IsEmpty() {
		return slack.NewErrorsViewSubmissionResponse(map[string]string{ProjectBlockID: "Pick at least one filter"}), nil
	}

	results := SearchResultsView(filter, u.issuesService.Search(ctx, credential, filter), meta)
	return slack.NewUpdateViewSubmissionResponse(&results), nil
}

func (u *JiraUseCase) submitAssign(ctx context.Context, callback slack.InteractionCallback, credential *models.Credential, meta viewMetadata) (*slack.ViewSubmissionResponse, error) {
	issueKey := stateValue(callback.View, IssueBlockID, IssueActionID)
	assignee := mention(stateValue(callback.View, AssigneeBlockID, AssigneeActionID))
	if issueKey == "" || assignee == "" {
		u.notify(ctx, meta.ChannelID, callback.User.ID, "❌ Please select both an issue and an assignee.")
		return nil, nil
	}
	u.assignIssue(ctx, credential, meta.ChannelID, callback.User.ID, issueKey, assignee)
	return nil, nil
}

func (u *JiraUseCase) submitComment(ctx context.Context, callback slack.InteractionCallback, credential *models.Credential, meta viewMetadata) (*slack.ViewSubmissionResponse, error) {
	body := stateValue(callback.View, CommentBlockID, CommentActionID)
	if body == "" {
		return slack.NewErrorsViewSubmissionResponse(map[string]string{CommentBlockID: "Please enter a comment."}), nil
	}
	if meta.IssueKey == "" {
		u.notify(ctx, meta.ChannelID, callback.User.ID, "Invalid issue key. Please try again.")
		return nil, nil
	}
	u.addComment(ctx, credential, meta.ChannelID, callback.User.ID, meta.IssueKey, body)
	return nil, nil
}

func (u *JiraUseCase) openCommentModal(ctx context.Context, callback slack.InteractionCallback, action *slack.BlockAction) error {
	meta := decodeMetadata(callback.View.PrivateMetadata)
	meta.IssueKey = action.Value
	if err := u.slackClient.PushView(ctx, callback.TriggerID, AddCommentView(meta)); err != nil {
		return fmt.Errorf("failed to push comment modal: %w", err)
	}
	return nil
}

func (u *JiraUseCase) pushIssueDetails(ctx context.Context, callback slack.InteractionCallback, action *slack.BlockAction) error {
	meta := decodeMetadata(callback.View.PrivateMetadata)
	credential, ok, err := u.credentialFor(ctx, callback.User.ID, meta.ChannelID)
	if !ok {
		return err
	}

	result := u.issuesService.IssueDetails(ctx, credential, action.Value)
	if !result.Success {
		u.notify(ctx, meta.ChannelID, callback.User.ID, "❌ Failed to fetch issue: "+result.Error)
		return nil
	}
	meta.IssueKey = result.Data.Issue.Key
	if err := u.slackClient.PushView(ctx, callback.TriggerID, IssueDetailsView(result.Data, meta)); err != nil {
		return fmt.Errorf("failed to push issue details modal: %w", err)
	}
	return nil
}
