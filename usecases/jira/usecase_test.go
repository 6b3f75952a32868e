package jira

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	slackclient "jirabackend/clients/slack"
	"jirabackend/models"
	"jirabackend/services/issues"
	"jirabackend/services/oauth"
	"jirabackend/services/subscriptions"
	"jirabackend/testutils"
)

type useCaseFixture struct {
	useCase       *JiraUseCase
	slack         *slackclient.MockSlackClient
	oauth         *oauth.MockOAuthService
	issues        *issues.MockIssuesService
	subscriptions *subscriptions.MockSubscriptionsService
	credential    *models.Credential
}

func newUseCaseFixture() *useCaseFixture {
	f := &useCaseFixture{
		slack:         &slackclient.MockSlackClient{},
		oauth:         &oauth.MockOAuthService{},
		issues:        &issues.MockIssuesService{},
		subscriptions: &subscriptions.MockSubscriptionsService{},
		credential:    testutils.NewTestCredential("U1"),
	}
	f.useCase = NewJiraUseCase(f.slack, f.oauth, f.issues, f.subscriptions)
	return f
}

func (f *useCaseFixture) loggedIn() {
	f.oauth.On("AuthorizedCredential", mock.Anything, "U1").Return(mo.Some(f.credential), nil)
}

func (f *useCaseFixture) loggedOut() {
	f.oauth.On("AuthorizedCredential", mock.Anything, "U1").Return(mo.None[*models.Credential](), nil)
}

func command(text string) models.SlashCommand {
	return models.SlashCommand{UserID: "U1", UserName: "alice", ChannelID: "C1", TriggerID: "T1", Text: text}
}

func submission(callbackID string, values map[string]map[string]slack.BlockAction) slack.InteractionCallback {
	return slack.InteractionCallback{
		Type:      slack.InteractionTypeViewSubmission,
		User:      slack.User{ID: "U1"},
		TriggerID: "T2",
		View: slack.View{
			CallbackID:      callbackID,
			PrivateMetadata: viewMetadata{ChannelID: "C1", IssueKey: "AB-1"}.encode(),
			State:           &slack.ViewState{Values: values},
		},
	}
}

func TestJiraUseCase_ProcessSlashCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("login posts the authorization button", func(t *testing.T) {
		f := newUseCaseFixture()
		f.oauth.On("BuildAuthorizationURL", "U1").Return("https://auth.atlassian.com/authorize?state=U1", nil)

		var blocks []slack.Block
		f.slack.On("PostEphemeral", mock.Anything, "C1", "U1", "Click 👇 to Login with Jira", mock.Anything).
			Run(func(args mock.Arguments) { blocks = args.Get(4).([]slack.Block) }).
			Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("login")))

		require.Len(t, blocks, 2)
		actions, ok := blocks[1].(*slack.ActionBlock)
		require.True(t, ok)
		button, ok := actions.Elements.ElementSet[0].(*slack.ButtonBlockElement)
		require.True(t, ok)
		assert.Equal(t, "https://auth.atlassian.com/authorize?state=U1", button.URL)
		assert.Equal(t, LoginButtonActionID, button.ActionID)
	})

	t.Run("not logged in stops before any jira call", func(t *testing.T) {
		for _, text := range []string{"create Bug AB Broken", "my", "search project=AB", "assign AB-1 me", "issue AB-1", "comment AB-1 hi"} {
			f := newUseCaseFixture()
			f.loggedOut()
			f.slack.On("PostEphemeral", mock.Anything, "C1", "U1", NotLoggedInMessage, mock.Anything).Return(nil).Once()

			require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command(text)), text)

			f.slack.AssertExpectations(t)
			assert.Empty(t, f.issues.Calls, text)
		}
	})

	t.Run("create with arguments creates right away", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("Create", mock.Anything, f.credential, models.CreateIssueRequest{
			IssueType: "Bug", ProjectKey: "AB", Summary: "Login page broken",
		}).Return(models.Ok(&models.CreatedIssue{ID: "1", Key: "AB-7"})).Once()
		f.slack.On("SendMessage", mock.Anything, "C1", mock.MatchedBy(func(text string) bool {
			return strings.HasPrefix(text, "✅ Jira issue *AB-7* created successfully!") &&
				strings.Contains(text, "📋 Summary: Login page broken")
		})).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("create Bug AB Login page broken")))
		f.issues.AssertExpectations(t)
		f.slack.AssertExpectations(t)
	})

	t.Run("create failure is shown to the caller", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("Create", mock.Anything, f.credential, mock.Anything).
			Return(models.Fail[*models.CreatedIssue]("project is required")).Once()
		f.slack.On("PostEphemeral", mock.Anything, "C1", "U1", "❌ Failed to create Jira issue: project is required", mock.Anything).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("create Bug AB x")))
		f.slack.AssertExpectations(t)
	})

	t.Run("create without arguments opens the modal", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("Projects", mock.Anything, f.credential).Return(models.Ok([]models.Project{{Key: "AB", Name: "Alpha"}}))
		f.slack.On("OpenView", mock.Anything, "T1", mock.MatchedBy(func(view slack.ModalViewRequest) bool {
			return view.CallbackID == CreateModalCallbackID && decodeMetadata(view.PrivateMetadata).ChannelID == "C1"
		})).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("create")))
		f.slack.AssertExpectations(t)
	})

	t.Run("assign with arguments", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("Assign", mock.Anything, f.credential, "AB-1", "me").Return(models.Ok(&models.Assignment{
			IssueKey: "AB-1", Assignee: models.JiraUser{AccountID: "acc-U1", DisplayName: "Alice"},
		})).Once()
		f.slack.On("SendMessage", mock.Anything, "C1", "✅ Issue *AB-1* has been assigned to *Alice* successfully!").Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("assign AB-1 me")))
		f.slack.AssertExpectations(t)
	})

	t.Run("assign without arguments opens the modal with unassigned issues", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("Unassigned", mock.Anything, f.credential).Return(models.Ok([]models.Issue{{Key: "AB-3"}}))
		f.slack.On("OpenView", mock.Anything, "T1", mock.MatchedBy(func(view slack.ModalViewRequest) bool {
			return view.CallbackID == AssignModalCallbackID
		})).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("assign")))
		f.slack.AssertExpectations(t)
	})

	t.Run("search with arguments lists results", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("Search", mock.Anything, f.credential, models.SearchFilter{ProjectKey: "AB", Text: "login"}).
			Return(models.Ok([]models.Issue{{Key: "AB-1", Fields: models.IssueFields{Summary: "Fix login"}}})).Once()
		f.slack.On("PostEphemeral", mock.Anything, "C1", "U1", mock.MatchedBy(func(text string) bool {
			return strings.Contains(text, "AB-1") && strings.Contains(text, "Fix login")
		}), mock.Anything).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("search project=ab login")))
		f.issues.AssertExpectations(t)
	})

	t.Run("my issues opens a modal", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("MyIssues", mock.Anything, f.credential).Return(models.Ok([]models.Issue{{Key: "AB-1"}, {Key: "AB-2"}}))
		f.slack.On("OpenView", mock.Anything, "T1", mock.MatchedBy(func(view slack.ModalViewRequest) bool {
			return view.CallbackID == MyIssuesModalCallbackID && len(view.Blocks.BlockSet) == 4
		})).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("my")))
		f.slack.AssertExpectations(t)
	})

	t.Run("comment with text", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("AddComment", mock.Anything, f.credential, "AB-1", "looks good").Return(models.Ok(&models.Comment{ID: "5"})).Once()
		f.slack.On("PostEphemeral", mock.Anything, "C1", "U1", "✅ Comment added successfully to issue *AB-1*!", mock.Anything).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("comment ab-1 looks good")))
		f.slack.AssertExpectations(t)
	})

	t.Run("subscribe the channel", func(t *testing.T) {
		f := newUseCaseFixture()
		f.subscriptions.On("SubscribeChannel", mock.Anything, models.ChannelTypeSlack, "C1", "ab", mock.Anything).
			Return(&models.ChannelSubscription{ID: "cs_1", ProjectKey: "AB", RoomID: "C1", Platform: models.ChannelTypeSlack}, nil).Once()
		f.slack.On("SendMessage", mock.Anything, "C1", "✅ This channel is now subscribed to *AB* (all events)").Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("subscribe ab")))
		f.slack.AssertExpectations(t)
	})

	t.Run("watch records the account id when logged in", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.subscriptions.On("WatchIssue", mock.Anything, "U1", "acc-U1", "AB-1", mock.Anything).
			Return(&models.UserSubscription{ID: "us_1", IssueKey: "AB-1", UserID: "U1", Events: []string{"comment_created"}}, nil).Once()
		f.slack.On("PostEphemeral", mock.Anything, "C1", "U1", "👀 You are now watching *AB-1* (comment_created)", mock.Anything).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("watch AB-1 comment_created")))
		f.subscriptions.AssertExpectations(t)
	})

	t.Run("unknown subcommand answers with help", func(t *testing.T) {
		f := newUseCaseFixture()
		f.slack.On("PostEphemeral", mock.Anything, "C1", "U1", mock.MatchedBy(func(text string) bool {
			return strings.HasPrefix(text, "Unknown command `frobnicate`.") && strings.Contains(text, "/jira login") &&
				strings.Contains(text, "sprint events need `*`")
		}), mock.Anything).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessSlashCommand(ctx, command("frobnicate")))
		f.slack.AssertExpectations(t)
	})

	t.Run("credential errors surface", func(t *testing.T) {
		f := newUseCaseFixture()
		f.oauth.On("AuthorizedCredential", mock.Anything, "U1").Return(mo.None[*models.Credential](), errors.New("store down"))

		err := f.useCase.ProcessSlashCommand(ctx, command("my"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store down")
	})
}

func TestJiraUseCase_ProcessViewSubmission(t *testing.T) {
	ctx := context.Background()

	t.Run("search replaces the form with results", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		filter := models.SearchFilter{ProjectKey: "AB", Status: "Done"}
		f.issues.On("Search", mock.Anything, f.credential, filter).Return(models.Ok([]models.Issue{{Key: "AB-1"}})).Once()

		response, err := f.useCase.ProcessViewSubmission(ctx, submission(SearchModalCallbackID, map[string]map[string]slack.BlockAction{
			ProjectBlockID: {ProjectActionID: {SelectedOption: slack.OptionBlockObject{Value: "AB"}}},
			StatusBlockID:  {StatusActionID: {SelectedOption: slack.OptionBlockObject{Value: "Done"}}},
		}))

		require.NoError(t, err)
		require.NotNil(t, response)
		assert.Equal(t, slack.RAUpdate, response.ResponseAction)
		require.NotNil(t, response.View)
		assert.Equal(t, SearchResultsModalCallbackID, response.View.CallbackID)
	})

	t.Run("create reads every field", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("Create", mock.Anything, f.credential, models.CreateIssueRequest{
			ProjectKey: "AB", IssueType: "Task", Summary: "Write docs", Description: "All of them",
			Priority: "High", Assignee: "<@U2>", DueDate: "2026-11-01",
		}).Return(models.Ok(&models.CreatedIssue{Key: "AB-9"})).Once()
		f.slack.On("SendMessage", mock.Anything, "C1", mock.MatchedBy(func(text string) bool {
			return strings.Contains(text, "*AB-9*") && strings.Contains(text, "⏰ Deadline: 2026-11-01")
		})).Return(nil).Once()

		response, err := f.useCase.ProcessViewSubmission(ctx, submission(CreateModalCallbackID, map[string]map[string]slack.BlockAction{
			ProjectBlockID:     {ProjectActionID: {SelectedOption: slack.OptionBlockObject{Value: "AB"}}},
			IssueTypeBlockID:   {IssueTypeActionID: {SelectedOption: slack.OptionBlockObject{Value: "Task"}}},
			SummaryBlockID:     {SummaryActionID: {Value: " Write docs "}},
			DescriptionBlockID: {DescriptionActionID: {Value: "All of them"}},
			PriorityBlockID:    {PriorityActionID: {SelectedOption: slack.OptionBlockObject{Value: "High"}}},
			AssigneeBlockID:    {AssigneeActionID: {SelectedUser: "U2"}},
			DeadlineBlockID:    {DeadlineActionID: {SelectedDate: "2026-11-01"}},
		}))

		require.NoError(t, err)
		assert.Nil(t, response)
		f.issues.AssertExpectations(t)
		f.slack.AssertExpectations(t)
	})

	t.Run("comment uses the issue from the metadata", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("AddComment", mock.Anything, f.credential, "AB-1", "ship it").Return(models.Ok(&models.Comment{ID: "3"})).Once()
		f.slack.On("PostEphemeral", mock.Anything, "C1", "U1", mock.Anything, mock.Anything).Return(nil)

		_, err := f.useCase.ProcessViewSubmission(ctx, submission(AddCommentModalCallbackID, map[string]map[string]slack.BlockAction{
			CommentBlockID: {CommentActionID: {Value: "ship it"}},
		}))
		require.NoError(t, err)
		f.issues.AssertExpectations(t)
	})

	t.Run("empty comment is rejected inline", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()

		response, err := f.useCase.ProcessViewSubmission(ctx, submission(AddCommentModalCallbackID, nil))
		require.NoError(t, err)
		require.NotNil(t, response)
		assert.Equal(t, slack.RAErrors, response.ResponseAction)
		assert.Contains(t, response.Errors, CommentBlockID)
	})

	t.Run("unhandled callback is ignored", func(t *testing.T) {
		f := newUseCaseFixture()
		response, err := f.useCase.ProcessViewSubmission(ctx, submission("something-else", nil))
		require.NoError(t, err)
		assert.Nil(t, response)
		assert.Empty(t, f.oauth.Calls)
	})
}

func TestJiraUseCase_ProcessBlockActions(t *testing.T) {
	ctx := context.Background()

	callback := func(actionID, value string) slack.InteractionCallback {
		return slack.InteractionCallback{
			Type:      slack.InteractionTypeBlockActions,
			User:      slack.User{ID: "U1"},
			TriggerID: "T3",
			View:      slack.View{PrivateMetadata: viewMetadata{ChannelID: "C1"}.encode()},
			ActionCallback: slack.ActionCallbacks{BlockActions: []*slack.BlockAction{
				{ActionID: actionID, Value: value},
			}},
		}
	}

	t.Run("view issue pushes the details modal", func(t *testing.T) {
		f := newUseCaseFixture()
		f.loggedIn()
		f.issues.On("IssueDetails", mock.Anything, f.credential, "AB-1").Return(models.Ok(&models.IssueDetails{
			Issue: models.Issue{Key: "AB-1", Fields: models.IssueFields{Summary: "S"}},
		}))
		f.slack.On("PushView", mock.Anything, "T3", mock.MatchedBy(func(view slack.ModalViewRequest) bool {
			meta := decodeMetadata(view.PrivateMetadata)
			return view.CallbackID == IssueDetailsModalCallbackID && meta.IssueKey == "AB-1" && meta.ChannelID == "C1"
		})).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessBlockActions(ctx, callback(ViewIssueButtonActionID, "AB-1")))
		f.slack.AssertExpectations(t)
	})

	t.Run("add comment button pushes the comment modal", func(t *testing.T) {
		f := newUseCaseFixture()
		f.slack.On("PushView", mock.Anything, "T3", mock.MatchedBy(func(view slack.ModalViewRequest) bool {
			return view.CallbackID == AddCommentModalCallbackID && decodeMetadata(view.PrivateMetadata).IssueKey == "AB-2"
		})).Return(nil).Once()

		require.NoError(t, f.useCase.ProcessBlockActions(ctx, callback(AddCommentButtonActionID, "AB-2")))
		f.slack.AssertExpectations(t)
	})

	t.Run("login button and unknown actions are acknowledged", func(t *testing.T) {
		f := newUseCaseFixture()
		require.NoError(t, f.useCase.ProcessBlockActions(ctx, callback(LoginButtonActionID, "login")))
		require.NoError(t, f.useCase.ProcessBlockActions(ctx, callback("mystery", "")))
		assert.Empty(t, f.slack.Calls)
	})
}

func TestJiraUseCase_CompleteLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newUseCaseFixture()
		f.oauth.On("ExchangeCodeForToken", mock.Anything, "code-1", "U1").Return(f.credential, nil)

		credential, err := f.useCase.CompleteLogin(ctx, "code-1", "U1")
		require.NoError(t, err)
		assert.Equal(t, f.credential, credential)
		assert.Empty(t, f.slack.Calls)
	})

	t.Run("failure is sent to the user", func(t *testing.T) {
		f := newUseCaseFixture()
		f.oauth.On("ExchangeCodeForToken", mock.Anything, "bad", "U1").Return(nil, errors.New("invalid_grant"))
		f.slack.On("OpenDirectRoom", mock.Anything, "U1").Return("D1", nil)
		f.slack.On("SendMessage", mock.Anything, "D1", mock.MatchedBy(func(text string) bool {
			return strings.HasPrefix(text, "❌ Login with Jira failed")
		})).Return(nil).Once()

		_, err := f.useCase.CompleteLogin(ctx, "bad", "U1")
		require.Error(t, err)
		f.slack.AssertExpectations(t)
	})
}
