package jira

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"jirabackend/models"
	"jirabackend/services/issues"
)

type commandHandler func(ctx context.Context, cmd models.SlashCommand, args []string) error

const helpText = "*Jira commands*\n" +
	"`/jira login` connect your Jira account\n" +
	"`/jira logout` forget your Jira account\n" +
	"`/jira create [type project summary...]` create an issue\n" +
	"`/jira my` issues assigned to you\n" +
	"`/jira search [project=KEY status=In_Progress type=Bug priority=High assignee=me text...]` search issues\n" +
	"`/jira assign [issue assignee]` assign an issue to me, @someone or an email\n" +
	"`/jira issue <issue>` show an issue with its comments\n" +
	"`/jira comment <issue> [text...]` comment on an issue\n" +
	"`/jira subscribe [project|*] [events...]` post project events to this channel (sprint events need `*`)\n" +
	"`/jira unsubscribe <project|*>` stop posting project events here\n" +
	"`/jira watch [issue] [events...]` get direct messages about an issue\n" +
	"`/jira unwatch <issue>` stop direct messages about an issue"

func (u *JiraUseCase) commandTable() map[string]commandHandler {
	return map[string]commandHandler{
		"login":       u.login,
		"logout":      u.logout,
		"create":      u.create,
		"my":          u.myIssues,
		"search":      u.search,
		"assign":      u.assign,
		"issue":       u.issue,
		"comment":     u.comment,
		"subscribe":   u.subscribe,
		"unsubscribe": u.unsubscribe,
		"watch":       u.watch,
		"unwatch":     u.unwatch,
		"help":        u.help,
	}
}

func (u *JiraUseCase) ProcessSlashCommand(ctx context.Context, cmd models.SlashCommand) error {
	name, args := cmd.Subcommand()
	log.Info().Str("user_id", cmd.UserID).Str("subcommand", name).Msg("📋 Starting to process jira command")

	handler, ok := u.commands[name]
	if !ok {
		return u.unknownCommand(ctx, cmd, name)
	}
	if err := handler(ctx, cmd, args); err != nil {
		return fmt.Errorf("jira %s: %w", name, err)
	}

	log.Info().Str("subcommand", name).Msg("📋 Completed successfully - processed jira command")
	return nil
}

func (u *JiraUseCase) unknownCommand(ctx context.Context, cmd models.SlashCommand, name string) error {
	log.Warn().Str("subcommand", name).Msg("⚠️ Unhandled jira subcommand")
	text := helpText
	if name != "" {
		text = fmt.Sprintf("Unknown command `%s`.\n\n%s", name, helpText)
	}
	u.notify(ctx, cmd.ChannelID, cmd.UserID, text)
	return nil
}

func (u *JiraUseCase) help(ctx context.Context, cmd models.SlashCommand, _ []string) error {
	u.notify(ctx, cmd.ChannelID, cmd.UserID, helpText)
	return nil
}

func (u *JiraUseCase) login(ctx context.Context, cmd models.SlashCommand, _ []string) error {
	authURL, err := u.oauthService.BuildAuthorizationURL(cmd.UserID)
	if err != nil {
		return err
	}
	text := "Click 👇 to Login with Jira"
	button := slack.NewButtonBlockElement(LoginButtonActionID, "login", plain("Login with Jira"))
	button.URL = authURL
	button.Style = slack.StylePrimary

	if err := u.slackClient.PostEphemeral(ctx, cmd.ChannelID, cmd.UserID, text,
		slack.NewSectionBlock(markdown(text), nil, nil),
		slack.NewActionBlock(LoginButtonBlockID, button),
	); err != nil {
		return fmt.Errorf("failed to post login link: %w", err)
	}
	return nil
}

func (u *JiraUseCase) logout(ctx context.Context, cmd models.SlashCommand, _ []string) error {
	if err := u.oauthService.Logout(ctx, cmd.UserID); err != nil {
		return err
	}
	u.notify(ctx, cmd.ChannelID, cmd.UserID, "You have been logged out of Jira.")
	return nil
}

// create makes the issue right away when type, project and summary are given and
// opens the create modal otherwise.
func (u *JiraUseCase) create(ctx context.Context, cmd models.SlashCommand, args []string) error {
	credential, ok, err := u.credentialFor(ctx, cmd.UserID, cmd.ChannelID)
	if !ok {
		return err
	}

	if len(args) < 3 {
		projects := u.issuesService.Projects(ctx, credential)
		if !projects.Success {
			log.Warn().Str("error", projects.Error).Msg("⚠️ Could not list jira projects for the create modal")
		}
		return u.openView(ctx, cmd.TriggerID, CreateIssueView(projects.Data, viewMetadata{ChannelID: cmd.ChannelID}))
	}

	req := models.CreateIssueRequest{
		IssueType:  args[0],
		ProjectKey: args[1],
		Summary:    strings.Join(args[2:], " "),
	}
	u.createIssue(ctx, credential, cmd.ChannelID, cmd.UserID, req)
	return nil
}

func (u *JiraUseCase) createIssue(ctx context.Context, credential *models.Credential, channelID, userID string, req models.CreateIssueRequest) {
	result := u.issuesService.Create(ctx, credential, req)
	if !result.Success {
		u.notify(ctx, channelID, userID, "❌ Failed to create Jira issue: "+result.Error)
		return
	}
	u.announce(ctx, channelID, userID, createdMessage(result.Data, req))
}

func (u *JiraUseCase) myIssues(ctx context.Context, cmd models.SlashCommand, _ []string) error {
	credential, ok, err := u.credentialFor(ctx, cmd.UserID, cmd.ChannelID)
	if !ok {
		return err
	}

	result := u.issuesService.MyIssues(ctx, credential)
	if !result.Success {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, "❌ Failed to fetch your issues: "+result.Error)
		return nil
	}
	return u.openView(ctx, cmd.TriggerID, MyIssuesView(result.Data, viewMetadata{ChannelID: cmd.ChannelID}))
}

func (u *JiraUseCase) search(ctx context.Context, cmd models.SlashCommand, args []string) error {
	credential, ok, err := u.credentialFor(ctx, cmd.UserID, cmd.ChannelID)
	if !ok {
		return err
	}

	if len(args) == 0 {
		projects := u.issuesService.Projects(ctx, credential)
		if !projects.Success {
			log.Warn().Str("error", projects.Error).Msg("⚠️ Could not list jira projects for the search modal")
		}
		return u.openView(ctx, cmd.TriggerID, SearchView(projects.Data, viewMetadata{ChannelID: cmd.ChannelID}))
	}

	filter := issues.ParseSearchArgs(args)
	result := u.issuesService.Search(ctx, credential, filter)
	if !result.Success {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, "❌ Search failed: "+result.Error)
		return nil
	}
	text := issueListText(fmt.Sprintf("🔍 *Search results for* `%s`", strings.Join(args, " ")), result.Data)
	u.notify(ctx, cmd.ChannelID, cmd.UserID, text)
	return nil
}

// assign assigns directly when both the issue and the assignee are given, otherwise
// it opens a modal listing unassigned issues.
func (u *JiraUseCase) assign(ctx context.Context, cmd models.SlashCommand, args []string) error {
	credential, ok, err := u.credentialFor(ctx, cmd.UserID, cmd.ChannelID)
	if !ok {
		return err
	}

	if len(args) < 2 {
		result := u.issuesService.Unassigned(ctx, credential)
		if !result.Success {
			u.notify(ctx, cmd.ChannelID, cmd.UserID, "❌ Failed to fetch unassigned issues: "+result.Error)
			return nil
		}
		if len(result.Data) == 0 && len(args) == 0 {
			u.notify(ctx, cmd.ChannelID, cmd.UserID, "There are no unassigned issues.")
			return nil
		}
		meta := viewMetadata{ChannelID: cmd.ChannelID}
		if len(args) == 1 {
			meta.IssueKey = strings.ToUpper(args[0])
		}
		return u.openView(ctx, cmd.TriggerID, AssignView(result.Data, meta))
	}

	u.assignIssue(ctx, credential, cmd.ChannelID, cmd.UserID, args[0], strings.Join(args[1:], " "))
	return nil
}

func (u *JiraUseCase) assignIssue(ctx context.Context, credential *models.Credential, channelID, userID, issueKey, assignee string) {
	result := u.issuesService.Assign(ctx, credential, issueKey, assignee)
	if !result.Success {
		u.notify(ctx, channelID, userID, "❌ Failed to assign issue: "+result.Error)
		return
	}
	name := result.Data.Assignee.DisplayName
	if name == "" {
		name = assignee
	}
	u.announce(ctx, channelID, userID, fmt.Sprintf("✅ Issue *%s* has been assigned to *%s* successfully!", result.Data.IssueKey, name))
}

func (u *JiraUseCase) issue(ctx context.Context, cmd models.SlashCommand, args []string) error {
	if len(args) == 0 {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, "Usage: `/jira issue <issue>`")
		return nil
	}
	credential, ok, err := u.credentialFor(ctx, cmd.UserID, cmd.ChannelID)
	if !ok {
		return err
	}

	result := u.issuesService.IssueDetails(ctx, credential, args[0])
	if !result.Success {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, "❌ Failed to fetch issue: "+result.Error)
		return nil
	}
	return u.openView(ctx, cmd.TriggerID, IssueDetailsView(result.Data, viewMetadata{ChannelID: cmd.ChannelID, IssueKey: result.Data.Issue.Key}))
}

func (u *JiraUseCase) comment(ctx context.Context, cmd models.SlashCommand, args []string) error {
	if len(args) == 0 {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, "Usage: `/jira comment <issue> [text...]`")
		return nil
	}
	credential, ok, err := u.credentialFor(ctx, cmd.UserID, cmd.ChannelID)
	if !ok {
		return err
	}

	issueKey := strings.ToUpper(args[0])
	if len(args) == 1 {
		return u.openView(ctx, cmd.TriggerID, AddCommentView(viewMetadata{ChannelID: cmd.ChannelID, IssueKey: issueKey}))
	}
	u.addComment(ctx, credential, cmd.ChannelID, cmd.UserID, issueKey, strings.Join(args[1:], " "))
	return nil
}

func (u *JiraUseCase) addComment(ctx context.Context, credential *models.Credential, channelID, userID, issueKey, body string) {
	result := u.issuesService.AddComment(ctx, credential, issueKey, body)
	if !result.Success {
		u.notify(ctx, channelID, userID, "❌ Failed to add comment: "+result.Error)
		return
	}
	u.notify(ctx, channelID, userID, fmt.Sprintf("✅ Comment added successfully to issue *%s*!", strings.ToUpper(issueKey)))
}

func (u *JiraUseCase) subscribe(ctx context.Context, cmd models.SlashCommand, args []string) error {
	if len(args) == 0 {
		subs, err := u.subscriptionsService.ListRoomSubscriptions(ctx, models.ChannelTypeSlack, cmd.ChannelID)
		if err != nil {
			return err
		}
		u.notify(ctx, cmd.ChannelID, cmd.UserID, roomSubscriptionsText(subs))
		return nil
	}

	sub, err := u.subscriptionsService.SubscribeChannel(ctx, models.ChannelTypeSlack, cmd.ChannelID, args[0], args[1:])
	if err != nil {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, "❌ Could not subscribe: "+err.Error())
		return nil
	}
	u.announce(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("✅ This channel is now subscribed to %s (%s)", projectLabel(sub.ProjectKey), eventsLabel(sub.Events)))
	return nil
}

func (u *JiraUseCase) unsubscribe(ctx context.Context, cmd models.SlashCommand, args []string) error {
	if len(args) == 0 {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, "Usage: `/jira unsubscribe <project|*>`")
		return nil
	}
	deleted, err := u.subscriptionsService.UnsubscribeChannel(ctx, models.ChannelTypeSlack, cmd.ChannelID, args[0])
	if err != nil {
		return err
	}
	if !deleted {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("This channel is not subscribed to %s.", projectLabel(strings.ToUpper(args[0]))))
		return nil
	}
	u.announce(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("✅ This channel is no longer subscribed to %s", projectLabel(strings.ToUpper(args[0]))))
	return nil
}

func (u *JiraUseCase) watch(ctx context.Context, cmd models.SlashCommand, args []string) error {
	if len(args) == 0 {
		subs, err := u.subscriptionsService.ListUserWatches(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		u.notify(ctx, cmd.ChannelID, cmd.UserID, userWatchesText(subs))
		return nil
	}

	accountID := ""
	if maybeCredential, err := u.oauthService.AuthorizedCredential(ctx, cmd.UserID); err == nil {
		if credential, ok := maybeCredential.Get(); ok {
			accountID = credential.AccountID
		}
	}

	sub, err := u.subscriptionsService.WatchIssue(ctx, cmd.UserID, accountID, args[0], args[1:])
	if err != nil {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, "❌ Could not watch issue: "+err.Error())
		return nil
	}
	u.notify(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("👀 You are now watching *%s* (%s)", sub.IssueKey, eventsLabel(sub.Events)))
	return nil
}

func (u *JiraUseCase) unwatch(ctx context.Context, cmd models.SlashCommand, args []string) error {
	if len(args) == 0 {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, "Usage: `/jira unwatch <issue>`")
		return nil
	}
	issueKey := strings.ToUpper(args[0])
	deleted, err := u.subscriptionsService.UnwatchIssue(ctx, cmd.UserID, issueKey)
	if err != nil {
		return err
	}
	if !deleted {
		u.notify(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("You are not watching *%s*.", issueKey))
		return nil
	}
	u.notify(ctx, cmd.ChannelID, cmd.UserID, fmt.Sprintf("You stopped watching *%s*.", issueKey))
	return nil
}

func (u *JiraUseCase) openView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if err := u.slackClient.OpenView(ctx, triggerID, view); err != nil {
		return fmt.Errorf("failed to open %s modal: %w", view.CallbackID, err)
	}
	return nil
}
