package jira

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"jirabackend/models"
	"jirabackend/utils"
)

const maxListedIssues = 25

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

func markdown(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func createdMessage(created *models.CreatedIssue, req models.CreateIssueRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Jira issue *%s* created successfully!\n\n", created.Key)
	fmt.Fprintf(&b, "📋 Summary: %s\n🏷️ Type: %s\n📁 Project: %s", req.Summary, req.IssueType, strings.ToUpper(req.ProjectKey))
	if req.DueDate != "" {
		fmt.Fprintf(&b, "\n⏰ Deadline: %s", req.DueDate)
	}
	if url := created.BrowseURL(); url != "" {
		fmt.Fprintf(&b, "\n🔗 %s", url)
	}
	return b.String()
}

// issueLink renders KEY as a Slack link to the issue page when its URL is known
func issueLink(issue models.Issue) string {
	if url := issue.BrowseURL(); url != "" {
		return fmt.Sprintf("<%s|%s>", url, issue.Key)
	}
	return issue.Key
}

func issueLine(issue models.Issue) string {
	return fmt.Sprintf("*%s* %s\n%s · %s · %s",
		issueLink(issue),
		utils.Truncate(utils.FirstNonEmpty(issue.Fields.Summary, models.NoSummaryValue), 150),
		issue.StatusName(), issue.PriorityName(), issue.AssigneeName())
}

func issueListText(title string, issues []models.Issue) string {
	if len(issues) == 0 {
		return title + "\nNo issues found."
	}
	lines := []string{title}
	for i, issue := range issues {
		if i == maxListedIssues {
			lines = append(lines, fmt.Sprintf("_...and %d more_", len(issues)-maxListedIssues))
			break
		}
		lines = append(lines, "• "+strings.ReplaceAll(issueLine(issue), "\n", " · "))
	}
	return strings.Join(lines, "\n")
}

func projectLabel(projectKey string) string {
	if projectKey == models.AllProjects {
		return "*all projects*"
	}
	return "*" + projectKey + "*"
}

func eventsLabel(events []string) string {
	if len(events) == 0 {
		return "all events"
	}
	return strings.Join(events, ", ")
}

func roomSubscriptionsText(subs []*models.ChannelSubscription) string {
	if len(subs) == 0 {
		return "This channel has no Jira subscriptions. Use `/jira subscribe <project>` to add one."
	}
	lines := []string{"*Jira subscriptions for this channel*"}
	for _, sub := range subs {
		lines = append(lines, fmt.Sprintf("• %s (%s)", projectLabel(sub.ProjectKey), eventsLabel(sub.Events)))
	}
	return strings.Join(lines, "\n")
}

func userWatchesText(subs []*models.UserSubscription) string {
	if len(subs) == 0 {
		return "You are not watching any issues. Use `/jira watch <issue>` to start."
	}
	lines := []string{"*Issues you are watching*"}
	for _, sub := range subs {
		lines = append(lines, fmt.Sprintf("• *%s* (%s)", sub.IssueKey, eventsLabel(sub.Events)))
	}
	return strings.Join(lines, "\n")
}
