package notifications

import (
	"fmt"
	"strings"

	"jirabackend/models"
	"jirabackend/utils"
)

const (
	divider          = "━━━━━━━━━━━━━━━━"
	maxCommentLength = 1500
)

type changeFormat struct {
	label   string
	changed bool // render "Updated" instead of from → to
}

// channelFields are changelog fields shown to subscribed rooms
var channelFields = map[string]changeFormat{
	"status":      {label: "Status"},
	"summary":     {label: "Summary", changed: true},
	"description": {label: "Description", changed: true},
	"labels":      {label: "Labels"},
}

// directFields are changelog fields only sent to users watching the issue
var directFields = map[string]changeFormat{
	"assignee":      {label: "Assignee"},
	"duedate":       {label: "Deadline"},
	"due date":      {label: "Deadline"},
	"timetracking":  {label: "Time Tracking"},
	"time tracking": {label: "Time Tracking"},
	"priority":      {label: "Priority"},
}

// PartitionChanges splits changelog items into room-visible and direct-message lines.
// Fields in neither set are dropped.
func PartitionChanges(items []models.ChangelogItem) (channel, direct []string) {
	for _, item := range items {
		field := strings.ToLower(strings.TrimSpace(item.Field))
		if format, ok := channelFields[field]; ok {
			channel = append(channel, formatChange(format, item))
			continue
		}
		if format, ok := directFields[field]; ok {
			direct = append(direct, formatChange(format, item))
		}
	}
	return channel, direct
}

func formatChange(format changeFormat, item models.ChangelogItem) string {
	if format.changed {
		return fmt.Sprintf("*%s:* Updated", format.label)
	}
	return fmt.Sprintf("*%s:* %s → %s", format.label, orNone(item.FromString), orNone(item.ToString))
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return models.NoneValue
	}
	return value
}

type message struct {
	lines []string
}

func newMessage(title string) *message {
	return &message{lines: []string{title, divider}}
}

func (m *message) field(label, value string) *message {
	m.lines = append(m.lines, fmt.Sprintf("*%s:* %s", label, value))
	return m
}

func (m *message) section(label string, body []string) *message {
	m.lines = append(m.lines, "", fmt.Sprintf("*%s:*", label))
	m.lines = append(m.lines, body...)
	return m
}

func (m *message) link(url string) *message {
	if url != "" {
		m.lines = append(m.lines, "", fmt.Sprintf("*Link:* %s", url))
	}
	return m
}

func (m *message) String() string {
	return strings.Join(m.lines, "\n")
}

// FormatChannelMessage renders the room notification for an event. An empty string
// means the event has nothing rooms should see.
func FormatChannelMessage(event models.WebhookEvent) string {
	switch event.Type {
	case models.EventIssueCreated:
		return newMessage("🆕 *Issue Created*").
			field("Key", event.IssueKey).
			field("Summary", event.IssueSummary).
			field("Type", event.IssueType).
			field("Priority", event.IssuePriority).
			field("Reporter", event.IssueReporter).
			field("Assignee", event.IssueAssignee).
			link(event.IssueURL).String()

	case models.EventIssueUpdated:
		changes, _ := PartitionChanges(event.Changes)
		if len(changes) == 0 {
			return ""
		}
		return newMessage("📝 *Issue Updated*").
			field("Key", event.IssueKey).
			field("Summary", event.IssueSummary).
			field("Current Status", event.IssueStatus).
			field("Current Assignee", event.IssueAssignee).
			section("Changes", changes).
			link(event.IssueURL).String()

	case models.EventIssueDeleted:
		return newMessage("🗑️ *Issue Deleted*").
			field("Key", event.IssueKey).
			field("Summary", event.IssueSummary).
			field("Deleted by", event.ActorName).String()

	case models.EventCommentCreated, models.EventCommentUpdated:
		title := "💬 *New Comment*"
		if event.Type == models.EventCommentUpdated {
			title = "✏️ *Comment Updated*"
		}
		return newMessage(title).
			field("Issue", event.IssueKey+" - "+event.IssueSummary).
			field("Author", event.CommentAuthor).
			field("Comment", commentText(event.CommentBody)).
			link(event.IssueURL).String()

	case models.EventCommentDeleted:
		return newMessage("🗑️ *Comment Deleted*").
			field("Issue", event.IssueKey+" - "+event.IssueSummary).
			field("Author", event.CommentAuthor).
			link(event.IssueURL).String()

	case models.EventSprintStarted, models.EventSprintClosed:
		title := "🏃 *Sprint Started*"
		if event.Type == models.EventSprintClosed {
			title = "🏁 *Sprint Closed*"
		}
		msg := newMessage(title).field("Sprint", utils.FirstNonEmpty(event.SprintName, models.UnknownValue))
		if event.SprintGoal != "" {
			msg.field("Goal", event.SprintGoal)
		}
		return msg.String()

	default:
		return newMessage("🔔 *Jira Event*").
			field("Event", event.RawType).
			field("Issue", event.IssueKey+" - "+event.IssueSummary).
			field("By", event.ActorName).
			link(event.IssueURL).String()
	}
}

// FormatDirectMessage renders the notification for users watching the issue.
// Issue updates carry only the direct-message fields; comments and deletions
// reuse the room message. Everything else is not sent directly.
func FormatDirectMessage(event models.WebhookEvent) string {
	switch event.Type {
	case models.EventIssueUpdated:
		_, changes := PartitionChanges(event.Changes)
		if len(changes) == 0 {
			return ""
		}
		return newMessage("🔔 *Update on an issue you follow*").
			field("Key", event.IssueKey).
			field("Summary", event.IssueSummary).
			field("Current Status", event.IssueStatus).
			section("Changes", changes).
			link(event.IssueURL).String()

	case models.EventCommentCreated, models.EventCommentUpdated, models.EventCommentDeleted, models.EventIssueDeleted:
		return FormatChannelMessage(event)

	default:
		return ""
	}
}

func commentText(body string) string {
	text := utils.StripHTML(body)
	if text == "" {
		return "_(empty)_"
	}
	return utils.Truncate(text, maxCommentLength)
}
