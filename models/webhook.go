package models

import (
	"regexp"
	"strings"
)

const (
	UnknownValue    = "Unknown"
	UnassignedValue = "Unassigned"
	NoneValue       = "None"
	NoSummaryValue  = "No summary"
)

// WebhookPayload is the subset of a Jira webhook body this service reads.
// Every nested part is optional.
type WebhookPayload struct {
	WebhookEvent string     `json:"webhookEvent"`
	Timestamp    int64      `json:"timestamp,omitempty"`
	Issue        *Issue     `json:"issue,omitempty"`
	Comment      *Comment   `json:"comment,omitempty"`
	User         *JiraUser  `json:"user,omitempty"`
	Changelog    *Changelog `json:"changelog,omitempty"`
	Sprint       *Sprint    `json:"sprint,omitempty"`
}

type Changelog struct {
	ID    string          `json:"id,omitempty"`
	Items []ChangelogItem `json:"items"`
}

type ChangelogItem struct {
	Field      string `json:"field"`
	FieldID    string `json:"fieldId,omitempty"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

type Sprint struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state,omitempty"`
	Goal      string `json:"goal,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// WebhookEvent is the flattened, fallback-filled view of a payload used for routing and formatting
type WebhookEvent struct {
	Type          EventType
	RawType       string
	ProjectKey    string
	IssueKey      string
	IssueSummary  string
	IssueStatus   string
	IssueAssignee string
	IssuePriority string
	IssueType     string
	IssueReporter string
	IssueURL      string
	ActorName     string
	CommentAuthor string
	CommentBody   string
	SprintName    string
	SprintGoal    string
	Changes       []ChangelogItem
}

var issueKeyPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)-\d+$`)

// Normalize derives the routing keys and display strings of the payload
func (p *WebhookPayload) Normalize() WebhookEvent {
	event := WebhookEvent{
		Type:          ClassifyEvent(p.WebhookEvent),
		RawType:       p.WebhookEvent,
		ProjectKey:    UnknownValue,
		IssueKey:      UnknownValue,
		IssueSummary:  NoSummaryValue,
		IssueStatus:   UnknownValue,
		IssueAssignee: UnassignedValue,
		IssuePriority: NoneValue,
		IssueType:     UnknownValue,
		IssueReporter: UnknownValue,
		ActorName:     UnknownValue,
		CommentAuthor: UnknownValue,
	}
	if event.RawType == "" {
		event.RawType = UnknownValue
	}

	if p.User != nil && p.User.DisplayName != "" {
		event.ActorName = p.User.DisplayName
	}

	if issue := p.Issue; issue != nil {
		if issue.Key != "" {
			event.IssueKey = issue.Key
		}
		if issue.Fields.Summary != "" {
			event.IssueSummary = issue.Fields.Summary
		}
		event.IssueStatus = issue.StatusName()
		event.IssueAssignee = issue.AssigneeName()
		event.IssuePriority = issue.PriorityName()
		event.IssueType = issue.TypeName()
		event.IssueReporter = issue.ReporterName()
		event.IssueURL = issue.BrowseURL()
		event.ProjectKey = projectKeyOf(issue)
	}

	if comment := p.Comment; comment != nil {
		event.CommentAuthor = comment.AuthorName()
		event.CommentBody = comment.Body.String()
	}

	if sprint := p.Sprint; sprint != nil {
		event.SprintName = sprint.Name
		event.SprintGoal = sprint.Goal
	}

	if p.Changelog != nil {
		event.Changes = p.Changelog.Items
	}

	return event
}

func projectKeyOf(issue *Issue) string {
	if issue.Fields.Project != nil && issue.Fields.Project.Key != "" {
		return strings.ToUpper(issue.Fields.Project.Key)
	}
	if match := issueKeyPattern.FindStringSubmatch(issue.Key); match != nil {
		return strings.ToUpper(match[1])
	}
	return UnknownValue
}
