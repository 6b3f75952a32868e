package models

import (
	"net/url"
	"strings"
)

// JiraAuth identifies the caller and tenant for one issue API request
type JiraAuth struct {
	AccessToken string
	CloudID     string
}

type JiraUser struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	Active       bool   `json:"active,omitempty"`
}

// NamedField covers status, priority and issue type references
type NamedField struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type Project struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

type IssueFields struct {
	Summary     string      `json:"summary"`
	Description RichText    `json:"description,omitempty"`
	Status      *NamedField `json:"status,omitempty"`
	Priority    *NamedField `json:"priority,omitempty"`
	IssueType   *NamedField `json:"issuetype,omitempty"`
	Project     *Project    `json:"project,omitempty"`
	Assignee    *JiraUser   `json:"assignee,omitempty"`
	Reporter    *JiraUser   `json:"reporter,omitempty"`
	Labels      []string    `json:"labels,omitempty"`
	DueDate     string      `json:"duedate,omitempty"`
	Created     string      `json:"created,omitempty"`
	Updated     string      `json:"updated,omitempty"`
}

type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self,omitempty"`
	Fields IssueFields `json:"fields"`
}

func (i *Issue) StatusName() string {
	return namedOr(i.Fields.Status, "Unknown")
}

func (i *Issue) PriorityName() string {
	return namedOr(i.Fields.Priority, "None")
}

func (i *Issue) TypeName() string {
	return namedOr(i.Fields.IssueType, "Unknown")
}

func (i *Issue) AssigneeName() string {
	return userOr(i.Fields.Assignee, "Unassigned")
}

func (i *Issue) ReporterName() string {
	return userOr(i.Fields.Reporter, "Unknown")
}

// BrowseURL turns the API self link into the human-facing issue page
func (i *Issue) BrowseURL() string {
	return BrowseURL(i.Self, i.Key)
}

// BrowseURL builds https://<site>/browse/<key> from any API URL on the same site
func BrowseURL(apiURL, issueKey string) string {
	if apiURL == "" || issueKey == "" {
		return ""
	}
	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host + "/browse/" + issueKey
}

func namedOr(field *NamedField, fallback string) string {
	if field == nil || strings.TrimSpace(field.Name) == "" {
		return fallback
	}
	return field.Name
}

func userOr(user *JiraUser, fallback string) string {
	if user == nil || strings.TrimSpace(user.DisplayName) == "" {
		return fallback
	}
	return user.DisplayName
}

type Comment struct {
	ID      string    `json:"id"`
	Self    string    `json:"self,omitempty"`
	Author  *JiraUser `json:"author,omitempty"`
	Body    RichText  `json:"body"`
	Created string    `json:"created,omitempty"`
	Updated string    `json:"updated,omitempty"`
}

func (c *Comment) AuthorName() string {
	return userOr(c.Author, "Unknown")
}

// IssueDetails is an issue together with its comment thread
type IssueDetails struct {
	Issue    Issue     `json:"issue"`
	Comments []Comment `json:"comments"`
}

type CreateIssueRequest struct {
	ProjectKey  string `json:"project_key" validate:"required"`
	IssueType   string `json:"issue_type"  validate:"required"`
	Summary     string `json:"summary"     validate:"required,max=255"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	// Assignee accepts the same forms as an assign command: me, @name, <@U123>, or an email
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

func (c *CreatedIssue) BrowseURL() string {
	return BrowseURL(c.Self, c.Key)
}

// SearchFilter is the structured form of a search; empty fields are ignored
type SearchFilter struct {
	ProjectKey string `json:"project_key"`
	Status     string `json:"status"`
	IssueType  string `json:"issue_type"`
	Priority   string `json:"priority"`
	Assignee   string `json:"assignee"`
	Text       string `json:"text"`
}

func (f SearchFilter) IsEmpty() bool {
	return f == SearchFilter{}
}

type Assignment struct {
	IssueKey string   `json:"issue_key"`
	Assignee JiraUser `json:"assignee"`
}
