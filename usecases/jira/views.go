package jira

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"jirabackend/models"
	"jirabackend/utils"
)

const (
	CreateModalCallbackID        = "jira-create-modal"
	SearchModalCallbackID        = "jira-search-modal"
	SearchResultsModalCallbackID = "jira-search-results-modal"
	MyIssuesModalCallbackID      = "jira-my-issues-modal"
	AssignModalCallbackID        = "jira-assign-modal"
	AddCommentModalCallbackID    = "jira-add-comment-modal"
	IssueDetailsModalCallbackID  = "jira-issue-details-modal"

	LoginButtonBlockID       = "jira-login-block"
	LoginButtonActionID      = "jira-login-button"
	AddCommentButtonActionID = "jira-add-comment-button"
	ViewIssueButtonActionID  = "jira-view-issue-button"
	OpenIssueButtonActionID  = "jira-open-issue-button"

	ProjectBlockID      = "jira-project-block"
	ProjectActionID     = "jira-project-action"
	IssueTypeBlockID    = "jira-issue-type-block"
	IssueTypeActionID   = "jira-issue-type-action"
	SummaryBlockID      = "jira-summary-block"
	SummaryActionID     = "jira-summary-action"
	DescriptionBlockID  = "jira-description-block"
	DescriptionActionID = "jira-description-action"
	PriorityBlockID     = "jira-priority-block"
	PriorityActionID    = "jira-priority-action"
	AssigneeBlockID     = "jira-assignee-block"
	AssigneeActionID    = "jira-assignee-action"
	DeadlineBlockID     = "jira-deadline-block"
	DeadlineActionID    = "jira-deadline-action"
	StatusBlockID       = "jira-status-block"
	StatusActionID      = "jira-status-action"
	TextBlockID         = "jira-text-block"
	TextActionID        = "jira-text-action"
	IssueBlockID        = "jira-issue-block"
	IssueActionID       = "jira-issue-action"
	CommentBlockID      = "jira-comment-block"
	CommentActionID     = "jira-comment-action"

	maxShownComments = 10
)

var (
	issueTypes = []string{"Task", "Bug", "Story", "Epic"}
	priorities = []string{"Highest", "High", "Medium", "Low", "Lowest"}
	statuses   = []string{"To Do", "In Progress", "In Review", "Done"}
)

// viewMetadata travels in a modal's private metadata so submissions know where the
// modal was opened from.
type viewMetadata struct {
	ChannelID string `json:"channel_id,omitempty"`
	IssueKey  string `json:"issue_key,omitempty"`
}

func (m viewMetadata) encode() string {
	data, err := json.Marshal(m)
	utils.AssertInvariant(err == nil, "view metadata must marshal")
	return string(data)
}

func decodeMetadata(raw string) viewMetadata {
	var meta viewMetadata
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &meta)
	}
	return meta
}

func modal(callbackID, title, submit string, meta viewMetadata, blocks ...slack.Block) slack.ModalViewRequest {
	view := slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      callbackID,
		Title:           plain(title),
		Close:           plain("Close"),
		PrivateMetadata: meta.encode(),
		Blocks:          slack.Blocks{BlockSet: blocks},
	}
	if submit != "" {
		view.Submit = plain(submit)
	}
	return view
}

func staticSelect(actionID, placeholder string, values []string, initial string) *slack.SelectBlockElement {
	options := make([]*slack.OptionBlockObject, 0, len(values))
	var initialOption *slack.OptionBlockObject
	for _, value := range values {
		option := slack.NewOptionBlockObject(value, plain(value), nil)
		options = append(options, option)
		if value == initial {
			initialOption = option
		}
	}
	element := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plain(placeholder), actionID, options...)
	element.InitialOption = initialOption
	return element
}

func projectSelect(actionID string, projects []models.Project) slack.BlockElement {
	if len(projects) == 0 {
		return slack.NewPlainTextInputBlockElement(plain("Project key, e.g. AB"), actionID)
	}
	options := make([]*slack.OptionBlockObject, 0, len(projects))
	for i, project := range projects {
		if i == 100 {
			break
		}
		options = append(options, slack.NewOptionBlockObject(project.Key, plain(utils.Truncate(project.Key+" - "+project.Name, 75)), nil))
	}
	return slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plain("Select a project"), actionID, options...)
}

func input(blockID, label string, element slack.BlockElement, optional bool) *slack.InputBlock {
	block := slack.NewInputBlock(blockID, plain(label), nil, element)
	block.Optional = optional
	return block
}

// CreateIssueView is the form behind /jira create. projects may be empty, in which
// case the project is typed in.
func CreateIssueView(projects []models.Project, meta viewMetadata) slack.ModalViewRequest {
	description := slack.NewPlainTextInputBlockElement(plain("What needs to be done?"), DescriptionActionID)
	description.Multiline = true

	return modal(CreateModalCallbackID, "Create Jira Issue", "Create", meta,
		input(ProjectBlockID, "Project", projectSelect(ProjectActionID, projects), false),
		input(IssueTypeBlockID, "Issue type", staticSelect(IssueTypeActionID, "Select a type", issueTypes, "Task"), false),
		input(SummaryBlockID, "Summary", slack.NewPlainTextInputBlockElement(plain("Short summary"), SummaryActionID), false),
		input(DescriptionBlockID, "Description", description, true),
		input(PriorityBlockID, "Priority", staticSelect(PriorityActionID, "Select a priority", priorities, ""), true),
		input(AssigneeBlockID, "Assignee", slack.NewOptionsSelectBlockElement(slack.OptTypeUser, plain("Select a user"), AssigneeActionID), true),
		input(DeadlineBlockID, "Deadline", slack.NewDatePickerBlockElement(DeadlineActionID), true),
	)
}

func SearchView(projects []models.Project, meta viewMetadata) slack.ModalViewRequest {
	return modal(SearchModalCallbackID, "Search Jira Issues", "Search", meta,
		input(ProjectBlockID, "Project", projectSelect(ProjectActionID, projects), true),
		input(StatusBlockID, "Status", staticSelect(StatusActionID, "Any status", statuses, ""), true),
		input(IssueTypeBlockID, "Issue type", staticSelect(IssueTypeActionID, "Any type", issueTypes, ""), true),
		input(PriorityBlockID, "Priority", staticSelect(PriorityActionID, "Any priority", priorities, ""), true),
		input(AssigneeBlockID, "Assignee", slack.NewPlainTextInputBlockElement(plain("me, unassigned or an account name"), AssigneeActionID), true),
		input(TextBlockID, "Text", slack.NewPlainTextInputBlockElement(plain("Words to look for"), TextActionID), true),
	)
}

func issueListBlocks(header string, issues []models.Issue) []slack.Block {
	blocks := []slack.Block{slack.NewSectionBlock(markdown(header), nil, nil)}
	if len(issues) == 0 {
		return append(blocks, slack.NewSectionBlock(markdown("No issues found."), nil, nil))
	}
	blocks = append(blocks, slack.NewDividerBlock())
	for i, issue := range issues {
		if i == maxListedIssues {
			blocks = append(blocks, slack.NewContextBlock("", markdown(fmt.Sprintf("_...and %d more_", len(issues)-maxListedIssues))))
			break
		}
		button := slack.NewButtonBlockElement(ViewIssueButtonActionID, issue.Key, plain("View"))
		blocks = append(blocks, slack.NewSectionBlock(markdown(issueLine(issue)), nil, slack.NewAccessory(button)))
	}
	return blocks
}

func SearchResultsView(filter models.SearchFilter, result models.Result[[]models.Issue], meta viewMetadata) slack.ModalViewRequest {
	if !result.Success {
		return modal(SearchResultsModalCallbackID, "Search Results", "", meta,
			slack.NewSectionBlock(markdown("❌ Search failed: "+result.Error), nil, nil))
	}
	header := fmt.Sprintf("🔍 Found *%d* issue(s)", len(result.Data))
	if filters := filterSummary(filter); filters != "" {
		header += "\n" + filters
	}
	return modal(SearchResultsModalCallbackID, "Search Results", "", meta, issueListBlocks(header, result.Data)...)
}

func filterSummary(filter models.SearchFilter) string {
	var parts []string
	if filter.ProjectKey != "" {
		parts = append(parts, "Project: *"+filter.ProjectKey+"*")
	}
	if filter.Status != "" {
		parts = append(parts, "Status: *"+filter.Status+"*")
	}
	if filter.IssueType != "" {
		parts = append(parts, "Type: *"+filter.IssueType+"*")
	}
	if filter.Priority != "" {
		parts = append(parts, "Priority: *"+filter.Priority+"*")
	}
	if filter.Assignee != "" {
		parts = append(parts, "Assignee: *"+filter.Assignee+"*")
	}
	if filter.Text != "" {
		parts = append(parts, "Text: *"+filter.Text+"*")
	}
	return strings.Join(parts, " | ")
}

func MyIssuesView(issues []models.Issue, meta viewMetadata) slack.ModalViewRequest {
	header := fmt.Sprintf("📋 You have *%d* assigned issue(s)", len(issues))
	return modal(MyIssuesModalCallbackID, "My Jira Issues", "", meta, issueListBlocks(header, issues)...)
}

// AssignView offers the unassigned issues, or a free issue key input when there are
// none or meta already names an issue.
func AssignView(unassigned []models.Issue, meta viewMetadata) slack.ModalViewRequest {
	var issueElement slack.BlockElement
	if len(unassigned) == 0 || meta.IssueKey != "" {
		text := slack.NewPlainTextInputBlockElement(plain("Issue key, e.g. AB-1"), IssueActionID)
		text.InitialValue = meta.IssueKey
		issueElement = text
	} else {
		options := make([]*slack.OptionBlockObject, 0, len(unassigned))
		for i, issue := range unassigned {
			if i == 100 {
				break
			}
			label := utils.Truncate(issue.Key+" - "+utils.FirstNonEmpty(issue.Fields.Summary, models.NoSummaryValue), 75)
			options = append(options, slack.NewOptionBlockObject(issue.Key, plain(label), nil))
		}
		issueElement = slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plain("Select an issue"), IssueActionID, options...)
	}

	return modal(AssignModalCallbackID, "Assign Jira Issue", "Assign", meta,
		input(IssueBlockID, "Issue", issueElement, false),
		input(AssigneeBlockID, "Assignee", slack.NewOptionsSelectBlockElement(slack.OptTypeUser, plain("Select a user"), AssigneeActionID), false),
	)
}

func AddCommentView(meta viewMetadata) slack.ModalViewRequest {
	body := slack.NewPlainTextInputBlockElement(plain("Write your comment"), CommentActionID)
	body.Multiline = true
	return modal(AddCommentModalCallbackID, "Add Comment", "Comment", meta,
		slack.NewSectionBlock(markdown("Commenting on *"+meta.IssueKey+"*"), nil, nil),
		input(CommentBlockID, "Comment", body, false),
	)
}

func IssueDetailsView(details *models.IssueDetails, meta viewMetadata) slack.ModalViewRequest {
	issue := details.Issue
	blocks := []slack.Block{
		slack.NewSectionBlock(markdown(fmt.Sprintf("*%s* %s", issueLink(issue), utils.FirstNonEmpty(issue.Fields.Summary, models.NoSummaryValue))), nil, nil),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			markdown("*Status:*\n" + issue.StatusName()),
			markdown("*Priority:*\n" + issue.PriorityName()),
			markdown("*Type:*\n" + issue.TypeName()),
			markdown("*Assignee:*\n" + issue.AssigneeName()),
			markdown("*Reporter:*\n" + issue.ReporterName()),
			markdown("*Due:*\n" + utils.FirstNonEmpty(issue.Fields.DueDate, models.NoneValue)),
		}, nil),
	}

	if description := strings.TrimSpace(issue.Fields.Description.String()); description != "" {
		blocks = append(blocks, slack.NewDividerBlock(),
			slack.NewSectionBlock(markdown("*Description*\n"+utils.Truncate(description, 2500)), nil, nil))
	}

	blocks = append(blocks, slack.NewDividerBlock(),
		slack.NewSectionBlock(markdown(fmt.Sprintf("*Comments (%d)*", len(details.Comments))), nil, nil))
	comments := details.Comments
	if len(comments) > maxShownComments {
		comments = comments[len(comments)-maxShownComments:]
	}
	for _, comment := range comments {
		text := utils.Truncate(utils.FirstNonEmpty(strings.TrimSpace(comment.Body.String()), "_(empty)_"), 1000)
		blocks = append(blocks, slack.NewContextBlock("", markdown(fmt.Sprintf("*%s*: %s", comment.AuthorName(), text))))
	}

	actions := []slack.BlockElement{
		slack.NewButtonBlockElement(AddCommentButtonActionID, issue.Key, plain("Add comment")).WithStyle(slack.StylePrimary),
	}
	if url := issue.BrowseURL(); url != "" {
		open := slack.NewButtonBlockElement(OpenIssueButtonActionID, issue.Key, plain("Open in Jira"))
		open.URL = url
		actions = append(actions, open)
	}
	blocks = append(blocks, slack.NewActionBlock("jira-issue-actions", actions...))

	return modal(IssueDetailsModalCallbackID, utils.Truncate(issue.Key, 24), "", meta, blocks...)
}
