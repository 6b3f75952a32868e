package issues

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"jirabackend/clients"
	"jirabackend/core"
	"jirabackend/models"
)

const (
	searchMaxResults     = 50
	unassignedMaxResults = 100
)

type IssuesService struct {
	jiraClient clients.JiraClient
	directory  clients.UserDirectory
	validate   *validator.Validate
}

// NewIssuesService wraps the Jira client. directory resolves chat handles to the
// email used to find the matching Jira account.
func NewIssuesService(jiraClient clients.JiraClient, directory clients.UserDirectory) *IssuesService {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return &IssuesService{
		jiraClient: jiraClient,
		directory:  directory,
		validate:   validate,
	}
}

func (s *IssuesService) Create(ctx context.Context, credential *models.Credential, req models.CreateIssueRequest) models.Result[*models.CreatedIssue] {
	log.Info().Str("user_id", credential.UserID).Str("project", req.ProjectKey).Msg("📋 Starting to create jira issue")
	req.ProjectKey = strings.ToUpper(strings.TrimSpace(req.ProjectKey))
	req.Summary = strings.TrimSpace(req.Summary)
	if err := s.validate.Struct(req); err != nil {
		return models.Fail[*models.CreatedIssue](validationMessage(err))
	}

	assigneeAccountID := ""
	if req.Assignee != "" {
		user, failure := s.resolveAssignee(ctx, credential, req.Assignee)
		if failure != "" {
			return models.Fail[*models.CreatedIssue](failure)
		}
		assigneeAccountID = user.AccountID
	}

	created, err := s.jiraClient.CreateIssue(ctx, credential.JiraAuth(), req, assigneeAccountID)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to create jira issue")
		return models.Fail[*models.CreatedIssue](err.Error())
	}

	log.Info().Str("issue", created.Key).Msg("📋 Completed successfully - created jira issue")
	return models.Ok(created)
}

func (s *IssuesService) Search(ctx context.Context, credential *models.Credential, filter models.SearchFilter) models.Result[[]models.Issue] {
	if filter.IsEmpty() {
		return models.Fail[[]models.Issue]("Please provide at least one search filter.")
	}
	return s.searchJQL(ctx, credential, BuildSearchJQL(filter), searchMaxResults)
}

func (s *IssuesService) MyIssues(ctx context.Context, credential *models.Credential) models.Result[[]models.Issue] {
	return s.searchJQL(ctx, credential, myIssuesJQL, searchMaxResults)
}

func (s *IssuesService) Unassigned(ctx context.Context, credential *models.Credential) models.Result[[]models.Issue] {
	return s.searchJQL(ctx, credential, unassignedJQL, unassignedMaxResults)
}

func (s *IssuesService) searchJQL(ctx context.Context, credential *models.Credential, jql string, maxResults int) models.Result[[]models.Issue] {
	log.Debug().Str("jql", jql).Msg("searching jira issues")
	issues, err := s.jiraClient.SearchIssues(ctx, credential.JiraAuth(), jql, maxResults)
	if err != nil {
		log.Error().Err(err).Str("jql", jql).Msg("❌ Failed to search jira issues")
		return models.Fail[[]models.Issue](err.Error())
	}
	return models.Ok(issues)
}

// Assign gives issueKey to assignee, which is "me", a chat mention or handle, or an email
func (s *IssuesService) Assign(ctx context.Context, credential *models.Credential, issueKey, assignee string) models.Result[*models.Assignment] {
	log.Info().Str("issue", issueKey).Str("assignee", assignee).Msg("📋 Starting to assign jira issue")
	issueKey = strings.ToUpper(strings.TrimSpace(issueKey))
	if issueKey == "" || strings.TrimSpace(assignee) == "" {
		return models.Fail[*models.Assignment]("Please select both an issue and an assignee.")
	}

	user, failure := s.resolveAssignee(ctx, credential, assignee)
	if failure != "" {
		return models.Fail[*models.Assignment](failure)
	}

	if err := s.jiraClient.AssignIssue(ctx, credential.JiraAuth(), issueKey, user.AccountID); err != nil {
		log.Error().Err(err).Str("issue", issueKey).Msg("❌ Failed to assign jira issue")
		return models.Fail[*models.Assignment](err.Error())
	}

	log.Info().Str("issue", issueKey).Str("account_id", user.AccountID).Msg("📋 Completed successfully - assigned jira issue")
	return models.Ok(&models.Assignment{IssueKey: issueKey, Assignee: user})
}

// resolveAssignee maps an assignee reference to a Jira user. The second return value
// is a user-facing failure message, empty on success.
func (s *IssuesService) resolveAssignee(ctx context.Context, credential *models.Credential, assignee string) (models.JiraUser, string) {
	assignee = strings.TrimSpace(assignee)
	if strings.EqualFold(assignee, "me") {
		if credential.AccountID == "" {
			return models.JiraUser{}, "Your Jira account is unknown. Please login again using /jira login"
		}
		return models.JiraUser{
			AccountID:    credential.AccountID,
			DisplayName:  credential.AccountName,
			EmailAddress: credential.AccountEmail,
		}, ""
	}

	email := assignee
	if !isEmail(assignee) {
		found, err := s.directory.LookupUserEmail(ctx, assignee)
		if err != nil || found == "" {
			log.Warn().Err(err).Str("assignee", assignee).Msg("⚠️ Could not resolve chat user email")
			return models.JiraUser{}, fmt.Sprintf("No email found for user %q", assignee)
		}
		email = found
	}

	users, err := s.jiraClient.SearchUsers(ctx, credential.JiraAuth(), email)
	if err != nil {
		log.Error().Err(err).Str("query", email).Msg("❌ Failed to search jira users")
		return models.JiraUser{}, err.Error()
	}
	if len(users) == 0 {
		return models.JiraUser{}, fmt.Sprintf("Could not find user %q in Jira. Please check the username or email.", assignee)
	}
	return users[0], ""
}

func isEmail(value string) bool {
	return !strings.HasPrefix(value, "@") && !strings.HasPrefix(value, "<") && strings.Contains(value, "@")
}

func (s *IssuesService) AddComment(ctx context.Context, credential *models.Credential, issueKey, body string) models.Result[*models.Comment] {
	issueKey = strings.ToUpper(strings.TrimSpace(issueKey))
	if issueKey == "" {
		return models.Fail[*models.Comment]("Invalid issue key. Please try again.")
	}
	if strings.TrimSpace(body) == "" {
		return models.Fail[*models.Comment]("Please enter a comment.")
	}

	comment, err := s.jiraClient.AddComment(ctx, credential.JiraAuth(), issueKey, body)
	if err != nil {
		log.Error().Err(err).Str("issue", issueKey).Msg("❌ Failed to add jira comment")
		return models.Fail[*models.Comment](err.Error())
	}

	log.Info().Str("issue", issueKey).Msg("📋 Completed successfully - added jira comment")
	return models.Ok(comment)
}

func (s *IssuesService) IssueDetails(ctx context.Context, credential *models.Credential, issueKey string) models.Result[*models.IssueDetails] {
	issueKey = strings.ToUpper(strings.TrimSpace(issueKey))
	if issueKey == "" {
		return models.Fail[*models.IssueDetails]("Invalid issue key. Please try again.")
	}

	auth := credential.JiraAuth()
	issue, err := s.jiraClient.GetIssue(ctx, auth, issueKey)
	if err != nil {
		if core.IsNotFoundError(err) {
			return models.Fail[*models.IssueDetails](fmt.Sprintf("Issue %s was not found.", issueKey))
		}
		log.Error().Err(err).Str("issue", issueKey).Msg("❌ Failed to get jira issue")
		return models.Fail[*models.IssueDetails](err.Error())
	}

	comments, err := s.jiraClient.GetComments(ctx, auth, issueKey)
	if err != nil {
		log.Error().Err(err).Str("issue", issueKey).Msg("❌ Failed to get jira comments")
		return models.Fail[*models.IssueDetails](err.Error())
	}

	return models.Ok(&models.IssueDetails{Issue: *issue, Comments: comments})
}

func (s *IssuesService) Projects(ctx context.Context, credential *models.Credential) models.Result[[]models.Project] {
	projects, err := s.jiraClient.ListProjects(ctx, credential.JiraAuth())
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to list jira projects")
		return models.Fail[[]models.Project](err.Error())
	}
	return models.Ok(projects)
}

func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "datetime":
			parts = append(parts, fe.Field()+" must be a YYYY-MM-DD date")
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, ", ")
}
