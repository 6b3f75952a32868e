// Package jira is a minimal Jira Cloud REST v3 client acting on behalf of an OAuth user
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"jirabackend/clients"
	"jirabackend/core"
	"jirabackend/models"
)

const DefaultAPIBaseURL = "https://api.atlassian.com/ex/jira"

var issueFields = []string{
	"summary", "status", "priority", "issuetype", "project", "assignee", "reporter",
	"labels", "duedate", "created", "updated", "description",
}

// JiraClient implements clients.JiraClient
type JiraClient struct {
	httpClient *http.Client
	apiBaseURL string
}

func NewJiraClient(httpClient *http.Client, apiBaseURL string) clients.JiraClient {
	return &JiraClient{
		httpClient: httpClient,
		apiBaseURL: strings.TrimSuffix(apiBaseURL, "/"),
	}
}

// APIError is a non-2xx answer from Jira
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira API error: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps a 404 onto core.ErrNotFound
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return core.ErrNotFound
	}
	return nil
}

func (c *JiraClient) CreateIssue(ctx context.Context, auth models.JiraAuth, req models.CreateIssueRequest, assigneeAccountID string) (*models.CreatedIssue, error) {
	fields := map[string]any{
		"project":   map[string]string{"key": req.ProjectKey},
		"summary":   req.Summary,
		"issuetype": map[string]string{"name": req.IssueType},
	}
	if req.Description != "" {
		fields["description"] = models.NewADFDocument(req.Description)
	}
	if req.Priority != "" {
		fields["priority"] = map[string]string{"name": req.Priority}
	}
	if assigneeAccountID != "" {
		fields["assignee"] = map[string]string{"accountId": assigneeAccountID}
	}
	if req.DueDate != "" {
		fields["duedate"] = req.DueDate
	}

	var created models.CreatedIssue
	if err := c.do(ctx, auth, http.MethodPost, "/issue", map[string]any{"fields": fields}, &created); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return &created, nil
}

func (c *JiraClient) SearchIssues(ctx context.Context, auth models.JiraAuth, jql string, maxResults int) ([]models.Issue, error) {
	body := map[string]any{
		"jql":        jql,
		"fields":     issueFields,
		"maxResults": maxResults,
	}

	var response struct {
		Issues []models.Issue `json:"issues"`
	}
	if err := c.do(ctx, auth, http.MethodPost, "/search/jql", body, &response); err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	return response.Issues, nil
}

func (c *JiraClient) SearchUsers(ctx context.Context, auth models.JiraAuth, query string) ([]models.JiraUser, error) {
	path := "/user/search?query=" + url.QueryEscape(query)

	var users []models.JiraUser
	if err := c.do(ctx, auth, http.MethodGet, path, nil, &users); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (c *JiraClient) AssignIssue(ctx context.Context, auth models.JiraAuth, issueKey, accountID string) error {
	path := "/issue/" + url.PathEscape(issueKey) + "/assignee"
	if err := c.do(ctx, auth, http.MethodPut, path, map[string]string{"accountId": accountID}, nil); err != nil {
		return fmt.Errorf("failed to assign issue %s: %w", issueKey, err)
	}
	return nil
}

func (c *JiraClient) AddComment(ctx context.Context, auth models.JiraAuth, issueKey, body string) (*models.Comment, error) {
	path := "/issue/" + url.PathEscape(issueKey) + "/comment"

	var comment models.Comment
	if err := c.do(ctx, auth, http.MethodPost, path, map[string]any{"body": models.NewADFDocument(body)}, &comment); err != nil {
		return nil, fmt.Errorf("failed to add comment to %s: %w", issueKey, err)
	}
	return &comment, nil
}

func (c *JiraClient) GetIssue(ctx context.Context, auth models.JiraAuth, issueKey string) (*models.Issue, error) {
	path := "/issue/" + url.PathEscape(issueKey) + "?fields=" + url.QueryEscape(strings.Join(issueFields, ","))

	var issue models.Issue
	if err := c.do(ctx, auth, http.MethodGet, path, nil, &issue); err != nil {
		return nil, fmt.Errorf("failed to get issue %s: %w", issueKey, err)
	}
	return &issue, nil
}

func (c *JiraClient) GetComments(ctx context.Context, auth models.JiraAuth, issueKey string) ([]models.Comment, error) {
	path := "/issue/" + url.PathEscape(issueKey) + "/comment?orderBy=created"

	var response struct {
		Comments []models.Comment `json:"comments"`
	}
	if err := c.do(ctx, auth, http.MethodGet, path, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get comments for %s: %w", issueKey, err)
	}
	return response.Comments, nil
}

func (c *JiraClient) ListProjects(ctx context.Context, auth models.JiraAuth) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, auth, http.MethodGet, "/project", nil, &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// do sends one request to /{cloudId}/rest/api/3{path}. A nil out discards the body.
func (c *JiraClient) do(ctx context.Context, auth models.JiraAuth, method, path string, in, out any) error {
	if auth.AccessToken == "" || auth.CloudID == "" {
		return fmt.Errorf("missing jira access token or cloud id")
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.apiBaseURL + "/" + url.PathEscape(auth.CloudID) + "/rest/api/3" + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.authorizedClient(ctx, auth.AccessToken).Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *JiraClient) authorizedClient(ctx context.Context, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))
	client.Timeout = c.httpClient.Timeout
	return client
}

// errorMessage pulls the human-readable parts out of a Jira error body:
// {"errorMessages":["..."],"errors":{"field":"..."}}
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}

	var parts []string
	gjson.GetBytes(body, "errorMessages").ForEach(func(_, value gjson.Result) bool {
		parts = append(parts, value.String())
		return true
	})
	gjson.GetBytes(body, "errors").ForEach(func(key, value gjson.Result) bool {
		parts = append(parts, key.String()+": "+value.String())
		return true
	})
	if message := gjson.GetBytes(body, "message"); message.Exists() {
		parts = append(parts, message.String())
	}

	if len(parts) == 0 {
		return strings.TrimSpace(string(body))
	}
	return strings.Join(parts, "; ")
}
