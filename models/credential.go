package models

import "time"

// Credential is the stored Atlassian OAuth grant of one chat user
type Credential struct {
	UserID       string    `db:"user_id"       json:"user_id"`
	AccessToken  string    `db:"access_token"  json:"-"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	ExpiresAt    time.Time `db:"expires_at"    json:"expires_at"`
	Scope        string    `db:"scope"         json:"scope"`
	AccountID    string    `db:"account_id"    json:"account_id"`
	AccountEmail string    `db:"account_email" json:"account_email"`
	AccountName  string    `db:"account_name"  json:"account_name"`
	CloudID      string    `db:"cloud_id"      json:"cloud_id"`
	CloudURL     string    `db:"cloud_url"     json:"cloud_url"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}

// IsExpired reports whether the access token is past its expiry.
// A zero ExpiresAt means the provider did not report one.
func (c *Credential) IsExpired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

// JiraAuth returns what the issue API needs to act on behalf of this user
func (c *Credential) JiraAuth() JiraAuth {
	return JiraAuth{AccessToken: c.AccessToken, CloudID: c.CloudID}
}

// OAuthToken is the provider's answer to a code exchange or refresh
type OAuthToken struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Scope        string
}

// AccessibleResource is a Jira site the token can reach
type AccessibleResource struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

// AtlassianProfile is the /me response for the authorizing account
type AtlassianProfile struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}
