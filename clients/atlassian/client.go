// Package atlassian talks to the Atlassian 3LO authorization server and identity API
package atlassian

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"jirabackend/clients"
	"jirabackend/models"
)

const audience = "api.atlassian.com"

type Endpoints struct {
	AuthURL    string
	TokenURL   string
	APIBaseURL string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		AuthURL:    "https://auth.atlassian.com/authorize",
		TokenURL:   "https://auth.atlassian.com/oauth/token",
		APIBaseURL: "https://api.atlassian.com",
	}
}

// AtlassianClient implements clients.AtlassianOAuthClient
type AtlassianClient struct {
	httpClient *http.Client
	config     *oauth2.Config
	apiBaseURL string
}

func NewAtlassianClient(httpClient *http.Client, clientID, clientSecret, redirectURL string, scopes []string, endpoints Endpoints) clients.AtlassianOAuthClient {
	return &AtlassianClient{
		httpClient: httpClient,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   endpoints.AuthURL,
				TokenURL:  endpoints.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBaseURL: strings.TrimSuffix(endpoints.APIBaseURL, "/"),
	}
}

// AuthCodeURL builds the consent URL; state carries the chat user id back to the callback
func (c *AtlassianClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("audience", audience),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (c *AtlassianClient) ExchangeCode(ctx context.Context, code string) (*models.OAuthToken, error) {
	token, err := c.config.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return toOAuthToken(token)
}

func (c *AtlassianClient) RefreshToken(ctx context.Context, refreshToken string) (*models.OAuthToken, error) {
	source := c.config.TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}
	return toOAuthToken(token)
}

func (c *AtlassianClient) GetProfile(ctx context.Context, accessToken string) (*models.AtlassianProfile, error) {
	var profile models.AtlassianProfile
	if err := c.getJSON(ctx, accessToken, "/me", &profile); err != nil {
		return nil, fmt.Errorf("failed to get atlassian profile: %w", err)
	}
	return &profile, nil
}

func (c *AtlassianClient) GetAccessibleResources(ctx context.Context, accessToken string) ([]models.AccessibleResource, error) {
	var resources []models.AccessibleResource
	if err := c.getJSON(ctx, accessToken, "/oauth/token/accessible-resources", &resources); err != nil {
		return nil, fmt.Errorf("failed to get accessible resources: %w", err)
	}
	return resources, nil
}

func (c *AtlassianClient) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *AtlassianClient) getJSON(ctx context.Context, accessToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("atlassian API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func toOAuthToken(token *oauth2.Token) (*models.OAuthToken, error) {
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response has no access token")
	}

	scope, _ := token.Extra("scope").(string)
	return &models.OAuthToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Scope:        scope,
	}, nil
}
