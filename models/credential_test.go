package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredential_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&Credential{}).IsExpired(now))
	assert.False(t, (&Credential{ExpiresAt: now.Add(time.Minute)}).IsExpired(now))
	assert.True(t, (&Credential{ExpiresAt: now}).IsExpired(now))
	assert.True(t, (&Credential{ExpiresAt: now.Add(-time.Hour)}).IsExpired(now))
}

func TestBrowseURL(t *testing.T) {
	assert.Equal(t, "https://acme.atlassian.net/browse/AB-1",
		BrowseURL("https://acme.atlassian.net/rest/api/3/issue/10000", "AB-1"))
	assert.Equal(t, "", BrowseURL("", "AB-1"))
	assert.Equal(t, "", BrowseURL("not a url", "AB-1"))
}

func TestSlashCommand_Subcommand(t *testing.T) {
	name, args := SlashCommand{Text: "  Assign AB-1  @bob "}.Subcommand()
	assert.Equal(t, "assign", name)
	assert.Equal(t, []string{"AB-1", "@bob"}, args)

	name, args = SlashCommand{}.Subcommand()
	assert.Equal(t, "", name)
	assert.Empty(t, args)
}
