package testutils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jirabackend/db/badgerstore"
	"jirabackend/models"
)

// NewBadgerStore opens an in-memory store that is closed when the test ends
func NewBadgerStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	store, err := badgerstore.OpenInMemory()
	require.NoError(t, err, "Failed to open in-memory badger store")
	t.Cleanup(func() { store.Close() })
	return store
}

// NewTestCredential builds a valid, unexpired credential for userID
func NewTestCredential(userID string) *models.Credential {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Credential{
		UserID:       userID,
		AccessToken:  fmt.Sprintf("access-%s", userID),
		RefreshToken: fmt.Sprintf("refresh-%s", userID),
		ExpiresAt:    now.Add(time.Hour),
		Scope:        "read:jira-work write:jira-work read:jira-user",
		AccountID:    fmt.Sprintf("acc-%s", userID),
		AccountEmail: fmt.Sprintf("%s@example.com", userID),
		AccountName:  userID,
		CloudID:      "cloud-1",
		CloudURL:     "https://acme.atlassian.net",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// FixedClock returns a clock function that always answers t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
