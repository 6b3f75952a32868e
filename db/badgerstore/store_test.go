package badgerstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jirabackend/core"
	"jirabackend/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCredentialsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("put then get returns the same record", func(t *testing.T) {
		repo := NewCredentialsRepository(newTestStore(t))
		credential := &models.Credential{
			UserID:       "U1",
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresAt:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
			Scope:        "read:jira-work",
			AccountID:    "acc-1",
			CloudID:      "cloud-1",
			CreatedAt:    time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.UpsertCredential(ctx, credential))

		stored, err := repo.GetCredentialByUserID(ctx, "U1")
		require.NoError(t, err)
		require.True(t, stored.IsPresent())
		assert.Equal(t, credential, stored.MustGet())
	})

	t.Run("upsert replaces the whole record", func(t *testing.T) {
		repo := NewCredentialsRepository(newTestStore(t))
		require.NoError(t, repo.UpsertCredential(ctx, &models.Credential{UserID: "U1", AccessToken: "a", RefreshToken: "r"}))
		require.NoError(t, repo.UpsertCredential(ctx, &models.Credential{UserID: "U1", AccessToken: "b"}))

		stored, err := repo.GetCredentialByUserID(ctx, "U1")
		require.NoError(t, err)
		assert.Equal(t, "b", stored.MustGet().AccessToken)
		assert.Equal(t, "", stored.MustGet().RefreshToken)
	})

	t.Run("missing user is absent, not an error", func(t *testing.T) {
		repo := NewCredentialsRepository(newTestStore(t))
		stored, err := repo.GetCredentialByUserID(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, stored.IsPresent())
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := NewCredentialsRepository(newTestStore(t))
		require.NoError(t, repo.UpsertCredential(ctx, &models.Credential{UserID: "U1", AccessToken: "a"}))

		deleted, err := repo.DeleteCredentialByUserID(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteCredentialByUserID(ctx, "U1")
		require.NoError(t, err)
		assert.False(t, deleted)

		stored, err := repo.GetCredentialByUserID(ctx, "U1")
		require.NoError(t, err)
		assert.False(t, stored.IsPresent())
	})

	t.Run("list is sorted by user id", func(t *testing.T) {
		repo := NewCredentialsRepository(newTestStore(t))
		require.NoError(t, repo.UpsertCredential(ctx, &models.Credential{UserID: "U2", AccessToken: "b"}))
		require.NoError(t, repo.UpsertCredential(ctx, &models.Credential{UserID: "U1", AccessToken: "a"}))

		all, err := repo.ListCredentials(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "U1", all[0].UserID)
		assert.Equal(t, "U2", all[1].UserID)
	})

	t.Run("rejects empty user id", func(t *testing.T) {
		repo := NewCredentialsRepository(newTestStore(t))
		assert.Error(t, repo.UpsertCredential(ctx, &models.Credential{}))
	})
}

func TestChannelSubscriptionsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("resubscribe keeps id and replaces events", func(t *testing.T) {
		repo := NewChannelSubscriptionsRepository(newTestStore(t))
		first := &models.ChannelSubscription{
			ID: core.NewID("cs"), ProjectKey: "AB", RoomID: "C1", Platform: models.ChannelTypeSlack,
		}
		require.NoError(t, repo.UpsertChannelSubscription(ctx, first))

		second := &models.ChannelSubscription{
			ID: core.NewID("cs"), ProjectKey: "AB", RoomID: "C1", Platform: models.ChannelTypeSlack,
			Events: []string{"issue_created"},
		}
		require.NoError(t, repo.UpsertChannelSubscription(ctx, second))
		assert.Equal(t, first.ID, second.ID)

		subs, err := repo.GetChannelSubscriptionsByProjectKey(ctx, "AB")
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, []string{"issue_created"}, subs[0].Events)
	})

	t.Run("lists by project and by room", func(t *testing.T) {
		repo := NewChannelSubscriptionsRepository(newTestStore(t))
		require.NoError(t, repo.UpsertChannelSubscription(ctx, &models.ChannelSubscription{ID: core.NewID("cs"), ProjectKey: "AB", RoomID: "C1", Platform: models.ChannelTypeSlack}))
		require.NoError(t, repo.UpsertChannelSubscription(ctx, &models.ChannelSubscription{ID: core.NewID("cs"), ProjectKey: "AB", RoomID: "C2", Platform: models.ChannelTypeSlack}))
		require.NoError(t, repo.UpsertChannelSubscription(ctx, &models.ChannelSubscription{ID: core.NewID("cs"), ProjectKey: "CD", RoomID: "C1", Platform: models.ChannelTypeSlack}))
		require.NoError(t, repo.UpsertChannelSubscription(ctx, &models.ChannelSubscription{ID: core.NewID("cs"), ProjectKey: "AB", RoomID: "C1", Platform: models.ChannelTypeDiscord}))

		byProject, err := repo.GetChannelSubscriptionsByProjectKey(ctx, "AB")
		require.NoError(t, err)
		assert.Len(t, byProject, 3)

		byRoom, err := repo.GetChannelSubscriptionsByRoomID(ctx, models.ChannelTypeSlack, "C1")
		require.NoError(t, err)
		require.Len(t, byRoom, 2)
		assert.Equal(t, "AB", byRoom[0].ProjectKey)
		assert.Equal(t, "CD", byRoom[1].ProjectKey)

		none, err := repo.GetChannelSubscriptionsByProjectKey(ctx, "ZZ")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("delete reports whether it existed", func(t *testing.T) {
		repo := NewChannelSubscriptionsRepository(newTestStore(t))
		require.NoError(t, repo.UpsertChannelSubscription(ctx, &models.ChannelSubscription{ID: core.NewID("cs"), ProjectKey: "AB", RoomID: "C1", Platform: models.ChannelTypeSlack}))

		deleted, err := repo.DeleteChannelSubscription(ctx, models.ChannelTypeSlack, "C1", "AB")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteChannelSubscription(ctx, models.ChannelTypeSlack, "C1", "AB")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestUserSubscriptionsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserSubscriptionsRepository(newTestStore(t))

	require.NoError(t, repo.UpsertUserSubscription(ctx, &models.UserSubscription{ID: core.NewID("us"), IssueKey: "AB-1", UserID: "U1", AccountID: "acc-1"}))
	require.NoError(t, repo.UpsertUserSubscription(ctx, &models.UserSubscription{ID: core.NewID("us"), IssueKey: "AB-1", UserID: "U2", AccountID: "acc-2"}))
	require.NoError(t, repo.UpsertUserSubscription(ctx, &models.UserSubscription{ID: core.NewID("us"), IssueKey: "AB-2", UserID: "U1", AccountID: "acc-1"}))

	watchers, err := repo.GetUserSubscriptionsByIssueKey(ctx, "AB-1")
	require.NoError(t, err)
	assert.Len(t, watchers, 2)

	mine, err := repo.GetUserSubscriptionsByUserID(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "AB-1", mine[0].IssueKey)

	deleted, err := repo.DeleteUserSubscription(ctx, "U1", "AB-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	watchers, err = repo.GetUserSubscriptionsByIssueKey(ctx, "AB-1")
	require.NoError(t, err)
	require.Len(t, watchers, 1)
	assert.Equal(t, "U2", watchers[0].UserID)
}
