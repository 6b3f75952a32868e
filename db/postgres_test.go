package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jirabackend/config"
	"jirabackend/core"
	"jirabackend/models"
)

func setupPostgres(t *testing.T) (*sqlx.DB, string) {
	t.Helper()
	_ = godotenv.Load("../.env.test")

	cfg, err := config.LoadStorageConfig()
	if err != nil || cfg.Driver != config.StorageDriverPostgres {
		t.Skip("DB_URL/DB_SCHEMA not set, skipping postgres repository tests")
	}

	conn, err := NewConnection(cfg.DatabaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, ApplySchema(context.Background(), conn, cfg.DatabaseSchema))
	return conn, cfg.DatabaseSchema
}

func TestPostgresCredentialsRepository(t *testing.T) {
	conn, schema := setupPostgres(t)
	repo := NewPostgresCredentialsRepository(conn, schema)
	ctx := context.Background()
	userID := fmt.Sprintf("U%d", time.Now().UnixNano())

	credential := &models.Credential{
		UserID:      userID,
		AccessToken: "access-1",
		ExpiresAt:   time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		CloudID:     "cloud-1",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		UpdatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.UpsertCredential(ctx, credential))

	credential.AccessToken = "access-2"
	require.NoError(t, repo.UpsertCredential(ctx, credential))

	stored, err := repo.GetCredentialByUserID(ctx, userID)
	require.NoError(t, err)
	require.True(t, stored.IsPresent())
	assert.Equal(t, "access-2", stored.MustGet().AccessToken)
	assert.WithinDuration(t, credential.ExpiresAt, stored.MustGet().ExpiresAt, time.Second)

	all, err := repo.ListCredentials(ctx)
	require.NoError(t, err)
	var listed bool
	for _, c := range all {
		listed = listed || c.UserID == userID
	}
	assert.True(t, listed)

	deleted, err := repo.DeleteCredentialByUserID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteCredentialByUserID(ctx, userID)
	require.NoError(t, err)
	assert.False(t, deleted)

	missing, err := repo.GetCredentialByUserID(ctx, userID)
	require.NoError(t, err)
	assert.False(t, missing.IsPresent())
}

func TestPostgresChannelSubscriptionsRepository(t *testing.T) {
	conn, schema := setupPostgres(t)
	repo := NewPostgresChannelSubscriptionsRepository(conn, schema)
	ctx := context.Background()
	roomID := fmt.Sprintf("C%d", time.Now().UnixNano())

	first := &models.ChannelSubscription{
		ID:         core.NewID(core.ChannelSubscriptionIDPrefix),
		ProjectKey: "AB",
		RoomID:     roomID,
		Platform:   models.ChannelTypeSlack,
	}
	require.NoError(t, repo.UpsertChannelSubscription(ctx, first))

	again := &models.ChannelSubscription{
		ID:         core.NewID(core.ChannelSubscriptionIDPrefix),
		ProjectKey: "AB",
		RoomID:     roomID,
		Platform:   models.ChannelTypeSlack,
		Events:     []string{"issue_created"},
	}
	require.NoError(t, repo.UpsertChannelSubscription(ctx, again))
	assert.Equal(t, first.ID, again.ID)

	byRoom, err := repo.GetChannelSubscriptionsByRoomID(ctx, models.ChannelTypeSlack, roomID)
	require.NoError(t, err)
	require.Len(t, byRoom, 1)
	assert.Equal(t, []string{"issue_created"}, byRoom[0].Events)

	deleted, err := repo.DeleteChannelSubscription(ctx, models.ChannelTypeSlack, roomID, "AB")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestPostgresUserSubscriptionsRepository(t *testing.T) {
	conn, schema := setupPostgres(t)
	repo := NewPostgresUserSubscriptionsRepository(conn, schema)
	ctx := context.Background()
	userID := fmt.Sprintf("U%d", time.Now().UnixNano())

	sub := &models.UserSubscription{
		ID:        core.NewID(core.UserSubscriptionIDPrefix),
		IssueKey:  "AB-1",
		UserID:    userID,
		AccountID: "acc-1",
	}
	require.NoError(t, repo.UpsertUserSubscription(ctx, sub))

	byUser, err := repo.GetUserSubscriptionsByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "AB-1", byUser[0].IssueKey)

	deleted, err := repo.DeleteUserSubscription(ctx, userID, "AB-1")
	require.NoError(t, err)
	assert.True(t, deleted)
}
