package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"jirabackend/models"
)

type PostgresChannelSubscriptionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for jira_channel_subscriptions table
var channelSubscriptionsColumns = []string{
	"id",
	"project_key",
	"room_id",
	"platform",
	"events",
	"created_at",
	"updated_at",
}

// channelSubscriptionRow carries events as a postgres text[]
type channelSubscriptionRow struct {
	ID         string         `db:"id"`
	ProjectKey string         `db:"project_key"`
	RoomID     string         `db:"room_id"`
	Platform   string         `db:"platform"`
	Events     pq.StringArray `db:"events"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (row *channelSubscriptionRow) toModel() *models.ChannelSubscription {
	return &models.ChannelSubscription{
		ID:         row.ID,
		ProjectKey: row.ProjectKey,
		RoomID:     row.RoomID,
		Platform:   models.ChannelType(row.Platform),
		Events:     []string(row.Events),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func NewPostgresChannelSubscriptionsRepository(db *sqlx.DB, schema string) *PostgresChannelSubscriptionsRepository {
	return &PostgresChannelSubscriptionsRepository{db: db, schema: schema}
}

func (r *PostgresChannelSubscriptionsRepository) UpsertChannelSubscription(ctx context.Context, sub *models.ChannelSubscription) error {
	insertColumns := []string{"id", "project_key", "room_id", "platform", "events", "created_at", "updated_at"}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(channelSubscriptionsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.jira_channel_subscriptions (%s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (platform, room_id, project_key)
		DO UPDATE SET events = EXCLUDED.events, updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, returningStr)

	events := pq.StringArray(sub.Events)
	if events == nil {
		events = pq.StringArray{}
	}

	var row channelSubscriptionRow
	err := r.db.QueryRowxContext(ctx, query, sub.ID, sub.ProjectKey, sub.RoomID, string(sub.Platform), events).StructScan(&row)
	if err != nil {
		return fmt.Errorf("failed to upsert channel subscription: %w", err)
	}

	*sub = *row.toModel()
	return nil
}

func (r *PostgresChannelSubscriptionsRepository) GetChannelSubscriptionsByProjectKey(ctx context.Context, projectKey string) ([]*models.ChannelSubscription, error) {
	columnsStr := strings.Join(channelSubscriptionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.jira_channel_subscriptions
		WHERE project_key = $1
		ORDER BY created_at ASC, id ASC`, columnsStr, r.schema)

	return r.selectSubscriptions(ctx, query, projectKey)
}

func (r *PostgresChannelSubscriptionsRepository) GetChannelSubscriptionsByRoomID(ctx context.Context, platform models.ChannelType, roomID string) ([]*models.ChannelSubscription, error) {
	columnsStr := strings.Join(channelSubscriptionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.jira_channel_subscriptions
		WHERE platform = $1 AND room_id = $2
		ORDER BY project_key ASC`, columnsStr, r.schema)

	return r.selectSubscriptions(ctx, query, string(platform), roomID)
}

func (r *PostgresChannelSubscriptionsRepository) DeleteChannelSubscription(ctx context.Context, platform models.ChannelType, roomID, projectKey string) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s.jira_channel_subscriptions
		WHERE platform = $1 AND room_id = $2 AND project_key = $3`, r.schema)

	result, err := r.db.ExecContext(ctx, query, string(platform), roomID, projectKey)
	if err != nil {
		return false, fmt.Errorf("failed to delete channel subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresChannelSubscriptionsRepository) selectSubscriptions(ctx context.Context, query string, args ...any) ([]*models.ChannelSubscription, error) {
	var rows []channelSubscriptionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get channel subscriptions: %w", err)
	}

	subs := make([]*models.ChannelSubscription, 0, len(rows))
	for i := range rows {
		subs = append(subs, rows[i].toModel())
	}
	return subs, nil
}
