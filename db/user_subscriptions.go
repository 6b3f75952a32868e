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

type PostgresUserSubscriptionsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for jira_user_subscriptions table
var userSubscriptionsColumns = []string{
	"id",
	"issue_key",
	"user_id",
	"account_id",
	"events",
	"created_at",
	"updated_at",
}

type userSubscriptionRow struct {
	ID        string         `db:"id"`
	IssueKey  string         `db:"issue_key"`
	UserID    string         `db:"user_id"`
	AccountID string         `db:"account_id"`
	Events    pq.StringArray `db:"events"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (row *userSubscriptionRow) toModel() *models.UserSubscription {
	return &models.UserSubscription{
		ID:        row.ID,
		IssueKey:  row.IssueKey,
		UserID:    row.UserID,
		AccountID: row.AccountID,
		Events:    []string(row.Events),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func NewPostgresUserSubscriptionsRepository(db *sqlx.DB, schema string) *PostgresUserSubscriptionsRepository {
	return &PostgresUserSubscriptionsRepository{db: db, schema: schema}
}

func (r *PostgresUserSubscriptionsRepository) UpsertUserSubscription(ctx context.Context, sub *models.UserSubscription) error {
	insertColumns := []string{"id", "issue_key", "user_id", "account_id", "events", "created_at", "updated_at"}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(userSubscriptionsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.jira_user_subscriptions (%s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id, issue_key)
		DO UPDATE SET account_id = EXCLUDED.account_id, events = EXCLUDED.events, updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, returningStr)

	events := pq.StringArray(sub.Events)
	if events == nil {
		events = pq.StringArray{}
	}

	var row userSubscriptionRow
	err := r.db.QueryRowxContext(ctx, query, sub.ID, sub.IssueKey, sub.UserID, sub.AccountID, events).StructScan(&row)
	if err != nil {
		return fmt.Errorf("failed to upsert user subscription: %w", err)
	}

	*sub = *row.toModel()
	return nil
}

func (r *PostgresUserSubscriptionsRepository) GetUserSubscriptionsByIssueKey(ctx context.Context, issueKey string) ([]*models.UserSubscription, error) {
	columnsStr := strings.Join(userSubscriptionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.jira_user_subscriptions
		WHERE issue_key = $1
		ORDER BY created_at ASC, id ASC`, columnsStr, r.schema)

	return r.selectSubscriptions(ctx, query, issueKey)
}

func (r *PostgresUserSubscriptionsRepository) GetUserSubscriptionsByUserID(ctx context.Context, userID string) ([]*models.UserSubscription, error) {
	columnsStr := strings.Join(userSubscriptionsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.jira_user_subscriptions
		WHERE user_id = $1
		ORDER BY issue_key ASC`, columnsStr, r.schema)

	return r.selectSubscriptions(ctx, query, userID)
}

func (r *PostgresUserSubscriptionsRepository) DeleteUserSubscription(ctx context.Context, userID, issueKey string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s.jira_user_subscriptions WHERE user_id = $1 AND issue_key = $2`, r.schema)

	result, err := r.db.ExecContext(ctx, query, userID, issueKey)
	if err != nil {
		return false, fmt.Errorf("failed to delete user subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresUserSubscriptionsRepository) selectSubscriptions(ctx context.Context, query string, args ...any) ([]*models.UserSubscription, error) {
	var rows []userSubscriptionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get user subscriptions: %w", err)
	}

	subs := make([]*models.UserSubscription, 0, len(rows))
	for i := range rows {
		subs = append(subs, rows[i].toModel())
	}
	return subs, nil
}
