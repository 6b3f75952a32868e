package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	"jirabackend/models"
)

type PostgresCredentialsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for jira_credentials table
var credentialsColumns = []string{
	"user_id",
	"access_token",
	"refresh_token",
	"expires_at",
	"scope",
	"account_id",
	"account_email",
	"account_name",
	"cloud_id",
	"cloud_url",
	"created_at",
	"updated_at",
}

func NewPostgresCredentialsRepository(db *sqlx.DB, schema string) *PostgresCredentialsRepository {
	return &PostgresCredentialsRepository{db: db, schema: schema}
}

func (r *PostgresCredentialsRepository) UpsertCredential(ctx context.Context, credential *models.Credential) error {
	columnsStr := strings.Join(credentialsColumns, ", ")
	placeholders := make([]string, len(credentialsColumns))
	updates := make([]string, 0, len(credentialsColumns)-1)
	for i, column := range credentialsColumns {
		placeholders[i] = ":" + column
		if column != "user_id" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.jira_credentials (%s)
		VALUES (%s)
		ON CONFLICT (user_id) DO UPDATE SET %s`,
		r.schema, columnsStr, strings.Join(placeholders, ", "), strings.Join(updates, ", "))

	if _, err := r.db.NamedExecContext(ctx, query, credential); err != nil {
		return fmt.Errorf("failed to upsert jira credential: %w", err)
	}

	return nil
}

func (r *PostgresCredentialsRepository) GetCredentialByUserID(ctx context.Context, userID string) (mo.Option[*models.Credential], error) {
	columnsStr := strings.Join(credentialsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.jira_credentials
		WHERE user_id = $1`, columnsStr, r.schema)

	var credential models.Credential
	if err := r.db.GetContext(ctx, &credential, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Credential](), nil
		}
		return mo.None[*models.Credential](), fmt.Errorf("failed to get jira credential: %w", err)
	}

	return mo.Some(&credential), nil
}

func (r *PostgresCredentialsRepository) DeleteCredentialByUserID(ctx context.Context, userID string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s.jira_credentials WHERE user_id = $1`, r.schema)

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete jira credential: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresCredentialsRepository) ListCredentials(ctx context.Context) ([]*models.Credential, error) {
	columnsStr := strings.Join(credentialsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.jira_credentials
		ORDER BY user_id`, columnsStr, r.schema)

	var credentials []*models.Credential
	if err := r.db.SelectContext(ctx, &credentials, query); err != nil {
		return nil, fmt.Errorf("failed to list jira credentials: %w", err)
	}

	return credentials, nil
}
