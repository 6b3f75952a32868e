package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

func NewConnection(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ApplySchema creates the schema and tables if they do not exist yet
func ApplySchema(ctx context.Context, db *sqlx.DB, schema string) error {
	statements := strings.ReplaceAll(schemaSQL, "{{schema}}", schema)
	if _, err := db.ExecContext(ctx, statements); err != nil {
		return fmt.Errorf("failed to apply schema %s: %w", schema, err)
	}
	return nil
}
