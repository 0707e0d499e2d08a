package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateGenerations, downCreateGenerations)
}

func upCreateGenerations(ctx context.Context, tx *sql.Tx) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS generations (
    id              VARCHAR(36) PRIMARY KEY,
    owner_id        VARCHAR(128) NOT NULL,
    provider        VARCHAR(64) NOT NULL,
    candidate_count INTEGER NOT NULL DEFAULT 0,
    created_at      %s NOT NULL
)`, timestampType())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create generations table: %w", err)
	}
	_, err := tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS generations_owner_created_idx ON generations (owner_id, created_at)`)
	return err
}

func downCreateGenerations(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS generations`)
	return err
}
