package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAPITokens, downCreateAPITokens)
}

func upCreateAPITokens(ctx context.Context, tx *sql.Tx) error {
	ts := timestampType()
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS api_tokens (
    id           VARCHAR(36) PRIMARY KEY,
    user_id      VARCHAR(36) NOT NULL,
    name         VARCHAR(255) NOT NULL,
    token_hash   CHAR(64) NOT NULL,
    last_used_at %s NULL,
    expires_at   %s NULL,
    created_at   %s NOT NULL,
    revoked_at   %s NULL,
    CONSTRAINT api_tokens_hash UNIQUE (token_hash)
)`, ts, ts, ts, ts)
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create api_tokens table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS api_tokens_user_idx ON api_tokens (user_id)`)
	return err
}

func downCreateAPITokens(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS api_tokens`)
	return err
}
