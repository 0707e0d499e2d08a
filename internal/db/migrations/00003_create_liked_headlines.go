package migrations

// The unique index on (owner_id, content_hash) is what makes the
// duplicate-check-then-insert in the headline store atomic: the hash covers
// the full (headline, body) pair, so two concurrent identical likes cannot
// both commit. Hashing also keeps the index inside MySQL's key length
// limit, which the raw TEXT columns would exceed.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLikedHeadlines, downCreateLikedHeadlines)
}

func upCreateLikedHeadlines(ctx context.Context, tx *sql.Tx) error {
	ts := timestampType()
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS liked_headlines (
    id            VARCHAR(36) PRIMARY KEY,
    owner_id      VARCHAR(128) NOT NULL,
    headline_text TEXT NOT NULL,
    body_text     TEXT NOT NULL,
    content_hash  CHAR(64) NOT NULL,
    liked_at      %s NOT NULL,
    CONSTRAINT liked_headlines_owner_content UNIQUE (owner_id, content_hash)
)`, ts)
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create liked_headlines table: %w", err)
	}
	_, err := tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS liked_headlines_owner_liked_at_idx ON liked_headlines (owner_id, liked_at)`)
	return err
}

func downCreateLikedHeadlines(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS liked_headlines`)
	return err
}
