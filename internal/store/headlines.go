package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLHeadlineStore is the sqlx-backed implementation of HeadlineStore. It is
// the server-authoritative backend: multiple instances may share one
// database, and the dedup rule is enforced by a unique index on
// (owner_id, content_hash) so concurrent adds cannot both insert.
type SQLHeadlineStore struct {
	db *sqlx.DB
}

func NewSQLHeadlineStore(db *sqlx.DB) *SQLHeadlineStore {
	return &SQLHeadlineStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *SQLHeadlineStore) q(query string) string { return s.db.Rebind(query) }

// contentHash is the dedup key for one owner's set: SHA-256 over the
// headline and body with a separator that cannot appear in either. Hashing
// keeps the unique index small enough for MySQL's index length limits.
func contentHash(headlineText, bodyText string) string {
	h := sha256.New()
	h.Write([]byte(headlineText))
	h.Write([]byte{0x1f})
	h.Write([]byte(bodyText))
	return hex.EncodeToString(h.Sum(nil))
}

// Add inserts a liked headline for ownerID unless an identical
// (headline, body) pair already exists for that owner. The insert relies on
// the unique index rather than a read-then-write, so a duplicate racing add
// loses cleanly; the loser re-reads the surviving record's id.
func (s *SQLHeadlineStore) Add(ctx context.Context, ownerID, headlineText, bodyText string) (AddResult, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return AddResult{}, err
	}

	hash := contentHash(headlineText, bodyText)

	// Two attempts: if the duplicate row vanishes between our failed insert
	// and the lookup (a concurrent remove), insert again.
	for attempt := 0; attempt < 2; attempt++ {
		id := uuid.New().String()
		now := time.Now().UTC()

		_, err := s.db.ExecContext(ctx, s.q(`
			INSERT INTO liked_headlines (id, owner_id, headline_text, body_text, content_hash, liked_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`), id, ownerID, headlineText, bodyText, hash, now)
		if err == nil {
			return AddResult{Created: true, ID: id}, nil
		}
		if !isUniqueConstraintError(err) {
			return AddResult{}, err
		}

		var existingID string
		err = s.db.GetContext(ctx, &existingID, s.q(`
			SELECT id FROM liked_headlines WHERE owner_id = ? AND content_hash = ?
		`), ownerID, hash)
		if err == nil {
			return AddResult{Created: false, ID: existingID}, nil
		}
		if err != sql.ErrNoRows {
			return AddResult{}, err
		}
	}
	return AddResult{}, ErrUnavailable
}

// List returns all of ownerID's liked headlines, most recently liked first.
func (s *SQLHeadlineStore) List(ctx context.Context, ownerID string) ([]*LikedHeadline, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	headlines := []*LikedHeadline{}
	err := s.db.SelectContext(ctx, &headlines, s.q(`
		SELECT id, owner_id, headline_text, body_text, liked_at
		FROM liked_headlines
		WHERE owner_id = ?
		ORDER BY liked_at DESC, id ASC
	`), ownerID)
	if err != nil {
		return nil, err
	}
	return headlines, nil
}

// RemoveByContent deletes every record for ownerID whose headline text
// matches exactly. Returns the number of rows removed; zero matches is not
// an error.
func (s *SQLHeadlineStore) RemoveByContent(ctx context.Context, ownerID, headlineText string) (int, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM liked_headlines WHERE owner_id = ? AND headline_text = ?
	`), ownerID, headlineText)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// RemoveByID deletes the record only if it exists and belongs to ownerID.
// A miss — unknown id or someone else's record — is reported as false, not
// as an error.
func (s *SQLHeadlineStore) RemoveByID(ctx context.Context, ownerID, id string) (bool, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM liked_headlines WHERE id = ? AND owner_id = ?
	`), id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear deletes all of ownerID's liked headlines and returns the count.
func (s *SQLHeadlineStore) Clear(ctx context.Context, ownerID string) (int, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM liked_headlines WHERE owner_id = ?
	`), ownerID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// isUniqueConstraintError checks whether err indicates a unique constraint
// violation. Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
