package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOwner is returned when an owner id is empty or malformed.
	ErrInvalidOwner = errors.New("invalid owner id")

	// ErrUnavailable is returned when the backing store cannot be reached or
	// is too busy to serve the operation. Callers may retry.
	ErrUnavailable = errors.New("headline store unavailable")
)

// LikedHeadline is a headline/body pair a user chose to keep. The JSON tags
// are the wire shape shared by every backend.
type LikedHeadline struct {
	ID           string    `db:"id" json:"id"`
	OwnerID      string    `db:"owner_id" json:"ownerId"`
	HeadlineText string    `db:"headline_text" json:"headlineText"`
	BodyText     string    `db:"body_text" json:"bodyText"`
	LikedAt      time.Time `db:"liked_at" json:"likedAt"`
}

// AddResult reports whether Add inserted a new record. On a duplicate,
// Created is false and ID is the id of the record that already existed.
type AddResult struct {
	Created bool
	ID      string
}

// HeadlineStore owns each user's liked headlines. Records never move between
// owners and are never edited after creation. Within one owner's set the
// (headline, body) pair is unique; Add reports a duplicate instead of
// inserting twice, atomically with respect to concurrent adds for the same
// owner. No handler MAY touch the backing storage directly; all access goes
// through this interface.
type HeadlineStore interface {
	Add(ctx context.Context, ownerID, headlineText, bodyText string) (AddResult, error)
	List(ctx context.Context, ownerID string) ([]*LikedHeadline, error)
	RemoveByContent(ctx context.Context, ownerID, headlineText string) (int, error)
	RemoveByID(ctx context.Context, ownerID, id string) (bool, error)
	Clear(ctx context.Context, ownerID string) (int, error)
}

// IsUnavailable reports whether err is a transient persistence failure the
// caller should surface as retryable rather than fatal. Covers the
// ErrUnavailable sentinel as well as driver-level busy/lock/connection
// errors across SQLite, PostgreSQL, and MySQL.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || // SQLite
		strings.Contains(msg, "database table is locked") || // SQLite
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "too many connections") // MySQL
}
