package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GenerationEvent records one completed ad-generation request. Events are
// written off the request path via a buffered channel so a slow insert
// never delays the response carrying the generated copy.
type GenerationEvent struct {
	OwnerID    string
	Provider   string
	Candidates int
}

// GenerationStats holds aggregate generation counts for one owner.
type GenerationStats struct {
	Total  int64
	Last7d int64
}

// GenerationStore is the sqlx-backed store for generation history.
type GenerationStore struct {
	db *sqlx.DB
}

func NewGenerationStore(db *sqlx.DB) *GenerationStore {
	return &GenerationStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *GenerationStore) q(query string) string { return s.db.Rebind(query) }

// Record inserts a generation event row.
func (s *GenerationStore) Record(ctx context.Context, e GenerationEvent) error {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO generations (id, owner_id, provider, candidate_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), id, e.OwnerID, e.Provider, e.Candidates, now)
	return err
}

// StatsForOwner returns total and trailing-7-day generation counts for one owner.
func (s *GenerationStore) StatsForOwner(ctx context.Context, ownerID string) (GenerationStats, error) {
	var stats GenerationStats
	err := s.db.GetContext(ctx, &stats.Total,
		s.q(`SELECT COUNT(*) FROM generations WHERE owner_id = ?`), ownerID)
	if err != nil {
		return stats, err
	}

	since := time.Now().UTC().AddDate(0, 0, -7)
	err = s.db.GetContext(ctx, &stats.Last7d,
		s.q(`SELECT COUNT(*) FROM generations WHERE owner_id = ? AND created_at >= ?`), ownerID, since)
	if err != nil {
		return stats, err
	}
	return stats, nil
}
