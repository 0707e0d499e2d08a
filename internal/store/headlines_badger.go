package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key layout inside the Badger keyspace. Records live at
// liked/<owner>/<id>; each record also has a dedup marker at
// dedup/<owner>/<contentHash> whose value is the record id. ValidateOwnerID
// rejects '/' in owner ids so the layout is unambiguous.
const (
	likedKeyPrefix = "liked/"
	dedupKeyPrefix = "dedup/"
)

// BadgerHeadlineStore is the embedded single-node implementation of
// HeadlineStore, used when copysmith runs in local mode without a SQL
// database. Badger's conflict detection only sees keys a transaction read,
// so racing adds of identical content must collide on a key both of them
// touch: Add gets and sets the deterministic dedup marker, the loser's
// commit fails with ErrConflict, and the retry observes the winner's
// marker. Record keys alone (fresh UUIDs) would never conflict.
type BadgerHeadlineStore struct {
	db *badger.DB
}

// OpenBadgerHeadlineStore opens (or creates) a Badger database at path.
func OpenBadgerHeadlineStore(path string) (*BadgerHeadlineStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerHeadlineStore{db: db}, nil
}

// NewBadgerHeadlineStore wraps an already-open Badger database.
func NewBadgerHeadlineStore(db *badger.DB) *BadgerHeadlineStore {
	return &BadgerHeadlineStore{db: db}
}

func (s *BadgerHeadlineStore) Close() error { return s.db.Close() }

func ownerPrefix(ownerID string) []byte {
	return []byte(likedKeyPrefix + ownerID + "/")
}

func recordKey(ownerID, id string) []byte {
	return []byte(likedKeyPrefix + ownerID + "/" + id)
}

func dedupKey(ownerID, hash string) []byte {
	return []byte(dedupKeyPrefix + ownerID + "/" + hash)
}

// badgerRetries bounds optimistic-conflict retries before the operation is
// reported as unavailable.
const badgerRetries = 3

func (s *BadgerHeadlineStore) update(fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < badgerRetries; i++ {
		err = s.db.Update(fn)
		if err != badger.ErrConflict {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// forEachRecord decodes every record under ownerID's prefix and hands it to
// fn together with its key. fn returning false stops the scan.
func forEachRecord(txn *badger.Txn, ownerID string, fn func(key []byte, rec LikedHeadline) (bool, error)) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	prefix := ownerPrefix(ownerID)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		var rec LikedHeadline
		err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
		if err != nil {
			return fmt.Errorf("decode %s: %w", item.Key(), err)
		}
		cont, err := fn(item.KeyCopy(nil), rec)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// Add stores a liked headline unless an identical (headline, body) pair
// already exists for ownerID. The dedup marker is both the lookup and the
// conflict anchor: the Get puts it in the transaction's read set and the
// Set in its write set, so of two racing identical adds exactly one
// commits and the other retries against the winner's marker.
func (s *BadgerHeadlineStore) Add(ctx context.Context, ownerID, headlineText, bodyText string) (AddResult, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return AddResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return AddResult{}, err
	}

	dk := dedupKey(ownerID, contentHash(headlineText, bodyText))
	var result AddResult
	err := s.update(func(txn *badger.Txn) error {
		result = AddResult{}
		item, err := txn.Get(dk)
		switch {
		case err == nil:
			var id string
			if err := item.Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}
			result = AddResult{Created: false, ID: id}
			return nil
		case err != badger.ErrKeyNotFound:
			return err
		}

		rec := LikedHeadline{
			ID:           uuid.New().String(),
			OwnerID:      ownerID,
			HeadlineText: headlineText,
			BodyText:     bodyText,
			LikedAt:      time.Now().UTC(),
		}
		val, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(recordKey(ownerID, rec.ID), val); err != nil {
			return err
		}
		if err := txn.Set(dk, []byte(rec.ID)); err != nil {
			return err
		}
		result = AddResult{Created: true, ID: rec.ID}
		return nil
	})
	if err != nil {
		return AddResult{}, err
	}
	return result, nil
}

// List returns all of ownerID's liked headlines, most recently liked first.
// Badger iterates in key order, so ordering is applied after the scan.
func (s *BadgerHeadlineStore) List(ctx context.Context, ownerID string) ([]*LikedHeadline, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	headlines := []*LikedHeadline{}
	err := s.db.View(func(txn *badger.Txn) error {
		return forEachRecord(txn, ownerID, func(_ []byte, rec LikedHeadline) (bool, error) {
			r := rec
			headlines = append(headlines, &r)
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(headlines, func(i, j int) bool {
		if !headlines[i].LikedAt.Equal(headlines[j].LikedAt) {
			return headlines[i].LikedAt.After(headlines[j].LikedAt)
		}
		return headlines[i].ID < headlines[j].ID
	})
	return headlines, nil
}

// RemoveByContent deletes every record for ownerID whose headline text
// matches exactly and returns the count removed.
func (s *BadgerHeadlineStore) RemoveByContent(ctx context.Context, ownerID, headlineText string) (int, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	removed := 0
	err := s.update(func(txn *badger.Txn) error {
		removed = 0
		matches := 0
		var doomed [][]byte
		err := forEachRecord(txn, ownerID, func(key []byte, rec LikedHeadline) (bool, error) {
			if rec.HeadlineText == headlineText {
				matches++
				doomed = append(doomed, key, dedupKey(ownerID, contentHash(rec.HeadlineText, rec.BodyText)))
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		for _, key := range doomed {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		removed = matches
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// RemoveByID deletes the record only if it belongs to ownerID. The owner is
// part of the key, so another user's id can never resolve to this owner's
// record.
func (s *BadgerHeadlineStore) RemoveByID(ctx context.Context, ownerID, id string) (bool, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	removed := false
	err := s.update(func(txn *badger.Txn) error {
		removed = false
		key := recordKey(ownerID, id)
		item, err := txn.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		var rec LikedHeadline
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		}); err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		if err := txn.Delete(dedupKey(ownerID, contentHash(rec.HeadlineText, rec.BodyText))); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Clear deletes all of ownerID's liked headlines and returns the count.
func (s *BadgerHeadlineStore) Clear(ctx context.Context, ownerID string) (int, error) {
	if err := ValidateOwnerID(ownerID); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	removed := 0
	err := s.update(func(txn *badger.Txn) error {
		removed = 0
		cleared := 0
		var doomed [][]byte
		err := forEachRecord(txn, ownerID, func(key []byte, rec LikedHeadline) (bool, error) {
			cleared++
			doomed = append(doomed, key, dedupKey(ownerID, contentHash(rec.HeadlineText, rec.BodyText)))
			return true, nil
		})
		if err != nil {
			return err
		}
		for _, key := range doomed {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		removed = cleared
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
