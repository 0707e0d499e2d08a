// Package liked exposes the saved-headline operations the rest of the
// application calls. Every entry point requires a resolved owner before it
// touches the backing store.
package liked

import (
	"context"
	"errors"

	"copysmith/internal/store"
)

// ErrUnauthorized is returned when an operation is attempted without a
// resolved owner.
var ErrUnauthorized = errors.New("liked: no authenticated owner")

// Facade wraps a store.HeadlineStore with owner gating. Handlers resolve the
// owner from the request identity and pass it explicitly; the facade refuses
// to touch the store when the owner is missing.
type Facade struct {
	headlines store.HeadlineStore
}

// NewFacade creates a Facade over the given headline store.
func NewFacade(hs store.HeadlineStore) *Facade {
	return &Facade{headlines: hs}
}

// ListLiked returns the owner's saved headlines, most recently liked first.
func (f *Facade) ListLiked(ctx context.Context, ownerID string) ([]*store.LikedHeadline, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	return f.headlines.List(ctx, ownerID)
}

// AddLiked saves a headline for the owner. Saving content the owner already
// has is not an error: the existing entry's id is returned with Created false.
func (f *Facade) AddLiked(ctx context.Context, ownerID, headlineText, bodyText string) (store.AddResult, error) {
	if ownerID == "" {
		return store.AddResult{}, ErrUnauthorized
	}
	return f.headlines.Add(ctx, ownerID, headlineText, bodyText)
}

// RemoveLikedByContent removes the owner's entries with matching headline
// text and returns how many were removed. Removing content the owner never
// saved is a no-op, not an error.
func (f *Facade) RemoveLikedByContent(ctx context.Context, ownerID, headlineText string) (int, error) {
	if ownerID == "" {
		return 0, ErrUnauthorized
	}
	return f.headlines.RemoveByContent(ctx, ownerID, headlineText)
}

// RemoveLikedByID removes the owner's entry with the given id. Entries owned
// by other users are invisible to the caller: removing one reports false,
// same as an id that never existed.
func (f *Facade) RemoveLikedByID(ctx context.Context, ownerID, id string) (bool, error) {
	if ownerID == "" {
		return false, ErrUnauthorized
	}
	return f.headlines.RemoveByID(ctx, ownerID, id)
}

// ClearLiked removes every saved headline belonging to the owner and returns
// how many were removed.
func (f *Facade) ClearLiked(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, ErrUnauthorized
	}
	return f.headlines.Clear(ctx, ownerID)
}
