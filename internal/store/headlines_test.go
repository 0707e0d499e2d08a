package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"copysmith/internal/store"
	"copysmith/internal/testutil"
)

func newSQLHeadlineStore(t *testing.T) store.HeadlineStore {
	t.Helper()
	return store.NewSQLHeadlineStore(testutil.NewTestDB(t))
}

func TestSQLHeadlineStore(t *testing.T) {
	testHeadlineStore(t, newSQLHeadlineStore)
}

// testHeadlineStore runs the shared behavior suite against a backend. Both
// backends must pass it unchanged.
func testHeadlineStore(t *testing.T, newStore func(t *testing.T) store.HeadlineStore) {
	t.Run("AddAndList", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		res, err := hs.Add(ctx, "owner-1", "Fresh Coffee Daily", "Roasted this morning, at your door by noon.")
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if !res.Created {
			t.Error("Created = false, want true")
		}
		if res.ID == "" {
			t.Error("expected non-empty ID")
		}

		headlines, err := hs.List(ctx, "owner-1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(headlines) != 1 {
			t.Fatalf("len(headlines) = %d, want 1", len(headlines))
		}
		h := headlines[0]
		if h.ID != res.ID {
			t.Errorf("ID = %q, want %q", h.ID, res.ID)
		}
		if h.OwnerID != "owner-1" {
			t.Errorf("OwnerID = %q, want %q", h.OwnerID, "owner-1")
		}
		if h.HeadlineText != "Fresh Coffee Daily" {
			t.Errorf("HeadlineText = %q", h.HeadlineText)
		}
		if h.BodyText != "Roasted this morning, at your door by noon." {
			t.Errorf("BodyText = %q", h.BodyText)
		}
		if h.LikedAt.IsZero() {
			t.Error("LikedAt is zero")
		}
	})

	t.Run("ListOrder", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		var ids []string
		for _, headline := range []string{"First", "Second", "Third"} {
			res, err := hs.Add(ctx, "owner-1", headline, "")
			if err != nil {
				t.Fatalf("Add(%q): %v", headline, err)
			}
			ids = append(ids, res.ID)
			// Distinct liked_at timestamps so ordering is deterministic.
			time.Sleep(5 * time.Millisecond)
		}

		headlines, err := hs.List(ctx, "owner-1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(headlines) != 3 {
			t.Fatalf("len(headlines) = %d, want 3", len(headlines))
		}
		// Most recently liked first.
		for i, want := range []string{ids[2], ids[1], ids[0]} {
			if headlines[i].ID != want {
				t.Errorf("headlines[%d].ID = %q, want %q", i, headlines[i].ID, want)
			}
		}
	})

	t.Run("ListEmpty", func(t *testing.T) {
		hs := newStore(t)

		headlines, err := hs.List(context.Background(), "owner-1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if headlines == nil {
			t.Error("List returned nil, want empty slice")
		}
		if len(headlines) != 0 {
			t.Errorf("len(headlines) = %d, want 0", len(headlines))
		}
	})

	t.Run("DuplicateContent", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		first, err := hs.Add(ctx, "owner-1", "Same Headline", "Same body.")
		if err != nil {
			t.Fatalf("Add: %v", err)
		}

		second, err := hs.Add(ctx, "owner-1", "Same Headline", "Same body.")
		if err != nil {
			t.Fatalf("Add duplicate: %v", err)
		}
		if second.Created {
			t.Error("duplicate Created = true, want false")
		}
		if second.ID != first.ID {
			t.Errorf("duplicate ID = %q, want existing %q", second.ID, first.ID)
		}

		headlines, err := hs.List(ctx, "owner-1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(headlines) != 1 {
			t.Errorf("len(headlines) = %d, want 1", len(headlines))
		}
	})

	t.Run("ConcurrentDuplicateAdd", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		// Racing identical adds must agree on a single record: exactly one
		// reports Created and everyone gets the same ID.
		const workers = 8
		start := make(chan struct{})
		results := make(chan store.AddResult, workers)
		errs := make(chan error, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				res, err := hs.Add(ctx, "owner-1", "Same Headline", "Same body.")
				if err != nil {
					errs <- err
					return
				}
				results <- res
			}()
		}
		close(start)
		wg.Wait()
		close(results)
		close(errs)

		for err := range errs {
			t.Fatalf("Add: %v", err)
		}

		created := 0
		ids := make(map[string]bool)
		for res := range results {
			if res.Created {
				created++
			}
			ids[res.ID] = true
		}
		if created != 1 {
			t.Errorf("created = %d, want exactly 1", created)
		}
		if len(ids) != 1 {
			t.Errorf("distinct IDs = %d, want 1", len(ids))
		}

		headlines, err := hs.List(ctx, "owner-1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(headlines) != 1 {
			t.Errorf("len(headlines) = %d, want 1", len(headlines))
		}
	})

	t.Run("SameHeadlineDifferentBody", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		// Dedup is on the full headline/body pair, not the headline alone.
		if _, err := hs.Add(ctx, "owner-1", "Same Headline", "Body one."); err != nil {
			t.Fatalf("Add: %v", err)
		}
		res, err := hs.Add(ctx, "owner-1", "Same Headline", "Body two.")
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if !res.Created {
			t.Error("Created = false, want true for distinct body")
		}

		headlines, err := hs.List(ctx, "owner-1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(headlines) != 2 {
			t.Errorf("len(headlines) = %d, want 2", len(headlines))
		}
	})

	t.Run("OwnersAreIsolated", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		a, err := hs.Add(ctx, "owner-a", "Shared Headline", "Shared body.")
		if err != nil {
			t.Fatalf("Add owner-a: %v", err)
		}
		b, err := hs.Add(ctx, "owner-b", "Shared Headline", "Shared body.")
		if err != nil {
			t.Fatalf("Add owner-b: %v", err)
		}
		if !b.Created {
			t.Error("owner-b Created = false, want true; dedup must not cross owners")
		}
		if a.ID == b.ID {
			t.Error("owners share an id")
		}

		forA, err := hs.List(ctx, "owner-a")
		if err != nil {
			t.Fatalf("List owner-a: %v", err)
		}
		if len(forA) != 1 || forA[0].ID != a.ID {
			t.Errorf("owner-a sees %d entries", len(forA))
		}
	})

	t.Run("RemoveByContent", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		// Two entries share a headline; unlike-by-content removes both.
		if _, err := hs.Add(ctx, "owner-1", "Doomed Headline", "Body one."); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if _, err := hs.Add(ctx, "owner-1", "Doomed Headline", "Body two."); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if _, err := hs.Add(ctx, "owner-1", "Survivor", ""); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if _, err := hs.Add(ctx, "owner-2", "Doomed Headline", "Body one."); err != nil {
			t.Fatalf("Add owner-2: %v", err)
		}

		n, err := hs.RemoveByContent(ctx, "owner-1", "Doomed Headline")
		if err != nil {
			t.Fatalf("RemoveByContent: %v", err)
		}
		if n != 2 {
			t.Errorf("removed = %d, want 2", n)
		}

		remaining, err := hs.List(ctx, "owner-1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(remaining) != 1 || remaining[0].HeadlineText != "Survivor" {
			t.Errorf("remaining = %d entries", len(remaining))
		}

		// The other owner's copy is untouched.
		other, err := hs.List(ctx, "owner-2")
		if err != nil {
			t.Fatalf("List owner-2: %v", err)
		}
		if len(other) != 1 {
			t.Errorf("owner-2 entries = %d, want 1", len(other))
		}
	})

	t.Run("RemoveByContentUnknown", func(t *testing.T) {
		hs := newStore(t)

		n, err := hs.RemoveByContent(context.Background(), "owner-1", "Never Liked")
		if err != nil {
			t.Fatalf("RemoveByContent: %v", err)
		}
		if n != 0 {
			t.Errorf("removed = %d, want 0", n)
		}
	})

	t.Run("RemoveByID", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		res, err := hs.Add(ctx, "owner-1", "Target", "")
		if err != nil {
			t.Fatalf("Add: %v", err)
		}

		// Another owner cannot remove it.
		removed, err := hs.RemoveByID(ctx, "owner-2", res.ID)
		if err != nil {
			t.Fatalf("RemoveByID other owner: %v", err)
		}
		if removed {
			t.Error("other owner removed the record")
		}

		removed, err = hs.RemoveByID(ctx, "owner-1", res.ID)
		if err != nil {
			t.Fatalf("RemoveByID: %v", err)
		}
		if !removed {
			t.Error("removed = false, want true")
		}

		// Already gone.
		removed, err = hs.RemoveByID(ctx, "owner-1", res.ID)
		if err != nil {
			t.Fatalf("RemoveByID repeat: %v", err)
		}
		if removed {
			t.Error("second removal reported true")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		for _, headline := range []string{"One", "Two", "Three"} {
			if _, err := hs.Add(ctx, "owner-1", headline, ""); err != nil {
				t.Fatalf("Add(%q): %v", headline, err)
			}
		}
		if _, err := hs.Add(ctx, "owner-2", "Keep Me", ""); err != nil {
			t.Fatalf("Add owner-2: %v", err)
		}

		n, err := hs.Clear(ctx, "owner-1")
		if err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if n != 3 {
			t.Errorf("cleared = %d, want 3", n)
		}

		headlines, err := hs.List(ctx, "owner-1")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(headlines) != 0 {
			t.Errorf("entries after clear = %d, want 0", len(headlines))
		}

		other, err := hs.List(ctx, "owner-2")
		if err != nil {
			t.Fatalf("List owner-2: %v", err)
		}
		if len(other) != 1 {
			t.Errorf("owner-2 entries = %d, want 1", len(other))
		}
	})

	t.Run("InvalidOwner", func(t *testing.T) {
		hs := newStore(t)
		ctx := context.Background()

		if _, err := hs.Add(ctx, "", "Headline", ""); !errors.Is(err, store.ErrInvalidOwner) {
			t.Errorf("Add: %v, want ErrInvalidOwner", err)
		}
		if _, err := hs.List(ctx, "bad owner"); !errors.Is(err, store.ErrInvalidOwner) {
			t.Errorf("List: %v, want ErrInvalidOwner", err)
		}
		if _, err := hs.RemoveByContent(ctx, "", "Headline"); !errors.Is(err, store.ErrInvalidOwner) {
			t.Errorf("RemoveByContent: %v, want ErrInvalidOwner", err)
		}
		if _, err := hs.RemoveByID(ctx, "", "some-id"); !errors.Is(err, store.ErrInvalidOwner) {
			t.Errorf("RemoveByID: %v, want ErrInvalidOwner", err)
		}
		if _, err := hs.Clear(ctx, ""); !errors.Is(err, store.ErrInvalidOwner) {
			t.Errorf("Clear: %v, want ErrInvalidOwner", err)
		}
	})
}
