package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/lewtec/pngtag/internal/domain"
)

func setupTestJournal(t *testing.T) *JournalRepository {
	t.Helper()
	db := SetupTestDB(t)
	t.Cleanup(func() { CleanupTestDB(t, db) })
	return NewJournalRepository(db)
}

func TestJournalRepository_Record(t *testing.T) {
	ctx := context.Background()
	repo := setupTestJournal(t)

	t.Run("assigns id and timestamp", func(t *testing.T) {
		edit := &domain.Edit{
			Path:         "/images/a.png",
			Key:          "Author",
			OldValues:    []string{"Alice"},
			NewValue:     "Bob",
			Policy:       "replace",
			SHA256Before: "aa",
			SHA256After:  "bb",
		}
		stored, err := repo.Record(ctx, edit)
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if stored.ID == 0 {
			t.Error("Record() did not assign an id")
		}
		if stored.EditedAt.IsZero() {
			t.Error("Record() did not assign a timestamp")
		}
		if edit.ID != 0 {
			t.Error("Record() modified its argument")
		}
	})

	t.Run("nil previous values are stored as empty", func(t *testing.T) {
		stored, err := repo.Record(ctx, &domain.Edit{
			Path: "/images/b.png", Key: "Title", NewValue: "x", Policy: "replace",
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		edits, err := repo.ListForPath(ctx, "/images/b.png", 0)
		if err != nil {
			t.Fatalf("ListForPath() error = %v", err)
		}
		if len(edits) != 1 {
			t.Fatalf("ListForPath() returned %d edits, want 1", len(edits))
		}
		if edits[0].ID != stored.ID {
			t.Errorf("ListForPath() id = %d, want %d", edits[0].ID, stored.ID)
		}
		if edits[0].OldValues == nil || len(edits[0].OldValues) != 0 {
			t.Errorf("OldValues = %#v, want empty slice", edits[0].OldValues)
		}
	})
}

func TestJournalRepository_ListForPath(t *testing.T) {
	ctx := context.Background()
	repo := setupTestJournal(t)

	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	want := []*domain.Edit{
		{Path: "/a.png", Key: "Author", NewValue: "Alice", Policy: "replace", SHA256Before: "1", SHA256After: "2", EditedAt: base},
		{Path: "/a.png", Key: "Author", OldValues: []string{"Alice"}, NewValue: "Bob", Policy: "replace", SHA256Before: "2", SHA256After: "3", EditedAt: base.Add(time.Minute)},
		{Path: "/a.png", Key: "Author", OldValues: []string{"Bob"}, Policy: "remove", SHA256Before: "3", SHA256After: "4", EditedAt: base.Add(2 * time.Minute)},
	}
	for i, e := range want {
		stored, err := repo.Record(ctx, e)
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		want[i] = stored
	}
	if _, err := repo.Record(ctx, &domain.Edit{Path: "/other.png", Key: "k", NewValue: "v", Policy: "append", EditedAt: base}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	opts := cmp.Options{
		cmpopts.EquateEmpty(),
		cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) }),
	}

	t.Run("newest first", func(t *testing.T) {
		got, err := repo.ListForPath(ctx, "/a.png", 0)
		if err != nil {
			t.Fatalf("ListForPath() error = %v", err)
		}
		expected := []*domain.Edit{want[2], want[1], want[0]}
		if diff := cmp.Diff(expected, got, opts); diff != "" {
			t.Errorf("ListForPath() mismatch (-want +got):\n%s", diff)
		}
		if !got[0].Removed() {
			t.Error("latest edit should be a removal")
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repo.ListForPath(ctx, "/a.png", 2)
		if err != nil {
			t.Fatalf("ListForPath() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("ListForPath() returned %d edits, want 2", len(got))
		}
		if got[0].ID != want[2].ID || got[1].ID != want[1].ID {
			t.Errorf("ListForPath() ids = %d,%d", got[0].ID, got[1].ID)
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		got, err := repo.ListForPath(ctx, "/missing.png", 0)
		if err != nil {
			t.Fatalf("ListForPath() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("ListForPath() returned %d edits, want 0", len(got))
		}
	})
}

func TestJournalRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	repo := setupTestJournal(t)

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, path := range []string{"/a.png", "/b.png", "/c.png"} {
		_, err := repo.Record(ctx, &domain.Edit{Path: path, Key: "k", NewValue: "v", Policy: "replace", EditedAt: base.Add(time.Duration(i) * time.Hour)})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	n, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}

	all, err := repo.List(ctx, -1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var paths []string
	for _, e := range all {
		paths = append(paths, e.Path)
	}
	if diff := cmp.Diff([]string{"/c.png", "/b.png", "/a.png"}, paths); diff != "" {
		t.Errorf("List() paths mismatch (-want +got):\n%s", diff)
	}

	one, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(one) != 1 || one[0].Path != "/c.png" {
		t.Errorf("List(1) = %v", one)
	}
}

func TestJournalRepository_WithTx(t *testing.T) {
	ctx := context.Background()
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx() error = %v", err)
	}
	if _, err := NewJournalRepositoryWithTx(tx).Record(ctx, &domain.Edit{Path: "/a.png", Key: "k", Policy: "remove"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	n, err := NewJournalRepository(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() after rollback = %d, want 0", n)
	}
}

func TestJournalRepository_RemovalStoresNull(t *testing.T) {
	ctx := context.Background()
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	repo := NewJournalRepository(db)

	if _, err := repo.Record(ctx, &domain.Edit{Path: "/a.png", Key: "Author", OldValues: []string{"Alice"}, Policy: "remove"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	var nulls int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edits WHERE new_value IS NULL`).Scan(&nulls); err != nil {
		t.Fatalf("query error = %v", err)
	}
	if nulls != 1 {
		t.Errorf("removal stored %d NULL values, want 1", nulls)
	}

	// rows written by hand rely on the column defaults
	MustExec(t, db, `INSERT INTO edits (path, key, policy, sha256_before, sha256_after) VALUES (?, ?, ?, ?, ?)`,
		"/a.png", "Title", "remove", "aa", "bb")

	edits, err := repo.ListForPath(ctx, "/a.png", 0)
	if err != nil {
		t.Fatalf("ListForPath() error = %v", err)
	}
	if len(edits) != 2 {
		t.Fatalf("ListForPath() returned %d edits, want 2", len(edits))
	}
	for _, e := range edits {
		if !e.Removed() || e.NewValue != "" {
			t.Errorf("edit %d: policy %q, new value %q", e.ID, e.Policy, e.NewValue)
		}
		if e.EditedAt.IsZero() {
			t.Errorf("edit %d has no timestamp", e.ID)
		}
		if e.OldValues == nil {
			t.Errorf("edit %d: OldValues not decoded", e.ID)
		}
	}
}
