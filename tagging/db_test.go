package tagging

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lewtec/pngtag/internal/metaedit"
	"github.com/lewtec/pngtag/internal/repository"
)

func TestPrepareDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "state", "journal.db")

	db, err := GetDatabase(dbPath)
	if err != nil {
		t.Fatalf("GetDatabase() error = %v", err)
	}
	defer db.Close()

	if err := PrepareDatabase(ctx, db); err != nil {
		t.Fatalf("PrepareDatabase() error = %v", err)
	}
	if err := PrepareDatabase(ctx, db); err != nil {
		t.Fatalf("second PrepareDatabase() error = %v", err)
	}

	path, _ := writeRGBPNG(t, t.TempDir(), "photo.png")
	journal := repository.NewJournalRepository(db)
	tagger := &Tagger{Policy: metaedit.Replace, Journal: journal}
	tagged, err := tagger.Tag(ctx, path, "Author", "Alice")
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if _, err := tagger.Remove(ctx, path, "Author"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	edits, err := journal.ListForPath(ctx, tagged.Path, 0)
	if err != nil {
		t.Fatalf("ListForPath() error = %v", err)
	}
	if len(edits) != 2 {
		t.Fatalf("journal has %d edits, want 2", len(edits))
	}
	if !edits[0].Removed() || edits[1].NewValue != "Alice" {
		t.Errorf("unexpected journal order: %+v %+v", edits[0], edits[1])
	}
	if edits[0].SHA256Before != edits[1].SHA256After {
		t.Error("journal hashes do not chain")
	}
}
