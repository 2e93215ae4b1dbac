package domain

import (
	"context"
	"time"
)

// Edit is one recorded metadata write against an image file
type Edit struct {
	ID           int64
	Path         string
	Key          string
	OldValues    []string
	NewValue     string
	Policy       string
	SHA256Before string
	SHA256After  string
	EditedAt     time.Time
}

// Removed reports whether the edit deleted the key instead of setting it
func (e *Edit) Removed() bool {
	return e.Policy == "remove"
}

// JournalRepository defines the interface for edit journal storage operations
type JournalRepository interface {
	// Record stores an edit and returns it with ID and EditedAt filled in
	Record(ctx context.Context, edit *Edit) (*Edit, error)

	// ListForPath retrieves the most recent edits of one file, newest first
	ListForPath(ctx context.Context, path string, limit int) ([]*Edit, error)

	// List retrieves the most recent edits, newest first
	List(ctx context.Context, limit int) ([]*Edit, error)

	// Count returns the total number of recorded edits
	Count(ctx context.Context) (int64, error)
}
