package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// NoteStore defines the interface for drug note persistence.
type NoteStore interface {
	// Create saves a new note and assigns its generated ID.
	Create(ctx context.Context, note *domain.DrugNote) error

	// GetByID retrieves a note by its ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id int64) (*domain.DrugNote, error)

	// ListByDrug retrieves the user's notes for a drug, newest first.
	ListByDrug(ctx context.Context, userID uuid.UUID, drugID int) ([]*domain.DrugNote, error)

	// Update modifies a note's text and tags.
	// Returns ErrNoteNotFound if the note does not exist.
	Update(ctx context.Context, note *domain.DrugNote) error

	// Delete removes a note.
	// Returns ErrNoteNotFound if the note does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new NoteStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) NoteStore
}

// BookmarkStore defines the interface for bookmark persistence.
type BookmarkStore interface {
	// Add bookmarks a drug for the user.
	// Returns ErrBookmarkExists if the bookmark already exists.
	Add(ctx context.Context, bookmark *domain.Bookmark) error

	// Remove deletes the user's bookmark for a drug.
	// Returns ErrNotFound if no such bookmark exists.
	Remove(ctx context.Context, userID uuid.UUID, drugID int) error

	// ListByUser retrieves all of the user's bookmarks, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Bookmark, error)

	// WithTx returns a new BookmarkStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BookmarkStore
}
