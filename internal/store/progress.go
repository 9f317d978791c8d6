package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// ProgressStore defines the interface for review progress persistence.
type ProgressStore interface {
	// Get retrieves a user's progress for a single drug.
	// Returns ErrProgressNotFound if no record exists yet.
	Get(ctx context.Context, userID uuid.UUID, drugID int) (*domain.ReviewProgress, error)

	// GetForUpdate retrieves a progress record with a row-level lock using
	// SELECT FOR UPDATE. Use within a transaction when a read-modify-write
	// update follows, to keep concurrent answers from clobbering each other.
	// Returns ErrProgressNotFound if no record exists yet.
	GetForUpdate(ctx context.Context, userID uuid.UUID, drugID int) (*domain.ReviewProgress, error)

	// ListByUser retrieves all progress records belonging to the user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ReviewProgress, error)

	// Upsert inserts the progress record, or replaces the existing row for
	// the same (user, drug) pair. Handles domain validation internally.
	Upsert(ctx context.Context, progress *domain.ReviewProgress) error

	// DeleteByUser removes all of a user's progress records. This is the
	// bulk administrative reset; individual records are never deleted.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
