package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// SessionStore defines the interface for study session persistence.
type SessionStore interface {
	// Create saves a new study session.
	Create(ctx context.Context, session *domain.StudySession) error

	// GetByID retrieves a session by its ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// Update replaces the stored session with the given value.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.StudySession) error

	// ListCompletedByUser retrieves all of the user's completed sessions,
	// newest first.
	ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error)

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}

// QuizScoreStore defines the interface for the append-only quiz history.
type QuizScoreStore interface {
	// Create appends a quiz score to the user's history.
	Create(ctx context.Context, score *domain.QuizScore) error

	// ListByUser retrieves the user's quiz history, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.QuizScore, error)

	// WithTx returns a new QuizScoreStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) QuizScoreStore
}
