// Package review implements the spaced repetition review flow: selecting
// the cards due for a user and recording answer outcomes through the
// scheduling algorithm.
package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// Common error types for the review service
var (
	// ErrNoCardsDue indicates that the user has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrDrugNotFound indicates that the reviewed drug does not exist.
	ErrDrugNotFound = errors.New("drug not found")
)

// Answer represents a user's answer to a flashcard review.
type Answer struct {
	Correct bool `json:"correct"`
}

// Service provides methods for reviewing drug flashcards using the
// spaced repetition algorithm.
type Service interface {
	// GetDueCards retrieves the user's progress records due for review,
	// shuffled into a study order. A positive limit caps the result.
	// Returns ErrNoCardsDue when nothing is due.
	GetDueCards(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ReviewProgress, error)

	// SubmitAnswer records an answer for a drug and reschedules it. The
	// read-modify-write runs in a single transaction with a row lock, so
	// concurrent answers for the same card serialize instead of losing
	// updates. Returns the updated progress record.
	SubmitAnswer(ctx context.Context, userID uuid.UUID, drugID int, answer Answer) (*domain.ReviewProgress, error)
}
