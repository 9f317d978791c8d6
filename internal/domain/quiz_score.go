package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for QuizScore
var (
	ErrEmptyQuizScoreID     = errors.New("quiz score ID cannot be empty")
	ErrEmptyQuizScoreUserID = errors.New("quiz score user ID cannot be empty")
	ErrInvalidQuizScore     = errors.New("quiz score must be between 0 and the total question count")
)

// QuizScore is an append-only record of one completed quiz. System and
// DrugClass are set when the quiz was scoped to a subset of the catalog.
type QuizScore struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	CompletedAt    time.Time  `json:"completed_at"`
	System         BodySystem `json:"system,omitempty"`
	DrugClass      string     `json:"drug_class,omitempty"`
}

// NewQuizScore creates a new QuizScore for the given user and result.
// Returns an error if validation fails.
func NewQuizScore(
	userID uuid.UUID,
	score, totalQuestions int,
	system BodySystem,
	drugClass string,
	completedAt time.Time,
) (*QuizScore, error) {
	qs := &QuizScore{
		ID:             uuid.New(),
		UserID:         userID,
		Score:          score,
		TotalQuestions: totalQuestions,
		CompletedAt:    completedAt,
		System:         system,
		DrugClass:      drugClass,
	}

	if err := qs.Validate(); err != nil {
		return nil, err
	}

	return qs, nil
}

// Perfect reports whether every question in the quiz was answered correctly.
func (q *QuizScore) Perfect() bool {
	return q.TotalQuestions > 0 && q.Score == q.TotalQuestions
}

// Validate checks if the QuizScore has valid data.
func (q *QuizScore) Validate() error {
	if q.ID == uuid.Nil {
		return ErrEmptyQuizScoreID
	}

	if q.UserID == uuid.Nil {
		return ErrEmptyQuizScoreUserID
	}

	if q.Score < 0 || q.TotalQuestions < 0 || q.Score > q.TotalQuestions {
		return ErrInvalidQuizScore
	}

	return nil
}
