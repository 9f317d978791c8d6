package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Difficulty buckets a card into one of three subjective levels. The
// scheduler steps the bucket up or down based on answer outcomes.
type Difficulty string

// Possible difficulty values
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Common validation errors for ReviewProgress
var (
	ErrEmptyProgressUserID = errors.New("review progress user ID cannot be empty")
	ErrInvalidDrugID       = errors.New("review progress drug ID must be positive")
	ErrInvalidDifficulty   = errors.New("invalid difficulty")
	ErrInvalidInterval     = errors.New("review interval must be at least 1 day")
	ErrInvalidEaseFactor   = errors.New("ease factor must be at least 1.3")
)

// ReviewProgress tracks a user's spaced repetition state for a single drug.
// It follows an SM-2 style algorithm: the ease factor controls how fast the
// review interval grows, and NeedsReview flags cards answered incorrectly
// until the next correct answer clears them.
type ReviewProgress struct {
	UserID         uuid.UUID  `json:"user_id"`
	DrugID         int        `json:"drug_id"`
	Seen           bool       `json:"seen"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	LastSeen       time.Time  `json:"last_seen"`
	Difficulty     Difficulty `json:"difficulty"`
	NextReviewAt   time.Time  `json:"next_review_date"`
	ReviewInterval int        `json:"review_interval"` // days
	EaseFactor     float64    `json:"ease_factor"`
	NeedsReview    bool       `json:"needs_review"`
	StreakCount    int        `json:"streak_count"` // consecutive correct answers
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsValidDifficulty reports whether d is one of the known difficulty values.
func IsValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Validate checks if the ReviewProgress has valid data.
// Returns an error if any field fails validation.
func (p *ReviewProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}

	if p.DrugID <= 0 {
		return ErrInvalidDrugID
	}

	if !IsValidDifficulty(p.Difficulty) {
		return ErrInvalidDifficulty
	}

	if p.ReviewInterval < 1 {
		return ErrInvalidInterval
	}

	if p.EaseFactor < 1.3 {
		return ErrInvalidEaseFactor
	}

	return nil
}
