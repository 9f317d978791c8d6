package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StudyMode selects which slice of the catalog a session draws cards from.
type StudyMode string

// Possible study mode values
const (
	StudyModeAll        StudyMode = "all"
	StudyModeBookmarked StudyMode = "bookmarked"
	StudyModeUnseen     StudyMode = "unseen"
	StudyModeReview     StudyMode = "review"
)

// Common validation errors for StudySession
var (
	ErrEmptySessionID     = errors.New("study session ID cannot be empty")
	ErrEmptySessionUserID = errors.New("study session user ID cannot be empty")
	ErrInvalidStudyMode   = errors.New("invalid study mode")
	ErrNegativeCardCount  = errors.New("card counts cannot be negative")
)

// StudySession records a single flashcard study session. Counts are
// incremented while the session runs; EndTime and TimeSpentMinutes are set
// exactly once when the session completes, after which the session is
// read-only.
type StudySession struct {
	ID               uuid.UUID    `json:"id"`
	UserID           uuid.UUID    `json:"user_id"`
	StartTime        time.Time    `json:"start_time"`
	EndTime          *time.Time   `json:"end_time,omitempty"`
	TotalCards       int          `json:"total_cards"`
	CorrectCards     int          `json:"correct_cards"`
	IncorrectCards   int          `json:"incorrect_cards"`
	Systems          []BodySystem `json:"systems"`
	StudyMode        StudyMode    `json:"study_mode"`
	TimeSpentMinutes int          `json:"time_spent"`
}

// IsValidStudyMode reports whether m is one of the known study modes.
func IsValidStudyMode(m StudyMode) bool {
	switch m {
	case StudyModeAll, StudyModeBookmarked, StudyModeUnseen, StudyModeReview:
		return true
	default:
		return false
	}
}

// Completed reports whether the session has ended.
func (s *StudySession) Completed() bool {
	return s.EndTime != nil
}

// Validate checks if the StudySession has valid data.
// Returns an error if any field fails validation.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}

	if !IsValidStudyMode(s.StudyMode) {
		return ErrInvalidStudyMode
	}

	if s.TotalCards < 0 || s.CorrectCards < 0 || s.IncorrectCards < 0 {
		return ErrNegativeCardCount
	}

	return nil
}
