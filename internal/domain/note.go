package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for DrugNote
var (
	ErrEmptyNoteUserID = errors.New("drug note user ID cannot be empty")
	ErrEmptyNoteText   = errors.New("drug note text cannot be empty")
	ErrInvalidNoteDrug = errors.New("drug note drug ID must be positive")
)

// DrugNote is a free-text note a user attaches to a drug, optionally tagged.
type DrugNote struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	DrugID    int       `json:"drug_id"`
	Note      string    `json:"note"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the DrugNote has valid data.
func (n *DrugNote) Validate() error {
	if n.UserID == uuid.Nil {
		return ErrEmptyNoteUserID
	}

	if n.DrugID <= 0 {
		return ErrInvalidNoteDrug
	}

	if n.Note == "" {
		return ErrEmptyNoteText
	}

	return nil
}

// Bookmark marks a drug a user wants quick access to, e.g. for the
// bookmarked study mode.
type Bookmark struct {
	UserID       uuid.UUID `json:"user_id"`
	DrugID       int       `json:"drug_id"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
}
