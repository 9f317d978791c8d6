package srs

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// Common errors
var (
	ErrEmptyUserID = errors.New("user ID cannot be empty")
	ErrInvalidDrug = errors.New("drug ID must be positive")
)

// Scheduler defines the interface for spaced repetition scheduling
// operations. All methods are pure: they read and return plain values and
// leave persistence to the caller.
type Scheduler interface {
	// UpdateProgress computes the next review state for a drug after an
	// answer. A nil progress means the drug has never been answered; a new
	// record is created in that case. The input is never mutated.
	UpdateProgress(
		progress *domain.ReviewProgress,
		userID uuid.UUID,
		drugID int,
		correct bool,
		now time.Time,
	) (*domain.ReviewProgress, error)
}

// defaultScheduler is the standard implementation of the Scheduler interface.
type defaultScheduler struct {
	params *Params
}

// NewDefaultScheduler creates a new scheduler with default parameters.
func NewDefaultScheduler() Scheduler {
	return &defaultScheduler{params: NewDefaultParams()}
}

// NewSchedulerWithParams creates a new scheduler with custom parameters.
func NewSchedulerWithParams(params *Params) Scheduler {
	return &defaultScheduler{params: params}
}

// UpdateProgress implements the Scheduler interface.
func (s *defaultScheduler) UpdateProgress(
	progress *domain.ReviewProgress,
	userID uuid.UUID,
	drugID int,
	correct bool,
	now time.Time,
) (*domain.ReviewProgress, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptyUserID
	}

	if drugID <= 0 {
		return nil, ErrInvalidDrug
	}

	if progress == nil {
		return newProgress(userID, drugID, correct, now, s.params), nil
	}

	return calculateNextProgress(progress, correct, now, s.params), nil
}
