// Package stats implements study session bookkeeping and lifetime
// statistics aggregation, including the calendar-day study streak.
// All functions are pure: they compute over in-memory values and leave
// persistence to the caller.
package stats

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// Common errors
var (
	ErrNilSession       = errors.New("study session cannot be nil")
	ErrSessionCompleted = errors.New("study session is already completed")
)

// StartSession creates a new StudySession with counts at zero.
func StartSession(
	userID uuid.UUID,
	systems []domain.BodySystem,
	mode domain.StudyMode,
	totalCards int,
	now time.Time,
) (*domain.StudySession, error) {
	session := &domain.StudySession{
		ID:         uuid.New(),
		UserID:     userID,
		StartTime:  now,
		TotalCards: totalCards,
		Systems:    systems,
		StudyMode:  mode,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// RecordAnswer returns a copy of the session with the matching counter
// incremented. Completed sessions are read-only.
func RecordAnswer(session *domain.StudySession, correct bool) (*domain.StudySession, error) {
	if session == nil {
		return nil, ErrNilSession
	}

	if session.Completed() {
		return nil, ErrSessionCompleted
	}

	next := *session
	if correct {
		next.CorrectCards++
	} else {
		next.IncorrectCards++
	}

	return &next, nil
}

// EndSession returns a copy of the session marked completed, with the end
// time set and the elapsed time rounded to whole minutes.
func EndSession(session *domain.StudySession, now time.Time) (*domain.StudySession, error) {
	if session == nil {
		return nil, ErrNilSession
	}

	if session.Completed() {
		return nil, ErrSessionCompleted
	}

	next := *session
	end := now
	next.EndTime = &end
	next.TimeSpentMinutes = int(math.Round(now.Sub(session.StartTime).Minutes()))

	return &next, nil
}
