package stats

import (
	"math"
	"time"

	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// streakLookbackDays bounds the backward streak walk.
const streakLookbackDays = 365

// Statistics aggregates a user's lifetime study activity across all
// progress records and completed sessions.
type Statistics struct {
	TotalStudied          int `json:"total_studied"`
	TotalCorrect          int `json:"total_correct"`
	TotalIncorrect        int `json:"total_incorrect"`
	AverageAccuracyPct    int `json:"average_accuracy"`
	StudyStreakDays       int `json:"study_streak"`
	CardsNeedingReview    int `json:"cards_needing_review"`
	TotalTimeSpentMinutes int `json:"total_time_spent"`
	SessionsCompleted     int `json:"sessions_completed"`
}

// ComputeLifetimeStatistics folds all progress records and completed
// sessions into lifetime statistics. Sessions that have not ended are
// ignored. The function is total over empty input: every aggregate
// defaults to zero.
func ComputeLifetimeStatistics(
	progress []*domain.ReviewProgress,
	sessions []*domain.StudySession,
	now time.Time,
) Statistics {
	var s Statistics

	for _, p := range progress {
		if p.Seen {
			s.TotalStudied++
		}
		if p.NeedsReview {
			s.CardsNeedingReview++
		}
		s.TotalCorrect += p.CorrectCount
		s.TotalIncorrect += p.IncorrectCount
	}

	if attempts := s.TotalCorrect + s.TotalIncorrect; attempts > 0 {
		s.AverageAccuracyPct = int(math.Round(100 * float64(s.TotalCorrect) / float64(attempts)))
	}

	completed := make([]*domain.StudySession, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Completed() {
			completed = append(completed, sess)
			s.TotalTimeSpentMinutes += sess.TimeSpentMinutes
		}
	}
	s.SessionsCompleted = len(completed)

	s.StudyStreakDays = studyStreak(completed, now)

	return s
}

// studyStreak counts consecutive calendar days with at least one completed
// session, walking backward from today up to streakLookbackDays. An empty
// today is skipped without ending the walk, so a streak survives until the
// day's first session; any other empty day ends it, whether or not an
// active day was seen first.
func studyStreak(completed []*domain.StudySession, now time.Time) int {
	streak := 0
	for i := 0; i < streakLookbackDays; i++ {
		day := now.AddDate(0, 0, -i)

		if hasSessionOn(completed, day) {
			streak++
		} else if i > 0 {
			break
		}
	}

	return streak
}

// hasSessionOn reports whether any session started on the same calendar day
// as day, compared in day's location.
func hasSessionOn(sessions []*domain.StudySession, day time.Time) bool {
	y, m, d := day.Date()
	for _, s := range sessions {
		sy, sm, sd := s.StartTime.In(day.Location()).Date()
		if sy == y && sm == m && sd == d {
			return true
		}
	}

	return false
}

// SystemAccuracy is a per-body-system accuracy figure used by the
// achievement engine and the analytics endpoints.
type SystemAccuracy struct {
	System      domain.BodySystem `json:"system"`
	AccuracyPct int               `json:"accuracy"`
	Attempts    int               `json:"attempts"`
}

// ComputeSystemAccuracies groups progress records by the body system of
// their drug and computes a rounded accuracy percentage per system.
// Records whose drug is missing from the index are skipped.
func ComputeSystemAccuracies(
	progress []*domain.ReviewProgress,
	drugsByID map[int]*domain.Drug,
) []SystemAccuracy {
	type tally struct {
		correct int
		total   int
	}

	tallies := make(map[domain.BodySystem]*tally)
	order := make([]domain.BodySystem, 0)

	for _, p := range progress {
		drug, ok := drugsByID[p.DrugID]
		if !ok {
			continue
		}

		tl, ok := tallies[drug.System]
		if !ok {
			tl = &tally{}
			tallies[drug.System] = tl
			order = append(order, drug.System)
		}
		tl.correct += p.CorrectCount
		tl.total += p.CorrectCount + p.IncorrectCount
	}

	accuracies := make([]SystemAccuracy, 0, len(order))
	for _, system := range order {
		tl := tallies[system]
		acc := SystemAccuracy{System: system, Attempts: tl.total}
		if tl.total > 0 {
			acc.AccuracyPct = int(math.Round(100 * float64(tl.correct) / float64(tl.total)))
		}
		accuracies = append(accuracies, acc)
	}

	return accuracies
}
