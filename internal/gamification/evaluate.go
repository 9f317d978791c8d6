package gamification

import (
	"math"

	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/domain/stats"
)

// Evaluation is the result of checking the catalog against a user's
// statistics. Progress holds a 0-100 percentage for every locked
// achievement; unlocked achievements are listed by ID.
type Evaluation struct {
	Unlocked []string       `json:"unlocked"`
	Progress map[string]int `json:"progress"`
}

// IsUnlocked reports whether the given achievement ID is in the unlocked
// set.
func (e Evaluation) IsUnlocked(id string) bool {
	for _, u := range e.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

// Evaluate checks every catalog entry against the given statistics,
// per-system accuracies, and quiz history. It is pure and total: empty
// inputs produce an evaluation where nothing is unlocked and all progress
// is at its floor.
func Evaluate(
	s stats.Statistics,
	systemAccuracies []stats.SystemAccuracy,
	quizScores []*domain.QuizScore,
) Evaluation {
	eval := Evaluation{
		Unlocked: make([]string, 0, len(Catalog)),
		Progress: make(map[string]int, len(Catalog)),
	}

	hasPerfectQuiz := false
	for _, q := range quizScores {
		if q.Perfect() {
			hasPerfectQuiz = true
			break
		}
	}

	maxSystemAccuracy := 0
	for _, a := range systemAccuracies {
		if a.AccuracyPct > maxSystemAccuracy {
			maxSystemAccuracy = a.AccuracyPct
		}
	}

	for _, a := range Catalog {
		value, unlocked := measure(a, s, hasPerfectQuiz, maxSystemAccuracy)

		if unlocked {
			eval.Unlocked = append(eval.Unlocked, a.ID)
			eval.Progress[a.ID] = 100
			continue
		}

		eval.Progress[a.ID] = progressPct(value, a.Requirement)
	}

	return eval
}

// measure returns the statistic value backing the achievement and whether
// the unlock rule is satisfied.
func measure(a Achievement, s stats.Statistics, hasPerfectQuiz bool, maxSystemAccuracy int) (int, bool) {
	switch a.Category {
	case CategoryStreak:
		return s.StudyStreakDays, s.StudyStreakDays >= a.Requirement

	case CategoryAccuracy:
		return s.AverageAccuracyPct, s.AverageAccuracyPct >= a.Requirement

	case CategoryVolume:
		return s.TotalStudied, s.TotalStudied >= a.Requirement

	case CategorySpeed:
		if a.ID == QuizPerfect {
			// Boolean rule: any quiz with a full score.
			if hasPerfectQuiz {
				return a.Requirement, true
			}
			return 0, false
		}
		return s.SessionsCompleted, s.SessionsCompleted >= a.Requirement

	case CategoryMastery:
		if a.ID == SystemMaster {
			return maxSystemAccuracy, maxSystemAccuracy >= a.Requirement
		}
		return s.TotalTimeSpentMinutes, s.TotalTimeSpentMinutes >= a.Requirement

	default:
		return 0, false
	}
}

// progressPct scales value against requirement into 0-100, capped at 100.
func progressPct(value, requirement int) int {
	if requirement <= 0 {
		return 0
	}

	pct := int(math.Round(100 * float64(value) / float64(requirement)))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	return pct
}
