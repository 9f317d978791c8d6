package srs

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// calculateNewEaseFactor adjusts the ease factor for an answer outcome.
// Correct answers nudge the ease up, incorrect ones pull it down more
// sharply; the result never drops below params.MinEaseFactor.
func calculateNewEaseFactor(currentEF float64, correct bool, params *Params) float64 {
	var newEF float64
	if correct {
		newEF = currentEF + params.CorrectEaseBonus
	} else {
		newEF = currentEF - params.IncorrectEasePenalty
	}

	return math.Max(params.MinEaseFactor, newEF)
}

// calculateNewInterval determines the next review interval in days.
// An incorrect answer resets the interval to the first step. A correct
// answer on a card still at the first step jumps to the second step;
// afterwards the interval grows multiplicatively with the new ease factor.
func calculateNewInterval(currentInterval int, newEaseFactor float64, correct bool, params *Params) int {
	if !correct {
		return params.FirstIntervalDays
	}

	if currentInterval == params.FirstIntervalDays {
		return params.SecondIntervalDays
	}

	return int(math.Round(float64(currentInterval) * newEaseFactor))
}

// nextDifficulty steps the difficulty bucket. A correct answer promotes
// toward easy only once the pre-update streak has reached
// params.PromotionStreak; an incorrect answer always demotes toward hard.
func nextDifficulty(current domain.Difficulty, correct bool, priorStreak int, params *Params) domain.Difficulty {
	if correct {
		if priorStreak < params.PromotionStreak {
			return current
		}
		switch current {
		case domain.DifficultyHard:
			return domain.DifficultyMedium
		default:
			return domain.DifficultyEasy
		}
	}

	switch current {
	case domain.DifficultyEasy:
		return domain.DifficultyMedium
	default:
		return domain.DifficultyHard
	}
}

// newProgress builds the initial ReviewProgress for a drug that has never
// been answered before.
func newProgress(
	userID uuid.UUID,
	drugID int,
	correct bool,
	now time.Time,
	params *Params,
) *domain.ReviewProgress {
	progress := &domain.ReviewProgress{
		UserID:         userID,
		DrugID:         drugID,
		Seen:           true,
		LastSeen:       now,
		Difficulty:     domain.DifficultyMedium,
		NextReviewAt:   now.AddDate(0, 0, params.FirstIntervalDays),
		ReviewInterval: params.FirstIntervalDays,
		EaseFactor:     params.InitialEaseFactor,
		NeedsReview:    !correct,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if correct {
		progress.CorrectCount = 1
		progress.StreakCount = 1
	} else {
		progress.IncorrectCount = 1
	}

	return progress
}

// calculateNextProgress creates a new ReviewProgress with updated values
// based on the answer outcome. The input record is never modified; the
// returned value must be persisted by the caller.
func calculateNextProgress(
	progress *domain.ReviewProgress,
	correct bool,
	now time.Time,
	params *Params,
) *domain.ReviewProgress {
	next := *progress

	next.Seen = true
	next.LastSeen = now
	next.UpdatedAt = now
	next.NeedsReview = !correct

	next.EaseFactor = calculateNewEaseFactor(progress.EaseFactor, correct, params)
	next.ReviewInterval = calculateNewInterval(progress.ReviewInterval, next.EaseFactor, correct, params)
	next.NextReviewAt = now.AddDate(0, 0, next.ReviewInterval)
	next.Difficulty = nextDifficulty(progress.Difficulty, correct, progress.StreakCount, params)

	if correct {
		next.CorrectCount = progress.CorrectCount + 1
		next.StreakCount = progress.StreakCount + 1
	} else {
		next.IncorrectCount = progress.IncorrectCount + 1
		next.StreakCount = 0
	}

	return &next
}
