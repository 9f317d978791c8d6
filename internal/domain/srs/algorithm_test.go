package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
)

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		correct  bool
		expected float64
	}{
		{
			name:     "Correct answer increases ease",
			current:  2.5,
			correct:  true,
			expected: 2.6,
		},
		{
			name:     "Incorrect answer decreases ease",
			current:  2.5,
			correct:  false,
			expected: 2.3,
		},
		{
			name:     "Ease never drops below the floor",
			current:  1.4,
			correct:  false,
			expected: 1.3,
		},
		{
			name:     "Ease at floor stays at floor on incorrect",
			current:  1.3,
			correct:  false,
			expected: 1.3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := calculateNewEaseFactor(tc.current, tc.correct, params)
			if diff := result - tc.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected ease factor %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestEaseFactorFloorProperty(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// Every (ease, outcome) pair must land at or above the floor.
	for ef := 1.3; ef <= 3.0; ef += 0.05 {
		for _, correct := range []bool{true, false} {
			if got := calculateNewEaseFactor(ef, correct, params); got < params.MinEaseFactor {
				t.Fatalf("ease factor %v fell below floor for input ef=%v correct=%v", got, ef, correct)
			}
		}
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  int
		ef       float64
		correct  bool
		expected int
	}{
		{
			name:     "Incorrect answer resets interval",
			current:  30,
			ef:       2.5,
			correct:  false,
			expected: 1,
		},
		{
			name:     "First correct answer at initial interval jumps to six days",
			current:  1,
			ef:       2.6,
			correct:  true,
			expected: 6,
		},
		{
			name:     "Later correct answers grow by ease factor",
			current:  6,
			ef:       2.6,
			correct:  true,
			expected: 16, // round(6 * 2.6) = 15.6 -> 16
		},
		{
			name:     "Rounding is to nearest day",
			current:  10,
			ef:       1.35,
			correct:  true,
			expected: 14, // round(13.5) = 14
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := calculateNewInterval(tc.current, tc.ef, tc.correct, params)
			if result != tc.expected {
				t.Errorf("expected interval %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestIncorrectAlwaysResetsIntervalProperty(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for interval := 1; interval <= 400; interval += 7 {
		for ef := 1.3; ef <= 2.8; ef += 0.3 {
			if got := calculateNewInterval(interval, ef, false, params); got != 1 {
				t.Fatalf("incorrect answer produced interval %d for interval=%d ef=%v", got, interval, ef)
			}
		}
	}
}

func TestNextDifficulty(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  domain.Difficulty
		correct  bool
		streak   int
		expected domain.Difficulty
	}{
		{
			name:     "Correct with low streak leaves difficulty unchanged",
			current:  domain.DifficultyHard,
			correct:  true,
			streak:   2,
			expected: domain.DifficultyHard,
		},
		{
			name:     "Correct with streak promotes hard to medium",
			current:  domain.DifficultyHard,
			correct:  true,
			streak:   3,
			expected: domain.DifficultyMedium,
		},
		{
			name:     "Correct with streak promotes medium to easy",
			current:  domain.DifficultyMedium,
			correct:  true,
			streak:   4,
			expected: domain.DifficultyEasy,
		},
		{
			name:     "Correct with streak keeps easy at easy",
			current:  domain.DifficultyEasy,
			correct:  true,
			streak:   10,
			expected: domain.DifficultyEasy,
		},
		{
			name:     "Incorrect demotes easy to medium",
			current:  domain.DifficultyEasy,
			correct:  false,
			streak:   0,
			expected: domain.DifficultyMedium,
		},
		{
			name:     "Incorrect demotes medium to hard",
			current:  domain.DifficultyMedium,
			correct:  false,
			streak:   0,
			expected: domain.DifficultyHard,
		},
		{
			name:     "Incorrect keeps hard at hard",
			current:  domain.DifficultyHard,
			correct:  false,
			streak:   0,
			expected: domain.DifficultyHard,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := nextDifficulty(tc.current, tc.correct, tc.streak, params)
			if result != tc.expected {
				t.Errorf("expected difficulty %s, got %s", tc.expected, result)
			}
		})
	}
}

func TestCalculateNextProgressSequence(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// First-ever correct answer yields the initial one-day interval.
	first := newProgress(userID, 7, true, now, params)
	if first.ReviewInterval != 1 {
		t.Fatalf("expected first interval 1, got %d", first.ReviewInterval)
	}
	if !first.Seen || first.NeedsReview {
		t.Fatalf("expected first record seen and not flagged, got seen=%v needsReview=%v", first.Seen, first.NeedsReview)
	}
	if first.StreakCount != 1 || first.CorrectCount != 1 {
		t.Fatalf("expected streak and correct count of 1, got %d and %d", first.StreakCount, first.CorrectCount)
	}

	// Second consecutive correct answer hits the interval==1 special case.
	second := calculateNextProgress(first, true, now.AddDate(0, 0, 1), params)
	if second.ReviewInterval != 6 {
		t.Fatalf("expected second interval 6, got %d", second.ReviewInterval)
	}
	if second.StreakCount != 2 {
		t.Fatalf("expected streak 2, got %d", second.StreakCount)
	}

	// An incorrect answer resets the streak to zero and flags the card.
	lapsed := calculateNextProgress(second, false, now.AddDate(0, 0, 7), params)
	if lapsed.StreakCount != 0 {
		t.Fatalf("expected streak reset to 0, got %d", lapsed.StreakCount)
	}
	if !lapsed.NeedsReview {
		t.Fatal("expected needsReview true after incorrect answer")
	}
	if lapsed.ReviewInterval != 1 {
		t.Fatalf("expected interval reset to 1, got %d", lapsed.ReviewInterval)
	}
	if lapsed.IncorrectCount != 1 {
		t.Fatalf("expected incorrect count 1, got %d", lapsed.IncorrectCount)
	}

	// The next correct answer clears the flag and restarts the streak.
	recovered := calculateNextProgress(lapsed, true, now.AddDate(0, 0, 8), params)
	if recovered.NeedsReview {
		t.Fatal("expected needsReview cleared by correct answer")
	}
	if recovered.StreakCount != 1 {
		t.Fatalf("expected streak 1 after recovery, got %d", recovered.StreakCount)
	}
}

func TestCalculateNextProgressDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	original := newProgress(uuid.New(), 3, true, now, params)
	snapshot := *original

	_ = calculateNextProgress(original, false, now.AddDate(0, 0, 1), params)

	if *original != snapshot {
		t.Error("calculateNextProgress mutated its input")
	}
}

func TestNewProgressIncorrectFirstAnswer(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	progress := newProgress(uuid.New(), 11, false, now, params)

	if !progress.NeedsReview {
		t.Error("expected needsReview true after incorrect first answer")
	}
	if progress.StreakCount != 0 || progress.CorrectCount != 0 || progress.IncorrectCount != 1 {
		t.Errorf("unexpected counts: streak=%d correct=%d incorrect=%d",
			progress.StreakCount, progress.CorrectCount, progress.IncorrectCount)
	}
	if progress.Difficulty != domain.DifficultyMedium {
		t.Errorf("expected medium difficulty, got %s", progress.Difficulty)
	}
	if progress.EaseFactor != params.InitialEaseFactor {
		t.Errorf("expected initial ease %v, got %v", params.InitialEaseFactor, progress.EaseFactor)
	}
	expectedNext := now.AddDate(0, 0, 1)
	if !progress.NextReviewAt.Equal(expectedNext) {
		t.Errorf("expected next review %v, got %v", expectedNext, progress.NextReviewAt)
	}
}
