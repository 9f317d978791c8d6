package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSession(userID uuid.UUID, start time.Time, minutes int) *domain.StudySession {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return &domain.StudySession{
		ID:               uuid.New(),
		UserID:           userID,
		StartTime:        start,
		EndTime:          &end,
		StudyMode:        domain.StudyModeAll,
		TimeSpentMinutes: minutes,
	}
}

func TestComputeLifetimeStatisticsEmptyInput(t *testing.T) {
	t.Parallel()

	s := ComputeLifetimeStatistics(nil, nil, time.Now())

	assert.Zero(t, s.TotalStudied)
	assert.Zero(t, s.TotalCorrect)
	assert.Zero(t, s.TotalIncorrect)
	assert.Zero(t, s.AverageAccuracyPct, "accuracy must be 0, not NaN, with no attempts")
	assert.Zero(t, s.StudyStreakDays)
	assert.Zero(t, s.CardsNeedingReview)
	assert.Zero(t, s.TotalTimeSpentMinutes)
	assert.Zero(t, s.SessionsCompleted)
}

func TestComputeLifetimeStatisticsAggregates(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	progress := []*domain.ReviewProgress{
		{UserID: userID, DrugID: 1, Seen: true, CorrectCount: 8, IncorrectCount: 2},
		{UserID: userID, DrugID: 2, Seen: true, CorrectCount: 1, IncorrectCount: 1, NeedsReview: true},
		{UserID: userID, DrugID: 3, Seen: false},
	}

	sessions := []*domain.StudySession{
		completedSession(userID, now.Add(-2*time.Hour), 25),
		completedSession(userID, now.AddDate(0, 0, -1), 35),
		// In-flight session must not count toward time or session totals.
		{ID: uuid.New(), UserID: userID, StartTime: now, StudyMode: domain.StudyModeAll},
	}

	s := ComputeLifetimeStatistics(progress, sessions, now)

	assert.Equal(t, 2, s.TotalStudied)
	assert.Equal(t, 9, s.TotalCorrect)
	assert.Equal(t, 3, s.TotalIncorrect)
	assert.Equal(t, 75, s.AverageAccuracyPct)
	assert.Equal(t, 1, s.CardsNeedingReview)
	assert.Equal(t, 60, s.TotalTimeSpentMinutes)
	assert.Equal(t, 2, s.SessionsCompleted)
	assert.Equal(t, 2, s.StudyStreakDays)
}

func TestStudyStreakScenarios(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	now := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		dayOffsets []int // days before now with a completed session
		expected   int
	}{
		{
			name:       "three consecutive days ending today",
			dayOffsets: []int{0, 1, 2},
			expected:   3,
		},
		{
			name:       "empty today does not break a running streak",
			dayOffsets: []int{1, 2, 3},
			expected:   3,
		},
		{
			name:       "gap at yesterday ends the walk",
			dayOffsets: []int{0, 2, 3},
			expected:   1,
		},
		{
			name:       "gap in the middle stops counting",
			dayOffsets: []int{0, 1, 3, 4},
			expected:   2,
		},
		{
			name:       "activity only in the past with a leading gap counts nothing",
			dayOffsets: []int{5, 6, 7},
			expected:   0,
		},
		{
			name:       "no sessions at all",
			dayOffsets: nil,
			expected:   0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sessions := make([]*domain.StudySession, 0, len(tc.dayOffsets))
			for _, offset := range tc.dayOffsets {
				sessions = append(sessions, completedSession(userID, now.AddDate(0, 0, -offset), 10))
			}

			s := ComputeLifetimeStatistics(nil, sessions, now)
			assert.Equal(t, tc.expected, s.StudyStreakDays)
		})
	}
}

func TestStudyStreakUsesCalendarDaysNotDurations(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	// 00:30 today and 23:30 yesterday are under 24h apart but are two
	// distinct calendar days.
	now := time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC)
	sessions := []*domain.StudySession{
		completedSession(userID, now, 5),
		completedSession(userID, time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC), 5),
	}

	s := ComputeLifetimeStatistics(nil, sessions, now)
	assert.Equal(t, 2, s.StudyStreakDays)
}

func TestComputeSystemAccuracies(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	drugs := map[int]*domain.Drug{
		1: {ID: 1, Name: "Atenolol", Class: "Beta blocker", System: "CVS", Mechanism: "Beta-1 antagonism"},
		2: {ID: 2, Name: "Lisinopril", Class: "ACE inhibitor", System: "CVS", Mechanism: "ACE inhibition"},
		3: {ID: 3, Name: "Diazepam", Class: "Benzodiazepine", System: "CNS", Mechanism: "GABA-A potentiation"},
	}

	progress := []*domain.ReviewProgress{
		{UserID: userID, DrugID: 1, CorrectCount: 9, IncorrectCount: 1},
		{UserID: userID, DrugID: 2, CorrectCount: 3, IncorrectCount: 2},
		{UserID: userID, DrugID: 3, CorrectCount: 1, IncorrectCount: 0},
		{UserID: userID, DrugID: 99, CorrectCount: 5, IncorrectCount: 5}, // unknown drug, skipped
	}

	accuracies := ComputeSystemAccuracies(progress, drugs)
	require.Len(t, accuracies, 2)

	bySystem := make(map[domain.BodySystem]SystemAccuracy)
	for _, a := range accuracies {
		bySystem[a.System] = a
	}

	assert.Equal(t, 80, bySystem["CVS"].AccuracyPct) // 12/15
	assert.Equal(t, 15, bySystem["CVS"].Attempts)
	assert.Equal(t, 100, bySystem["CNS"].AccuracyPct)
}
