package review

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/domain/srs"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// mockProgressStore is an in-memory ProgressStore for service tests.
type mockProgressStore struct {
	records  map[int]*domain.ReviewProgress // keyed by drug ID
	upserted []*domain.ReviewProgress
	listErr  error
}

func newMockProgressStore() *mockProgressStore {
	return &mockProgressStore{records: make(map[int]*domain.ReviewProgress)}
}

func (m *mockProgressStore) Get(ctx context.Context, userID uuid.UUID, drugID int) (*domain.ReviewProgress, error) {
	return m.GetForUpdate(ctx, userID, drugID)
}

func (m *mockProgressStore) GetForUpdate(_ context.Context, _ uuid.UUID, drugID int) (*domain.ReviewProgress, error) {
	p, ok := m.records[drugID]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProgressStore) ListByUser(_ context.Context, _ uuid.UUID) ([]*domain.ReviewProgress, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.ReviewProgress
	for _, p := range m.records {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProgressStore) Upsert(_ context.Context, progress *domain.ReviewProgress) error {
	m.upserted = append(m.upserted, progress)
	m.records[progress.DrugID] = progress
	return nil
}

func (m *mockProgressStore) DeleteByUser(_ context.Context, _ uuid.UUID) error {
	m.records = make(map[int]*domain.ReviewProgress)
	return nil
}

func (m *mockProgressStore) WithTx(_ *sql.Tx) store.ProgressStore { return m }

// mockDrugStore serves GetByID lookups only.
type mockDrugStore struct {
	drugs map[int]*domain.Drug
}

func (m *mockDrugStore) Create(_ context.Context, _ *domain.Drug) error { return nil }

func (m *mockDrugStore) GetByID(_ context.Context, id int) (*domain.Drug, error) {
	d, ok := m.drugs[id]
	if !ok {
		return nil, store.ErrDrugNotFound
	}
	return d, nil
}

func (m *mockDrugStore) List(_ context.Context) ([]*domain.Drug, error) { return nil, nil }

func (m *mockDrugStore) ListBySystem(_ context.Context, _ domain.BodySystem) ([]*domain.Drug, error) {
	return nil, nil
}

func (m *mockDrugStore) Update(_ context.Context, _ *domain.Drug) error { return nil }
func (m *mockDrugStore) Delete(_ context.Context, _ int) error          { return nil }
func (m *mockDrugStore) WithTx(_ *sql.Tx) store.DrugStore               { return m }

func newTestService(t *testing.T, progress *mockProgressStore, drugs *mockDrugStore) (Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	if drugs == nil {
		drugs = &mockDrugStore{drugs: map[int]*domain.Drug{}}
	}

	svc := NewService(db, drugs, progress, srs.NewDefaultScheduler(), nil)
	return svc, mock
}

func dueProgress(userID uuid.UUID, drugID int, nextReview time.Time) *domain.ReviewProgress {
	return &domain.ReviewProgress{
		UserID:         userID,
		DrugID:         drugID,
		Seen:           true,
		Difficulty:     domain.DifficultyMedium,
		NextReviewAt:   nextReview,
		ReviewInterval: 1,
		EaseFactor:     2.5,
	}
}

func TestGetDueCards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Now()

	progressStore := newMockProgressStore()
	progressStore.records[1] = dueProgress(userID, 1, now.Add(-time.Hour))
	progressStore.records[2] = dueProgress(userID, 2, now.Add(48*time.Hour)) // not due
	progressStore.records[3] = dueProgress(userID, 3, now.Add(-time.Minute))

	svc, _ := newTestService(t, progressStore, nil)

	due, err := svc.GetDueCards(context.Background(), userID, 0)
	require.NoError(t, err)
	require.Len(t, due, 2)

	seen := map[int]bool{}
	for _, p := range due {
		seen[p.DrugID] = true
	}
	assert.True(t, seen[1])
	assert.True(t, seen[3])
	assert.False(t, seen[2])
}

func TestGetDueCards_Limit(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Now()

	progressStore := newMockProgressStore()
	for i := 1; i <= 5; i++ {
		progressStore.records[i] = dueProgress(userID, i, now.Add(-time.Hour))
	}

	svc, _ := newTestService(t, progressStore, nil)

	due, err := svc.GetDueCards(context.Background(), userID, 2)
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestGetDueCards_NoneDue(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newMockProgressStore(), nil)

	_, err := svc.GetDueCards(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrNoCardsDue)
}

func TestSubmitAnswer_FirstAnswerCreatesProgress(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	progressStore := newMockProgressStore()
	drugs := &mockDrugStore{drugs: map[int]*domain.Drug{
		7: {ID: 7, Name: "Lisinopril", Class: "ACE Inhibitor", System: "cardiovascular", Mechanism: "ACE inhibition"},
	}}

	svc, mock := newTestService(t, progressStore, drugs)
	mock.ExpectBegin()
	mock.ExpectCommit()

	updated, err := svc.SubmitAnswer(context.Background(), userID, 7, Answer{Correct: true})
	require.NoError(t, err)

	assert.Equal(t, userID, updated.UserID)
	assert.Equal(t, 7, updated.DrugID)
	assert.True(t, updated.Seen)
	assert.Equal(t, 1, updated.CorrectCount)
	assert.Equal(t, 1, updated.StreakCount)
	assert.False(t, updated.NeedsReview)
	require.Len(t, progressStore.upserted, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitAnswer_UnknownDrug(t *testing.T) {
	t.Parallel()

	progressStore := newMockProgressStore()
	svc, mock := newTestService(t, progressStore, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.SubmitAnswer(context.Background(), uuid.New(), 99, Answer{Correct: true})
	assert.ErrorIs(t, err, ErrDrugNotFound)
	assert.Empty(t, progressStore.upserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitAnswer_ExistingProgressAdvances(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	progressStore := newMockProgressStore()
	existing := dueProgress(userID, 4, time.Now().Add(-time.Hour))
	existing.CorrectCount = 3
	existing.StreakCount = 3
	progressStore.records[4] = existing

	svc, mock := newTestService(t, progressStore, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	updated, err := svc.SubmitAnswer(context.Background(), userID, 4, Answer{Correct: true})
	require.NoError(t, err)

	assert.Equal(t, 4, updated.CorrectCount)
	assert.Equal(t, 4, updated.StreakCount)
	assert.Equal(t, 6, updated.ReviewInterval, "second interval step is six days")
	assert.True(t, updated.NextReviewAt.After(time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitAnswer_IncorrectFlagsForReview(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	progressStore := newMockProgressStore()
	existing := dueProgress(userID, 5, time.Now().Add(-time.Hour))
	existing.StreakCount = 2
	progressStore.records[5] = existing

	svc, mock := newTestService(t, progressStore, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	updated, err := svc.SubmitAnswer(context.Background(), userID, 5, Answer{Correct: false})
	require.NoError(t, err)

	assert.True(t, updated.NeedsReview)
	assert.Equal(t, 0, updated.StreakCount)
	assert.Equal(t, 1, updated.ReviewInterval)
	assert.NoError(t, mock.ExpectationsWereMet())
}
