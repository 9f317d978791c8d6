package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// In-memory store fakes shared by the service tests. WithTx returns the
// fake itself so transactional code paths run against the same state.

type fakeDrugStore struct {
	drugs  map[int]*domain.Drug
	nextID int
}

func newFakeDrugStore(drugs ...*domain.Drug) *fakeDrugStore {
	s := &fakeDrugStore{drugs: make(map[int]*domain.Drug), nextID: 1}
	for _, d := range drugs {
		if d.ID >= s.nextID {
			s.nextID = d.ID + 1
		}
		s.drugs[d.ID] = d
	}
	return s
}

func (s *fakeDrugStore) Create(_ context.Context, drug *domain.Drug) error {
	if err := drug.Validate(); err != nil {
		return err
	}
	drug.ID = s.nextID
	s.nextID++
	s.drugs[drug.ID] = drug
	return nil
}

func (s *fakeDrugStore) GetByID(_ context.Context, id int) (*domain.Drug, error) {
	d, ok := s.drugs[id]
	if !ok {
		return nil, store.ErrDrugNotFound
	}
	return d, nil
}

func (s *fakeDrugStore) List(_ context.Context) ([]*domain.Drug, error) {
	out := make([]*domain.Drug, 0, len(s.drugs))
	for _, d := range s.drugs {
		out = append(out, d)
	}
	return out, nil
}

func (s *fakeDrugStore) ListBySystem(_ context.Context, system domain.BodySystem) ([]*domain.Drug, error) {
	var out []*domain.Drug
	for _, d := range s.drugs {
		if d.System == system {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *fakeDrugStore) Update(_ context.Context, drug *domain.Drug) error {
	if _, ok := s.drugs[drug.ID]; !ok {
		return store.ErrDrugNotFound
	}
	s.drugs[drug.ID] = drug
	return nil
}

func (s *fakeDrugStore) Delete(_ context.Context, id int) error {
	if _, ok := s.drugs[id]; !ok {
		return store.ErrDrugNotFound
	}
	delete(s.drugs, id)
	return nil
}

func (s *fakeDrugStore) WithTx(_ *sql.Tx) store.DrugStore { return s }

type fakeSessionStore struct {
	sessions map[uuid.UUID]*domain.StudySession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*domain.StudySession)}
}

func (s *fakeSessionStore) Create(_ context.Context, session *domain.StudySession) error {
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *fakeSessionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.StudySession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *fakeSessionStore) Update(_ context.Context, session *domain.StudySession) error {
	if _, ok := s.sessions[session.ID]; !ok {
		return store.ErrSessionNotFound
	}
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *fakeSessionStore) ListCompletedByUser(_ context.Context, userID uuid.UUID) ([]*domain.StudySession, error) {
	var out []*domain.StudySession
	for _, sess := range s.sessions {
		if sess.UserID == userID && sess.Completed() {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *fakeSessionStore) WithTx(_ *sql.Tx) store.SessionStore { return s }

type fakeProgressStore struct {
	records []*domain.ReviewProgress
}

func (s *fakeProgressStore) Get(_ context.Context, _ uuid.UUID, drugID int) (*domain.ReviewProgress, error) {
	for _, p := range s.records {
		if p.DrugID == drugID {
			return p, nil
		}
	}
	return nil, store.ErrProgressNotFound
}

func (s *fakeProgressStore) GetForUpdate(ctx context.Context, userID uuid.UUID, drugID int) (*domain.ReviewProgress, error) {
	return s.Get(ctx, userID, drugID)
}

func (s *fakeProgressStore) ListByUser(_ context.Context, _ uuid.UUID) ([]*domain.ReviewProgress, error) {
	return s.records, nil
}

func (s *fakeProgressStore) Upsert(_ context.Context, progress *domain.ReviewProgress) error {
	for i, p := range s.records {
		if p.DrugID == progress.DrugID {
			s.records[i] = progress
			return nil
		}
	}
	s.records = append(s.records, progress)
	return nil
}

func (s *fakeProgressStore) DeleteByUser(_ context.Context, _ uuid.UUID) error {
	s.records = nil
	return nil
}

func (s *fakeProgressStore) WithTx(_ *sql.Tx) store.ProgressStore { return s }

type fakeQuizScoreStore struct {
	scores []*domain.QuizScore
}

func (s *fakeQuizScoreStore) Create(_ context.Context, score *domain.QuizScore) error {
	s.scores = append(s.scores, score)
	return nil
}

func (s *fakeQuizScoreStore) ListByUser(_ context.Context, _ uuid.UUID) ([]*domain.QuizScore, error) {
	return s.scores, nil
}

func (s *fakeQuizScoreStore) WithTx(_ *sql.Tx) store.QuizScoreStore { return s }

type fakeUserStore struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, exists := s.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) WithTx(_ *sql.Tx) store.UserStore { return s }

type fakeBookmarkStore struct {
	bookmarks []*domain.Bookmark
}

func (s *fakeBookmarkStore) Add(_ context.Context, bookmark *domain.Bookmark) error {
	for _, b := range s.bookmarks {
		if b.UserID == bookmark.UserID && b.DrugID == bookmark.DrugID {
			return store.ErrBookmarkExists
		}
	}
	s.bookmarks = append(s.bookmarks, bookmark)
	return nil
}

func (s *fakeBookmarkStore) Remove(_ context.Context, userID uuid.UUID, drugID int) error {
	for i, b := range s.bookmarks {
		if b.UserID == userID && b.DrugID == drugID {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeBookmarkStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Bookmark, error) {
	var out []*domain.Bookmark
	for _, b := range s.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookmarkStore) WithTx(_ *sql.Tx) store.BookmarkStore { return s }

type fakeNoteStore struct {
	notes  map[int64]*domain.DrugNote
	nextID int64
}

func newFakeNoteStore() *fakeNoteStore {
	return &fakeNoteStore{notes: make(map[int64]*domain.DrugNote), nextID: 1}
}

func (s *fakeNoteStore) Create(_ context.Context, note *domain.DrugNote) error {
	if err := note.Validate(); err != nil {
		return err
	}
	note.ID = s.nextID
	s.nextID++
	copied := *note
	s.notes[note.ID] = &copied
	return nil
}

func (s *fakeNoteStore) GetByID(_ context.Context, id int64) (*domain.DrugNote, error) {
	n, ok := s.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	copied := *n
	return &copied, nil
}

func (s *fakeNoteStore) ListByDrug(_ context.Context, userID uuid.UUID, drugID int) ([]*domain.DrugNote, error) {
	var out []*domain.DrugNote
	for _, n := range s.notes {
		if n.UserID == userID && n.DrugID == drugID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *fakeNoteStore) Update(_ context.Context, note *domain.DrugNote) error {
	if _, ok := s.notes[note.ID]; !ok {
		return store.ErrNoteNotFound
	}
	copied := *note
	s.notes[note.ID] = &copied
	return nil
}

func (s *fakeNoteStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.notes[id]; !ok {
		return store.ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *fakeNoteStore) WithTx(_ *sql.Tx) store.NoteStore { return s }

// newMockDB returns a sqlmock-backed *sql.DB for transaction plumbing.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db, mock
}
