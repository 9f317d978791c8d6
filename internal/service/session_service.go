package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/domain/stats"
	"github.com/phrazzld/rxstudy-api/internal/gamification"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// UserStatistics bundles everything the statistics and achievements
// endpoints report: lifetime aggregates, per-system accuracy, and the
// achievement evaluation.
type UserStatistics struct {
	stats.Statistics
	SystemAccuracies []stats.SystemAccuracy  `json:"system_accuracies"`
	Achievements     gamification.Evaluation `json:"achievements"`
}

// SessionService manages study session lifecycle and statistics.
type SessionService interface {
	// StartSession opens a new study session for the user.
	StartSession(
		ctx context.Context,
		userID uuid.UUID,
		systems []domain.BodySystem,
		mode domain.StudyMode,
		totalCards int,
	) (*domain.StudySession, error)

	// RecordAnswer increments the session's correct or incorrect counter.
	// Returns ErrNotOwned if the session belongs to another user, or
	// stats.ErrSessionCompleted if the session already ended.
	RecordAnswer(ctx context.Context, userID, sessionID uuid.UUID, correct bool) (*domain.StudySession, error)

	// EndSession completes the session, fixing its end time and duration.
	EndSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)

	// GetStatistics computes the user's lifetime statistics, per-system
	// accuracies, and achievement state from their stored history.
	GetStatistics(ctx context.Context, userID uuid.UUID) (*UserStatistics, error)
}

// SessionServiceImpl implements the SessionService interface
type SessionServiceImpl struct {
	db             *sql.DB
	sessionStore   store.SessionStore
	progressStore  store.ProgressStore
	drugStore      store.DrugStore
	quizScoreStore store.QuizScoreStore
	timeFunc       func() time.Time // Injectable for testing
	logger         *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	db *sql.DB,
	sessionStore store.SessionStore,
	progressStore store.ProgressStore,
	drugStore store.DrugStore,
	quizScoreStore store.QuizScoreStore,
	logger *slog.Logger,
) *SessionServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionServiceImpl{
		db:             db,
		sessionStore:   sessionStore,
		progressStore:  progressStore,
		drugStore:      drugStore,
		quizScoreStore: quizScoreStore,
		timeFunc:       time.Now,
		logger:         logger.With("component", "session_service"),
	}
}

var _ SessionService = (*SessionServiceImpl)(nil)

// StartSession opens a new study session for the user.
func (s *SessionServiceImpl) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	systems []domain.BodySystem,
	mode domain.StudyMode,
	totalCards int,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := stats.StartSession(userID, systems, mode, totalCards, s.timeFunc())
	if err != nil {
		log.Warn("invalid study session parameters",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		log.Error("failed to save study session",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Info("study session started",
		"user_id", userID,
		"session_id", session.ID,
		"mode", session.StudyMode)

	return session, nil
}

// RecordAnswer increments the session's correct or incorrect counter.
func (s *SessionServiceImpl) RecordAnswer(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	correct bool,
) (*domain.StudySession, error) {
	return s.updateSession(ctx, userID, sessionID, func(session *domain.StudySession) (*domain.StudySession, error) {
		return stats.RecordAnswer(session, correct)
	})
}

// EndSession completes the session, fixing its end time and duration.
func (s *SessionServiceImpl) EndSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.StudySession, error) {
	return s.updateSession(ctx, userID, sessionID, func(session *domain.StudySession) (*domain.StudySession, error) {
		return stats.EndSession(session, s.timeFunc())
	})
}

// updateSession runs a read-modify-write of a session in one transaction,
// enforcing ownership.
func (s *SessionServiceImpl) updateSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	apply func(*domain.StudySession) (*domain.StudySession, error),
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.StudySession
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.sessionStore.WithTx(tx)

		session, err := txStore.GetByID(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		if session.UserID != userID {
			log.Warn("user does not own session",
				"user_id", userID,
				"session_id", sessionID,
				"owner_id", session.UserID)
			return ErrNotOwned
		}

		next, err := apply(session)
		if err != nil {
			return err
		}

		if err := txStore.Update(ctx, next); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotOwned) && !errors.Is(err, stats.ErrSessionCompleted) {
			log.Error("failed to update study session",
				"error", err,
				"user_id", userID,
				"session_id", sessionID)
		}
		return nil, err
	}

	return updated, nil
}

// GetStatistics computes the user's lifetime statistics, per-system
// accuracies, and achievement state from their stored history.
func (s *SessionServiceImpl) GetStatistics(
	ctx context.Context,
	userID uuid.UUID,
) (*UserStatistics, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	progress, err := s.progressStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list progress for statistics",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	sessions, err := s.sessionStore.ListCompletedByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list sessions for statistics",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	quizScores, err := s.quizScoreStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list quiz scores for statistics",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list quiz scores: %w", err)
	}

	drugs, err := s.drugStore.List(ctx)
	if err != nil {
		log.Error("failed to list drugs for statistics",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list drugs: %w", err)
	}

	drugsByID := make(map[int]*domain.Drug, len(drugs))
	for _, d := range drugs {
		drugsByID[d.ID] = d
	}

	lifetime := stats.ComputeLifetimeStatistics(progress, sessions, s.timeFunc())
	systemAccuracies := stats.ComputeSystemAccuracies(progress, drugsByID)
	achievements := gamification.Evaluate(lifetime, systemAccuracies, quizScores)

	log.Debug("computed user statistics",
		"user_id", userID,
		"total_studied", lifetime.TotalStudied,
		"streak_days", lifetime.StudyStreakDays,
		"achievements_unlocked", len(achievements.Unlocked))

	return &UserStatistics{
		Statistics:       lifetime,
		SystemAccuracies: systemAccuracies,
		Achievements:     achievements,
	}, nil
}
