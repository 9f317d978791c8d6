package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/quiz"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// QuizService generates multiple-choice quizzes from the drug catalog and
// keeps the append-only score history.
type QuizService interface {
	// GenerateQuiz synthesizes up to count questions from the catalog,
	// optionally scoped to a body system and/or drug class. Returns
	// ErrEmptyQuizPool when no drugs match the scope.
	GenerateQuiz(
		ctx context.Context,
		system domain.BodySystem,
		drugClass string,
		count int,
	) ([]quiz.Question, error)

	// SubmitQuiz records a completed quiz in the user's history and
	// returns the stored score.
	SubmitQuiz(
		ctx context.Context,
		userID uuid.UUID,
		score, totalQuestions int,
		system domain.BodySystem,
		drugClass string,
	) (*domain.QuizScore, error)

	// GetQuizHistory retrieves the user's quiz scores, newest first.
	GetQuizHistory(ctx context.Context, userID uuid.UUID) ([]*domain.QuizScore, error)
}

// QuizServiceImpl implements the QuizService interface
type QuizServiceImpl struct {
	db             *sql.DB
	drugStore      store.DrugStore
	quizScoreStore store.QuizScoreStore
	generator      *quiz.Generator
	timeFunc       func() time.Time // Injectable for testing
	logger         *slog.Logger
}

// NewQuizService creates a new QuizService
func NewQuizService(
	db *sql.DB,
	drugStore store.DrugStore,
	quizScoreStore store.QuizScoreStore,
	generator *quiz.Generator,
	logger *slog.Logger,
) *QuizServiceImpl {
	if generator == nil {
		generator = quiz.NewGenerator()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QuizServiceImpl{
		db:             db,
		drugStore:      drugStore,
		quizScoreStore: quizScoreStore,
		generator:      generator,
		timeFunc:       time.Now,
		logger:         logger.With("component", "quiz_service"),
	}
}

var _ QuizService = (*QuizServiceImpl)(nil)

// GenerateQuiz synthesizes quiz questions from the scoped drug pool.
func (s *QuizServiceImpl) GenerateQuiz(
	ctx context.Context,
	system domain.BodySystem,
	drugClass string,
	count int,
) ([]quiz.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		pool []*domain.Drug
		err  error
	)
	if system != "" {
		pool, err = s.drugStore.ListBySystem(ctx, system)
	} else {
		pool, err = s.drugStore.List(ctx)
	}
	if err != nil {
		log.Error("failed to load drug pool for quiz",
			"error", err,
			"system", system)
		return nil, fmt.Errorf("failed to load drug pool: %w", err)
	}

	if drugClass != "" {
		filtered := pool[:0]
		for _, d := range pool {
			if strings.EqualFold(d.Class, drugClass) {
				filtered = append(filtered, d)
			}
		}
		pool = filtered
	}

	if len(pool) == 0 {
		log.Debug("no drugs matched quiz scope",
			"system", system,
			"drug_class", drugClass)
		return nil, ErrEmptyQuizPool
	}

	questions := s.generator.Generate(pool, count)

	log.Debug("generated quiz",
		"system", system,
		"drug_class", drugClass,
		"question_count", len(questions))

	return questions, nil
}

// SubmitQuiz records a completed quiz in the user's history.
func (s *QuizServiceImpl) SubmitQuiz(
	ctx context.Context,
	userID uuid.UUID,
	score, totalQuestions int,
	system domain.BodySystem,
	drugClass string,
) (*domain.QuizScore, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	quizScore, err := domain.NewQuizScore(userID, score, totalQuestions, system, drugClass, s.timeFunc())
	if err != nil {
		log.Warn("invalid quiz score submission",
			"error", err,
			"user_id", userID,
			"score", score,
			"total_questions", totalQuestions)
		return nil, fmt.Errorf("invalid quiz score: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.quizScoreStore.WithTx(tx).Create(ctx, quizScore)
	})
	if err != nil {
		log.Error("failed to save quiz score",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to save quiz score: %w", err)
	}

	log.Info("quiz score recorded",
		"user_id", userID,
		"score", score,
		"total_questions", totalQuestions,
		"perfect", quizScore.Perfect())

	return quizScore, nil
}

// GetQuizHistory retrieves the user's quiz scores, newest first.
func (s *QuizServiceImpl) GetQuizHistory(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.QuizScore, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	scores, err := s.quizScoreStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list quiz scores",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list quiz scores: %w", err)
	}

	return scores, nil
}
