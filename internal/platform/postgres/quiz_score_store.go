package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// PostgresQuizScoreStore implements the store.QuizScoreStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuizScoreStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuizScoreStore creates a new PostgreSQL implementation of the
// QuizScoreStore interface. If logger is nil, a default logger will be used.
func NewPostgresQuizScoreStore(db store.DBTX, logger *slog.Logger) *PostgresQuizScoreStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuizScoreStore{
		db:     db,
		logger: logger.With(slog.String("component", "quiz_score_store")),
	}
}

// Ensure PostgresQuizScoreStore implements store.QuizScoreStore interface
var _ store.QuizScoreStore = (*PostgresQuizScoreStore)(nil)

// Create implements store.QuizScoreStore.Create
func (s *PostgresQuizScoreStore) Create(ctx context.Context, score *domain.QuizScore) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := score.Validate(); err != nil {
		log.Warn("quiz score validation failed during create",
			slog.String("error", err.Error()),
			slog.String("score_id", score.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO quiz_scores (id, user_id, score, total_questions, completed_at, system, drug_class)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		score.ID,
		score.UserID,
		score.Score,
		score.TotalQuestions,
		score.CompletedAt,
		score.System,
		score.DrugClass,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		log.Error("failed to create quiz score",
			slog.String("error", err.Error()),
			slog.String("score_id", score.ID.String()))
		return fmt.Errorf("failed to create quiz score: %w", err)
	}

	return nil
}

// ListByUser implements store.QuizScoreStore.ListByUser
func (s *PostgresQuizScoreStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.QuizScore, error) {
	query := `
		SELECT id, user_id, score, total_questions, completed_at, system, drug_class
		FROM quiz_scores
		WHERE user_id = $1
		ORDER BY completed_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz scores: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var scores []*domain.QuizScore
	for rows.Next() {
		var score domain.QuizScore
		err := rows.Scan(
			&score.ID,
			&score.UserID,
			&score.Score,
			&score.TotalQuestions,
			&score.CompletedAt,
			&score.System,
			&score.DrugClass,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz score row: %w", err)
		}
		scores = append(scores, &score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quiz score rows: %w", err)
	}

	return scores, nil
}

// WithTx implements store.QuizScoreStore.WithTx
func (s *PostgresQuizScoreStore) WithTx(tx *sql.Tx) store.QuizScoreStore {
	return &PostgresQuizScoreStore{db: tx, logger: s.logger}
}
