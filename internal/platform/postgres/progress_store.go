package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

const progressColumns = `user_id, drug_id, seen, correct_count, incorrect_count,
	last_seen, difficulty, next_review_at, review_interval, ease_factor,
	needs_review, streak_count, created_at, updated_at`

func scanProgress(row interface{ Scan(dest ...any) error }) (*domain.ReviewProgress, error) {
	var p domain.ReviewProgress
	err := row.Scan(
		&p.UserID,
		&p.DrugID,
		&p.Seen,
		&p.CorrectCount,
		&p.IncorrectCount,
		&p.LastSeen,
		&p.Difficulty,
		&p.NextReviewAt,
		&p.ReviewInterval,
		&p.EaseFactor,
		&p.NeedsReview,
		&p.StreakCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(ctx context.Context, userID uuid.UUID, drugID int) (*domain.ReviewProgress, error) {
	query := "SELECT " + progressColumns + " FROM review_progress WHERE user_id = $1 AND drug_id = $2"
	return s.getOne(ctx, query, userID, drugID)
}

// GetForUpdate implements store.ProgressStore.GetForUpdate
func (s *PostgresProgressStore) GetForUpdate(ctx context.Context, userID uuid.UUID, drugID int) (*domain.ReviewProgress, error) {
	query := "SELECT " + progressColumns + " FROM review_progress WHERE user_id = $1 AND drug_id = $2 FOR UPDATE"
	return s.getOne(ctx, query, userID, drugID)
}

func (s *PostgresProgressStore) getOne(ctx context.Context, query string, userID uuid.UUID, drugID int) (*domain.ReviewProgress, error) {
	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, userID, drugID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get review progress: %w", err)
	}
	return progress, nil
}

// ListByUser implements store.ProgressStore.ListByUser
func (s *PostgresProgressStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ReviewProgress, error) {
	query := "SELECT " + progressColumns + " FROM review_progress WHERE user_id = $1 ORDER BY drug_id"

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review progress: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var records []*domain.ReviewProgress
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		records = append(records, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress rows: %w", err)
	}

	return records, nil
}

// Upsert implements store.ProgressStore.Upsert
func (s *PostgresProgressStore) Upsert(ctx context.Context, progress *domain.ReviewProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.Int("drug_id", progress.DrugID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO review_progress (
			user_id, drug_id, seen, correct_count, incorrect_count,
			last_seen, difficulty, next_review_at, review_interval, ease_factor,
			needs_review, streak_count, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, drug_id) DO UPDATE SET
			seen = EXCLUDED.seen,
			correct_count = EXCLUDED.correct_count,
			incorrect_count = EXCLUDED.incorrect_count,
			last_seen = EXCLUDED.last_seen,
			difficulty = EXCLUDED.difficulty,
			next_review_at = EXCLUDED.next_review_at,
			review_interval = EXCLUDED.review_interval,
			ease_factor = EXCLUDED.ease_factor,
			needs_review = EXCLUDED.needs_review,
			streak_count = EXCLUDED.streak_count,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		progress.UserID,
		progress.DrugID,
		progress.Seen,
		progress.CorrectCount,
		progress.IncorrectCount,
		progress.LastSeen,
		progress.Difficulty,
		progress.NextReviewAt,
		progress.ReviewInterval,
		progress.EaseFactor,
		progress.NeedsReview,
		progress.StreakCount,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrDrugNotFound
		}
		log.Error("failed to upsert review progress",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.Int("drug_id", progress.DrugID))
		return fmt.Errorf("failed to upsert review progress: %w", err)
	}

	return nil
}

// DeleteByUser implements store.ProgressStore.DeleteByUser
func (s *PostgresProgressStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM review_progress WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete review progress: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	log.Info("deleted review progress for user",
		slog.String("user_id", userID.String()),
		slog.Int64("records", affected))

	return nil
}

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}
