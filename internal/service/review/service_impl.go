package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/domain/srs"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the Service interface.
type reviewServiceImpl struct {
	db            *sql.DB
	drugStore     store.DrugStore
	progressStore store.ProgressStore
	scheduler     srs.Scheduler
	timeFunc      func() time.Time // Injectable for testing
	logger        *slog.Logger
}

// NewService creates a new review Service implementation.
func NewService(
	db *sql.DB,
	drugStore store.DrugStore,
	progressStore store.ProgressStore,
	scheduler srs.Scheduler,
	logger *slog.Logger,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if drugStore == nil {
		panic("drugStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:            db,
		drugStore:     drugStore,
		progressStore: progressStore,
		scheduler:     scheduler,
		timeFunc:      time.Now,
		logger:        logger.With(slog.String("component", "review_service")),
	}
}

// GetDueCards implements Service.GetDueCards.
func (s *reviewServiceImpl) GetDueCards(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.ReviewProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	records, err := s.progressStore.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list review progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list review progress: %w", err)
	}

	due := srs.SelectDue(records, s.timeFunc())
	if len(due) == 0 {
		log.Debug("no cards due for review", slog.String("user_id", userID.String()))
		return nil, ErrNoCardsDue
	}

	rand.Shuffle(len(due), func(i, j int) {
		due[i], due[j] = due[j], due[i]
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	log.Debug("selected due cards",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(due)))

	return due, nil
}

// SubmitAnswer implements Service.SubmitAnswer.
func (s *reviewServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID uuid.UUID,
	drugID int,
	answer Answer,
) (*domain.ReviewProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review answer",
		slog.String("user_id", userID.String()),
		slog.Int("drug_id", drugID),
		slog.Bool("correct", answer.Correct))

	var updated *domain.ReviewProgress
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progressStore.WithTx(tx)

		current, err := txProgress.GetForUpdate(ctx, userID, drugID)
		if err != nil {
			if !errors.Is(err, store.ErrProgressNotFound) {
				return fmt.Errorf("failed to get review progress: %w", err)
			}

			// First answer for this drug. Make sure the drug exists so a
			// typo'd ID fails cleanly instead of on the FK constraint.
			if _, err := s.drugStore.WithTx(tx).GetByID(ctx, drugID); err != nil {
				if errors.Is(err, store.ErrDrugNotFound) {
					log.Warn("answer submitted for unknown drug",
						slog.String("user_id", userID.String()),
						slog.Int("drug_id", drugID))
					return ErrDrugNotFound
				}
				return fmt.Errorf("failed to get drug: %w", err)
			}
			current = nil
		}

		next, err := s.scheduler.UpdateProgress(current, userID, drugID, answer.Correct, s.timeFunc())
		if err != nil {
			return fmt.Errorf("failed to calculate next review: %w", err)
		}

		if err := txProgress.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to save review progress: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrDrugNotFound) {
			log.Error("failed to submit review answer",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.Int("drug_id", drugID))
		}
		return nil, err
	}

	log.Debug("review answer recorded",
		slog.String("user_id", userID.String()),
		slog.Int("drug_id", drugID),
		slog.Int("next_interval_days", updated.ReviewInterval))

	return updated, nil
}
