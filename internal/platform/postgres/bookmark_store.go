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

// PostgresBookmarkStore implements the store.BookmarkStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookmarkStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookmarkStore creates a new PostgreSQL implementation of the
// BookmarkStore interface. If logger is nil, a default logger will be used.
func NewPostgresBookmarkStore(db store.DBTX, logger *slog.Logger) *PostgresBookmarkStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookmarkStore{
		db:     db,
		logger: logger.With(slog.String("component", "bookmark_store")),
	}
}

// Ensure PostgresBookmarkStore implements store.BookmarkStore interface
var _ store.BookmarkStore = (*PostgresBookmarkStore)(nil)

// Add implements store.BookmarkStore.Add
func (s *PostgresBookmarkStore) Add(ctx context.Context, bookmark *domain.Bookmark) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO bookmarks (user_id, drug_id, bookmarked_at)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, bookmark.UserID, bookmark.DrugID, bookmark.BookmarkedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrBookmarkExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrDrugNotFound
		}
		log.Error("failed to add bookmark",
			slog.String("error", err.Error()),
			slog.Int("drug_id", bookmark.DrugID))
		return fmt.Errorf("failed to add bookmark: %w", err)
	}

	return nil
}

// Remove implements store.BookmarkStore.Remove
func (s *PostgresBookmarkStore) Remove(ctx context.Context, userID uuid.UUID, drugID int) error {
	result, err := s.db.ExecContext(
		ctx,
		"DELETE FROM bookmarks WHERE user_id = $1 AND drug_id = $2",
		userID,
		drugID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

// ListByUser implements store.BookmarkStore.ListByUser
func (s *PostgresBookmarkStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Bookmark, error) {
	query := `
		SELECT user_id, drug_id, bookmarked_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY bookmarked_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var bookmarks []*domain.Bookmark
	for rows.Next() {
		var bookmark domain.Bookmark
		if err := rows.Scan(&bookmark.UserID, &bookmark.DrugID, &bookmark.BookmarkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, &bookmark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookmark rows: %w", err)
	}

	return bookmarks, nil
}

// WithTx implements store.BookmarkStore.WithTx
func (s *PostgresBookmarkStore) WithTx(tx *sql.Tx) store.BookmarkStore {
	return &PostgresBookmarkStore{db: tx, logger: s.logger}
}
