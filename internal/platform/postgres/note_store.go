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

// PostgresNoteStore implements the store.NoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the
// NoteStore interface. If logger is nil, a default logger will be used.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

const noteColumns = "id, user_id, drug_id, note, tags, created_at, updated_at"

func scanNote(row interface{ Scan(dest ...any) error }) (*domain.DrugNote, error) {
	var (
		note domain.DrugNote
		tags []byte
	)

	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.DrugID,
		&note.Note,
		&tags,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if note.Tags, err = unmarshalList(tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return &note, nil
}

// Create implements store.NoteStore.Create
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.DrugNote) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during create",
			slog.String("error", err.Error()),
			slog.Int("drug_id", note.DrugID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := marshalList(note.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		INSERT INTO drug_notes (user_id, drug_id, note, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = s.db.QueryRowContext(
		ctx,
		query,
		note.UserID,
		note.DrugID,
		note.Note,
		tags,
		note.CreatedAt,
		note.UpdatedAt,
	).Scan(&note.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrDrugNotFound
		}
		log.Error("failed to create drug note",
			slog.String("error", err.Error()),
			slog.Int("drug_id", note.DrugID))
		return fmt.Errorf("failed to create drug note: %w", err)
	}

	return nil
}

// GetByID implements store.NoteStore.GetByID
func (s *PostgresNoteStore) GetByID(ctx context.Context, id int64) (*domain.DrugNote, error) {
	query := "SELECT " + noteColumns + " FROM drug_notes WHERE id = $1"

	note, err := scanNote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get drug note: %w", err)
	}

	return note, nil
}

// ListByDrug implements store.NoteStore.ListByDrug
func (s *PostgresNoteStore) ListByDrug(ctx context.Context, userID uuid.UUID, drugID int) ([]*domain.DrugNote, error) {
	query := "SELECT " + noteColumns + ` FROM drug_notes
		WHERE user_id = $1 AND drug_id = $2
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID, drugID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drug notes: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var notes []*domain.DrugNote
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate note rows: %w", err)
	}

	return notes, nil
}

// Update implements store.NoteStore.Update
func (s *PostgresNoteStore) Update(ctx context.Context, note *domain.DrugNote) error {
	if err := note.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := marshalList(note.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		UPDATE drug_notes
		SET note = $2, tags = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, note.ID, note.Note, tags, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update drug note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return store.ErrNoteNotFound
	}

	return nil
}

// Delete implements store.NoteStore.Delete
func (s *PostgresNoteStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM drug_notes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete drug note: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return store.ErrNoteNotFound
	}

	return nil
}

// WithTx implements store.NoteStore.WithTx
func (s *PostgresNoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return &PostgresNoteStore{db: tx, logger: s.logger}
}
