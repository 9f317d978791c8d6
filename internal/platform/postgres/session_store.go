package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

const sessionColumns = `id, user_id, start_time, end_time, total_cards,
	correct_cards, incorrect_cards, systems, study_mode, time_spent_minutes`

func marshalSystems(systems []domain.BodySystem) ([]byte, error) {
	if systems == nil {
		systems = []domain.BodySystem{}
	}
	return json.Marshal(systems)
}

func scanSession(row interface{ Scan(dest ...any) error }) (*domain.StudySession, error) {
	var (
		session domain.StudySession
		endTime sql.NullTime
		systems []byte
	)

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.StartTime,
		&endTime,
		&session.TotalCards,
		&session.CorrectCards,
		&session.IncorrectCards,
		&systems,
		&session.StudyMode,
		&session.TimeSpentMinutes,
	)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		t := endTime.Time
		session.EndTime = &t
	}
	if len(systems) > 0 {
		if err := json.Unmarshal(systems, &session.Systems); err != nil {
			return nil, fmt.Errorf("failed to decode systems: %w", err)
		}
	}

	return &session, nil
}

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	systems, err := marshalSystems(session.Systems)
	if err != nil {
		return fmt.Errorf("failed to encode systems: %w", err)
	}

	query := `
		INSERT INTO study_sessions (
			id, user_id, start_time, end_time, total_cards,
			correct_cards, incorrect_cards, systems, study_mode, time_spent_minutes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.StartTime,
		session.EndTime,
		session.TotalCards,
		session.CorrectCards,
		session.IncorrectCards,
		systems,
		session.StudyMode,
		session.TimeSpentMinutes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return fmt.Errorf("failed to create study session: %w", err)
	}

	return nil
}

// GetByID implements store.SessionStore.GetByID
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	query := "SELECT " + sessionColumns + " FROM study_sessions WHERE id = $1"

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get study session: %w", err)
	}

	return session, nil
}

// Update implements store.SessionStore.Update
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	systems, err := marshalSystems(session.Systems)
	if err != nil {
		return fmt.Errorf("failed to encode systems: %w", err)
	}

	query := `
		UPDATE study_sessions
		SET end_time = $2, total_cards = $3, correct_cards = $4,
		    incorrect_cards = $5, systems = $6, time_spent_minutes = $7
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.EndTime,
		session.TotalCards,
		session.CorrectCards,
		session.IncorrectCards,
		systems,
		session.TimeSpentMinutes,
	)
	if err != nil {
		log.Error("failed to update study session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return fmt.Errorf("failed to update study session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return store.ErrSessionNotFound
	}

	return nil
}

// ListCompletedByUser implements store.SessionStore.ListCompletedByUser
func (s *PostgresSessionStore) ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error) {
	query := "SELECT " + sessionColumns + ` FROM study_sessions
		WHERE user_id = $1 AND end_time IS NOT NULL
		ORDER BY start_time DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list study sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var sessions []*domain.StudySession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	return sessions, nil
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{db: tx, logger: s.logger}
}
