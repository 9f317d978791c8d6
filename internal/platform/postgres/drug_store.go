package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/platform/logger"
	"github.com/phrazzld/rxstudy-api/internal/store"
)

// PostgresDrugStore implements the store.DrugStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDrugStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDrugStore creates a new PostgreSQL implementation of the
// DrugStore interface. If logger is nil, a default logger will be used.
func NewPostgresDrugStore(db store.DBTX, logger *slog.Logger) *PostgresDrugStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDrugStore{
		db:     db,
		logger: logger.With(slog.String("component", "drug_store")),
	}
}

// Ensure PostgresDrugStore implements store.DrugStore interface
var _ store.DrugStore = (*PostgresDrugStore)(nil)

// String-list columns are stored as JSONB.

func marshalList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func unmarshalList(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// Create implements store.DrugStore.Create
func (s *PostgresDrugStore) Create(ctx context.Context, drug *domain.Drug) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := drug.Validate(); err != nil {
		log.Warn("drug validation failed during create",
			slog.String("error", err.Error()),
			slog.String("drug_name", drug.Name))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	uses, err := marshalList(drug.Uses)
	if err != nil {
		return fmt.Errorf("failed to encode uses: %w", err)
	}
	sideEffects, err := marshalList(drug.SideEffects)
	if err != nil {
		return fmt.Errorf("failed to encode side effects: %w", err)
	}
	contraindications, err := marshalList(drug.Contraindications)
	if err != nil {
		return fmt.Errorf("failed to encode contraindications: %w", err)
	}

	query := `
		INSERT INTO drugs (name, class, system, moa, uses, side_effects, mnemonic, contraindications, dosage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = s.db.QueryRowContext(
		ctx,
		query,
		drug.Name,
		drug.Class,
		drug.System,
		drug.Mechanism,
		uses,
		sideEffects,
		drug.Mnemonic,
		contraindications,
		drug.Dosage,
	).Scan(&drug.ID)
	if err != nil {
		log.Error("failed to create drug",
			slog.String("error", err.Error()),
			slog.String("drug_name", drug.Name))
		return fmt.Errorf("failed to create drug: %w", err)
	}

	return nil
}

// drugColumns is the SELECT column list shared by the read queries.
const drugColumns = "id, name, class, system, moa, uses, side_effects, mnemonic, contraindications, dosage"

// scanDrug reads one drug row.
func scanDrug(row interface{ Scan(dest ...any) error }) (*domain.Drug, error) {
	var (
		drug              domain.Drug
		uses              []byte
		sideEffects       []byte
		contraindications []byte
	)

	err := row.Scan(
		&drug.ID,
		&drug.Name,
		&drug.Class,
		&drug.System,
		&drug.Mechanism,
		&uses,
		&sideEffects,
		&drug.Mnemonic,
		&contraindications,
		&drug.Dosage,
	)
	if err != nil {
		return nil, err
	}

	if drug.Uses, err = unmarshalList(uses); err != nil {
		return nil, fmt.Errorf("failed to decode uses: %w", err)
	}
	if drug.SideEffects, err = unmarshalList(sideEffects); err != nil {
		return nil, fmt.Errorf("failed to decode side effects: %w", err)
	}
	if drug.Contraindications, err = unmarshalList(contraindications); err != nil {
		return nil, fmt.Errorf("failed to decode contraindications: %w", err)
	}

	return &drug, nil
}

// GetByID implements store.DrugStore.GetByID
func (s *PostgresDrugStore) GetByID(ctx context.Context, id int) (*domain.Drug, error) {
	query := "SELECT " + drugColumns + " FROM drugs WHERE id = $1"

	drug, err := scanDrug(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDrugNotFound
		}
		return nil, fmt.Errorf("failed to get drug: %w", err)
	}

	return drug, nil
}

// List implements store.DrugStore.List
func (s *PostgresDrugStore) List(ctx context.Context) ([]*domain.Drug, error) {
	query := "SELECT " + drugColumns + " FROM drugs ORDER BY name"
	return s.queryDrugs(ctx, query)
}

// ListBySystem implements store.DrugStore.ListBySystem
func (s *PostgresDrugStore) ListBySystem(ctx context.Context, system domain.BodySystem) ([]*domain.Drug, error) {
	query := "SELECT " + drugColumns + " FROM drugs WHERE system = $1 ORDER BY name"
	return s.queryDrugs(ctx, query, system)
}

func (s *PostgresDrugStore) queryDrugs(ctx context.Context, query string, args ...any) ([]*domain.Drug, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drugs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var drugs []*domain.Drug
	for rows.Next() {
		drug, err := scanDrug(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan drug row: %w", err)
		}
		drugs = append(drugs, drug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drug rows: %w", err)
	}

	return drugs, nil
}

// Update implements store.DrugStore.Update
func (s *PostgresDrugStore) Update(ctx context.Context, drug *domain.Drug) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := drug.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	uses, err := marshalList(drug.Uses)
	if err != nil {
		return fmt.Errorf("failed to encode uses: %w", err)
	}
	sideEffects, err := marshalList(drug.SideEffects)
	if err != nil {
		return fmt.Errorf("failed to encode side effects: %w", err)
	}
	contraindications, err := marshalList(drug.Contraindications)
	if err != nil {
		return fmt.Errorf("failed to encode contraindications: %w", err)
	}

	query := `
		UPDATE drugs
		SET name = $2, class = $3, system = $4, moa = $5, uses = $6,
		    side_effects = $7, mnemonic = $8, contraindications = $9, dosage = $10
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		drug.ID,
		drug.Name,
		drug.Class,
		drug.System,
		drug.Mechanism,
		uses,
		sideEffects,
		drug.Mnemonic,
		contraindications,
		drug.Dosage,
	)
	if err != nil {
		log.Error("failed to update drug",
			slog.String("error", err.Error()),
			slog.Int("drug_id", drug.ID))
		return fmt.Errorf("failed to update drug: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return store.ErrDrugNotFound
	}

	return nil
}

// Delete implements store.DrugStore.Delete
// Associated progress, bookmarks, and notes are removed by ON DELETE
// CASCADE constraints in the schema.
func (s *PostgresDrugStore) Delete(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM drugs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete drug: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return store.ErrDrugNotFound
	}

	return nil
}

// WithTx implements store.DrugStore.WithTx
func (s *PostgresDrugStore) WithTx(tx *sql.Tx) store.DrugStore {
	return &PostgresDrugStore{db: tx, logger: s.logger}
}
