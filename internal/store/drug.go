package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// DrugStore defines the interface for drug catalog persistence.
type DrugStore interface {
	// Create saves a new drug and assigns its generated ID.
	// Returns validation errors if the drug data is invalid.
	Create(ctx context.Context, drug *domain.Drug) error

	// GetByID retrieves a drug by its unique ID.
	// Returns ErrDrugNotFound if the drug does not exist.
	GetByID(ctx context.Context, id int) (*domain.Drug, error)

	// List retrieves the full catalog, ordered by name.
	List(ctx context.Context) ([]*domain.Drug, error)

	// ListBySystem retrieves all drugs in the given body system, ordered by name.
	ListBySystem(ctx context.Context, system domain.BodySystem) ([]*domain.Drug, error)

	// Update modifies an existing drug.
	// Returns ErrDrugNotFound if the drug does not exist.
	Update(ctx context.Context, drug *domain.Drug) error

	// Delete removes a drug. Associated progress, bookmarks, and notes are
	// removed by the schema's cascade rules.
	// Returns ErrDrugNotFound if the drug does not exist.
	Delete(ctx context.Context, id int) error

	// WithTx returns a new DrugStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DrugStore
}
