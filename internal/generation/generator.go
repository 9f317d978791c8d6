package generation

import (
	"context"

	"github.com/phrazzld/rxstudy-api/internal/domain"
)

// DrugGenerator defines the interface for drafting drug catalog entries
// from a free-text topic. This interface serves as a boundary between the
// application core and external AI/LLM services; drafts are reviewed
// before being saved to the catalog.
type DrugGenerator interface {
	// GenerateDrugs drafts up to count drug entries covering the given
	// topic (a drug class, body system, or exam theme). The returned
	// drugs are unsaved: their IDs are zero and the caller decides what
	// to persist.
	GenerateDrugs(ctx context.Context, topic string, count int) ([]*domain.Drug, error)
}
