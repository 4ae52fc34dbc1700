package repositories

import (
	"context"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// TempleReader defines read operations for temple data
type TempleReader interface {
	// FindTempleByID retrieves a specific temple by its ID.
	FindTempleByID(ctx context.Context, templeID string) (*domain.Temple, error)

	// ListTemples retrieves all temples.
	ListTemples(ctx context.Context) ([]domain.Temple, error)
}

// TempleWriter defines write operations for temple data
type TempleWriter interface {
	// SaveTemple persists a new temple.
	SaveTemple(ctx context.Context, temple domain.Temple) error
}

// TempleRepositoryFacade combines all temple-related repository interfaces
type TempleRepositoryFacade interface {
	TempleReader
	TempleWriter
}
