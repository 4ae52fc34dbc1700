package services

import (
	"context"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/dto"
)

// TempleReaderSvc defines read operations for temple data
type TempleReaderSvc interface {
	// GetTempleByID retrieves a specific temple by its ID.
	GetTempleByID(ctx context.Context, templeID string) (*domain.Temple, error)

	// ListTemples retrieves all registered temples.
	ListTemples(ctx context.Context) ([]domain.Temple, error)
}

// TempleWriterSvc defines write operations for temple data
type TempleWriterSvc interface {
	// CreateTemple registers a temple and optionally seeds its default chart of accounts.
	CreateTemple(ctx context.Context, req dto.CreateTempleRequest, creatorUserID string) (*domain.Temple, error)
}

// TempleAuthorizerSvc resolves the tenant every ledger operation is scoped to.
type TempleAuthorizerSvc interface {
	// RequireActiveTemple returns the temple, ErrNotFound when unknown, or ErrForbidden when deactivated.
	RequireActiveTemple(ctx context.Context, templeID string) (*domain.Temple, error)
}

// TempleSvcFacade combines all temple-related service interfaces
type TempleSvcFacade interface {
	TempleReaderSvc
	TempleWriterSvc
	TempleAuthorizerSvc
}
