package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/google/uuid"
)

// templeAuthorizer resolves temples for the other services. It is separate from templeService
// so the account service can depend on it while the temple service depends on the account service.
type templeAuthorizer struct {
	BaseService
	templeRepo portsrepo.TempleReader
}

// NewTempleAuthorizer creates the tenant resolver used by every ledger service.
func NewTempleAuthorizer(templeRepo portsrepo.TempleReader) portssvc.TempleAuthorizerSvc {
	return &templeAuthorizer{templeRepo: templeRepo}
}

// RequireActiveTemple returns the temple if it exists and is active.
func (a *templeAuthorizer) RequireActiveTemple(ctx context.Context, templeID string) (*domain.Temple, error) {
	if strings.TrimSpace(templeID) == "" {
		return nil, fmt.Errorf("%w: temple ID is required", apperrors.ErrValidation)
	}
	temple, err := a.templeRepo.FindTempleByID(ctx, templeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			a.LogError(ctx, err, "Failed to find temple", slog.String("temple_id", templeID))
		}
		return nil, err
	}
	if !temple.IsActive {
		a.LogDebug(ctx, "Operation on inactive temple rejected", slog.String("temple_id", templeID))
		return nil, fmt.Errorf("%w: temple %s is inactive", apperrors.ErrForbidden, templeID)
	}
	return temple, nil
}

// templeService implements the TempleSvcFacade interface
type templeService struct {
	BaseService
	portssvc.TempleAuthorizerSvc
	templeRepo portsrepo.TempleRepositoryFacade
	chartSeed  portssvc.AccountWriterSvc
}

// NewTempleService creates a new temple service. chartSeed may be nil, in which case
// SeedDefaultChart requests are rejected.
func NewTempleService(
	templeRepo portsrepo.TempleRepositoryFacade,
	chartSeed portssvc.AccountWriterSvc,
	options ...ServiceOption,
) portssvc.TempleSvcFacade {
	svc := &templeService{
		TempleAuthorizerSvc: NewTempleAuthorizer(templeRepo),
		templeRepo:          templeRepo,
		chartSeed:           chartSeed,
	}
	svc.apply(options)
	return svc
}

// Ensure templeService implements the TempleSvcFacade interface
var _ portssvc.TempleSvcFacade = (*templeService)(nil)

// GetTempleByID retrieves a temple by its ID
func (s *templeService) GetTempleByID(ctx context.Context, templeID string) (*domain.Temple, error) {
	temple, err := s.templeRepo.FindTempleByID(ctx, templeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find temple by ID",
				slog.String("temple_id", templeID))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Temple retrieved successfully",
		slog.String("temple_id", temple.TempleID))
	return temple, nil
}

// ListTemples retrieves every temple
func (s *templeService) ListTemples(ctx context.Context) ([]domain.Temple, error) {
	temples, err := s.templeRepo.ListTemples(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list temples")
		return nil, err
	}

	if temples == nil {
		return []domain.Temple{}, nil
	}
	return temples, nil
}

// CreateTemple creates a new temple
func (s *templeService) CreateTemple(ctx context.Context, req dto.CreateTempleRequest, creatorUserID string) (*domain.Temple, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: temple name is required", apperrors.ErrValidation)
	}

	startMonth := domain.DefaultFiscalYearStartMonth
	if req.FiscalYearStartMonth != 0 {
		if req.FiscalYearStartMonth < 1 || req.FiscalYearStartMonth > 12 {
			return nil, fmt.Errorf("%w: fiscal year start month must be between 1 and 12", apperrors.ErrValidation)
		}
		startMonth = time.Month(req.FiscalYearStartMonth)
	}
	if req.SeedDefaultChart && s.chartSeed == nil {
		return nil, fmt.Errorf("%w: default chart seeding is not available", apperrors.ErrValidation)
	}

	now := s.Now()
	temple := domain.Temple{
		TempleID:             uuid.NewString(),
		Name:                 name,
		Description:          req.Description,
		FiscalYearStartMonth: startMonth,
		IsActive:             true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.templeRepo.SaveTemple(ctx, temple); err != nil {
		s.LogError(ctx, err, "Failed to save temple",
			slog.String("temple_name", name))
		return nil, fmt.Errorf("failed to create temple: %w", err)
	}

	if req.SeedDefaultChart {
		accounts, err := s.chartSeed.SeedDefaultChart(ctx, temple.TempleID, creatorUserID)
		if err != nil {
			s.LogError(ctx, err, "Failed to seed default chart of accounts",
				slog.String("temple_id", temple.TempleID))
			return nil, fmt.Errorf("temple created but seeding the chart of accounts failed: %w", err)
		}
		s.LogInfo(ctx, "Default chart of accounts seeded",
			slog.String("temple_id", temple.TempleID),
			slog.Int("accounts", len(accounts)))
	}

	s.LogInfo(ctx, "Temple created successfully",
		slog.String("temple_id", temple.TempleID),
		slog.String("created_by", creatorUserID))
	return &temple, nil
}
