package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/platform/config"
	"github.com/SscSPs/temple_ledger/internal/utils/accounting"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, parser portsrepo.StatementParser) (*portssvc.ServiceContainer, error) {
	hasher, err := accounting.NewChainHasher(cfg.IntegrityHashAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid integrity hash configuration: %w", err)
	}

	container := &portssvc.ServiceContainer{}

	// The authorizer only reads temples, so it can be built before the services that seed them.
	authorizer := NewTempleAuthorizer(repos.TempleRepo)
	scoped := WithTempleAuthorizer(authorizer)

	container.Account = NewAccountService(repos.AccountRepo, scoped)
	container.Temple = NewTempleService(repos.TempleRepo, container.Account)
	container.Journal = NewJournalService(repos.JournalRepo, container.Account, hasher, repos.AuditLog, scoped)
	container.Integrity = NewIntegrityService(repos.TempleRepo, repos.JournalRepo, repos.AuditLog, hasher, scoped)
	container.Reporting = NewReportingService(repos.ReportingRepo, container.Account, scoped)
	container.Reconciliation = NewReconciliationService(
		repos.StatementRepo,
		repos.JournalRepo,
		repos.ReportingRepo,
		container.Account,
		parser,
		ReconciliationSettings{
			Tolerance:       cfg.ReconciliationTolerance,
			MatchWindowDays: cfg.AutoMatchWindowDays,
		},
		scoped,
	)
	container.Period = NewPeriodService(repos.PeriodRepo, repos.JournalRepo, container.Account, hasher, repos.AuditLog, scoped)

	return container, nil
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.TempleSvcFacade  = (*templeService)(nil)
	_ portssvc.JournalSvcFacade = (*journalService)(nil)
)
