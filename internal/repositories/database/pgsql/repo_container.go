package pgsql

import (
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every PostgreSQL repository. The audit log lives outside the database.
func NewRepositoryProvider(dbPool *pgxpool.Pool, auditLog portsrepo.AuditLog) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TempleRepo:    newPgxTempleRepository(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
		PeriodRepo:    newPgxPeriodRepository(dbPool),
		StatementRepo: newPgxStatementRepository(dbPool),
		AuditLog:      auditLog,
	}
}
