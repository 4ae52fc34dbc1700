package repositories

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// PeriodRepository defines operations on period closings.
type PeriodRepository interface {
	// SaveClosing persists a closing. A second closing of the same period yields apperrors.ErrDuplicate.
	SaveClosing(ctx context.Context, closing domain.PeriodClosing) error

	// ListClosings returns the closings of a fiscal year, or of every year when fiscalYear is 0.
	ListClosings(ctx context.Context, templeID string, fiscalYear int) ([]domain.PeriodClosing, error)

	// IsDateLocked reports whether a closed period covers the date.
	IsDateLocked(ctx context.Context, templeID string, date time.Time) (bool, error)
}

// StatementReader defines read operations for bank statements
type StatementReader interface {
	FindStatementByID(ctx context.Context, templeID, statementID string) (*domain.BankStatement, error)
	ListStatements(ctx context.Context, templeID, accountID string) ([]domain.BankStatement, error)
	FindStatementEntries(ctx context.Context, statementID string) ([]domain.StatementEntry, error)
	FindStatementEntryByID(ctx context.Context, statementID, statementEntryID string) (*domain.StatementEntry, error)

	// FindMatchedLineIDs returns every journal line matched to any statement row of the account.
	FindMatchedLineIDs(ctx context.Context, accountID string) (map[string]bool, error)
}

// StatementWriter defines write operations for bank statements
type StatementWriter interface {
	// SaveStatement persists a statement and all its rows atomically.
	SaveStatement(ctx context.Context, statement domain.BankStatement, entries []domain.StatementEntry) error

	// MatchEntry pairs a statement row with a journal line. If either side is already matched
	// it returns apperrors.ErrReconciliationConflict.
	MatchEntry(ctx context.Context, statementEntryID, lineID, userID string, at time.Time) error

	// UnmatchEntry clears a pairing.
	UnmatchEntry(ctx context.Context, statementEntryID string) error

	// UpdateStatementStatus moves a statement to a new status.
	UpdateStatementStatus(ctx context.Context, statementID string, status domain.StatementStatus, userID string, at time.Time) error
}

// StatementRepositoryFacade combines all statement-related repository interfaces
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TempleRepo    TempleRepositoryFacade
	AccountRepo   AccountRepositoryFacade
	JournalRepo   JournalRepositoryWithTx
	ReportingRepo ReportingRepository
	PeriodRepo    PeriodRepository
	StatementRepo StatementRepositoryFacade
	AuditLog      AuditLog
}

// StatementParser converts an uploaded bank statement file into rows.
// An unknown format yields apperrors.ErrValidation.
type StatementParser interface {
	Parse(format string, r io.Reader) ([]domain.StatementRow, error)
}
