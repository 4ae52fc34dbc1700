package services

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/dto"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Temple         TempleSvcFacade
	Account        AccountSvcFacade
	Journal        JournalSvcFacade
	Integrity      IntegritySvcFacade
	Reporting      ReportingService
	Reconciliation ReconciliationSvcFacade
	Period         PeriodSvcFacade
}

// IntegritySvcFacade verifies the hash chain and its audit mirror.
type IntegritySvcFacade interface {
	// VerifyChain recomputes every hash in chain order and stops at the first break.
	VerifyChain(ctx context.Context, templeID string) (*dto.ChainVerificationResponse, error)

	// VerifyAuditMirror compares the audit artifact with the stored hashes.
	VerifyAuditMirror(ctx context.Context, templeID string) (*dto.ChainVerificationResponse, error)

	// VerifyAllTemples runs both verifications for every active temple.
	VerifyAllTemples(ctx context.Context) ([]dto.ChainVerificationResponse, error)
}

// ReconciliationSvcFacade reconciles bank statements against the ledger.
type ReconciliationSvcFacade interface {
	// ImportStatement stores a statement and its rows all-or-nothing.
	ImportStatement(ctx context.Context, templeID string, req dto.ImportStatementRequest, userID string) (*domain.StatementWithEntries, error)

	// ImportStatementFile parses an uploaded statement with the named format and imports it.
	ImportStatementFile(ctx context.Context, templeID string, req dto.ImportStatementFileRequest, file io.Reader, userID string) (*domain.StatementWithEntries, error)

	GetStatement(ctx context.Context, templeID string, statementID string) (*domain.StatementWithEntries, error)
	ListStatements(ctx context.Context, templeID string, accountID string) ([]domain.BankStatement, error)

	// Match pairs a statement row with a journal line 1:1.
	Match(ctx context.Context, templeID string, statementID string, req dto.MatchRequest, userID string) (*domain.StatementEntry, error)

	// Unmatch clears a pairing on a statement that is not yet completed.
	Unmatch(ctx context.Context, templeID string, statementID string, statementEntryID string, userID string) error

	// AutoMatch pairs rows with the single unmatched line of equal amount and direction near the row date.
	AutoMatch(ctx context.Context, templeID string, statementID string, userID string) (int, error)

	// Summary compares the book balance with the bank balance at the statement end date.
	Summary(ctx context.Context, templeID string, statementID string) (*domain.ReconciliationSummary, error)

	// Complete marks the statement reconciled; only allowed when the difference is zero.
	Complete(ctx context.Context, templeID string, statementID string, userID string) (*domain.ReconciliationSummary, error)
}

// PeriodSvcFacade closes months and fiscal years.
type PeriodSvcFacade interface {
	// CloseMonth locks the month ending on the closing date and snapshots its totals.
	CloseMonth(ctx context.Context, templeID string, req dto.CloseMonthRequest, userID string) (*domain.PeriodClosing, error)

	// CloseYear posts the closing entry into the fund account and records the year-end close.
	CloseYear(ctx context.Context, templeID string, req dto.CloseYearRequest, userID string) (*domain.PeriodClosing, error)

	ListClosings(ctx context.Context, templeID string, fiscalYear int) ([]domain.PeriodClosing, error)

	// IsDateLocked reports whether a closed period covers the date.
	IsDateLocked(ctx context.Context, templeID string, date time.Time) (bool, error)
}
