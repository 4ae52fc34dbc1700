package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// LedgerTx is the set of operations that must run inside one serializing transaction
// when entries are chained. LockLedgerHead is the mutual exclusion point per temple.
type LedgerTx interface {
	// LockLedgerHead locks (creating if needed) the temple's chain head and returns it.
	LockLedgerHead(ctx context.Context, templeID string) (domain.LedgerHead, error)

	// AdvanceLedgerHead stores the new chain tail. It must follow LockLedgerHead in the same transaction.
	AdvanceLedgerHead(ctx context.Context, head domain.LedgerHead) error

	// NextEntryNumber allocates the next voucher number for the temple and fiscal year.
	NextEntryNumber(ctx context.Context, templeID string, fiscalYear int) (int64, error)

	// FindEntryForUpdate loads and row-locks an entry.
	FindEntryForUpdate(ctx context.Context, templeID, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID reads the lines of an entry inside the transaction.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// InsertEntry persists a chained entry with its lines.
	InsertEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntryLinks writes the only mutable fields of a posted entry.
	UpdateEntryLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversedBy, correctedBy string, userID string, at time.Time) error

	// IsDateLocked reports whether a closed period covers the date.
	IsDateLocked(ctx context.Context, templeID string, date time.Time) (bool, error)

	// SaveClosing records a period closing in the same transaction as its closing entry.
	SaveClosing(ctx context.Context, closing domain.PeriodClosing) error

	// SumByAccount totals matching lines per account as seen by the transaction.
	SumByAccount(ctx context.Context, templeID string, filter domain.LineFilter) ([]domain.AccountTotals, error)
}

// TransactionManager runs a function inside a database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// AuditLog is the append-only artifact mirroring every chained entry outside the primary database.
type AuditLog interface {
	// Append writes one record. Existing records are never rewritten.
	Append(ctx context.Context, record domain.AuditRecord) error

	// ReadAll returns the records of a temple in append order.
	ReadAll(ctx context.Context, templeID string) ([]domain.AuditRecord, error)

	// Close releases the underlying file or database handle.
	Close() error
}
