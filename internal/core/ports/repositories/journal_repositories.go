package repositories

import (
	"context"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves an entry of a temple by its ID.
	FindEntryByID(ctx context.Context, templeID, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the lines of an entry ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// FindPostedLineByID retrieves one line joined with its entry.
	FindPostedLineByID(ctx context.Context, templeID, lineID string) (*domain.PostedLine, error)

	// ListEntries retrieves a page of entries, newest entry date first.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, templeID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// ListChain retrieves entries with chain_seq greater than afterSeq in chain order, at most limit.
	ListChain(ctx context.Context, templeID string, afterSeq int64, limit int) ([]domain.JournalEntry, error)

	// FindLedgerHead returns the current chain tail without locking it.
	FindLedgerHead(ctx context.Context, templeID string) (*domain.LedgerHead, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
