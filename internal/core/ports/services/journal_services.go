package services

import (
	"context"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its lines.
	GetEntry(ctx context.Context, templeID string, entryID string) (*domain.EntryWithLines, error)

	// ListEntries retrieves a paginated list of entries, newest first.
	ListEntries(ctx context.Context, templeID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal data.
// Posted entries are never edited in place; reversal and correction are the only edit path.
type JournalWriterSvc interface {
	// CreateEntry validates, numbers, chains and posts a balanced entry.
	CreateEntry(ctx context.Context, templeID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.EntryWithLines, error)

	// ReverseEntry posts a mirrored entry and marks the original REVERSED.
	ReverseEntry(ctx context.Context, templeID string, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.EntryWithLines, error)

	// CorrectEntry reverses an entry and posts its replacement atomically. It returns the replacement.
	CorrectEntry(ctx context.Context, templeID string, entryID string, req dto.CorrectEntryRequest, userID string) (*domain.EntryWithLines, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
