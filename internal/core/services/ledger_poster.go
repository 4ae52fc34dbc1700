package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/temple_ledger/internal/platform/metrics"
	"github.com/SscSPs/temple_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerPoster appends entries to a temple's hash chain. Every path that creates an entry
// (manual posting, reversal, correction, year-end closing) goes through chain so numbering
// and hashing happen under the same ledger head lock.
type ledgerPoster struct {
	hasher   *accounting.ChainHasher
	auditLog portsrepo.AuditLog
}

func newLedgerPoster(hasher *accounting.ChainHasher, auditLog portsrepo.AuditLog) *ledgerPoster {
	if hasher == nil {
		hasher, _ = accounting.NewChainHasher(accounting.HashSHA256)
	}
	return &ledgerPoster{hasher: hasher, auditLog: auditLog}
}

// newEntry prepares an unchained entry and its numbered lines.
func newEntry(temple *domain.Temple, date time.Time, narration, refType, refNumber, userID string, now time.Time, lines []domain.JournalLine) (domain.JournalEntry, []domain.JournalLine) {
	entryID := uuid.NewString()
	numbered := make([]domain.JournalLine, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		l.LineID = uuid.NewString()
		l.EntryID = entryID
		l.LineNo = i + 1
		numbered[i] = l
		total = total.Add(l.Debit)
	}
	if refType == "" {
		refType = domain.ReferenceManual
	}
	entry := domain.JournalEntry{
		EntryID:         entryID,
		TempleID:        temple.TempleID,
		FiscalYear:      temple.FiscalYearOf(date),
		EntryDate:       domain.DateOnly(date),
		Narration:       narration,
		ReferenceType:   refType,
		ReferenceNumber: refNumber,
		Status:          domain.Posted,
		TotalAmount:     total,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	return entry, numbered
}

// lock takes the temple's ledger head lock for the rest of tx. Postings and closings take it
// before checking or writing period locks, so a month cannot close between an entry's lock
// check and its commit.
func (p *ledgerPoster) lock(ctx context.Context, tx portsrepo.LedgerTx, templeID string) error {
	if _, err := tx.LockLedgerHead(ctx, templeID); err != nil {
		return fmt.Errorf("failed to lock ledger head: %w", err)
	}
	return nil
}

// chain locks the temple's ledger head, assigns the voucher number and chain position,
// computes the integrity hash and inserts the entry. It must run inside tx.
func (p *ledgerPoster) chain(ctx context.Context, tx portsrepo.LedgerTx, entry *domain.JournalEntry, lines []domain.JournalLine) error {
	head, err := tx.LockLedgerHead(ctx, entry.TempleID)
	if err != nil {
		return fmt.Errorf("failed to lock ledger head: %w", err)
	}

	number, err := tx.NextEntryNumber(ctx, entry.TempleID, entry.FiscalYear)
	if err != nil {
		return fmt.Errorf("failed to allocate entry number: %w", err)
	}

	previous := head.LastHash
	if previous == "" {
		previous = accounting.GenesisHash
	}
	entry.EntryNumber = number
	entry.ChainSeq = head.LastChainSeq + 1
	entry.PreviousHash = previous

	hash, err := p.hasher.Hash(*entry, lines, previous)
	if err != nil {
		return fmt.Errorf("failed to compute integrity hash: %w", err)
	}
	entry.IntegrityHash = hash

	if err := tx.InsertEntry(ctx, *entry, lines); err != nil {
		return err
	}
	return tx.AdvanceLedgerHead(ctx, domain.LedgerHead{
		TempleID:     entry.TempleID,
		LastChainSeq: entry.ChainSeq,
		LastHash:     hash,
	})
}

// mirror appends audit records after the database transaction committed. A failed append is
// logged and counted but does not undo the posting; VerifyAuditMirror reports the gap.
func (p *ledgerPoster) mirror(ctx context.Context, base *BaseService, records ...domain.AuditRecord) {
	for _, record := range records {
		metrics.EntriesChained.WithLabelValues(string(record.Action)).Inc()
		if p.auditLog == nil {
			continue
		}
		if err := p.auditLog.Append(ctx, record); err != nil {
			metrics.AuditMirrorFailures.Inc()
			base.LogError(ctx, err, "Failed to append audit record",
				slog.String("temple_id", record.TempleID),
				slog.String("entry_id", record.EntryID),
				slog.String("action", string(record.Action)))
		}
	}
}
