package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/SscSPs/temple_ledger/internal/platform/metrics"
	"github.com/SscSPs/temple_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const chainBatchSize = 500

// integrityService recomputes the hash chain and compares it with the audit artifact.
// It only reports; it never repairs stored data.
type integrityService struct {
	BaseService
	templeRepo  portsrepo.TempleReader
	journalRepo portsrepo.JournalReader
	auditLog    portsrepo.AuditLog
	hasher      *accounting.ChainHasher
}

// NewIntegrityService creates the chain verifier.
func NewIntegrityService(
	templeRepo portsrepo.TempleReader,
	journalRepo portsrepo.JournalReader,
	auditLog portsrepo.AuditLog,
	hasher *accounting.ChainHasher,
	options ...ServiceOption,
) portssvc.IntegritySvcFacade {
	if hasher == nil {
		hasher, _ = accounting.NewChainHasher(accounting.HashSHA256)
	}
	svc := &integrityService{
		templeRepo:  templeRepo,
		journalRepo: journalRepo,
		auditLog:    auditLog,
		hasher:      hasher,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.IntegritySvcFacade = (*integrityService)(nil)

func violationAt(entry domain.JournalEntry, reason, expected, actual string) *apperrors.IntegrityViolation {
	return &apperrors.IntegrityViolation{
		TempleID:    entry.TempleID,
		EntryID:     entry.EntryID,
		EntryNumber: entry.EntryNumber,
		ChainSeq:    entry.ChainSeq,
		Expected:    expected,
		Actual:      actual,
		Reason:      reason,
	}
}

// eachChainBatch walks the temple's chain in order, handing each batch with its lines to fn.
// It stops when fn returns false.
func (s *integrityService) eachChainBatch(ctx context.Context, templeID string, fn func(entries []domain.JournalEntry, lines map[string][]domain.JournalLine) (bool, error)) error {
	var afterSeq int64
	for {
		entries, err := s.journalRepo.ListChain(ctx, templeID, afterSeq, chainBatchSize)
		if err != nil {
			return fmt.Errorf("failed to read chain after seq %d: %w", afterSeq, err)
		}
		if len(entries) == 0 {
			return nil
		}
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.EntryID
		}
		lines, err := s.journalRepo.FindLinesByEntryIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to read chain lines: %w", err)
		}
		more, err := fn(entries, lines)
		if err != nil || !more {
			return err
		}
		afterSeq = entries[len(entries)-1].ChainSeq
		if len(entries) < chainBatchSize {
			return nil
		}
	}
}

// VerifyChain recomputes every hash from genesis and reports the first break.
func (s *integrityService) VerifyChain(ctx context.Context, templeID string) (*dto.ChainVerificationResponse, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}

	resp := &dto.ChainVerificationResponse{
		TempleID:  templeID,
		Algorithm: s.hasher.Algorithm(),
		HeadHash:  accounting.GenesisHash,
	}
	previous := accounting.GenesisHash
	var lastSeq int64
	// verified entries by ID, for checking that later reversals and corrections are linked back
	seen := make(map[string]domain.JournalEntry)

	err := s.eachChainBatch(ctx, templeID, func(entries []domain.JournalEntry, lines map[string][]domain.JournalLine) (bool, error) {
		for _, entry := range entries {
			if entry.ChainSeq != lastSeq+1 {
				resp.Violation = violationAt(entry, "chain sequence gap",
					fmt.Sprint(lastSeq+1), fmt.Sprint(entry.ChainSeq))
				return false, nil
			}
			if entry.PreviousHash != previous {
				resp.Violation = violationAt(entry, "previous hash does not link to the preceding entry", previous, entry.PreviousHash)
				return false, nil
			}
			recomputed, err := s.hasher.Hash(entry, lines[entry.EntryID], previous)
			if err != nil {
				return false, err
			}
			if recomputed != entry.IntegrityHash {
				resp.Violation = violationAt(entry, "integrity hash mismatch", recomputed, entry.IntegrityHash)
				return false, nil
			}
			if total := lineDebitTotal(lines[entry.EntryID]); total.StringFixed(2) != entry.TotalAmount.StringFixed(2) {
				resp.Violation = violationAt(entry, "total amount differs from the sum of debits",
					total.StringFixed(2), entry.TotalAmount.StringFixed(2))
				return false, nil
			}
			if v, err := s.checkStatusLinks(ctx, entry); err != nil || v != nil {
				resp.Violation = v
				return false, err
			}
			if v := checkBackLinks(entry, seen); v != nil {
				resp.Violation = v
				return false, nil
			}
			seen[entry.EntryID] = entry
			previous = entry.IntegrityHash
			lastSeq = entry.ChainSeq
			resp.EntriesChecked++
		}
		return true, nil
	})
	if err != nil {
		s.LogError(ctx, err, "Chain verification failed to run", slog.String("temple_id", templeID))
		return nil, err
	}

	if resp.Violation == nil {
		head, err := s.journalRepo.FindLedgerHead(ctx, templeID)
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger head: %w", err)
		}
		// A head ahead of the stored chain means tail entries were removed.
		if head != nil && head.LastChainSeq != lastSeq {
			resp.Violation = &apperrors.IntegrityViolation{
				TempleID: templeID,
				ChainSeq: head.LastChainSeq,
				Expected: head.LastHash,
				Actual:   previous,
				Reason:   "ledger head does not match the last stored entry",
			}
		} else if head != nil && head.LastHash != "" && head.LastHash != previous {
			resp.Violation = &apperrors.IntegrityViolation{
				TempleID: templeID,
				ChainSeq: head.LastChainSeq,
				Expected: head.LastHash,
				Actual:   previous,
				Reason:   "ledger head hash does not match the chain tail",
			}
		}
	}

	resp.HeadHash = previous
	resp.VerifiedAt = s.Now()
	s.record(ctx, "chain", resp)
	return resp, nil
}

func lineDebitTotal(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Debit)
	}
	return total
}

// checkStatusLinks verifies the mutable fields structurally since they are outside the hash.
func (s *integrityService) checkStatusLinks(ctx context.Context, entry domain.JournalEntry) (*apperrors.IntegrityViolation, error) {
	switch entry.Status {
	case domain.Posted:
		if entry.ReversedByEntryID != "" {
			return violationAt(entry, "posted entry carries a reversed-by link", "", entry.ReversedByEntryID), nil
		}
		if entry.CorrectedByEntryID != "" {
			return violationAt(entry, "posted entry carries a corrected-by link", "", entry.CorrectedByEntryID), nil
		}
		return nil, nil
	case domain.Reversed:
		if entry.ReversedByEntryID == "" {
			return violationAt(entry, "reversed entry has no reversed-by link", "reversed_by set", ""), nil
		}
		reversal, err := s.linkedEntry(ctx, entry.TempleID, entry.ReversedByEntryID)
		if err != nil {
			return nil, err
		}
		if reversal == nil {
			return violationAt(entry, "reversing entry not found", entry.ReversedByEntryID, ""), nil
		}
		if reversal.ReversalOfEntryID != entry.EntryID {
			return violationAt(entry, "reversing entry does not point back", entry.EntryID, reversal.ReversalOfEntryID), nil
		}
		if entry.CorrectedByEntryID == "" {
			return nil, nil
		}
		correction, err := s.linkedEntry(ctx, entry.TempleID, entry.CorrectedByEntryID)
		if err != nil {
			return nil, err
		}
		if correction == nil {
			return violationAt(entry, "correcting entry not found", entry.CorrectedByEntryID, ""), nil
		}
		if correction.CorrectionOfEntryID != entry.EntryID {
			return violationAt(entry, "correcting entry does not point back", entry.EntryID, correction.CorrectionOfEntryID), nil
		}
		return nil, nil
	default:
		return violationAt(entry, "unexpected status in chain", string(domain.Posted)+"|"+string(domain.Reversed), string(entry.Status)), nil
	}
}

// linkedEntry loads an entry named by a link. A missing entry is reported as nil so the caller
// can record a violation; any other failure is returned.
func (s *integrityService) linkedEntry(ctx context.Context, templeID, entryID string) (*domain.JournalEntry, error) {
	e, err := s.journalRepo.FindEntryByID(ctx, templeID, entryID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load linked entry %s: %w", entryID, err)
	}
	return e, nil
}

// checkBackLinks verifies that the entry a reversal or correction refers to links back to it.
// The referenced entry precedes it in the chain, so its links were stored when it was seen.
func checkBackLinks(entry domain.JournalEntry, seen map[string]domain.JournalEntry) *apperrors.IntegrityViolation {
	if entry.ReversalOfEntryID != "" {
		original, ok := seen[entry.ReversalOfEntryID]
		if !ok {
			return violationAt(entry, "reversed entry not found earlier in the chain", entry.ReversalOfEntryID, "")
		}
		if original.ReversedByEntryID != entry.EntryID {
			return violationAt(original, "reversed-by link does not name its reversing entry", entry.EntryID, original.ReversedByEntryID)
		}
	}
	if entry.CorrectionOfEntryID != "" {
		original, ok := seen[entry.CorrectionOfEntryID]
		if !ok {
			return violationAt(entry, "corrected entry not found earlier in the chain", entry.CorrectionOfEntryID, "")
		}
		if original.CorrectedByEntryID != entry.EntryID {
			return violationAt(original, "corrected-by link does not name its correcting entry", entry.EntryID, original.CorrectedByEntryID)
		}
	}
	return nil
}

// VerifyAuditMirror checks that the audit artifact has exactly one record per chained entry with the stored hash.
func (s *integrityService) VerifyAuditMirror(ctx context.Context, templeID string) (*dto.ChainVerificationResponse, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	if s.auditLog == nil {
		return nil, fmt.Errorf("%w: no audit artifact is configured", apperrors.ErrValidation)
	}

	records, err := s.auditLog.ReadAll(ctx, templeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read audit artifact", slog.String("temple_id", templeID))
		return nil, err
	}

	resp := &dto.ChainVerificationResponse{
		TempleID:  templeID,
		Algorithm: s.hasher.Algorithm(),
		HeadHash:  accounting.GenesisHash,
	}
	byEntry := make(map[string]domain.AuditRecord, len(records))
	for _, r := range records {
		if _, dup := byEntry[r.EntryID]; dup {
			resp.Violation = &apperrors.IntegrityViolation{
				TempleID: templeID, EntryID: r.EntryID, EntryNumber: r.EntryNumber,
				Reason: "duplicate audit record", Expected: "1", Actual: "2",
			}
			resp.VerifiedAt = s.Now()
			s.record(ctx, "audit", resp)
			return resp, nil
		}
		byEntry[r.EntryID] = r
	}

	err = s.eachChainBatch(ctx, templeID, func(entries []domain.JournalEntry, _ map[string][]domain.JournalLine) (bool, error) {
		for _, entry := range entries {
			record, ok := byEntry[entry.EntryID]
			if !ok {
				resp.Violation = violationAt(entry, "entry missing from audit artifact", entry.IntegrityHash, "")
				return false, nil
			}
			if record.Hash != entry.IntegrityHash {
				resp.Violation = violationAt(entry, "audit hash differs from stored hash", record.Hash, entry.IntegrityHash)
				return false, nil
			}
			if record.EntryNumber != entry.EntryNumber {
				resp.Violation = violationAt(entry, "audit entry number differs",
					fmt.Sprint(record.EntryNumber), fmt.Sprint(entry.EntryNumber))
				return false, nil
			}
			if record.Amount.StringFixed(2) != entry.TotalAmount.StringFixed(2) {
				resp.Violation = violationAt(entry, "audit amount differs",
					record.Amount.StringFixed(2), entry.TotalAmount.StringFixed(2))
				return false, nil
			}
			if record.Narration != entry.Narration {
				resp.Violation = violationAt(entry, "audit narration differs", record.Narration, entry.Narration)
				return false, nil
			}
			delete(byEntry, entry.EntryID)
			resp.HeadHash = entry.IntegrityHash
			resp.EntriesChecked++
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Violation == nil {
		for _, r := range records {
			if _, orphan := byEntry[r.EntryID]; orphan {
				resp.Violation = &apperrors.IntegrityViolation{
					TempleID: templeID, EntryID: r.EntryID, EntryNumber: r.EntryNumber,
					Expected: r.Hash, Reason: "audit record refers to an entry missing from the ledger",
				}
				break
			}
		}
	}

	resp.VerifiedAt = s.Now()
	s.record(ctx, "audit", resp)
	return resp, nil
}

func (s *integrityService) record(ctx context.Context, kind string, resp *dto.ChainVerificationResponse) {
	resp.Valid = resp.Violation == nil
	if resp.Valid {
		metrics.ChainVerifications.WithLabelValues(kind, "valid").Inc()
		s.LogDebug(ctx, "Integrity verification passed",
			slog.String("kind", kind),
			slog.String("temple_id", resp.TempleID),
			slog.Int("entries", resp.EntriesChecked))
		return
	}
	metrics.ChainVerifications.WithLabelValues(kind, "violation").Inc()
	metrics.IntegrityAlerts.Inc()
	s.GetLogger(ctx).Error("INTEGRITY ALERT",
		slog.String("kind", kind),
		slog.String("temple_id", resp.TempleID),
		slog.String("entry_id", resp.Violation.EntryID),
		slog.Int64("chain_seq", resp.Violation.ChainSeq),
		slog.String("reason", resp.Violation.Reason))
}

// VerifyAllTemples verifies the chain and audit mirror of every active temple.
func (s *integrityService) VerifyAllTemples(ctx context.Context) ([]dto.ChainVerificationResponse, error) {
	temples, err := s.templeRepo.ListTemples(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]dto.ChainVerificationResponse, 0, len(temples)*2)
	for _, t := range temples {
		if !t.IsActive {
			continue
		}
		chain, err := s.VerifyChain(ctx, t.TempleID)
		if err != nil {
			return results, err
		}
		results = append(results, *chain)

		if s.auditLog == nil {
			continue
		}
		mirror, err := s.VerifyAuditMirror(ctx, t.TempleID)
		if err != nil {
			return results, err
		}
		results = append(results, *mirror)
	}
	return results, nil
}
