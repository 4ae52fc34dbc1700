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
	"github.com/SscSPs/temple_ledger/internal/platform/metrics"
	"github.com/SscSPs/temple_ledger/internal/utils/accounting"
)

const defaultListLimit = 20

// journalService provides core journal operations.
type journalService struct {
	BaseService
	accountSvc  portssvc.AccountReaderSvc
	journalRepo portsrepo.JournalRepositoryWithTx
	poster      *ledgerPoster
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountSvc portssvc.AccountReaderSvc,
	hasher *accounting.ChainHasher,
	auditLog portsrepo.AuditLog,
	options ...ServiceOption,
) portssvc.JournalSvcFacade {
	svc := &journalService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
		poster:      newLedgerPoster(hasher, auditLog),
	}
	svc.apply(options)
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func toJournalLines(reqLines []dto.CreateLineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, l := range reqLines {
		lines[i] = domain.JournalLine{
			LineNo:      i + 1,
			AccountID:   strings.TrimSpace(l.AccountID),
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return lines
}

// validateLines checks balance and that every account may receive manual postings in this temple.
func (s *journalService) validateLines(ctx context.Context, templeID string, lines []domain.JournalLine) error {
	if err := accounting.ValidateBalance(lines); err != nil {
		reason := "invalid_line"
		if errors.Is(err, apperrors.ErrImbalancedEntry) {
			reason = "imbalanced"
		}
		metrics.EntriesRejected.WithLabelValues(reason).Inc()
		return err
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountByIDs(ctx, templeID, uniqueStrings(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, l := range lines {
		acc, found := accounts[l.AccountID]
		if !found {
			metrics.EntriesRejected.WithLabelValues("unknown_account").Inc()
			return fmt.Errorf("%w: line %d: account %s not found in temple", apperrors.ErrValidation, l.LineNo, l.AccountID)
		}
		if !acc.IsActive {
			metrics.EntriesRejected.WithLabelValues("inactive_account").Inc()
			return fmt.Errorf("%w: line %d: account %s is inactive", apperrors.ErrValidation, l.LineNo, acc.Code)
		}
		if !acc.AllowManualEntry {
			metrics.EntriesRejected.WithLabelValues("manual_entry_disabled").Inc()
			return fmt.Errorf("%w: line %d: account %s does not allow manual entries", apperrors.ErrValidation, l.LineNo, acc.Code)
		}
	}
	return nil
}

// validateDate rejects entries dated after today.
func (s *journalService) validateDate(date time.Time) error {
	if domain.DateOnly(date).After(domain.DateOnly(s.Now())) {
		metrics.EntriesRejected.WithLabelValues("future_date").Inc()
		return fmt.Errorf("%w: entry date %s is in the future", apperrors.ErrValidation, date.Format(dto.DateLayout))
	}
	return nil
}

func ensureOpen(ctx context.Context, tx portsrepo.LedgerTx, templeID string, date time.Time) error {
	locked, err := tx.IsDateLocked(ctx, templeID, date)
	if err != nil {
		return fmt.Errorf("failed to check period lock: %w", err)
	}
	if locked {
		metrics.EntriesRejected.WithLabelValues("period_closed").Inc()
		return fmt.Errorf("%w: %s falls in a closed period", apperrors.ErrPeriodClosed, date.Format(dto.DateLayout))
	}
	return nil
}

// CreateEntry validates and posts a new balanced entry.
func (s *journalService) CreateEntry(ctx context.Context, templeID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.EntryWithLines, error) {
	temple, err := s.RequireTemple(ctx, templeID)
	if err != nil {
		return nil, err
	}

	narration := strings.TrimSpace(req.Narration)
	if narration == "" {
		return nil, fmt.Errorf("%w: narration is required", apperrors.ErrValidation)
	}
	if req.ReferenceType == domain.ReferenceReversal || req.ReferenceType == domain.ReferencePeriodClosing {
		return nil, fmt.Errorf("%w: reference type %s is reserved", apperrors.ErrValidation, req.ReferenceType)
	}
	if err := s.validateDate(req.EntryDate); err != nil {
		return nil, err
	}

	lines := toJournalLines(req.Lines)
	if err := s.validateLines(ctx, templeID, lines); err != nil {
		return nil, err
	}

	entry, numbered := newEntry(temple, req.EntryDate, narration, req.ReferenceType, req.ReferenceNumber, creatorUserID, s.Now(), lines)

	err = s.journalRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := s.poster.lock(ctx, tx, templeID); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, templeID, entry.EntryDate); err != nil {
			return err
		}
		return s.poster.chain(ctx, tx, &entry, numbered)
	})
	if err != nil {
		if !isBusinessError(err) {
			s.LogError(ctx, err, "Failed to post entry", slog.String("temple_id", templeID))
		}
		return nil, err
	}

	s.poster.mirror(ctx, &s.BaseService, domain.NewAuditRecord(domain.AuditPost, entry, s.Now()))

	s.LogInfo(ctx, "Entry posted successfully",
		slog.String("entry_id", entry.EntryID),
		slog.String("voucher", entry.VoucherNumber()),
		slog.Int64("chain_seq", entry.ChainSeq),
		slog.String("temple_id", templeID))
	return &domain.EntryWithLines{Entry: entry, Lines: numbered}, nil
}

// reverseInTx posts the mirrored entry of original and returns it. The caller updates the
// original's links so corrections can set both links in one write.
func (s *journalService) reverseInTx(ctx context.Context, tx portsrepo.LedgerTx, temple *domain.Temple, original *domain.JournalEntry, reversalDate *time.Time, reason, userID string) (domain.JournalEntry, []domain.JournalLine, error) {
	if original.ReferenceType == domain.ReferencePeriodClosing {
		return domain.JournalEntry{}, nil, fmt.Errorf("%w: year-end closing entries cannot be reversed or corrected", apperrors.ErrValidation)
	}
	if original.ReversalOfEntryID != "" {
		return domain.JournalEntry{}, nil, fmt.Errorf("%w: entry %s is itself a reversal", apperrors.ErrAlreadyReversed, original.VoucherNumber())
	}
	if !original.IsReversible() {
		return domain.JournalEntry{}, nil, fmt.Errorf("%w: entry %s has status %s", apperrors.ErrAlreadyReversed, original.VoucherNumber(), original.Status)
	}

	date := original.EntryDate
	if reversalDate != nil {
		date = domain.DateOnly(*reversalDate)
		if date.Before(domain.DateOnly(original.EntryDate)) {
			return domain.JournalEntry{}, nil, fmt.Errorf("%w: reversal date cannot precede the original entry date", apperrors.ErrValidation)
		}
		if err := s.validateDate(date); err != nil {
			return domain.JournalEntry{}, nil, err
		}
	}
	if err := ensureOpen(ctx, tx, temple.TempleID, date); err != nil {
		return domain.JournalEntry{}, nil, fmt.Errorf("%w; pass a reversal date in an open period", err)
	}

	lines, err := tx.FindLinesByEntryID(ctx, original.EntryID)
	if err != nil {
		return domain.JournalEntry{}, nil, fmt.Errorf("failed to load lines of entry %s: %w", original.EntryID, err)
	}
	swapped := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		swapped[i] = domain.JournalLine{
			AccountID:   l.AccountID,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
		}
	}

	narration := fmt.Sprintf("Reversal of %s: %s", original.VoucherNumber(), reason)
	reversal, numbered := newEntry(temple, date, narration, domain.ReferenceReversal, original.VoucherNumber(), userID, s.Now(), swapped)
	reversal.Reason = reason
	reversal.ReversalOfEntryID = original.EntryID

	if err := s.poster.chain(ctx, tx, &reversal, numbered); err != nil {
		return domain.JournalEntry{}, nil, err
	}
	return reversal, numbered, nil
}

// ReverseEntry posts a mirrored entry and marks the original REVERSED.
func (s *journalService) ReverseEntry(ctx context.Context, templeID string, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.EntryWithLines, error) {
	temple, err := s.RequireTemple(ctx, templeID)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a reason is required to reverse an entry", apperrors.ErrValidation)
	}

	var reversal domain.JournalEntry
	var lines []domain.JournalLine
	err = s.journalRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := s.poster.lock(ctx, tx, templeID); err != nil {
			return err
		}
		original, err := tx.FindEntryForUpdate(ctx, templeID, entryID)
		if err != nil {
			return err
		}
		reversal, lines, err = s.reverseInTx(ctx, tx, temple, original, req.ReversalDate, reason, userID)
		if err != nil {
			return err
		}
		return tx.UpdateEntryLinks(ctx, original.EntryID, domain.Reversed, reversal.EntryID, original.CorrectedByEntryID, userID, s.Now())
	})
	if err != nil {
		if !isBusinessError(err) {
			s.LogError(ctx, err, "Failed to reverse entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	s.poster.mirror(ctx, &s.BaseService, domain.NewAuditRecord(domain.AuditReverse, reversal, s.Now()))

	s.LogInfo(ctx, "Entry reversed successfully",
		slog.String("original_entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID),
		slog.String("temple_id", templeID))
	return &domain.EntryWithLines{Entry: reversal, Lines: lines}, nil
}

// CorrectEntry reverses the original and posts its replacement in the same transaction.
func (s *journalService) CorrectEntry(ctx context.Context, templeID string, entryID string, req dto.CorrectEntryRequest, userID string) (*domain.EntryWithLines, error) {
	temple, err := s.RequireTemple(ctx, templeID)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a reason is required to correct an entry", apperrors.ErrValidation)
	}
	if req.EntryDate != nil {
		if err := s.validateDate(*req.EntryDate); err != nil {
			return nil, err
		}
	}

	lines := toJournalLines(req.Lines)
	if err := s.validateLines(ctx, templeID, lines); err != nil {
		return nil, err
	}

	var reversal, correction domain.JournalEntry
	var correctionLines []domain.JournalLine
	err = s.journalRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := s.poster.lock(ctx, tx, templeID); err != nil {
			return err
		}
		original, err := tx.FindEntryForUpdate(ctx, templeID, entryID)
		if err != nil {
			return err
		}
		reversal, _, err = s.reverseInTx(ctx, tx, temple, original, req.ReversalDate, reason, userID)
		if err != nil {
			return err
		}

		date := original.EntryDate
		if req.EntryDate != nil {
			date = domain.DateOnly(*req.EntryDate)
		}
		if err := ensureOpen(ctx, tx, templeID, date); err != nil {
			return err
		}
		narration := original.Narration
		if req.Narration != nil && strings.TrimSpace(*req.Narration) != "" {
			narration = strings.TrimSpace(*req.Narration)
		}
		refNumber := original.ReferenceNumber
		if req.ReferenceNumber != nil {
			refNumber = *req.ReferenceNumber
		}

		correction, correctionLines = newEntry(temple, date, narration, original.ReferenceType, refNumber, userID, s.Now(), lines)
		correction.Reason = reason
		correction.CorrectionOfEntryID = original.EntryID
		if err := s.poster.chain(ctx, tx, &correction, correctionLines); err != nil {
			return err
		}
		return tx.UpdateEntryLinks(ctx, original.EntryID, domain.Reversed, reversal.EntryID, correction.EntryID, userID, s.Now())
	})
	if err != nil {
		if !isBusinessError(err) {
			s.LogError(ctx, err, "Failed to correct entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	now := s.Now()
	s.poster.mirror(ctx, &s.BaseService,
		domain.NewAuditRecord(domain.AuditReverse, reversal, now),
		domain.NewAuditRecord(domain.AuditCorrect, correction, now))

	s.LogInfo(ctx, "Entry corrected successfully",
		slog.String("original_entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID),
		slog.String("correction_entry_id", correction.EntryID))
	return &domain.EntryWithLines{Entry: correction, Lines: correctionLines}, nil
}

// GetEntry retrieves an entry with its lines.
func (s *journalService) GetEntry(ctx context.Context, templeID string, entryID string) (*domain.EntryWithLines, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, templeID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entry by ID", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if entry.TempleID != templeID {
		return nil, apperrors.NewNotFoundError("entry " + entryID)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch lines for entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	return &domain.EntryWithLines{Entry: *entry, Lines: lines}, nil
}

// ListEntries retrieves a paginated list of entries for a temple.
func (s *journalService) ListEntries(ctx context.Context, templeID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, templeID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("temple_id", templeID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	var linesByEntry map[string][]domain.JournalLine
	if len(entries) > 0 {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.EntryID
		}
		linesByEntry, err = s.journalRepo.FindLinesByEntryIDs(ctx, ids)
		if err != nil {
			s.LogWarn(ctx, "Failed to fetch lines for entries", slog.String("error", err.Error()))
		}
	}

	resp := &dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i], linesByEntry[entries[i].EntryID])
	}
	return resp, nil
}

func uniqueStrings(input []string) []string {
	seen := make(map[string]bool, len(input))
	result := make([]string, 0, len(input))
	for _, item := range input {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}

// isBusinessError reports whether err is an expected rejection rather than an infrastructure failure.
func isBusinessError(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation, apperrors.ErrNotFound, apperrors.ErrDuplicate, apperrors.ErrForbidden,
		apperrors.ErrImbalancedEntry, apperrors.ErrPeriodClosed, apperrors.ErrAlreadyReversed,
		apperrors.ErrReferentialIntegrity, apperrors.ErrPrecedingMonthsOpen, apperrors.ErrConflict,
		apperrors.ErrReconciliationConflict, apperrors.ErrReconciliationMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
