package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/utils/pagination"
)

func (st *state) entry(templeID, entryID string) (*domain.JournalEntry, error) {
	e, ok := st.entries[entryID]
	if !ok || e.TempleID != templeID {
		return nil, apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return &e, nil
}

func (st *state) linesOf(entryID string) []domain.JournalLine {
	lines := append([]domain.JournalLine(nil), st.lines[entryID]...)
	sort.Slice(lines, func(i, j int) bool { return lines[i].LineNo < lines[j].LineNo })
	return lines
}

func (s *Store) FindEntryByID(_ context.Context, templeID, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.entry(templeID, entryID)
}

func (s *Store) FindLinesByEntryID(_ context.Context, entryID string) ([]domain.JournalLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.linesOf(entryID), nil
}

func (s *Store) FindLinesByEntryIDs(_ context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(map[string][]domain.JournalLine, len(entryIDs))
	for _, id := range entryIDs {
		if _, ok := s.data.lines[id]; ok {
			res[id] = s.data.linesOf(id)
		}
	}
	return res, nil
}

func toPostedLine(e domain.JournalEntry, l domain.JournalLine) domain.PostedLine {
	return domain.PostedLine{
		JournalLine:     l,
		TempleID:        e.TempleID,
		EntryDate:       e.EntryDate,
		EntryNumber:     e.EntryNumber,
		FiscalYear:      e.FiscalYear,
		ChainSeq:        e.ChainSeq,
		Narration:       e.Narration,
		ReferenceType:   e.ReferenceType,
		ReferenceNumber: e.ReferenceNumber,
		Status:          e.Status,
	}
}

func (s *Store) FindPostedLineByID(_ context.Context, templeID, lineID string) (*domain.PostedLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for entryID, lines := range s.data.lines {
		for _, l := range lines {
			if l.LineID != lineID {
				continue
			}
			e, ok := s.data.entries[entryID]
			if !ok || e.TempleID != templeID || !e.Status.CountsInLedger() {
				break
			}
			pl := toPostedLine(e, l)
			return &pl, nil
		}
	}
	return nil, apperrors.NewNotFoundError("journal line " + lineID)
}

func (s *Store) ListEntries(_ context.Context, templeID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		hasCursor bool
		curDate   time.Time
		curSeq    int64
	)
	if nextToken != nil && *nextToken != "" {
		d, seq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		hasCursor, curDate, curSeq = true, d, seq
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.JournalEntry, 0)
	for _, e := range s.data.entries {
		if e.TempleID != templeID {
			continue
		}
		if hasCursor && !pagination.After(e.EntryDate, e.ChainSeq, curDate, curSeq) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.After(entries[j].EntryDate)
		}
		return entries[i].ChainSeq > entries[j].ChainSeq
	})

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.ChainSeq)
		next = &token
	}
	return entries, next, nil
}

func (s *Store) ListChain(_ context.Context, templeID string, afterSeq int64, limit int) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.JournalEntry, 0)
	for _, e := range s.data.entries {
		if e.TempleID == templeID && e.ChainSeq > afterSeq {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ChainSeq < entries[j].ChainSeq })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) FindLedgerHead(_ context.Context, templeID string) (*domain.LedgerHead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	head, ok := s.data.heads[templeID]
	if !ok {
		return nil, nil
	}
	return &head, nil
}

// ledgerTx operates on the store's state while WithinTx holds the write lock.
type ledgerTx struct {
	st *state
}

func (tx *ledgerTx) LockLedgerHead(_ context.Context, templeID string) (domain.LedgerHead, error) {
	head, ok := tx.st.heads[templeID]
	if !ok {
		head = domain.LedgerHead{TempleID: templeID}
		tx.st.heads[templeID] = head
	}
	return head, nil
}

func (tx *ledgerTx) AdvanceLedgerHead(_ context.Context, head domain.LedgerHead) error {
	current, ok := tx.st.heads[head.TempleID]
	if !ok {
		return fmt.Errorf("ledger head of temple %s was not locked", head.TempleID)
	}
	if head.LastChainSeq != current.LastChainSeq+1 {
		return fmt.Errorf("%w: ledger head moved from %d to %d", apperrors.ErrConflict, current.LastChainSeq, head.LastChainSeq)
	}
	tx.st.heads[head.TempleID] = head
	return nil
}

func (tx *ledgerTx) NextEntryNumber(_ context.Context, templeID string, fiscalYear int) (int64, error) {
	key := sequenceKey(templeID, fiscalYear)
	tx.st.sequences[key]++
	return tx.st.sequences[key], nil
}

func (tx *ledgerTx) FindEntryForUpdate(_ context.Context, templeID, entryID string) (*domain.JournalEntry, error) {
	return tx.st.entry(templeID, entryID)
}

func (tx *ledgerTx) FindLinesByEntryID(_ context.Context, entryID string) ([]domain.JournalLine, error) {
	return tx.st.linesOf(entryID), nil
}

func (tx *ledgerTx) InsertEntry(_ context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if _, ok := tx.st.entries[entry.EntryID]; ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	tx.st.entries[entry.EntryID] = entry
	tx.st.lines[entry.EntryID] = append([]domain.JournalLine(nil), lines...)
	return nil
}

func (tx *ledgerTx) UpdateEntryLinks(_ context.Context, entryID string, status domain.EntryStatus, reversedBy, correctedBy string, userID string, at time.Time) error {
	e, ok := tx.st.entries[entryID]
	if !ok {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	e.Status = status
	e.ReversedByEntryID = reversedBy
	e.CorrectedByEntryID = correctedBy
	e.LastUpdatedBy = userID
	e.LastUpdatedAt = at
	tx.st.entries[entryID] = e
	return nil
}

func (tx *ledgerTx) IsDateLocked(_ context.Context, templeID string, date time.Time) (bool, error) {
	return tx.st.isDateLocked(templeID, date), nil
}

func (tx *ledgerTx) SaveClosing(_ context.Context, closing domain.PeriodClosing) error {
	return tx.st.saveClosing(closing)
}

func (tx *ledgerTx) SumByAccount(_ context.Context, templeID string, filter domain.LineFilter) ([]domain.AccountTotals, error) {
	return tx.st.sumByAccount(templeID, filter), nil
}
