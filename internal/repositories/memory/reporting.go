package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func matches(e domain.JournalEntry, filter domain.LineFilter) bool {
	if !e.Status.CountsInLedger() {
		return false
	}
	if !filter.From.IsZero() && e.EntryDate.Before(domain.DateOnly(filter.From)) {
		return false
	}
	if !filter.To.IsZero() && e.EntryDate.After(domain.DateOnly(filter.To)) {
		return false
	}
	for _, rt := range filter.ExcludeReferenceTypes {
		if e.ReferenceType == rt {
			return false
		}
	}
	return true
}

func (st *state) postedLines(templeID string, filter domain.LineFilter) []domain.PostedLine {
	var accounts map[string]bool
	if len(filter.AccountIDs) > 0 {
		accounts = make(map[string]bool, len(filter.AccountIDs))
		for _, id := range filter.AccountIDs {
			accounts[id] = true
		}
	}

	res := make([]domain.PostedLine, 0)
	for id, e := range st.entries {
		if e.TempleID != templeID || !matches(e, filter) {
			continue
		}
		for _, l := range st.lines[id] {
			if accounts != nil && !accounts[l.AccountID] {
				continue
			}
			res = append(res, toPostedLine(e, l))
		}
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.ChainSeq != b.ChainSeq {
			return a.ChainSeq < b.ChainSeq
		}
		return a.LineNo < b.LineNo
	})
	return res
}

func (s *Store) ListPostedLines(_ context.Context, templeID string, filter domain.LineFilter) ([]domain.PostedLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.postedLines(templeID, filter), nil
}

func (s *Store) SumByAccount(_ context.Context, templeID string, filter domain.LineFilter) ([]domain.AccountTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.sumByAccount(templeID, filter), nil
}

func (st *state) sumByAccount(templeID string, filter domain.LineFilter) []domain.AccountTotals {
	byAccount := make(map[string]*domain.AccountTotals)
	for _, l := range st.postedLines(templeID, filter) {
		t, ok := byAccount[l.AccountID]
		if !ok {
			t = &domain.AccountTotals{AccountID: l.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
			byAccount[l.AccountID] = t
		}
		t.Debit = t.Debit.Add(l.Debit)
		t.Credit = t.Credit.Add(l.Credit)
	}
	res := make([]domain.AccountTotals, 0, len(byAccount))
	for _, t := range byAccount {
		res = append(res, *t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].AccountID < res[j].AccountID })
	return res
}
