package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

func (s *Store) SaveStatement(_ context.Context, statement domain.BankStatement, entries []domain.StatementEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.statements[statement.StatementID]; ok {
		return fmt.Errorf("%w: statement %s", apperrors.ErrDuplicate, statement.StatementID)
	}
	s.data.statements[statement.StatementID] = statement
	s.data.stmtRows[statement.StatementID] = append([]domain.StatementEntry(nil), entries...)
	return nil
}

func (s *Store) FindStatementByID(_ context.Context, templeID, statementID string) (*domain.BankStatement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data.statements[statementID]
	if !ok || st.TempleID != templeID {
		return nil, apperrors.NewNotFoundError("statement " + statementID)
	}
	return &st, nil
}

func (s *Store) ListStatements(_ context.Context, templeID, accountID string) ([]domain.BankStatement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.BankStatement, 0)
	for _, st := range s.data.statements {
		if st.TempleID == templeID && (accountID == "" || st.AccountID == accountID) {
			res = append(res, st)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].PeriodStart.Equal(res[j].PeriodStart) {
			return res[i].PeriodStart.After(res[j].PeriodStart)
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *Store) FindStatementEntries(_ context.Context, statementID string) ([]domain.StatementEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := append([]domain.StatementEntry(nil), s.data.stmtRows[statementID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].RowNo < rows[j].RowNo })
	return rows, nil
}

func (s *Store) FindStatementEntryByID(_ context.Context, statementID, statementEntryID string) (*domain.StatementEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.data.stmtRows[statementID] {
		if row.StatementEntryID == statementEntryID {
			return &row, nil
		}
	}
	return nil, apperrors.NewNotFoundError("statement entry " + statementEntryID)
}

func (st *state) matchedLineIDs(accountID string) map[string]bool {
	res := make(map[string]bool)
	for id, stmt := range st.statements {
		if stmt.AccountID != accountID {
			continue
		}
		for _, row := range st.stmtRows[id] {
			if row.MatchedLineID != "" {
				res[row.MatchedLineID] = true
			}
		}
	}
	return res
}

func (s *Store) FindMatchedLineIDs(_ context.Context, accountID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.matchedLineIDs(accountID), nil
}

// findRow returns the statement holding the row and the row's index.
func (st *state) findRow(statementEntryID string) (string, int, bool) {
	for id, rows := range st.stmtRows {
		for i, row := range rows {
			if row.StatementEntryID == statementEntryID {
				return id, i, true
			}
		}
	}
	return "", 0, false
}

func (s *Store) MatchEntry(_ context.Context, statementEntryID, lineID, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stmtID, idx, ok := s.data.findRow(statementEntryID)
	if !ok {
		return apperrors.NewNotFoundError("statement entry " + statementEntryID)
	}
	row := s.data.stmtRows[stmtID][idx]
	if row.IsMatched() {
		return fmt.Errorf("%w: statement row %d is already matched", apperrors.ErrReconciliationConflict, row.RowNo)
	}
	for _, rows := range s.data.stmtRows {
		for _, other := range rows {
			if other.MatchedLineID == lineID {
				return fmt.Errorf("%w: line %s is already matched", apperrors.ErrReconciliationConflict, lineID)
			}
		}
	}
	row.MatchedLineID = lineID
	row.MatchedAt = &at
	row.MatchedBy = userID
	s.data.stmtRows[stmtID][idx] = row
	return nil
}

func (s *Store) UnmatchEntry(_ context.Context, statementEntryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stmtID, idx, ok := s.data.findRow(statementEntryID)
	if !ok {
		return apperrors.NewNotFoundError("statement entry " + statementEntryID)
	}
	row := s.data.stmtRows[stmtID][idx]
	row.MatchedLineID = ""
	row.MatchedAt = nil
	row.MatchedBy = ""
	s.data.stmtRows[stmtID][idx] = row
	return nil
}

func (s *Store) UpdateStatementStatus(_ context.Context, statementID string, status domain.StatementStatus, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.data.statements[statementID]
	if !ok {
		return apperrors.NewNotFoundError("statement " + statementID)
	}
	st.Status = status
	st.LastUpdatedAt = at
	st.LastUpdatedBy = userID
	if status == domain.StatementCompleted {
		st.CompletedAt = &at
		st.CompletedBy = userID
	}
	s.data.statements[statementID] = st
	return nil
}
