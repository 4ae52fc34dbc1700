package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

func (st *state) isDateLocked(templeID string, date time.Time) bool {
	for _, c := range st.closings {
		if c.TempleID == templeID && c.Status == domain.ClosingStatusClosed && c.Covers(date) {
			return true
		}
	}
	return false
}

func (st *state) saveClosing(closing domain.PeriodClosing) error {
	for _, c := range st.closings {
		if c.TempleID != closing.TempleID || c.ClosingType != closing.ClosingType {
			continue
		}
		if (closing.ClosingType == domain.YearEnd && c.FiscalYear == closing.FiscalYear) ||
			(closing.ClosingType == domain.MonthEnd && c.ClosingDate.Equal(closing.ClosingDate)) {
			return fmt.Errorf("%w: period ending %s is already closed", apperrors.ErrDuplicate, closing.ClosingDate.Format(time.DateOnly))
		}
	}
	st.closings[closing.ClosingID] = closing
	return nil
}

func (s *Store) SaveClosing(_ context.Context, closing domain.PeriodClosing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.saveClosing(closing)
}

func (s *Store) ListClosings(_ context.Context, templeID string, fiscalYear int) ([]domain.PeriodClosing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.PeriodClosing, 0)
	for _, c := range s.data.closings {
		if c.TempleID == templeID && (fiscalYear == 0 || c.FiscalYear == fiscalYear) {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].ClosingDate.Equal(res[j].ClosingDate) {
			return res[i].ClosingDate.Before(res[j].ClosingDate)
		}
		return res[i].ClosingType == domain.MonthEnd
	})
	return res, nil
}

func (s *Store) IsDateLocked(_ context.Context, templeID string, date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.isDateLocked(templeID, date), nil
}
