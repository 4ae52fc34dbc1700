package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PeriodServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	f   *ledgerFixture
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}

func (s *PeriodServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.f = newLedgerFixture(s.T())
	t := s.T()

	s.f.post(t, day(2025, 4, 10), "Hundi counting", "1110", "4110", "12000")
	s.f.post(t, day(2025, 6, 15), "Archaka salary", "5200", "1110", "4000")
	s.f.post(t, day(2026, 1, 5), "EB bill", "5300", "1110", "1500")
}

func (s *PeriodServiceTestSuite) TestCloseMonth() {
	closing, err := s.f.svc.Period.CloseMonth(s.ctx, s.f.templeID, dto.CloseMonthRequest{ClosingDate: day(2025, 4, 30)}, testUser)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.MonthEnd, closing.ClosingType)
	assert.Equal(s.T(), 2025, closing.FiscalYear)
	assert.Equal(s.T(), day(2025, 4, 1), closing.PeriodStart)
	assert.Equal(s.T(), day(2025, 4, 30), closing.ClosingDate)
	assert.True(s.T(), closing.TotalIncome.Equal(amt("12000")))
	assert.True(s.T(), closing.TotalExpense.IsZero())
	assert.True(s.T(), closing.NetSurplus.Equal(amt("12000")))
	assert.Empty(s.T(), closing.ClosingEntryID, "month closings post nothing")

	locked, err := s.f.svc.Period.IsDateLocked(s.ctx, s.f.templeID, day(2025, 4, 15))
	require.NoError(s.T(), err)
	assert.True(s.T(), locked)
	locked, err = s.f.svc.Period.IsDateLocked(s.ctx, s.f.templeID, day(2025, 5, 1))
	require.NoError(s.T(), err)
	assert.False(s.T(), locked)

	_, err = s.f.svc.Journal.CreateEntry(s.ctx, s.f.templeID,
		s.f.entryRequest(day(2025, 4, 30), "Late receipt", "1100", "4100", "100"), testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrPeriodClosed)

	_, err = s.f.svc.Period.CloseMonth(s.ctx, s.f.templeID, dto.CloseMonthRequest{ClosingDate: day(2025, 4, 30)}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicate)
}

func (s *PeriodServiceTestSuite) TestCloseMonth_RejectsBadDates() {
	cases := map[string]dto.CloseMonthRequest{
		"not a month end": {ClosingDate: day(2025, 4, 29)},
		"month not over":  {ClosingDate: day(2026, 5, 31)},
	}
	for name, req := range cases {
		s.Run(name, func() {
			_, err := s.f.svc.Period.CloseMonth(s.ctx, s.f.templeID, req, testUser)
			assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
		})
	}
}

func (s *PeriodServiceTestSuite) TestCloseYear_NeedsEveryMonthClosed() {
	s.f.closeMonths(s.T(), 2025, day(2025, 12, 31))

	_, err := s.f.svc.Period.CloseYear(s.ctx, s.f.templeID, dto.CloseYearRequest{FiscalYear: 2025}, testUser)
	require.ErrorIs(s.T(), err, apperrors.ErrPrecedingMonthsOpen)
	assert.Contains(s.T(), err.Error(), "Jan 2026, Feb 2026, Mar 2026")
	assert.NotContains(s.T(), err.Error(), "Dec 2025")
}

func (s *PeriodServiceTestSuite) TestCloseYear() {
	s.f.closeMonths(s.T(), 2025, day(2026, 3, 31))
	auditBefore := len(s.f.audit.records)

	closing, err := s.f.svc.Period.CloseYear(s.ctx, s.f.templeID, dto.CloseYearRequest{FiscalYear: 2025}, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.YearEnd, closing.ClosingType)
	assert.Equal(s.T(), day(2025, 4, 1), closing.PeriodStart)
	assert.Equal(s.T(), day(2026, 3, 31), closing.ClosingDate)
	assert.True(s.T(), closing.TotalIncome.Equal(amt("12000")))
	assert.True(s.T(), closing.TotalExpense.Equal(amt("5500")))
	assert.True(s.T(), closing.NetSurplus.Equal(amt("6500")))
	require.NotEmpty(s.T(), closing.ClosingEntryID)

	entry, err := s.f.svc.Journal.GetEntry(s.ctx, s.f.templeID, closing.ClosingEntryID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.ReferencePeriodClosing, entry.Entry.ReferenceType)
	assert.Equal(s.T(), "FY2025-26", entry.Entry.ReferenceNumber)
	assert.Equal(s.T(), day(2026, 3, 31), entry.Entry.EntryDate)
	assert.Equal(s.T(), int64(4), entry.Entry.EntryNumber)

	byCode := make(map[string]domain.JournalLine, len(entry.Lines))
	for _, l := range entry.Lines {
		for code, acc := range s.f.accounts {
			if acc.AccountID == l.AccountID {
				byCode[code] = l
			}
		}
	}
	require.Len(s.T(), byCode, 4)
	assert.True(s.T(), byCode["4110"].Debit.Equal(amt("12000")))
	assert.True(s.T(), byCode["5200"].Credit.Equal(amt("4000")))
	assert.True(s.T(), byCode["5300"].Credit.Equal(amt("1500")))
	assert.True(s.T(), byCode["3100"].Credit.Equal(amt("6500")))
	assert.Equal(s.T(), "Surplus transferred to General Fund", byCode["3100"].Description)

	totals, err := s.f.repos.ReportingRepo.SumByAccount(s.ctx, s.f.templeID, domain.LineFilter{To: day(2026, 3, 31)})
	require.NoError(s.T(), err)
	for _, tot := range totals {
		if tot.AccountID == s.f.id("4110") {
			assert.True(s.T(), tot.Debit.Equal(tot.Credit), "income is zeroed by the closing")
		}
	}

	require.Len(s.T(), s.f.audit.records, auditBefore+1)
	assert.Equal(s.T(), domain.AuditCloseYear, s.f.audit.records[auditBefore].Action)

	verify, err := s.f.svc.Integrity.VerifyChain(s.ctx, s.f.templeID)
	require.NoError(s.T(), err)
	assert.True(s.T(), verify.Valid)
	assert.Equal(s.T(), 4, verify.EntriesChecked)

	closings, err := s.f.svc.Period.ListClosings(s.ctx, s.f.templeID, 2025)
	require.NoError(s.T(), err)
	assert.Len(s.T(), closings, 13)

	_, err = s.f.svc.Period.CloseYear(s.ctx, s.f.templeID, dto.CloseYearRequest{FiscalYear: 2025}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicate)

	_, err = s.f.svc.Journal.CreateEntry(s.ctx, s.f.templeID,
		s.f.entryRequest(day(2025, 9, 1), "Backdated receipt", "1100", "4100", "100"), testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrPeriodClosed)

	reopen := day(2026, 4, 2)
	_, err = s.f.svc.Journal.ReverseEntry(s.ctx, s.f.templeID, closing.ClosingEntryID,
		dto.ReverseEntryRequest{Reason: "undo", ReversalDate: &reopen}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *PeriodServiceTestSuite) TestCloseYear_FundAccount() {
	s.f.closeMonths(s.T(), 2025, day(2026, 3, 31))

	_, err := s.f.svc.Period.CloseYear(s.ctx, s.f.templeID,
		dto.CloseYearRequest{FiscalYear: 2025, FundAccountID: s.f.id("1110")}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation, "surplus must go to equity")

	closing, err := s.f.svc.Period.CloseYear(s.ctx, s.f.templeID,
		dto.CloseYearRequest{FiscalYear: 2025, FundAccountID: s.f.id("3200")}, testUser)
	require.NoError(s.T(), err)
	entry, err := s.f.svc.Journal.GetEntry(s.ctx, s.f.templeID, closing.ClosingEntryID)
	require.NoError(s.T(), err)
	fund := entry.Lines[len(entry.Lines)-1]
	assert.Equal(s.T(), s.f.id("3200"), fund.AccountID)
	assert.True(s.T(), fund.Credit.Equal(amt("6500")))
}

func TestCloseYear_Deficit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.post(t, day(2025, 8, 20), "Festival decoration", "5400", "1100", "3000")
	f.closeMonths(t, 2025, day(2026, 3, 31))

	closing, err := f.svc.Period.CloseYear(ctx, f.templeID, dto.CloseYearRequest{FiscalYear: 2025}, testUser)
	require.NoError(t, err)
	assert.True(t, closing.NetSurplus.Equal(amt("-3000")))

	entry, err := f.svc.Journal.GetEntry(ctx, f.templeID, closing.ClosingEntryID)
	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, f.id("3100"), entry.Lines[1].AccountID)
	assert.True(t, entry.Lines[1].Debit.Equal(amt("3000")))
	assert.True(t, entry.Lines[1].Credit.Equal(decimal.Zero))
	assert.Equal(t, "Deficit charged to General Fund", entry.Lines[1].Description)
}

func TestCloseYear_QuietYearPostsNothing(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.closeMonths(t, 2025, day(2026, 3, 31))

	closing, err := f.svc.Period.CloseYear(ctx, f.templeID, dto.CloseYearRequest{FiscalYear: 2025}, testUser)
	require.NoError(t, err)
	assert.Empty(t, closing.ClosingEntryID)
	assert.True(t, closing.NetSurplus.IsZero())

	all, err := f.svc.Period.ListClosings(ctx, f.templeID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 13)
}
