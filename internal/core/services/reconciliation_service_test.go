package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/core/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	f      *ledgerFixture
	salary *domain.EntryWithLines
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.f = newLedgerFixture(s.T())
	t := s.T()

	s.f.post(t, day(2025, 4, 28), "Corpus deposited", "1200", "3100", "50000")
	s.f.post(t, day(2025, 5, 3), "Donation deposited", "1200", "4100", "5000")
	s.f.post(t, day(2025, 5, 10), "Electricity bill paid", "5300", "1200", "1800")
	s.salary = s.f.post(t, day(2025, 5, 20), "Salary cheque 000451", "5200", "1200", "15000")
}

func balance(v string) *decimal.Decimal {
	d := amt(v)
	return &d
}

func (s *ReconciliationServiceTestSuite) mayStatement() dto.ImportStatementRequest {
	return dto.ImportStatementRequest{
		AccountID:      s.f.id("1200"),
		PeriodStart:    day(2025, 5, 1),
		PeriodEnd:      day(2025, 5, 31),
		OpeningBalance: amt("50000"),
		ClosingBalance: amt("53351"),
		Rows: []dto.StatementRowRequest{
			{Date: day(2025, 5, 4), Description: "CASH DEP BRANCH", Credit: amt("5000"), Balance: balance("55000")},
			{Date: day(2025, 5, 11), Description: "TNEB BILL PAY", Debit: amt("1800"), Balance: balance("53200")},
			{Date: day(2025, 5, 31), Description: "Interest credited", Credit: amt("210"), Balance: balance("53410")},
			{Date: day(2025, 5, 31), Description: "SMS Alert charges", Debit: amt("59"), Balance: balance("53351")},
		},
	}
}

func (s *ReconciliationServiceTestSuite) importMay() *domain.StatementWithEntries {
	st, err := s.f.svc.Reconciliation.ImportStatement(s.ctx, s.f.templeID, s.mayStatement(), testUser)
	require.NoError(s.T(), err)
	return st
}

func (s *ReconciliationServiceTestSuite) TestImportStatement() {
	st := s.importMay()

	assert.Equal(s.T(), domain.StatementImported, st.Statement.Status)
	assert.False(s.T(), st.Statement.BalanceMismatch)
	assert.True(s.T(), st.Statement.ComputedClosingBalance.Equal(amt("53351")))
	require.Len(s.T(), st.Entries, 4)
	assert.Equal(s.T(), domain.Deposit, st.Entries[0].EntryType)
	assert.Equal(s.T(), domain.Withdrawal, st.Entries[1].EntryType)
	assert.Equal(s.T(), domain.Interest, st.Entries[2].EntryType)
	assert.Equal(s.T(), domain.Charge, st.Entries[3].EntryType)

	stored, err := s.f.svc.Reconciliation.GetStatement(s.ctx, s.f.templeID, st.Statement.StatementID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), stored.Entries, 4)
	assert.Equal(s.T(), 1, stored.Entries[0].RowNo)

	list, err := s.f.svc.Reconciliation.ListStatements(s.ctx, s.f.templeID, s.f.id("1200"))
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)
}

func (s *ReconciliationServiceTestSuite) TestImportStatement_FlagsBalanceMismatch() {
	req := s.mayStatement()
	req.Rows[1].Balance = balance("53300")
	req.ClosingBalance = amt("53000")

	st, err := s.f.svc.Reconciliation.ImportStatement(s.ctx, s.f.templeID, req, testUser)
	require.NoError(s.T(), err, "mismatches are flagged, not rejected")
	assert.True(s.T(), st.Statement.BalanceMismatch)
	assert.False(s.T(), st.Entries[0].BalanceMismatch)
	assert.True(s.T(), st.Entries[1].BalanceMismatch)
	assert.True(s.T(), st.Entries[1].ComputedBalance.Equal(amt("53200")))
}

func (s *ReconciliationServiceTestSuite) TestImportStatement_AllOrNothing() {
	req := s.mayStatement()
	req.Rows[3].Date = day(2025, 6, 1)

	_, err := s.f.svc.Reconciliation.ImportStatement(s.ctx, s.f.templeID, req, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	req = s.mayStatement()
	req.Rows[2].Debit = amt("1")
	_, err = s.f.svc.Reconciliation.ImportStatement(s.ctx, s.f.templeID, req, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	list, err := s.f.svc.Reconciliation.ListStatements(s.ctx, s.f.templeID, "")
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), list)
	assert.Empty(s.T(), list)
}

func (s *ReconciliationServiceTestSuite) TestImportStatement_RequiresBankAccount() {
	req := s.mayStatement()
	req.AccountID = s.f.id("1100")
	_, err := s.f.svc.Reconciliation.ImportStatement(s.ctx, s.f.templeID, req, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *ReconciliationServiceTestSuite) TestAutoMatchAndComplete() {
	st := s.importMay()
	id := st.Statement.StatementID

	matched, err := s.f.svc.Reconciliation.AutoMatch(s.ctx, s.f.templeID, id, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, matched, "deposit and bill have a single candidate each")

	summary, err := s.f.svc.Reconciliation.Summary(s.ctx, s.f.templeID, id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, summary.MatchedCount)
	assert.Equal(s.T(), 4, summary.TotalCount)
	assert.True(s.T(), summary.BookBalance.Equal(amt("38200")))
	assert.True(s.T(), summary.BankBalance.Equal(amt("53351")))
	assert.True(s.T(), summary.Difference.Equal(amt("-15151")))
	require.Len(s.T(), summary.ReconcilingItems, 3)
	assert.Equal(s.T(), "book", summary.ReconcilingItems[0].Source)
	assert.True(s.T(), summary.ReconcilingItems[0].Amount.Equal(amt("-15000")))

	// book the bank's own items and pair them by hand
	interest := s.f.post(s.T(), day(2025, 5, 31), "Interest for May", "1200", "4900", "210")
	charges := s.f.post(s.T(), day(2025, 5, 31), "SMS alert charges", "5900", "1200", "59")
	_, err = s.f.svc.Reconciliation.Match(s.ctx, s.f.templeID, id, dto.MatchRequest{
		StatementEntryID: st.Entries[2].StatementEntryID, LineID: interest.Lines[0].LineID,
	}, testUser)
	require.NoError(s.T(), err)
	row, err := s.f.svc.Reconciliation.Match(s.ctx, s.f.templeID, id, dto.MatchRequest{
		StatementEntryID: st.Entries[3].StatementEntryID, LineID: charges.Lines[1].LineID,
	}, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), charges.Lines[1].LineID, row.MatchedLineID)
	assert.Equal(s.T(), testUser, row.MatchedBy)

	summary, err = s.f.svc.Reconciliation.Complete(s.ctx, s.f.templeID, id, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReconciliationMismatch, "the salary cheque has not cleared")
	require.NotNil(s.T(), summary)
	assert.True(s.T(), summary.Difference.Equal(amt("-15000")))
	require.Len(s.T(), summary.ReconcilingItems, 1)
	assert.Equal(s.T(), s.salary.Lines[1].LineID, summary.ReconcilingItems[0].ID)

	_, err = s.f.svc.Journal.ReverseEntry(s.ctx, s.f.templeID, s.salary.Entry.EntryID, dto.ReverseEntryRequest{Reason: "cheque cancelled"}, testUser)
	require.NoError(s.T(), err)

	summary, err = s.f.svc.Reconciliation.Complete(s.ctx, s.f.templeID, id, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatementCompleted, summary.Status)
	assert.True(s.T(), summary.Difference.IsZero())

	stored, err := s.f.svc.Reconciliation.GetStatement(s.ctx, s.f.templeID, id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatementCompleted, stored.Statement.Status)
	require.NotNil(s.T(), stored.Statement.CompletedAt)

	_, err = s.f.svc.Reconciliation.Complete(s.ctx, s.f.templeID, id, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrConflict)
	err = s.f.svc.Reconciliation.Unmatch(s.ctx, s.f.templeID, id, st.Entries[0].StatementEntryID, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReconciliationConflict, "completed statements are frozen")
}

func (s *ReconciliationServiceTestSuite) TestMatch_Rules() {
	st := s.importMay()
	id := st.Statement.StatementID
	deposit := st.Entries[0]

	lines, err := s.f.repos.ReportingRepo.ListPostedLines(s.ctx, s.f.templeID, domain.LineFilter{
		From: day(2025, 5, 1), To: day(2025, 5, 31), AccountIDs: []string{s.f.id("1200")},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), lines, 3)
	donationLine, billLine := lines[0], lines[1]

	_, err = s.f.svc.Reconciliation.Match(s.ctx, s.f.templeID, id, dto.MatchRequest{StatementEntryID: deposit.StatementEntryID, LineID: billLine.LineID}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReconciliationConflict, "a deposit cannot pair with a payment")

	_, err = s.f.svc.Reconciliation.Match(s.ctx, s.f.templeID, id, dto.MatchRequest{StatementEntryID: st.Entries[1].StatementEntryID, LineID: s.salary.Lines[1].LineID}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReconciliationConflict, "amounts differ")

	_, err = s.f.svc.Reconciliation.Match(s.ctx, s.f.templeID, id, dto.MatchRequest{StatementEntryID: deposit.StatementEntryID, LineID: s.salary.Lines[0].LineID}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReconciliationConflict, "line is on the salary account, not the bank")

	_, err = s.f.svc.Reconciliation.Match(s.ctx, s.f.templeID, id, dto.MatchRequest{StatementEntryID: deposit.StatementEntryID, LineID: donationLine.LineID}, testUser)
	require.NoError(s.T(), err)

	_, err = s.f.svc.Reconciliation.Match(s.ctx, s.f.templeID, id, dto.MatchRequest{StatementEntryID: deposit.StatementEntryID, LineID: donationLine.LineID}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReconciliationConflict, "row already matched")

	second := s.mayStatement()
	second.Rows = second.Rows[:1]
	second.ClosingBalance = amt("55000")
	other, err := s.f.svc.Reconciliation.ImportStatement(s.ctx, s.f.templeID, second, testUser)
	require.NoError(s.T(), err)
	_, err = s.f.svc.Reconciliation.Match(s.ctx, s.f.templeID, other.Statement.StatementID, dto.MatchRequest{
		StatementEntryID: other.Entries[0].StatementEntryID, LineID: donationLine.LineID,
	}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReconciliationConflict, "a line pairs with one row only")

	require.NoError(s.T(), s.f.svc.Reconciliation.Unmatch(s.ctx, s.f.templeID, id, deposit.StatementEntryID, testUser))
	err = s.f.svc.Reconciliation.Unmatch(s.ctx, s.f.templeID, id, deposit.StatementEntryID, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	_, err = s.f.svc.Reconciliation.Match(s.ctx, s.f.templeID, other.Statement.StatementID, dto.MatchRequest{
		StatementEntryID: other.Entries[0].StatementEntryID, LineID: donationLine.LineID,
	}, testUser)
	assert.NoError(s.T(), err, "the line is free again after unmatching")
}

func (s *ReconciliationServiceTestSuite) TestAutoMatch_SkipsAmbiguousRows() {
	s.f.post(s.T(), day(2025, 5, 5), "Second donation deposited", "1200", "4100", "5000")
	st := s.importMay()

	matched, err := s.f.svc.Reconciliation.AutoMatch(s.ctx, s.f.templeID, st.Statement.StatementID, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, matched, "two 5000 deposits near the row leave it for manual matching")
}

func (s *ReconciliationServiceTestSuite) TestMatch_Tolerance() {
	svc := services.NewReconciliationService(
		s.f.repos.StatementRepo, s.f.repos.JournalRepo, s.f.repos.ReportingRepo, s.f.svc.Account, nil,
		services.ReconciliationSettings{Tolerance: amt("1.00"), MatchWindowDays: 3},
		services.WithTempleAuthorizer(services.NewTempleAuthorizer(s.f.repos.TempleRepo)),
		services.WithClock(func() time.Time { return fixedNow }))

	req := s.mayStatement()
	req.Rows[1].Debit = amt("1800.75")
	req.Rows[1].Balance = nil
	st, err := svc.ImportStatement(s.ctx, s.f.templeID, req, testUser)
	require.NoError(s.T(), err)

	matched, err := svc.AutoMatch(s.ctx, s.f.templeID, st.Statement.StatementID, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, matched)
}

type stubParser struct {
	rows []domain.StatementRow
	err  error
	got  string
}

func (p *stubParser) Parse(format string, r io.Reader) ([]domain.StatementRow, error) {
	p.got = format
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	return p.rows, p.err
}

func TestImportStatementFile(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	parser := &stubParser{rows: []domain.StatementRow{
		{Date: day(2025, 5, 4), Description: "NEFT donor", Credit: amt("1001")},
		{Date: day(2025, 5, 6), Description: "Service charge", Debit: amt("11.80")},
	}}
	svc := services.NewReconciliationService(
		f.repos.StatementRepo, f.repos.JournalRepo, f.repos.ReportingRepo, f.svc.Account, parser,
		services.ReconciliationSettings{MatchWindowDays: 3},
		services.WithTempleAuthorizer(services.NewTempleAuthorizer(f.repos.TempleRepo)))

	req := dto.ImportStatementFileRequest{
		AccountID:      f.id("1210"),
		PeriodStart:    "2025-05-01",
		PeriodEnd:      "2025-05-31",
		OpeningBalance: "0",
		ClosingBalance: "989.20",
	}
	st, err := svc.ImportStatementFile(ctx, f.templeID, req, strings.NewReader("ignored"), testUser)
	require.NoError(t, err)
	assert.Equal(t, services.DefaultStatementFormat, parser.got)
	assert.Equal(t, services.DefaultStatementFormat, st.Statement.SourceFormat)
	assert.False(t, st.Statement.BalanceMismatch)
	assert.Equal(t, domain.Charge, st.Entries[1].EntryType)

	req.PeriodEnd = "31/05/2025"
	_, err = svc.ImportStatementFile(ctx, f.templeID, req, strings.NewReader(""), testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	req.PeriodEnd = "2025-05-31"
	parser.err = errors.New("line 3: bad amount")
	_, err = svc.ImportStatementFile(ctx, f.templeID, req, strings.NewReader(""), testUser)
	assert.EqualError(t, err, "line 3: bad amount")

	_, err = f.svc.Reconciliation.ImportStatementFile(ctx, f.templeID, req, strings.NewReader(""), testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "no parser configured")
}
