package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/core/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/SscSPs/temple_ledger/internal/repositories/memory"
	"github.com/SscSPs/temple_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUser = "user-accountant"

// fixedNow is late enough that every fiscal 2025-26 month can be closed.
var fixedNow = time.Date(2026, time.May, 20, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// recordingAudit is an in-memory audit artifact that can be told to fail.
type recordingAudit struct {
	mu      sync.Mutex
	records []domain.AuditRecord
	fail    bool
}

var _ portsrepo.AuditLog = (*recordingAudit)(nil)

func (a *recordingAudit) Append(_ context.Context, record domain.AuditRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return errors.New("disk full")
	}
	a.records = append(a.records, record)
	return nil
}

func (a *recordingAudit) ReadAll(_ context.Context, templeID string) ([]domain.AuditRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := make([]domain.AuditRecord, 0, len(a.records))
	for _, r := range a.records {
		if r.TempleID == templeID {
			res = append(res, r)
		}
	}
	return res, nil
}

func (a *recordingAudit) Close() error { return nil }

// ledgerFixture wires every service over one memory store with a seeded temple.
type ledgerFixture struct {
	store    *memory.Store
	audit    *recordingAudit
	hasher   *accounting.ChainHasher
	repos    portsrepo.RepositoryProvider
	svc      portssvc.ServiceContainer
	templeID string
	accounts map[string]domain.Account // by code
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx := context.Background()

	f := &ledgerFixture{
		store: memory.NewStore(),
		audit: &recordingAudit{},
	}
	f.repos = f.store.Provider(f.audit)
	hasher, err := accounting.NewChainHasher(accounting.HashSHA256)
	require.NoError(t, err)
	f.hasher = hasher

	clock := services.WithClock(func() time.Time { return fixedNow })
	scoped := services.WithTempleAuthorizer(services.NewTempleAuthorizer(f.repos.TempleRepo))

	f.svc.Account = services.NewAccountService(f.repos.AccountRepo, scoped, clock)
	f.svc.Temple = services.NewTempleService(f.repos.TempleRepo, f.svc.Account, clock)
	f.svc.Journal = services.NewJournalService(f.repos.JournalRepo, f.svc.Account, hasher, f.audit, scoped, clock)
	f.svc.Integrity = services.NewIntegrityService(f.repos.TempleRepo, f.repos.JournalRepo, f.audit, hasher, scoped, clock)
	f.svc.Reporting = services.NewReportingService(f.repos.ReportingRepo, f.svc.Account, scoped, clock)
	f.svc.Reconciliation = services.NewReconciliationService(
		f.repos.StatementRepo, f.repos.JournalRepo, f.repos.ReportingRepo, f.svc.Account, nil,
		services.ReconciliationSettings{Tolerance: decimal.Zero, MatchWindowDays: 3},
		scoped, clock)
	f.svc.Period = services.NewPeriodService(f.repos.PeriodRepo, f.repos.JournalRepo, f.svc.Account, hasher, f.audit, scoped, clock)

	temple, err := f.svc.Temple.CreateTemple(ctx, dto.CreateTempleRequest{Name: "Sri Venkateswara Temple", SeedDefaultChart: true}, testUser)
	require.NoError(t, err)
	f.templeID = temple.TempleID

	accounts, err := f.svc.Account.ListAccounts(ctx, f.templeID)
	require.NoError(t, err)
	f.accounts = make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		f.accounts[a.Code] = a
	}
	return f
}

func (f *ledgerFixture) id(code string) string {
	acc, ok := f.accounts[code]
	if !ok {
		panic("no account with code " + code)
	}
	return acc.AccountID
}

// post books a two-line entry debiting one account and crediting another.
func (f *ledgerFixture) post(t *testing.T, date time.Time, narration, debitCode, creditCode, amount string) *domain.EntryWithLines {
	t.Helper()
	entry, err := f.svc.Journal.CreateEntry(context.Background(), f.templeID, f.entryRequest(date, narration, debitCode, creditCode, amount), testUser)
	require.NoError(t, err)
	return entry
}

func (f *ledgerFixture) entryRequest(date time.Time, narration, debitCode, creditCode, amount string) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntryDate: date,
		Narration: narration,
		Lines: []dto.CreateLineRequest{
			{AccountID: f.id(debitCode), Debit: amt(amount), Credit: decimal.Zero},
			{AccountID: f.id(creditCode), Debit: decimal.Zero, Credit: amt(amount)},
		},
	}
}

// closeMonths closes every month of the fiscal year from April through the given month end.
func (f *ledgerFixture) closeMonths(t *testing.T, fiscalYear int, through time.Time) {
	t.Helper()
	temple := domain.Temple{FiscalYearStartMonth: time.April}
	for _, monthEnd := range temple.FiscalMonths(fiscalYear) {
		if monthEnd.After(through) {
			return
		}
		_, err := f.svc.Period.CloseMonth(context.Background(), f.templeID, dto.CloseMonthRequest{ClosingDate: monthEnd}, testUser)
		require.NoError(t, err)
	}
}
