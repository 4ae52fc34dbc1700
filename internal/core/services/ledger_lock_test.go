package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/temple_ledger/internal/core/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// txCallLog records the order of transactional calls.
type txCallLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *txCallLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *txCallLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = nil
}

func (l *txCallLog) indexOf(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, c := range l.calls {
		if c == name {
			return i
		}
	}
	return -1
}

type loggingJournalRepo struct {
	portsrepo.JournalRepositoryWithTx
	log *txCallLog
}

func (r *loggingJournalRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.JournalRepositoryWithTx.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return fn(ctx, &loggingTx{LedgerTx: tx, log: r.log})
	})
}

type loggingTx struct {
	portsrepo.LedgerTx
	log *txCallLog
}

func (t *loggingTx) LockLedgerHead(ctx context.Context, templeID string) (domain.LedgerHead, error) {
	t.log.add("LockLedgerHead")
	return t.LedgerTx.LockLedgerHead(ctx, templeID)
}

func (t *loggingTx) IsDateLocked(ctx context.Context, templeID string, date time.Time) (bool, error) {
	t.log.add("IsDateLocked")
	return t.LedgerTx.IsDateLocked(ctx, templeID, date)
}

func (t *loggingTx) InsertEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	t.log.add("InsertEntry")
	return t.LedgerTx.InsertEntry(ctx, entry, lines)
}

func (t *loggingTx) SumByAccount(ctx context.Context, templeID string, filter domain.LineFilter) ([]domain.AccountTotals, error) {
	t.log.add("SumByAccount")
	return t.LedgerTx.SumByAccount(ctx, templeID, filter)
}

func (t *loggingTx) SaveClosing(ctx context.Context, closing domain.PeriodClosing) error {
	t.log.add("SaveClosing")
	return t.LedgerTx.SaveClosing(ctx, closing)
}

// Posting and closing both take the ledger head lock before reading period locks or totals,
// so on PostgreSQL a month close cannot slip in between an entry's lock check and its commit.
func TestLedgerHeadLockPrecedesPeriodChecks(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	log := &txCallLog{}
	repo := &loggingJournalRepo{JournalRepositoryWithTx: f.repos.JournalRepo, log: log}
	clock := services.WithClock(func() time.Time { return fixedNow })
	scoped := services.WithTempleAuthorizer(services.NewTempleAuthorizer(f.repos.TempleRepo))
	journal := services.NewJournalService(repo, f.svc.Account, f.hasher, f.audit, scoped, clock)
	period := services.NewPeriodService(f.repos.PeriodRepo, repo, f.svc.Account, f.hasher, f.audit, scoped, clock)

	entry, err := journal.CreateEntry(ctx, f.templeID, f.entryRequest(day(2025, 4, 10), "Hundi counting", "1110", "4110", "5000"), testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, log.indexOf("LockLedgerHead"), "create")
	assert.Greater(t, log.indexOf("IsDateLocked"), 0, "create")
	assert.Greater(t, log.indexOf("InsertEntry"), log.indexOf("IsDateLocked"), "create")

	log.reset()
	_, err = journal.ReverseEntry(ctx, f.templeID, entry.Entry.EntryID, dto.ReverseEntryRequest{Reason: "counted twice"}, testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, log.indexOf("LockLedgerHead"), "reverse")
	assert.Greater(t, log.indexOf("IsDateLocked"), 0, "reverse")

	log.reset()
	closing, err := period.CloseMonth(ctx, f.templeID, dto.CloseMonthRequest{ClosingDate: day(2025, 4, 30)}, testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"LockLedgerHead", "SumByAccount", "SaveClosing"}, log.calls)
	assert.True(t, closing.TotalIncome.IsZero(), "the entry and its reversal net to zero")

	log.reset()
	_, err = journal.CreateEntry(ctx, f.templeID, f.entryRequest(day(2025, 4, 30), "Late receipt", "1100", "4100", "100"), testUser)
	require.Error(t, err)
	assert.Equal(t, []string{"LockLedgerHead", "IsDateLocked"}, log.calls)
}

func TestCloseMonth_SnapshotMatchesTransactionalTotals(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.post(t, day(2025, 5, 3), "Annadanam donation", "1110", "4110", "2100")
	f.post(t, day(2025, 5, 9), "Priest honorarium", "5200", "1110", "700")
	f.post(t, day(2025, 6, 1), "June hundi", "1110", "4110", "999")

	closing, err := f.svc.Period.CloseMonth(ctx, f.templeID, dto.CloseMonthRequest{ClosingDate: day(2025, 5, 31)}, testUser)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 5, 1), closing.PeriodStart)
	assert.True(t, closing.TotalIncome.Equal(amt("2100")))
	assert.True(t, closing.TotalExpense.Equal(amt("700")))
	assert.True(t, closing.NetSurplus.Equal(amt("1400")))
}
