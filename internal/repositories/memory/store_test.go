package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/temple_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func on(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

// insert chains an entry with a cash debit and income credit of amount.
func insert(t *testing.T, store *memory.Store, id string, date time.Time, status domain.EntryStatus, refType, amount string) {
	t.Helper()
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		head, err := tx.LockLedgerHead(ctx, "t1")
		if err != nil {
			return err
		}
		entry := domain.JournalEntry{
			EntryID: id, TempleID: "t1", ChainSeq: head.LastChainSeq + 1,
			EntryDate: date, Status: status, ReferenceType: refType,
		}
		a := decimal.RequireFromString(amount)
		lines := []domain.JournalLine{
			{LineID: id + "-1", EntryID: id, LineNo: 1, AccountID: "cash", Debit: a, Credit: decimal.Zero},
			{LineID: id + "-2", EntryID: id, LineNo: 2, AccountID: "income", Debit: decimal.Zero, Credit: a},
		}
		if err := tx.InsertEntry(ctx, entry, lines); err != nil {
			return err
		}
		return tx.AdvanceLedgerHead(ctx, domain.LedgerHead{TempleID: "t1", LastChainSeq: entry.ChainSeq, LastHash: id})
	})
	require.NoError(t, err)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	insert(t, store, "e1", on(4, 1), domain.Posted, "", "100")

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		n, err := tx.NextEntryNumber(ctx, "t1", 2025)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, tx.InsertEntry(ctx, domain.JournalEntry{EntryID: "e2", TempleID: "t1", ChainSeq: 2, Status: domain.Posted}, nil))
		require.NoError(t, tx.AdvanceLedgerHead(ctx, domain.LedgerHead{TempleID: "t1", LastChainSeq: 2, LastHash: "e2"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.FindEntryByID(ctx, "t1", "e2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	head, err := store.FindLedgerHead(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), head.LastChainSeq)

	err = store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		n, err := tx.NextEntryNumber(ctx, "t1", 2025)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, "the rolled back number is handed out again")
		return nil
	})
	require.NoError(t, err)
}

func TestWithinTx_CancelledContext(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := store.WithinTx(ctx, func(context.Context, portsrepo.LedgerTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestAdvanceLedgerHead_RejectsSkips(t *testing.T) {
	store := memory.NewStore()
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.LockLedgerHead(ctx, "t1"); err != nil {
			return err
		}
		return tx.AdvanceLedgerHead(ctx, domain.LedgerHead{TempleID: "t1", LastChainSeq: 2})
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	head, err := store.FindLedgerHead(context.Background(), "t1")
	require.NoError(t, err)
	assert.Nil(t, head, "the lock itself is rolled back")
}

func TestPostedLines_Filters(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	insert(t, store, "e1", on(4, 1), domain.Posted, "", "100")
	insert(t, store, "e2", on(4, 15), domain.Reversed, "", "40")
	insert(t, store, "e3", on(4, 15), domain.Draft, "", "7")
	insert(t, store, "e4", on(4, 30), domain.Posted, domain.ReferencePeriodClosing, "25")

	all, err := store.ListPostedLines(ctx, "t1", domain.LineFilter{})
	require.NoError(t, err)
	require.Len(t, all, 6, "drafts never count")
	assert.Equal(t, "e1-1", all[0].LineID)
	assert.Equal(t, "e4-2", all[5].LineID)

	ranged, err := store.ListPostedLines(ctx, "t1", domain.LineFilter{From: on(4, 2), To: on(4, 15), AccountIDs: []string{"cash"}})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "e2-1", ranged[0].LineID)
	assert.Equal(t, domain.Reversed, ranged[0].Status)

	totals, err := store.SumByAccount(ctx, "t1", domain.LineFilter{ExcludeReferenceTypes: []string{domain.ReferencePeriodClosing}})
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "cash", totals[0].AccountID)
	assert.True(t, totals[0].Debit.Equal(decimal.NewFromInt(140)))
	assert.True(t, totals[1].Credit.Equal(decimal.NewFromInt(140)))

	other, err := store.ListPostedLines(ctx, "t2", domain.LineFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListChain_Paged(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	for i, id := range []string{"e1", "e2", "e3"} {
		insert(t, store, id, on(5, 3-i), domain.Posted, "", "1")
	}

	page, err := store.ListChain(ctx, "t1", 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "e1", page[0].EntryID, "chain order ignores entry dates")
	page, err = store.ListChain(ctx, "t1", page[1].ChainSeq, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(3), page[0].ChainSeq)
}

func TestClosings(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	april := domain.PeriodClosing{
		ClosingID: "c1", TempleID: "t1", FiscalYear: 2025, ClosingType: domain.MonthEnd,
		PeriodStart: on(4, 1), ClosingDate: on(4, 30), Status: domain.ClosingStatusClosed,
	}
	require.NoError(t, store.SaveClosing(ctx, april))

	dup := april
	dup.ClosingID = "c2"
	assert.ErrorIs(t, store.SaveClosing(ctx, dup), apperrors.ErrDuplicate)

	locked, err := store.IsDateLocked(ctx, "t1", on(4, 30))
	require.NoError(t, err)
	assert.True(t, locked)
	locked, err = store.IsDateLocked(ctx, "t1", on(5, 1))
	require.NoError(t, err)
	assert.False(t, locked)
	locked, err = store.IsDateLocked(ctx, "t2", on(4, 10))
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestStatementMatching(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	st := domain.BankStatement{StatementID: "s1", TempleID: "t1", AccountID: "bank", Status: domain.StatementImported}
	rows := []domain.StatementEntry{
		{StatementEntryID: "r1", StatementID: "s1", RowNo: 1},
		{StatementEntryID: "r2", StatementID: "s1", RowNo: 2},
	}
	require.NoError(t, store.SaveStatement(ctx, st, rows))

	at := on(5, 31)
	require.NoError(t, store.MatchEntry(ctx, "r1", "line-1", "u1", at))
	assert.ErrorIs(t, store.MatchEntry(ctx, "r1", "line-2", "u1", at), apperrors.ErrReconciliationConflict)
	assert.ErrorIs(t, store.MatchEntry(ctx, "r2", "line-1", "u1", at), apperrors.ErrReconciliationConflict)

	matched, err := store.FindMatchedLineIDs(ctx, "bank")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"line-1": true}, matched)

	require.NoError(t, store.UnmatchEntry(ctx, "r1"))
	row, err := store.FindStatementEntryByID(ctx, "s1", "r1")
	require.NoError(t, err)
	assert.False(t, row.IsMatched())
	assert.Nil(t, row.MatchedAt)

	require.NoError(t, store.UpdateStatementStatus(ctx, "s1", domain.StatementCompleted, "u1", at))
	got, err := store.FindStatementByID(ctx, "t1", "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatementCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	_, err = store.FindStatementByID(ctx, "t2", "s1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerTx_SumByAccountMatchesStore(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	insert(t, store, "e1", on(4, 1), domain.Posted, "", "100")
	insert(t, store, "e2", on(4, 20), domain.Posted, "", "40.50")
	insert(t, store, "e3", on(5, 2), domain.Posted, "", "7")

	filter := domain.LineFilter{From: on(4, 1), To: on(4, 30)}
	outside, err := store.SumByAccount(ctx, "t1", filter)
	require.NoError(t, err)

	err = store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		inside, err := tx.SumByAccount(ctx, "t1", filter)
		require.NoError(t, err)
		assert.Equal(t, outside, inside)
		require.Len(t, inside, 2)
		assert.Equal(t, "cash", inside[0].AccountID)
		assert.True(t, inside[0].Debit.Equal(decimal.RequireFromString("140.50")))
		return nil
	})
	require.NoError(t, err)
}
