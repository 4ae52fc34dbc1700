package accounting

import (
	"testing"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(m time.Month, day int) time.Time { return time.Date(2025, m, day, 0, 0, 0, 0, time.UTC) }

var reportAccounts = []domain.Account{
	{AccountID: "cash", Code: "1100", Name: "Cash in Hand", AccountType: domain.Asset, Subtype: domain.SubtypeCash},
	{AccountID: "bank", Code: "1200", Name: "Bank - Savings Account", AccountType: domain.Asset, Subtype: domain.SubtypeBank},
	{AccountID: "building", Code: "1500", Name: "Temple Building", AccountType: domain.Asset, Subtype: domain.SubtypeFixedAsset},
	{AccountID: "payable", Code: "2100", Name: "Sundry Creditors", AccountType: domain.Liability, Subtype: domain.SubtypeOther},
	{AccountID: "fund", Code: "3100", Name: "General Fund", AccountType: domain.Equity, Subtype: domain.SubtypeFund},
	{AccountID: "hundi", Code: "4110", Name: "Hundi Income", AccountType: domain.Income, Subtype: domain.SubtypeIncome},
	{AccountID: "salary", Code: "5200", Name: "Salaries", AccountType: domain.Expense, Subtype: domain.SubtypeExpense},
}

func posted(entryID string, entryNo int64, on time.Time, narration, account string, debit, credit string) domain.PostedLine {
	return domain.PostedLine{
		JournalLine: domain.JournalLine{
			LineID:    entryID + "-" + account,
			EntryID:   entryID,
			AccountID: account,
			Debit:     d(debit),
			Credit:    d(credit),
		},
		EntryDate:   on,
		EntryNumber: entryNo,
		Narration:   narration,
		Status:      domain.Posted,
	}
}

func TestNetBalance(t *testing.T) {
	assert.True(t, NetBalance(domain.Asset, d("100"), d("30")).Equal(d("70")))
	assert.True(t, NetBalance(domain.Expense, d("0"), d("30")).Equal(d("-30")))
	assert.True(t, NetBalance(domain.Income, d("10"), d("30")).Equal(d("20")))
	assert.True(t, NetBalance(domain.Equity, d("0"), d("500")).Equal(d("500")))
}

func TestBuildTrialBalance(t *testing.T) {
	totals := []domain.AccountTotals{
		{AccountID: "hundi", Debit: d("0"), Credit: d("1200")},
		{AccountID: "cash", Debit: d("1500"), Credit: d("300")},
		{AccountID: "bank", Debit: d("300"), Credit: d("300")},
	}
	tb := BuildTrialBalance("temple-1", date(4, 30), reportAccounts, totals)

	require.Len(t, tb.Rows, 2, "accounts netting to zero are left out")
	assert.Equal(t, "1100", tb.Rows[0].Code)
	assert.True(t, tb.Rows[0].Debit.Equal(d("1200")))
	assert.True(t, tb.Rows[0].Credit.IsZero())
	assert.Equal(t, "4110", tb.Rows[1].Code)
	assert.True(t, tb.Rows[1].Credit.Equal(d("1200")))
	assert.True(t, tb.IsBalanced)
	assert.True(t, tb.Difference.IsZero())

	tb = BuildTrialBalance("temple-1", date(4, 30), reportAccounts, totals[:2])
	assert.True(t, tb.IsBalanced)
	tb = BuildTrialBalance("temple-1", date(4, 30), reportAccounts, []domain.AccountTotals{{AccountID: "cash", Debit: d("5"), Credit: d("0")}})
	assert.False(t, tb.IsBalanced)
	assert.True(t, tb.Difference.Equal(d("5")))
}

func TestBuildAccountLedger(t *testing.T) {
	lines := []domain.PostedLine{
		posted("e1", 1, date(4, 2), "Hundi", "hundi", "0", "1000"),
		posted("e1", 1, date(4, 2), "Hundi", "cash", "1000", "0"),
		posted("e2", 2, date(4, 9), "Refund of excess", "hundi", "100", "0"),
	}
	ledger := BuildAccountLedger(reportAccounts[5], date(4, 1), date(4, 30), d("250"), lines)

	require.Len(t, ledger.Rows, 2)
	assert.True(t, ledger.Rows[0].Balance.Equal(d("1250")))
	assert.True(t, ledger.Rows[1].Balance.Equal(d("1150")))
	assert.True(t, ledger.ClosingBalance.Equal(d("1150")))
	assert.True(t, ledger.TotalDebit.Equal(d("100")))
	assert.True(t, ledger.TotalCredit.Equal(d("1000")))
}

func TestBuildDayBook(t *testing.T) {
	lines := []domain.PostedLine{
		posted("e1", 1, date(4, 2), "Hundi", "cash", "1000", "0"),
		posted("e1", 1, date(4, 2), "Hundi", "hundi", "0", "1000"),
		posted("e2", 2, date(4, 2), "Deposit", "bank", "800", "0"),
		posted("e2", 2, date(4, 2), "Deposit", "cash", "0", "800"),
		posted("e3", 3, date(4, 5), "Salary", "salary", "500", "0"),
		posted("e3", 3, date(4, 5), "Salary", "bank", "0", "500"),
	}
	liquid := map[string]bool{"cash": true, "bank": true}
	book := BuildDayBook(date(4, 1), date(4, 30), reportAccounts, liquid, d("100"), lines)

	require.Len(t, book.Days, 2)
	first := book.Days[0]
	assert.Equal(t, date(4, 2), first.Date)
	assert.True(t, first.OpeningBalance.Equal(d("100")))
	require.Len(t, first.Entries, 2)
	assert.Equal(t, "Cash in Hand", first.Entries[0].Lines[0].AccountName)
	assert.True(t, first.TotalDebit.Equal(d("1800")))
	assert.True(t, first.ClosingBalance.Equal(d("1100")), "the deposit only moves money between liquid accounts")

	second := book.Days[1]
	assert.True(t, second.OpeningBalance.Equal(d("1100")))
	assert.True(t, second.ClosingBalance.Equal(d("600")))
	assert.True(t, book.ClosingBalance.Equal(d("600")))
	assert.True(t, book.TotalDebit.Equal(book.TotalCredit))

	empty := BuildDayBook(date(4, 1), date(4, 30), reportAccounts, liquid, d("100"), nil)
	assert.NotNil(t, empty.Days)
	assert.True(t, empty.ClosingBalance.Equal(d("100")))
}

func TestBuildCashBook(t *testing.T) {
	lines := []domain.PostedLine{
		posted("e1", 1, date(4, 2), "Hundi", "cash", "1000", "0"),
		posted("e1", 1, date(4, 2), "Hundi", "hundi", "0", "1000"),
		posted("e2", 2, date(4, 3), "Deposit", "bank", "800", "0"),
		posted("e2", 2, date(4, 3), "Deposit", "cash", "0", "800"),
	}
	cashBook := BuildCashBook(domain.SubtypeCash, reportAccounts[:1], reportAccounts, date(4, 1), date(4, 30), d("50"), lines)
	require.Len(t, cashBook.Receipts, 1)
	assert.Equal(t, "Hundi Income", cashBook.Receipts[0].Particulars)
	require.Len(t, cashBook.Payments, 1)
	assert.Equal(t, "Bank - Savings Account", cashBook.Payments[0].Particulars)
	assert.True(t, cashBook.ClosingBalance.Equal(d("250")))

	both := BuildCashBook(domain.SubtypeCash, reportAccounts[:2], reportAccounts, date(4, 1), date(4, 30), d("0"), lines[2:])
	require.Len(t, both.Receipts, 1)
	assert.Equal(t, "Contra", both.Receipts[0].Particulars)
	assert.True(t, both.ClosingBalance.IsZero())
}

func TestBuildBalanceSheet(t *testing.T) {
	totals := []domain.AccountTotals{
		{AccountID: "cash", Debit: d("2000"), Credit: d("500")},
		{AccountID: "building", Debit: d("10000"), Credit: d("0")},
		{AccountID: "payable", Debit: d("0"), Credit: d("4000")},
		{AccountID: "fund", Debit: d("0"), Credit: d("6000")},
		{AccountID: "hundi", Debit: d("0"), Credit: d("2000")},
		{AccountID: "salary", Debit: d("500"), Credit: d("0")},
	}
	bs := BuildBalanceSheet(date(4, 30), reportAccounts, totals)

	assert.True(t, bs.FixedAssets.Total.Equal(d("10000")))
	assert.True(t, bs.CurrentAssets.Total.Equal(d("1500")))
	assert.True(t, bs.CurrentLiabilities.Total.Equal(d("4000")))
	assert.True(t, bs.EquityAndFunds.Total.Equal(d("6000")))
	assert.True(t, bs.UnclosedSurplus.Equal(d("1500")))
	assert.True(t, bs.TotalAssets.Equal(d("11500")))
	assert.True(t, bs.TotalLiabilitiesAndFunds.Equal(d("11500")))
	assert.True(t, bs.IsBalanced)
}

func TestBuildProfitAndLoss(t *testing.T) {
	totals := []domain.AccountTotals{
		{AccountID: "salary", Debit: d("700"), Credit: d("0")},
		{AccountID: "hundi", Debit: d("0"), Credit: d("500")},
		{AccountID: "cash", Debit: d("500"), Credit: d("700")},
	}
	pl := BuildProfitAndLoss(date(4, 1), date(4, 30), reportAccounts, totals)

	require.Len(t, pl.Income, 1)
	require.Len(t, pl.Expenses, 1)
	assert.True(t, pl.TotalIncome.Equal(d("500")))
	assert.True(t, pl.TotalExpense.Equal(d("700")))
	assert.True(t, pl.NetSurplus.Equal(d("-200")), "a deficit is a negative surplus")
}
