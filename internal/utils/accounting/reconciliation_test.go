package accounting

import (
	"testing"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferEntryType(t *testing.T) {
	tests := []struct {
		row  domain.StatementRow
		want domain.StatementEntryType
	}{
		{domain.StatementRow{Description: "NEFT from devotee", Credit: d("501")}, domain.Deposit},
		{domain.StatementRow{Description: "INT.CR for quarter", Credit: d("92")}, domain.Interest},
		{domain.StatementRow{Description: "Cheque 000451", Debit: d("15000")}, domain.Withdrawal},
		{domain.StatementRow{Description: "GST on charges", Debit: d("1.80")}, domain.Charge},
		{domain.StatementRow{Description: "Interest reversal", Debit: d("5")}, domain.Withdrawal},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, InferEntryType(tc.row), tc.row.Description)
	}
}

func TestBuildStatementEntries(t *testing.T) {
	rows := []domain.StatementRow{
		{Date: date(5, 2), Description: " Cash deposit ", Credit: d("1000"), Balance: decimal.NewNullDecimal(d("1500"))},
		{Date: date(5, 9), Description: "ATM", Debit: d("200"), Balance: decimal.NewNullDecimal(d("1250"))},
		{Date: date(5, 31), Description: "Service charges", Debit: d("50")},
	}
	entries, closing, err := BuildStatementEntries("st-1", date(5, 1), date(5, 31), d("500"), rows)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, closing.Equal(d("1250")))

	assert.Equal(t, "Cash deposit", entries[0].Description)
	assert.Equal(t, 1, entries[0].RowNo)
	assert.False(t, entries[0].BalanceMismatch)
	assert.True(t, entries[1].ComputedBalance.Equal(d("1300")))
	assert.True(t, entries[1].BalanceMismatch)
	assert.False(t, entries[2].BalanceMismatch, "rows without a declared balance cannot mismatch")
	assert.Equal(t, domain.Charge, entries[2].EntryType)
	assert.NotEqual(t, entries[0].StatementEntryID, entries[1].StatementEntryID)
}

func TestBuildStatementEntries_Rejects(t *testing.T) {
	tests := map[string][]domain.StatementRow{
		"no rows":         nil,
		"negative amount": {{Date: date(5, 2), Credit: d("-1")}},
		"both sides":      {{Date: date(5, 2), Credit: d("1"), Debit: d("1")}},
		"neither side":    {{Date: date(5, 2)}},
		"before period":   {{Date: date(4, 30), Credit: d("1")}},
		"after period":    {{Date: date(6, 1), Credit: d("1")}},
	}
	for name, rows := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := BuildStatementEntries("st-1", date(5, 1), date(5, 31), d("0"), rows)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestLineMatchesStatementEntry(t *testing.T) {
	deposit := domain.StatementEntry{RowNo: 1, EntryType: domain.Deposit, Amount: d("1000")}
	charge := domain.StatementEntry{RowNo: 2, EntryType: domain.Charge, Amount: d("11.80")}
	debit := posted("e1", 1, date(5, 2), "Deposit", "bank", "1000", "0")
	credit := posted("e2", 2, date(5, 3), "Charges", "bank", "0", "11.80")

	assert.NoError(t, LineMatchesStatementEntry(debit, deposit, decimal.Zero))
	assert.NoError(t, LineMatchesStatementEntry(credit, charge, decimal.Zero))
	assert.ErrorIs(t, LineMatchesStatementEntry(credit, deposit, d("10000")), apperrors.ErrReconciliationConflict)

	near := posted("e3", 3, date(5, 3), "Deposit", "bank", "999.50", "0")
	assert.ErrorIs(t, LineMatchesStatementEntry(near, deposit, decimal.Zero), apperrors.ErrReconciliationConflict)
	assert.NoError(t, LineMatchesStatementEntry(near, deposit, d("0.50")))
}

func TestBuildReconciliationSummary(t *testing.T) {
	statement := domain.BankStatement{
		StatementID:    "st-1",
		AccountID:      "bank",
		PeriodStart:    date(5, 1),
		PeriodEnd:      date(5, 31),
		ClosingBalance: d("1300"),
		Status:         domain.StatementImported,
	}
	entries := []domain.StatementEntry{
		{StatementEntryID: "r1", TxnDate: date(5, 2), EntryType: domain.Deposit, Amount: d("1000"), MatchedLineID: "e1-bank"},
		{StatementEntryID: "r2", TxnDate: date(5, 31), EntryType: domain.Interest, Amount: d("300")},
	}
	lines := []domain.PostedLine{
		posted("e1", 1, date(5, 2), "Deposit", "bank", "1000", "0"),
		posted("e1", 1, date(5, 2), "Deposit", "cash", "0", "1000"),
		posted("e2", 2, date(5, 20), "Cheque to florist", "bank", "0", "400"),
	}
	summary := BuildReconciliationSummary(statement, entries, d("600"), lines, map[string]bool{"e1-bank": true})

	assert.Equal(t, 1, summary.MatchedCount)
	assert.Equal(t, 2, summary.TotalCount)
	assert.True(t, summary.Difference.Equal(d("-700")))
	require.Len(t, summary.ReconcilingItems, 2)
	assert.Equal(t, "book", summary.ReconcilingItems[0].Source)
	assert.True(t, summary.ReconcilingItems[0].Amount.Equal(d("-400")))
	assert.Equal(t, "Cheque to florist", summary.ReconcilingItems[0].Description)
	assert.Equal(t, "bank", summary.ReconcilingItems[1].Source)
	assert.True(t, summary.ReconcilingItems[1].Amount.Equal(d("300")))
}
