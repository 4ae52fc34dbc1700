package domain_test

import (
	"testing"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJournalLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.JournalLine
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid debit line",
			line: domain.JournalLine{LineNo: 1, AccountID: "acc-1", Debit: decimal.RequireFromString("100.50")},
		},
		{
			name: "valid credit line",
			line: domain.JournalLine{LineNo: 2, AccountID: "acc-2", Credit: decimal.NewFromInt(10)},
		},
		{
			name:    "missing account",
			line:    domain.JournalLine{LineNo: 1, Debit: decimal.NewFromInt(1)},
			wantErr: true,
			errMsg:  "account is required",
		},
		{
			name:    "both sides set",
			line:    domain.JournalLine{LineNo: 1, AccountID: "acc-1", Debit: decimal.NewFromInt(1), Credit: decimal.NewFromInt(1)},
			wantErr: true,
			errMsg:  "exactly one of debit or credit",
		},
		{
			name:    "neither side set",
			line:    domain.JournalLine{LineNo: 1, AccountID: "acc-1"},
			wantErr: true,
			errMsg:  "exactly one of debit or credit",
		},
		{
			name:    "negative amount",
			line:    domain.JournalLine{LineNo: 1, AccountID: "acc-1", Debit: decimal.NewFromInt(-5)},
			wantErr: true,
			errMsg:  "cannot be negative",
		},
		{
			name:    "three decimal places",
			line:    domain.JournalLine{LineNo: 1, AccountID: "acc-1", Credit: decimal.RequireFromString("1.005")},
			wantErr: true,
			errMsg:  "more than two decimal places",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournalLine_Swapped(t *testing.T) {
	line := domain.JournalLine{AccountID: "acc-1", Debit: decimal.NewFromInt(25)}

	swapped := line.Swapped()

	assert.True(t, swapped.Debit.IsZero())
	assert.True(t, swapped.Credit.Equal(decimal.NewFromInt(25)))
	assert.False(t, swapped.IsDebit())
	assert.True(t, line.IsDebit(), "original line must not change")
}

func TestJournalEntry_IsReversible(t *testing.T) {
	assert.True(t, domain.JournalEntry{Status: domain.Posted}.IsReversible())
	assert.False(t, domain.JournalEntry{Status: domain.Reversed}.IsReversible())
	assert.False(t, domain.JournalEntry{Status: domain.Cancelled}.IsReversible())
	assert.False(t, domain.JournalEntry{Status: domain.Posted, ReversalOfEntryID: "orig"}.IsReversible())
}

func TestJournalEntry_VoucherNumber(t *testing.T) {
	entry := domain.JournalEntry{FiscalYear: 2024, EntryNumber: 12}
	assert.Equal(t, "JV/2024-25/000012", entry.VoucherNumber())

	entry = domain.JournalEntry{FiscalYear: 2099, EntryNumber: 1}
	assert.Equal(t, "JV/2099-00/000001", entry.VoucherNumber())
}
