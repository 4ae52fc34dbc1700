package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAccountTree(t *testing.T) {
	accounts := []domain.Account{
		{AccountID: "bank-sbi", Code: "1120", Name: "SBI Current", ParentAccountID: "bank"},
		{AccountID: "assets", Code: "1000", Name: "Assets"},
		{AccountID: "cash", Code: "1110", Name: "Cash", ParentAccountID: "current"},
		{AccountID: "current", Code: "1100", Name: "Current Assets", ParentAccountID: "assets"},
		{AccountID: "bank", Code: "1115", Name: "Bank Accounts", ParentAccountID: "current"},
		{AccountID: "income", Code: "4000", Name: "Income"},
		{AccountID: "orphan", Code: "9000", Name: "Orphan", ParentAccountID: "missing"},
	}

	roots := domain.BuildAccountTree(accounts)

	require.Len(t, roots, 3)
	assert.Equal(t, "assets", roots[0].AccountID)
	assert.Equal(t, "income", roots[1].AccountID)
	assert.Equal(t, "orphan", roots[2].AccountID, "an account with an unknown parent is a root")

	require.Len(t, roots[0].Children, 1)
	current := roots[0].Children[0]
	require.Len(t, current.Children, 2)
	assert.Equal(t, "cash", current.Children[0].AccountID, "siblings are ordered by code")
	assert.Equal(t, "bank", current.Children[1].AccountID)
	require.Len(t, current.Children[1].Children, 1)
	assert.Equal(t, "bank-sbi", current.Children[1].Children[0].AccountID)
	assert.NotNil(t, roots[1].Children)
	assert.Empty(t, roots[1].Children)
}

func TestBuildAccountTree_Empty(t *testing.T) {
	roots := domain.BuildAccountTree(nil)
	assert.NotNil(t, roots)
	assert.Empty(t, roots)
}

func TestAccountType_Subtypes(t *testing.T) {
	assert.True(t, domain.Asset.AllowsSubtype(domain.SubtypeBank))
	assert.True(t, domain.Equity.AllowsSubtype(domain.SubtypeFund))
	assert.False(t, domain.Income.AllowsSubtype(domain.SubtypeCash))
	assert.False(t, domain.AccountType("BOGUS").IsValid())
	assert.Equal(t, domain.SubtypeCurrentAsset, domain.Asset.DefaultSubtype())
	assert.True(t, domain.Expense.IsDebitNormal())
	assert.False(t, domain.Income.IsDebitNormal())
}

func TestTemple_FiscalYear(t *testing.T) {
	temple := domain.Temple{FiscalYearStartMonth: time.April}

	assert.Equal(t, 2024, temple.FiscalYearOf(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2024, temple.FiscalYearOf(time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2023, temple.FiscalYearOf(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))

	start, end := temple.FiscalYearBounds(2024)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), end)

	months := temple.FiscalMonths(2024)
	require.Len(t, months, 12)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), months[0])
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), months[10])
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), months[11])

	calendar := domain.Temple{}
	assert.Equal(t, 2024, calendar.FiscalYearOf(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), "zero start month falls back to April")

	assert.True(t, domain.IsMonthEnd(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, domain.IsMonthEnd(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)))
}
