package services

import (
	"context"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// ReportingService projects reports from posted ledger lines. Reports never fail on imbalance;
// they expose the difference instead.
type ReportingService interface {
	// GetTrialBalance nets every account as of a date.
	GetTrialBalance(ctx context.Context, templeID string, asOf time.Time) (*domain.TrialBalance, error)

	// GetAccountLedger lists an account's postings with opening, running and closing balances.
	GetAccountLedger(ctx context.Context, templeID string, accountID string, from, to time.Time) (*domain.AccountLedger, error)

	// GetDayBook lists all entries in a range grouped by day.
	GetDayBook(ctx context.Context, templeID string, from, to time.Time) (*domain.DayBook, error)

	// GetCashBook lists receipts and payments on cash accounts.
	GetCashBook(ctx context.Context, templeID string, from, to time.Time) (*domain.CashBook, error)

	// GetBankBook lists receipts and payments on bank accounts, or on one bank account when accountID is set.
	GetBankBook(ctx context.Context, templeID string, accountID string, from, to time.Time) (*domain.CashBook, error)

	// GetBalanceSheet presents assets, liabilities and funds as of a date.
	GetBalanceSheet(ctx context.Context, templeID string, asOf time.Time) (*domain.BalanceSheet, error)

	// GetProfitAndLoss reports income against expenditure, excluding closing entries.
	GetProfitAndLoss(ctx context.Context, templeID string, from, to time.Time) (*domain.ProfitAndLoss, error)
}
