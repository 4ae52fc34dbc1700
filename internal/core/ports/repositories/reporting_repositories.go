package repositories

import (
	"context"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// ReportingRepository reads the posted line stream reports are projected from.
// Only lines of entries that count in the ledger (POSTED or REVERSED) are returned.
type ReportingRepository interface {
	// ListPostedLines returns matching lines ordered by entry date, chain order and line number.
	ListPostedLines(ctx context.Context, templeID string, filter domain.LineFilter) ([]domain.PostedLine, error)

	// SumByAccount returns debit and credit totals per account for matching lines.
	SumByAccount(ctx context.Context, templeID string, filter domain.LineFilter) ([]domain.AccountTotals, error)
}
