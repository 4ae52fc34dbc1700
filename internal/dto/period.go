package dto

import (
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// CloseMonthRequest locks a month. ClosingDate must be the last day of the month.
type CloseMonthRequest struct {
	ClosingDate time.Time `json:"closingDate" binding:"required"`
}

// CloseYearRequest closes a fiscal year. FundAccountID defaults to the temple's general fund.
type CloseYearRequest struct {
	FiscalYear    int    `json:"fiscalYear" binding:"required,min=1900"`
	FundAccountID string `json:"fundAccountID"`
}

// ListClosingsParams filters closings by fiscal year; 0 lists all.
type ListClosingsParams struct {
	FiscalYear int `form:"fiscalYear"`
}

// ListClosingsResponse wraps the closing list.
type ListClosingsResponse struct {
	Closings []domain.PeriodClosing `json:"closings"`
}

// ChainVerificationResponse is the outcome of a hash chain or audit mirror verification.
// Violation is set at the first break; verification stops there.
type ChainVerificationResponse struct {
	TempleID       string                        `json:"templeID"`
	Algorithm      string                        `json:"algorithm"`
	EntriesChecked int                           `json:"entriesChecked"`
	HeadHash       string                        `json:"headHash"`
	Valid          bool                          `json:"valid"`
	Violation      *apperrors.IntegrityViolation `json:"violation,omitempty"`
	VerifiedAt     time.Time                     `json:"verifiedAt"`
}
