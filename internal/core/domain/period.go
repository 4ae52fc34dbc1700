package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClosingType distinguishes month-end locks from the year-end close.
type ClosingType string

const (
	MonthEnd ClosingType = "month_end"
	YearEnd  ClosingType = "year_end"
)

// ClosingStatusClosed is the only status a closing record has; closings are never reopened.
const ClosingStatusClosed = "CLOSED"

// PeriodClosing records a closed period with its income and expense snapshot.
// Entries dated inside [PeriodStart, ClosingDate] may no longer be written directly.
type PeriodClosing struct {
	ClosingID      string          `json:"closingID"`
	TempleID       string          `json:"templeID"`
	FiscalYear     int             `json:"fiscalYear"`
	ClosingType    ClosingType     `json:"closingType"`
	PeriodStart    time.Time       `json:"periodStart"`
	ClosingDate    time.Time       `json:"closingDate"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	NetSurplus     decimal.Decimal `json:"netSurplus"`
	ClosingEntryID string          `json:"closingEntryID,omitempty"` // year_end only
	Status         string          `json:"status"`
	AuditFields
}

// Covers reports whether the date falls inside the closed range.
func (p PeriodClosing) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.PeriodStart)) && !d.After(DateOnly(p.ClosingDate))
}
