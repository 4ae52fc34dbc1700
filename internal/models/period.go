package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodClosing represents a row of the period_closings table.
type PeriodClosing struct {
	ClosingID      string          `db:"closing_id"`
	TempleID       string          `db:"temple_id"`
	FiscalYear     int             `db:"fiscal_year"`
	ClosingType    string          `db:"closing_type"`
	PeriodStart    time.Time       `db:"period_start"`
	ClosingDate    time.Time       `db:"closing_date"`
	TotalIncome    decimal.Decimal `db:"total_income"`
	TotalExpense   decimal.Decimal `db:"total_expense"`
	NetSurplus     decimal.Decimal `db:"net_surplus"`
	ClosingEntryID sql.NullString  `db:"closing_entry_id"`
	Status         string          `db:"status"`
	AuditFields
}
