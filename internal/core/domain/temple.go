package domain

import "time"

// DefaultFiscalYearStartMonth is the month a fiscal year begins in when a temple does not override it.
const DefaultFiscalYearStartMonth = time.April

// Temple is the tenant boundary: every account, entry, statement and closing belongs to exactly one temple.
type Temple struct {
	TempleID             string     `json:"templeID"`
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	FiscalYearStartMonth time.Month `json:"fiscalYearStartMonth"`
	IsActive             bool       `json:"isActive"`
	AuditFields
}

// startMonth guards against a zero value read from an older row.
func (t Temple) startMonth() time.Month {
	if t.FiscalYearStartMonth < time.January || t.FiscalYearStartMonth > time.December {
		return DefaultFiscalYearStartMonth
	}
	return t.FiscalYearStartMonth
}

// FiscalYearOf returns the fiscal year a date falls in, labelled by the calendar year the fiscal year starts in.
func (t Temple) FiscalYearOf(date time.Time) int {
	if date.Month() >= t.startMonth() {
		return date.Year()
	}
	return date.Year() - 1
}

// FiscalYearBounds returns the first and last day of the fiscal year.
func (t Temple) FiscalYearBounds(fiscalYear int) (time.Time, time.Time) {
	start := time.Date(fiscalYear, t.startMonth(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, -1)
	return start, end
}

// FiscalMonths lists the last day of each month in the fiscal year, in order.
func (t Temple) FiscalMonths(fiscalYear int) []time.Time {
	start, _ := t.FiscalYearBounds(fiscalYear)
	months := make([]time.Time, 12)
	for i := range months {
		months[i] = start.AddDate(0, i+1, -1)
	}
	return months
}

// DateOnly truncates a timestamp to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// IsMonthEnd reports whether t is the last day of its month.
func IsMonthEnd(t time.Time) bool {
	return DateOnly(t).AddDate(0, 0, 1).Day() == 1
}
