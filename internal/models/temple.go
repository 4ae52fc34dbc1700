package models

// Temple represents a row of the temples table.
type Temple struct {
	TempleID             string `db:"temple_id"`
	Name                 string `db:"name"`
	Description          string `db:"description"`
	FiscalYearStartMonth int    `db:"fiscal_year_start_month"` // 1-12
	IsActive             bool   `db:"is_active"`
	AuditFields
}
