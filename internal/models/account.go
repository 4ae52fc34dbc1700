package models

import "database/sql"

// Account represents a row of the accounts table.
type Account struct {
	AccountID        string         `db:"account_id"`
	TempleID         string         `db:"temple_id"`
	Code             string         `db:"code"`
	Name             string         `db:"name"`
	Description      string         `db:"description"`
	AccountType      string         `db:"account_type"`
	Subtype          string         `db:"subtype"`
	ParentAccountID  sql.NullString `db:"parent_account_id"`
	IsActive         bool           `db:"is_active"`
	AllowManualEntry bool           `db:"allow_manual_entry"`
	AuditFields
}
