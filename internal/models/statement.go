package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// BankStatement represents a row of the bank_statements table.
type BankStatement struct {
	StatementID            string          `db:"statement_id"`
	TempleID               string          `db:"temple_id"`
	AccountID              string          `db:"account_id"`
	PeriodStart            time.Time       `db:"period_start"`
	PeriodEnd              time.Time       `db:"period_end"`
	OpeningBalance         decimal.Decimal `db:"opening_balance"`
	ClosingBalance         decimal.Decimal `db:"closing_balance"`
	ComputedClosingBalance decimal.Decimal `db:"computed_closing_balance"`
	BalanceMismatch        bool            `db:"balance_mismatch"`
	Status                 string          `db:"status"`
	SourceFormat           string          `db:"source_format"`
	CompletedAt            sql.NullTime    `db:"completed_at"`
	CompletedBy            sql.NullString  `db:"completed_by"`
	AuditFields
}

// StatementEntry represents a row of the statement_entries table.
type StatementEntry struct {
	StatementEntryID string              `db:"statement_entry_id"`
	StatementID      string              `db:"statement_id"`
	RowNo            int                 `db:"row_no"`
	TxnDate          time.Time           `db:"txn_date"`
	Description      string              `db:"description"`
	Reference        string              `db:"reference"`
	EntryType        string              `db:"entry_type"`
	Amount           decimal.Decimal     `db:"amount"`
	DeclaredBalance  decimal.NullDecimal `db:"declared_balance"`
	ComputedBalance  decimal.Decimal     `db:"computed_balance"`
	BalanceMismatch  bool                `db:"balance_mismatch"`
	MatchedLineID    sql.NullString      `db:"matched_line_id"`
	MatchedAt        sql.NullTime        `db:"matched_at"`
	MatchedBy        sql.NullString      `db:"matched_by"`
}
