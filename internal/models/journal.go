package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a row of the journal_entries table.
// The link columns are NULL until the entry is reversed or corrected.
type JournalEntry struct {
	EntryID             string          `db:"entry_id"`
	TempleID            string          `db:"temple_id"`
	ChainSeq            int64           `db:"chain_seq"`
	FiscalYear          int             `db:"fiscal_year"`
	EntryNumber         int64           `db:"entry_number"`
	EntryDate           time.Time       `db:"entry_date"`
	Narration           string          `db:"narration"`
	ReferenceType       string          `db:"reference_type"`
	ReferenceNumber     string          `db:"reference_number"`
	Status              string          `db:"status"`
	TotalAmount         decimal.Decimal `db:"total_amount"`
	Reason              string          `db:"reason"`
	IntegrityHash       string          `db:"integrity_hash"`
	PreviousHash        string          `db:"previous_hash"`
	ReversalOfEntryID   sql.NullString  `db:"reversal_of_entry_id"`
	ReversedByEntryID   sql.NullString  `db:"reversed_by_entry_id"`
	CorrectionOfEntryID sql.NullString  `db:"correction_of_entry_id"`
	CorrectedByEntryID  sql.NullString  `db:"corrected_by_entry_id"`
	AuditFields
}

// JournalLine represents a row of the journal_lines table.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	LineNo      int             `db:"line_no"`
	AccountID   string          `db:"account_id"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
}
