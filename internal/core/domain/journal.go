package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry. Entries only move forward: POSTED -> REVERSED.
type EntryStatus string

const (
	Draft     EntryStatus = "DRAFT"
	Posted    EntryStatus = "POSTED"
	Cancelled EntryStatus = "CANCELLED"
	Reversed  EntryStatus = "REVERSED"
)

// CountsInLedger reports whether lines of an entry in this status contribute to balances.
// A reversed entry stays in the ledger; its reversal nets it to zero.
func (s EntryStatus) CountsInLedger() bool {
	return s == Posted || s == Reversed
}

// Well known reference types.
const (
	ReferenceManual        = "MANUAL"
	ReferenceReversal      = "REVERSAL"
	ReferencePeriodClosing = "PERIOD_CLOSING"
)

// JournalEntry is a single balanced financial event. Its posted fields never change;
// only Status and the reversed-by / corrected-by links are written after creation.
type JournalEntry struct {
	EntryID             string          `json:"entryID"`
	TempleID            string          `json:"templeID"`
	ChainSeq            int64           `json:"chainSeq"`    // creation order within the temple
	FiscalYear          int             `json:"fiscalYear"`  // labelled by its starting calendar year
	EntryNumber         int64           `json:"entryNumber"` // sequential per temple and fiscal year
	EntryDate           time.Time       `json:"entryDate"`
	Narration           string          `json:"narration"`
	ReferenceType       string          `json:"referenceType"`
	ReferenceNumber     string          `json:"referenceNumber"`
	Status              EntryStatus     `json:"status"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	Reason              string          `json:"reason,omitempty"`
	IntegrityHash       string          `json:"integrityHash"`
	PreviousHash        string          `json:"previousHash"`
	ReversalOfEntryID   string          `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID   string          `json:"reversedByEntryID,omitempty"`
	CorrectionOfEntryID string          `json:"correctionOfEntryID,omitempty"`
	CorrectedByEntryID  string          `json:"correctedByEntryID,omitempty"`
	AuditFields
}

// VoucherNumber renders the human facing entry number, e.g. JV/2024-25/000012.
func (e JournalEntry) VoucherNumber() string {
	return fmt.Sprintf("JV/%d-%02d/%06d", e.FiscalYear, (e.FiscalYear+1)%100, e.EntryNumber)
}

// IsReversible reports whether the entry can still be reversed.
func (e JournalEntry) IsReversible() bool {
	return e.Status == Posted && e.ReversedByEntryID == "" && e.ReversalOfEntryID == ""
}

// JournalLine is one debit or credit leg of an entry. Exactly one of Debit and Credit is positive.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// IsDebit reports whether the line is on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the positive amount of the line regardless of side.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// Validate checks the per-line invariants: an account, no negative amounts, exactly one side set,
// and at most two decimal places.
func (l JournalLine) Validate() error {
	if l.AccountID == "" {
		return fmt.Errorf("line %d: account is required", l.LineNo)
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return fmt.Errorf("line %d: amounts cannot be negative", l.LineNo)
	}
	if l.Debit.IsPositive() == l.Credit.IsPositive() {
		return fmt.Errorf("line %d: exactly one of debit or credit must be positive", l.LineNo)
	}
	if !l.Amount().Equal(l.Amount().Round(2)) {
		return fmt.Errorf("line %d: amount %s has more than two decimal places", l.LineNo, l.Amount())
	}
	return nil
}

// Swapped returns a copy of the line with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}

// LedgerHead is the per-temple tail of the hash chain. It is the single serialization point for posting.
type LedgerHead struct {
	TempleID     string `json:"templeID"`
	LastChainSeq int64  `json:"lastChainSeq"`
	LastHash     string `json:"lastHash"`
}

// PostedLine is a journal line joined with the entry fields reports need.
type PostedLine struct {
	JournalLine
	TempleID        string      `json:"templeID"`
	EntryDate       time.Time   `json:"entryDate"`
	EntryNumber     int64       `json:"entryNumber"`
	FiscalYear      int         `json:"fiscalYear"`
	ChainSeq        int64       `json:"chainSeq"`
	Narration       string      `json:"narration"`
	ReferenceType   string      `json:"referenceType"`
	ReferenceNumber string      `json:"referenceNumber"`
	Status          EntryStatus `json:"status"`
}

// LineFilter narrows the posted lines a report reads. Zero values mean unbounded.
type LineFilter struct {
	From                  time.Time
	To                    time.Time
	AccountIDs            []string
	ExcludeReferenceTypes []string
}

// EntryWithLines is an entry together with its lines.
type EntryWithLines struct {
	Entry JournalEntry  `json:"entry"`
	Lines []JournalLine `json:"lines"`
}
