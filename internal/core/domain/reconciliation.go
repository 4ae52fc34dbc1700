package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementEntryType classifies a bank statement row.
type StatementEntryType string

const (
	Deposit    StatementEntryType = "deposit"
	Withdrawal StatementEntryType = "withdrawal"
	Charge     StatementEntryType = "charge"
	Interest   StatementEntryType = "interest"
)

// IsInflow reports whether the row increases the bank balance.
func (t StatementEntryType) IsInflow() bool {
	return t == Deposit || t == Interest
}

// StatementStatus tracks the reconciliation state of an imported statement.
type StatementStatus string

const (
	StatementImported  StatementStatus = "IMPORTED"
	StatementCompleted StatementStatus = "COMPLETED"
)

// BankStatement is an imported bank statement for a bank ledger account.
type BankStatement struct {
	StatementID            string          `json:"statementID"`
	TempleID               string          `json:"templeID"`
	AccountID              string          `json:"accountID"`
	PeriodStart            time.Time       `json:"periodStart"`
	PeriodEnd              time.Time       `json:"periodEnd"`
	OpeningBalance         decimal.Decimal `json:"openingBalance"`
	ClosingBalance         decimal.Decimal `json:"closingBalance"`
	ComputedClosingBalance decimal.Decimal `json:"computedClosingBalance"`
	BalanceMismatch        bool            `json:"balanceMismatch"`
	Status                 StatementStatus `json:"status"`
	SourceFormat           string          `json:"sourceFormat"`
	CompletedAt            *time.Time      `json:"completedAt,omitempty"`
	CompletedBy            string          `json:"completedBy,omitempty"`
	AuditFields
}

// StatementEntry is one row of a bank statement. Amount is always positive; EntryType carries the direction.
type StatementEntry struct {
	StatementEntryID string              `json:"statementEntryID"`
	StatementID      string              `json:"statementID"`
	RowNo            int                 `json:"rowNo"`
	TxnDate          time.Time           `json:"txnDate"`
	Description      string              `json:"description"`
	Reference        string              `json:"reference"`
	EntryType        StatementEntryType  `json:"entryType"`
	Amount           decimal.Decimal     `json:"amount"`
	DeclaredBalance  decimal.NullDecimal `json:"declaredBalance"`
	ComputedBalance  decimal.Decimal     `json:"computedBalance"`
	BalanceMismatch  bool                `json:"balanceMismatch"`
	MatchedLineID    string              `json:"matchedLineID,omitempty"`
	MatchedAt        *time.Time          `json:"matchedAt,omitempty"`
	MatchedBy        string              `json:"matchedBy,omitempty"`
}

// IsMatched reports whether the row is paired with a journal line.
func (e StatementEntry) IsMatched() bool {
	return e.MatchedLineID != ""
}

// SignedAmount returns the row's effect on the bank balance.
func (e StatementEntry) SignedAmount() decimal.Decimal {
	if e.EntryType.IsInflow() {
		return e.Amount
	}
	return e.Amount.Neg()
}

// StatementRow is a parsed external statement row before it is stored.
type StatementRow struct {
	Date        time.Time           `json:"date"`
	Description string              `json:"description"`
	Reference   string              `json:"reference"`
	Debit       decimal.Decimal     `json:"debit"`  // money out of the bank account
	Credit      decimal.Decimal     `json:"credit"` // money into the bank account
	Balance     decimal.NullDecimal `json:"balance"`
}

// ReconcilingItem is an unmatched item on either side that explains the book/bank difference.
type ReconcilingItem struct {
	Source      string          `json:"source"` // "bank" or "book"
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // signed effect on the bank balance
}

// ReconciliationSummary compares the ledger with a bank statement.
type ReconciliationSummary struct {
	StatementID      string            `json:"statementID"`
	AccountID        string            `json:"accountID"`
	PeriodEnd        time.Time         `json:"periodEnd"`
	BookBalance      decimal.Decimal   `json:"bookBalance"`
	BankBalance      decimal.Decimal   `json:"bankBalance"`
	Difference       decimal.Decimal   `json:"difference"`
	MatchedCount     int               `json:"matchedCount"`
	TotalCount       int               `json:"totalCount"`
	BalanceMismatch  bool              `json:"balanceMismatch"`
	Status           StatementStatus   `json:"status"`
	ReconcilingItems []ReconcilingItem `json:"reconcilingItems"`
}

// StatementWithEntries is a statement together with its rows.
type StatementWithEntries struct {
	Statement BankStatement    `json:"statement"`
	Entries   []StatementEntry `json:"entries"`
}
