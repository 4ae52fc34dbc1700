package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotals holds the debit and credit sums of one account over a line filter.
type AccountTotals struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// TrialBalanceRow is one account's net balance presented in the column of its sign.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account with a non-zero balance as of a date.
// An imbalance is reported through Difference and IsBalanced, never as an error.
type TrialBalance struct {
	TempleID    string            `json:"templeID"`
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Difference  decimal.Decimal   `json:"difference"`
	IsBalanced  bool              `json:"isBalanced"`
}

// LedgerRow is one posting in an account ledger with the running balance after it.
type LedgerRow struct {
	EntryID     string          `json:"entryID"`
	EntryNumber int64           `json:"entryNumber"`
	EntryDate   time.Time       `json:"entryDate"`
	Narration   string          `json:"narration"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// AccountLedger is the chronological statement of one account over a date range.
// Balances are expressed in the account's normal sign.
type AccountLedger struct {
	Account        Account         `json:"account"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Rows           []LedgerRow     `json:"rows"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// DayBookLine is one leg of an entry shown in the day book.
type DayBookLine struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// DayBookEntry is a journal entry as listed in the day book.
type DayBookEntry struct {
	EntryID         string        `json:"entryID"`
	EntryNumber     int64         `json:"entryNumber"`
	Narration       string        `json:"narration"`
	ReferenceType   string        `json:"referenceType"`
	ReferenceNumber string        `json:"referenceNumber"`
	Status          EntryStatus   `json:"status"`
	Lines           []DayBookLine `json:"lines"`
}

// DayBookDay groups a day's entries with the cash and bank position carried through the day.
type DayBookDay struct {
	Date           time.Time       `json:"date"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Entries        []DayBookEntry  `json:"entries"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// DayBook lists all entries in a range, grouped by day.
type DayBook struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Days           []DayBookDay    `json:"days"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// CashBookRow is a receipt or payment on a cash or bank account.
type CashBookRow struct {
	EntryID     string          `json:"entryID"`
	EntryNumber int64           `json:"entryNumber"`
	Date        time.Time       `json:"date"`
	AccountID   string          `json:"accountID"`
	Particulars string          `json:"particulars"` // names of the contra accounts
	Narration   string          `json:"narration"`
	Amount      decimal.Decimal `json:"amount"`
}

// CashBook splits cash or bank movements into receipts and payments with carried balances.
type CashBook struct {
	Kind           AccountSubtype  `json:"kind"`
	Accounts       []Account       `json:"accounts"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Receipts       []CashBookRow   `json:"receipts"`
	Payments       []CashBookRow   `json:"payments"`
	TotalReceipts  decimal.Decimal `json:"totalReceipts"`
	TotalPayments  decimal.Decimal `json:"totalPayments"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// AccountAmount represents an account with its net amount for financial statements.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// BalanceSheetSection is a titled group of balance sheet lines with their total.
type BalanceSheetSection struct {
	Title string          `json:"title"`
	Lines []AccountAmount `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// BalanceSheet presents assets against liabilities and funds as of a date.
type BalanceSheet struct {
	AsOf                     time.Time           `json:"asOf"`
	FixedAssets              BalanceSheetSection `json:"fixedAssets"`
	CurrentAssets            BalanceSheetSection `json:"currentAssets"`
	CurrentLiabilities       BalanceSheetSection `json:"currentLiabilities"`
	EquityAndFunds           BalanceSheetSection `json:"equityAndFunds"`
	UnclosedSurplus          decimal.Decimal     `json:"unclosedSurplus"`
	TotalAssets              decimal.Decimal     `json:"totalAssets"`
	TotalLiabilitiesAndFunds decimal.Decimal     `json:"totalLiabilitiesAndFunds"`
	Difference               decimal.Decimal     `json:"difference"`
	IsBalanced               bool                `json:"isBalanced"`
}

// ProfitAndLoss is the income and expenditure account over a range.
type ProfitAndLoss struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Income       []AccountAmount `json:"income"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetSurplus   decimal.Decimal `json:"netSurplus"`
}
