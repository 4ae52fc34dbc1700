package dto

import (
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementRowRequest is one external statement row: {date, description, debit|credit, balance, reference}.
type StatementRowRequest struct {
	Date        time.Time        `json:"date" binding:"required"`
	Description string           `json:"description"`
	Reference   string           `json:"reference"`
	Debit       decimal.Decimal  `json:"debit"`
	Credit      decimal.Decimal  `json:"credit"`
	Balance     *decimal.Decimal `json:"balance"`
}

// ImportStatementRequest imports a bank statement for a bank ledger account.
type ImportStatementRequest struct {
	AccountID      string                `json:"accountID" binding:"required"`
	PeriodStart    time.Time             `json:"periodStart" binding:"required"`
	PeriodEnd      time.Time             `json:"periodEnd" binding:"required"`
	OpeningBalance decimal.Decimal       `json:"openingBalance"`
	ClosingBalance decimal.Decimal       `json:"closingBalance"`
	Rows           []StatementRowRequest `json:"rows" binding:"required,min=1,dive"`
}

// ImportStatementFileRequest carries the form fields sent alongside an uploaded statement file.
type ImportStatementFileRequest struct {
	AccountID      string `form:"accountID" binding:"required"`
	Format         string `form:"format"` // defaults to "generic"
	PeriodStart    string `form:"periodStart" binding:"required"`
	PeriodEnd      string `form:"periodEnd" binding:"required"`
	OpeningBalance string `form:"openingBalance"`
	ClosingBalance string `form:"closingBalance"`
}

// MatchRequest pairs a statement row with a journal line.
type MatchRequest struct {
	StatementEntryID string `json:"statementEntryID" binding:"required"`
	LineID           string `json:"lineID" binding:"required"`
}

// UnmatchRequest clears a pairing.
type UnmatchRequest struct {
	StatementEntryID string `json:"statementEntryID" binding:"required"`
}

// AutoMatchResponse reports how many rows were paired automatically.
type AutoMatchResponse struct {
	StatementID string `json:"statementID"`
	Matched     int    `json:"matched"`
}

// ListStatementsResponse wraps the statement list of a temple.
type ListStatementsResponse struct {
	Statements []domain.BankStatement `json:"statements"`
}

// ToStatementRows converts request rows into domain rows.
func ToStatementRows(rows []StatementRowRequest) []domain.StatementRow {
	res := make([]domain.StatementRow, len(rows))
	for i, r := range rows {
		res[i] = domain.StatementRow{
			Date:        r.Date,
			Description: r.Description,
			Reference:   r.Reference,
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
		if r.Balance != nil {
			res[i].Balance = decimal.NewNullDecimal(*r.Balance)
		}
	}
	return res
}
