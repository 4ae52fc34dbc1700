package dto

import (
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one debit or credit leg of a new entry.
type CreateLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateEntryRequest is the contract collaborators (donations, seva bookings, expenses) post entries with.
type CreateEntryRequest struct {
	EntryDate       time.Time           `json:"entryDate" binding:"required"`
	Narration       string              `json:"narration" binding:"required"`
	ReferenceType   string              `json:"referenceType"`
	ReferenceNumber string              `json:"referenceNumber"`
	Lines           []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseEntryRequest asks for a mirrored entry. ReversalDate defaults to the original entry date
// and must be given when that date lies in a closed period.
type ReverseEntryRequest struct {
	Reason       string     `json:"reason" binding:"required"`
	ReversalDate *time.Time `json:"reversalDate"`
}

// CorrectEntryRequest reverses an entry and posts its replacement in one step.
type CorrectEntryRequest struct {
	Reason          string              `json:"reason" binding:"required"`
	EntryDate       *time.Time          `json:"entryDate"` // defaults to the original entry date
	Narration       *string             `json:"narration"`
	ReferenceNumber *string             `json:"referenceNumber"`
	ReversalDate    *time.Time          `json:"reversalDate"`
	Lines           []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID      string          `json:"lineID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID             string             `json:"entryID"`
	VoucherNumber       string             `json:"voucherNumber"`
	EntryNumber         int64              `json:"entryNumber"`
	FiscalYear          int                `json:"fiscalYear"`
	EntryDate           time.Time          `json:"entryDate"`
	Narration           string             `json:"narration"`
	ReferenceType       string             `json:"referenceType"`
	ReferenceNumber     string             `json:"referenceNumber"`
	Status              domain.EntryStatus `json:"status"`
	TotalAmount         decimal.Decimal    `json:"totalAmount"`
	Reason              string             `json:"reason,omitempty"`
	IntegrityHash       string             `json:"integrityHash"`
	PreviousHash        string             `json:"previousHash"`
	ReversalOfEntryID   string             `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID   string             `json:"reversedByEntryID,omitempty"`
	CorrectionOfEntryID string             `json:"correctionOfEntryID,omitempty"`
	CorrectedByEntryID  string             `json:"correctedByEntryID,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
	CreatedBy           string             `json:"createdBy"`
	Lines               []LineResponse     `json:"lines,omitempty"`
}

// ListEntriesResponse is a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponses converts domain lines to LineResponse DTOs.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	res := make([]LineResponse, len(lines))
	for i, l := range lines {
		res[i] = LineResponse{
			LineID:      l.LineID,
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return res
}

// ToEntryResponse converts a domain.JournalEntry (and optional lines) to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry, lines []domain.JournalLine) EntryResponse {
	resp := EntryResponse{
		EntryID:             e.EntryID,
		VoucherNumber:       e.VoucherNumber(),
		EntryNumber:         e.EntryNumber,
		FiscalYear:          e.FiscalYear,
		EntryDate:           e.EntryDate,
		Narration:           e.Narration,
		ReferenceType:       e.ReferenceType,
		ReferenceNumber:     e.ReferenceNumber,
		Status:              e.Status,
		TotalAmount:         e.TotalAmount,
		Reason:              e.Reason,
		IntegrityHash:       e.IntegrityHash,
		PreviousHash:        e.PreviousHash,
		ReversalOfEntryID:   e.ReversalOfEntryID,
		ReversedByEntryID:   e.ReversedByEntryID,
		CorrectionOfEntryID: e.CorrectionOfEntryID,
		CorrectedByEntryID:  e.CorrectedByEntryID,
		CreatedAt:           e.CreatedAt,
		CreatedBy:           e.CreatedBy,
	}
	if lines != nil {
		resp.Lines = ToLineResponses(lines)
	}
	return resp
}

// ToEntryWithLinesResponse converts an entry bundle.
func ToEntryWithLinesResponse(e *domain.EntryWithLines) EntryResponse {
	return ToEntryResponse(&e.Entry, e.Lines)
}
