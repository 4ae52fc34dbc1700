package mapping

import (
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:             d.EntryID,
		TempleID:            d.TempleID,
		ChainSeq:            d.ChainSeq,
		FiscalYear:          d.FiscalYear,
		EntryNumber:         d.EntryNumber,
		EntryDate:           d.EntryDate,
		Narration:           d.Narration,
		ReferenceType:       d.ReferenceType,
		ReferenceNumber:     d.ReferenceNumber,
		Status:              string(d.Status),
		TotalAmount:         d.TotalAmount,
		Reason:              d.Reason,
		IntegrityHash:       d.IntegrityHash,
		PreviousHash:        d.PreviousHash,
		ReversalOfEntryID:   NullString(d.ReversalOfEntryID),
		ReversedByEntryID:   NullString(d.ReversedByEntryID),
		CorrectionOfEntryID: NullString(d.CorrectionOfEntryID),
		CorrectedByEntryID:  NullString(d.CorrectedByEntryID),
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:             m.EntryID,
		TempleID:            m.TempleID,
		ChainSeq:            m.ChainSeq,
		FiscalYear:          m.FiscalYear,
		EntryNumber:         m.EntryNumber,
		EntryDate:           domain.DateOnly(m.EntryDate),
		Narration:           m.Narration,
		ReferenceType:       m.ReferenceType,
		ReferenceNumber:     m.ReferenceNumber,
		Status:              domain.EntryStatus(m.Status),
		TotalAmount:         m.TotalAmount,
		Reason:              m.Reason,
		IntegrityHash:       m.IntegrityHash,
		PreviousHash:        m.PreviousHash,
		ReversalOfEntryID:   m.ReversalOfEntryID.String,
		ReversedByEntryID:   m.ReversedByEntryID.String,
		CorrectionOfEntryID: m.CorrectionOfEntryID.String,
		CorrectedByEntryID:  m.CorrectedByEntryID.String,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		LineNo:      d.LineNo,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		LineNo:      m.LineNo,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
	}
}

// ToPostedLine joins a line with the entry fields reports read.
func ToPostedLine(e models.JournalEntry, l models.JournalLine) domain.PostedLine {
	return domain.PostedLine{
		JournalLine:     ToDomainJournalLine(l),
		TempleID:        e.TempleID,
		EntryDate:       domain.DateOnly(e.EntryDate),
		EntryNumber:     e.EntryNumber,
		FiscalYear:      e.FiscalYear,
		ChainSeq:        e.ChainSeq,
		Narration:       e.Narration,
		ReferenceType:   e.ReferenceType,
		ReferenceNumber: e.ReferenceNumber,
		Status:          domain.EntryStatus(e.Status),
	}
}
