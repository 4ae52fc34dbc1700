package mapping

import (
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/models"
)

// ToModelBankStatement converts a domain BankStatement to a model BankStatement
func ToModelBankStatement(d domain.BankStatement) models.BankStatement {
	return models.BankStatement{
		StatementID:            d.StatementID,
		TempleID:               d.TempleID,
		AccountID:              d.AccountID,
		PeriodStart:            d.PeriodStart,
		PeriodEnd:              d.PeriodEnd,
		OpeningBalance:         d.OpeningBalance,
		ClosingBalance:         d.ClosingBalance,
		ComputedClosingBalance: d.ComputedClosingBalance,
		BalanceMismatch:        d.BalanceMismatch,
		Status:                 string(d.Status),
		SourceFormat:           d.SourceFormat,
		CompletedAt:            NullTime(d.CompletedAt),
		CompletedBy:            NullString(d.CompletedBy),
		AuditFields:            ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankStatement converts a model BankStatement to a domain BankStatement
func ToDomainBankStatement(m models.BankStatement) domain.BankStatement {
	return domain.BankStatement{
		StatementID:            m.StatementID,
		TempleID:               m.TempleID,
		AccountID:              m.AccountID,
		PeriodStart:            domain.DateOnly(m.PeriodStart),
		PeriodEnd:              domain.DateOnly(m.PeriodEnd),
		OpeningBalance:         m.OpeningBalance,
		ClosingBalance:         m.ClosingBalance,
		ComputedClosingBalance: m.ComputedClosingBalance,
		BalanceMismatch:        m.BalanceMismatch,
		Status:                 domain.StatementStatus(m.Status),
		SourceFormat:           m.SourceFormat,
		CompletedAt:            timePtr(m.CompletedAt),
		CompletedBy:            m.CompletedBy.String,
		AuditFields:            ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStatementEntry converts a domain StatementEntry to a model StatementEntry
func ToModelStatementEntry(d domain.StatementEntry) models.StatementEntry {
	return models.StatementEntry{
		StatementEntryID: d.StatementEntryID,
		StatementID:      d.StatementID,
		RowNo:            d.RowNo,
		TxnDate:          d.TxnDate,
		Description:      d.Description,
		Reference:        d.Reference,
		EntryType:        string(d.EntryType),
		Amount:           d.Amount,
		DeclaredBalance:  d.DeclaredBalance,
		ComputedBalance:  d.ComputedBalance,
		BalanceMismatch:  d.BalanceMismatch,
		MatchedLineID:    NullString(d.MatchedLineID),
		MatchedAt:        NullTime(d.MatchedAt),
		MatchedBy:        NullString(d.MatchedBy),
	}
}

// ToDomainStatementEntry converts a model StatementEntry to a domain StatementEntry
func ToDomainStatementEntry(m models.StatementEntry) domain.StatementEntry {
	return domain.StatementEntry{
		StatementEntryID: m.StatementEntryID,
		StatementID:      m.StatementID,
		RowNo:            m.RowNo,
		TxnDate:          domain.DateOnly(m.TxnDate),
		Description:      m.Description,
		Reference:        m.Reference,
		EntryType:        domain.StatementEntryType(m.EntryType),
		Amount:           m.Amount,
		DeclaredBalance:  m.DeclaredBalance,
		ComputedBalance:  m.ComputedBalance,
		BalanceMismatch:  m.BalanceMismatch,
		MatchedLineID:    m.MatchedLineID.String,
		MatchedAt:        timePtr(m.MatchedAt),
		MatchedBy:        m.MatchedBy.String,
	}
}
