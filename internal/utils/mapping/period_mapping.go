package mapping

import (
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/models"
)

// ToModelPeriodClosing converts a domain PeriodClosing to a model PeriodClosing
func ToModelPeriodClosing(d domain.PeriodClosing) models.PeriodClosing {
	return models.PeriodClosing{
		ClosingID:      d.ClosingID,
		TempleID:       d.TempleID,
		FiscalYear:     d.FiscalYear,
		ClosingType:    string(d.ClosingType),
		PeriodStart:    d.PeriodStart,
		ClosingDate:    d.ClosingDate,
		TotalIncome:    d.TotalIncome,
		TotalExpense:   d.TotalExpense,
		NetSurplus:     d.NetSurplus,
		ClosingEntryID: NullString(d.ClosingEntryID),
		Status:         d.Status,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPeriodClosing converts a model PeriodClosing to a domain PeriodClosing
func ToDomainPeriodClosing(m models.PeriodClosing) domain.PeriodClosing {
	return domain.PeriodClosing{
		ClosingID:      m.ClosingID,
		TempleID:       m.TempleID,
		FiscalYear:     m.FiscalYear,
		ClosingType:    domain.ClosingType(m.ClosingType),
		PeriodStart:    domain.DateOnly(m.PeriodStart),
		ClosingDate:    domain.DateOnly(m.ClosingDate),
		TotalIncome:    m.TotalIncome,
		TotalExpense:   m.TotalExpense,
		NetSurplus:     m.NetSurplus,
		ClosingEntryID: m.ClosingEntryID.String,
		Status:         m.Status,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
