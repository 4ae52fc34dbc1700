package mapping

import (
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/models"
)

// ToModelTemple converts a domain Temple to a model Temple
func ToModelTemple(d domain.Temple) models.Temple {
	return models.Temple{
		TempleID:             d.TempleID,
		Name:                 d.Name,
		Description:          d.Description,
		FiscalYearStartMonth: int(d.FiscalYearStartMonth),
		IsActive:             d.IsActive,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTemple converts a model Temple to a domain Temple
func ToDomainTemple(m models.Temple) domain.Temple {
	return domain.Temple{
		TempleID:             m.TempleID,
		Name:                 m.Name,
		Description:          m.Description,
		FiscalYearStartMonth: time.Month(m.FiscalYearStartMonth),
		IsActive:             m.IsActive,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
