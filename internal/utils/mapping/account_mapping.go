package mapping

import (
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		TempleID:         d.TempleID,
		Code:             d.Code,
		Name:             d.Name,
		Description:      d.Description,
		AccountType:      string(d.AccountType),
		Subtype:          string(d.Subtype),
		ParentAccountID:  NullString(d.ParentAccountID),
		IsActive:         d.IsActive,
		AllowManualEntry: d.AllowManualEntry,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		TempleID:         m.TempleID,
		Code:             m.Code,
		Name:             m.Name,
		Description:      m.Description,
		AccountType:      domain.AccountType(m.AccountType),
		Subtype:          domain.AccountSubtype(m.Subtype),
		ParentAccountID:  m.ParentAccountID.String,
		IsActive:         m.IsActive,
		AllowManualEntry: m.AllowManualEntry,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
