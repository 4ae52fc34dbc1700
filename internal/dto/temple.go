package dto

import (
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// CreateTempleRequest defines the data needed to register a temple (tenant).
type CreateTempleRequest struct {
	Name                 string `json:"name" binding:"required"`
	Description          string `json:"description"`
	FiscalYearStartMonth int    `json:"fiscalYearStartMonth" binding:"omitempty,min=1,max=12"` // defaults to April
	SeedDefaultChart     bool   `json:"seedDefaultChart"`
}

// TempleResponse defines the data returned for a temple.
type TempleResponse struct {
	TempleID             string    `json:"templeID"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	FiscalYearStartMonth int       `json:"fiscalYearStartMonth"`
	IsActive             bool      `json:"isActive"`
	CreatedAt            time.Time `json:"createdAt"`
	CreatedBy            string    `json:"createdBy"`
}

// ToTempleResponse converts a domain.Temple to TempleResponse DTO.
func ToTempleResponse(t *domain.Temple) TempleResponse {
	return TempleResponse{
		TempleID:             t.TempleID,
		Name:                 t.Name,
		Description:          t.Description,
		FiscalYearStartMonth: int(t.FiscalYearStartMonth),
		IsActive:             t.IsActive,
		CreatedAt:            t.CreatedAt,
		CreatedBy:            t.CreatedBy,
	}
}

// ListTemplesResponse wraps the temple list.
type ListTemplesResponse struct {
	Temples []TempleResponse `json:"temples"`
}
