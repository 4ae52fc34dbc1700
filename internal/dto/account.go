package dto

import (
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code             string                `json:"code" binding:"required,max=20"`
	Name             string                `json:"name" binding:"required"`
	AccountType      domain.AccountType    `json:"accountType" binding:"required,account_type"`
	Subtype          domain.AccountSubtype `json:"subtype" binding:"omitempty,account_subtype"`
	ParentAccountID  *string               `json:"parentAccountID"` // Optional, use pointer for nullability
	Description      string                `json:"description"`
	AllowManualEntry *bool                 `json:"allowManualEntry"` // defaults to true
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Code and AccountType are rejected once the account has lines.
type UpdateAccountRequest struct {
	Code             *string                `json:"code" binding:"omitempty,max=20"`
	Name             *string                `json:"name"`
	AccountType      *domain.AccountType    `json:"accountType" binding:"omitempty,account_type"`
	Subtype          *domain.AccountSubtype `json:"subtype" binding:"omitempty,account_subtype"`
	ParentAccountID  *string                `json:"parentAccountID"` // empty string moves the account to the top level
	Description      *string                `json:"description"`
	IsActive         *bool                  `json:"isActive"`
	AllowManualEntry *bool                  `json:"allowManualEntry"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string                `json:"accountID"`
	TempleID         string                `json:"templeID"`
	Code             string                `json:"code"`
	Name             string                `json:"name"`
	AccountType      domain.AccountType    `json:"accountType"`
	Subtype          domain.AccountSubtype `json:"subtype"`
	ParentAccountID  string                `json:"parentAccountID"` // Note: Empty string if null in DB
	Description      string                `json:"description"`
	IsActive         bool                  `json:"isActive"`
	AllowManualEntry bool                  `json:"allowManualEntry"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy    string                `json:"lastUpdatedBy"`
}

// AccountTreeResponse is one node of the chart of accounts hierarchy.
type AccountTreeResponse struct {
	AccountResponse
	Children []AccountTreeResponse `json:"children"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		TempleID:         acc.TempleID,
		Code:             acc.Code,
		Name:             acc.Name,
		AccountType:      acc.AccountType,
		Subtype:          acc.Subtype,
		ParentAccountID:  acc.ParentAccountID,
		Description:      acc.Description,
		IsActive:         acc.IsActive,
		AllowManualEntry: acc.AllowManualEntry,
		CreatedAt:        acc.CreatedAt,
		CreatedBy:        acc.CreatedBy,
		LastUpdatedAt:    acc.LastUpdatedAt,
		LastUpdatedBy:    acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ToAccountTreeResponse converts the assembled hierarchy recursively.
func ToAccountTreeResponse(nodes []*domain.AccountNode) []AccountTreeResponse {
	res := make([]AccountTreeResponse, len(nodes))
	for i, n := range nodes {
		res[i] = AccountTreeResponse{
			AccountResponse: ToAccountResponse(&n.Account),
			Children:        ToAccountTreeResponse(n.Children),
		}
	}
	return res
}

// HasTransactionsResponse answers whether an account is referenced by posted lines.
type HasTransactionsResponse struct {
	AccountID       string `json:"accountID"`
	HasTransactions bool   `json:"hasTransactions"`
}

// ListAccountsResponse wraps the flat chart of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
