package services

import (
	"context"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account of a temple.
	GetAccountByID(ctx context.Context, templeID string, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its code.
	GetAccountByCode(ctx context.Context, templeID string, code string) (*domain.Account, error)

	// GetAccountByIDs retrieves multiple accounts by their IDs.
	GetAccountByIDs(ctx context.Context, templeID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the flat chart of accounts ordered by code.
	ListAccounts(ctx context.Context, templeID string) ([]domain.Account, error)

	// GetHierarchy assembles the nested chart of accounts.
	GetHierarchy(ctx context.Context, templeID string) ([]*domain.AccountNode, error)

	// HasTransactions reports whether any journal line references the account.
	HasTransactions(ctx context.Context, templeID string, accountID string) (bool, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, templeID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, templeID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, templeID string, accountID string, userID string) error

	// DeleteAccount removes an account that no line has ever referenced.
	DeleteAccount(ctx context.Context, templeID string, accountID string, userID string) error

	// SeedDefaultChart installs the default temple chart of accounts, skipping codes that already exist.
	SeedDefaultChart(ctx context.Context, templeID string, userID string) ([]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
