package repositories

import (
	"context"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account of a temple.
	FindAccountByID(ctx context.Context, templeID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its temple-unique code.
	FindAccountByCode(ctx context.Context, templeID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, templeID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves every account of a temple ordered by code.
	ListAccounts(ctx context.Context, templeID string) ([]domain.Account, error)

	// AccountHasLines reports whether any journal line references the account.
	AccountHasLines(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A duplicate code yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account that has never been used.
	DeleteAccount(ctx context.Context, templeID, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
