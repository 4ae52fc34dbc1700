package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/temple_ledger/internal/models"
	"github.com/SscSPs/temple_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, temple_id, code, name, description, account_type, subtype,
	parent_account_id, is_active, allow_manual_entry,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row scanner) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.TempleID,
		&m.Code,
		&m.Name,
		&m.Description,
		&m.AccountType,
		&m.Subtype,
		&m.ParentAccountID,
		&m.IsActive,
		&m.AllowManualEntry,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account into the database.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AccountID,
		m.TempleID,
		m.Code,
		m.Name,
		m.Description,
		m.AccountType,
		m.Subtype,
		m.ParentAccountID,
		m.IsActive,
		m.AllowManualEntry,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to insert account %s: %w", m.AccountID, err)
	}
	return nil
}

// UpdateAccount updates an existing account in the database.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET code = $3, name = $4, description = $5, account_type = $6, subtype = $7,
		    parent_account_id = $8, is_active = $9, allow_manual_entry = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE temple_id = $1 AND account_id = $2;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.TempleID,
		m.AccountID,
		m.Code,
		m.Name,
		m.Description,
		m.AccountType,
		m.Subtype,
		m.ParentAccountID,
		m.IsActive,
		m.AllowManualEntry,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + m.AccountID)
	}
	return nil
}

// DeleteAccount removes an account. Journal lines reference accounts, so a used account fails the foreign key.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, templeID, accountID string) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE temple_id = $1 AND account_id = $2;`, templeID, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID)
	}
	return nil
}

// FindAccountByID retrieves an account of a temple by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, templeID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE temple_id = $1 AND account_id = $2;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, templeID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + accountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its temple-unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, templeID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE temple_id = $1 AND code = $2;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, templeID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account code " + code)
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
// It's possible not all requested IDs were found, the map will simply not contain them.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, templeID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE temple_id = $1 AND account_id = ANY($2);`
	rows, err := r.pool.Query(ctx, query, templeID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}
	res := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		res[acc.AccountID] = acc
	}
	return res, nil
}

// ListAccounts retrieves every account of a temple ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, templeID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE temple_id = $1 ORDER BY code;`
	rows, err := r.pool.Query(ctx, query, templeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for temple %s: %w", templeID, err)
	}
	return collectAccounts(rows)
}

// AccountHasLines reports whether any journal line references the account.
func (r *PgxAccountRepository) AccountHasLines(ctx context.Context, accountID string) (bool, error) {
	var used bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1);`, accountID).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("failed to check usage of account %s: %w", accountID, err)
	}
	return used, nil
}
