package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/temple_ledger/internal/models"
	"github.com/SscSPs/temple_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStatementRepository struct {
	BaseRepository
}

// newPgxStatementRepository creates a new repository for bank statements and their rows.
func newPgxStatementRepository(pool *pgxpool.Pool) *PgxStatementRepository {
	return &PgxStatementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StatementRepositoryFacade = (*PgxStatementRepository)(nil)

const statementColumns = `statement_id, temple_id, account_id, period_start, period_end,
	opening_balance, closing_balance, computed_closing_balance, balance_mismatch,
	status, source_format, completed_at, completed_by,
	created_at, created_by, last_updated_at, last_updated_by`

const statementEntryColumns = `statement_entry_id, statement_id, row_no, txn_date, description, reference,
	entry_type, amount, declared_balance, computed_balance, balance_mismatch,
	matched_line_id, matched_at, matched_by`

func scanStatement(row scanner) (domain.BankStatement, error) {
	var m models.BankStatement
	err := row.Scan(
		&m.StatementID,
		&m.TempleID,
		&m.AccountID,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.ComputedClosingBalance,
		&m.BalanceMismatch,
		&m.Status,
		&m.SourceFormat,
		&m.CompletedAt,
		&m.CompletedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.BankStatement{}, err
	}
	return mapping.ToDomainBankStatement(m), nil
}

func scanStatementEntry(row scanner) (domain.StatementEntry, error) {
	var m models.StatementEntry
	err := row.Scan(
		&m.StatementEntryID,
		&m.StatementID,
		&m.RowNo,
		&m.TxnDate,
		&m.Description,
		&m.Reference,
		&m.EntryType,
		&m.Amount,
		&m.DeclaredBalance,
		&m.ComputedBalance,
		&m.BalanceMismatch,
		&m.MatchedLineID,
		&m.MatchedAt,
		&m.MatchedBy,
	)
	if err != nil {
		return domain.StatementEntry{}, err
	}
	return mapping.ToDomainStatementEntry(m), nil
}

// SaveStatement persists a statement and all its rows in one transaction.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, statement domain.BankStatement, entries []domain.StatementEntry) error {
	m := mapping.ToModelBankStatement(statement)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bank_statements (` + statementColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
		`
		_, err := tx.Exec(ctx, query,
			m.StatementID,
			m.TempleID,
			m.AccountID,
			m.PeriodStart,
			m.PeriodEnd,
			m.OpeningBalance,
			m.ClosingBalance,
			m.ComputedClosingBalance,
			m.BalanceMismatch,
			m.Status,
			m.SourceFormat,
			m.CompletedAt,
			m.CompletedBy,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: statement %s", apperrors.ErrDuplicate, m.StatementID)
			}
			return fmt.Errorf("failed to insert statement %s: %w", m.StatementID, err)
		}

		batch := &pgx.Batch{}
		rowQuery := `
			INSERT INTO statement_entries (` + statementEntryColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
		`
		for _, e := range entries {
			me := mapping.ToModelStatementEntry(e)
			batch.Queue(rowQuery,
				me.StatementEntryID,
				me.StatementID,
				me.RowNo,
				me.TxnDate,
				me.Description,
				me.Reference,
				me.EntryType,
				me.Amount,
				me.DeclaredBalance,
				me.ComputedBalance,
				me.BalanceMismatch,
				me.MatchedLineID,
				me.MatchedAt,
				me.MatchedBy,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert rows of statement %s: %w", m.StatementID, err)
		}
		return nil
	})
}

// FindStatementByID retrieves a statement of a temple.
func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, templeID, statementID string) (*domain.BankStatement, error) {
	query := `SELECT ` + statementColumns + ` FROM bank_statements WHERE temple_id = $1 AND statement_id = $2;`
	st, err := scanStatement(r.Pool.QueryRow(ctx, query, templeID, statementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("statement " + statementID)
		}
		return nil, fmt.Errorf("failed to find statement %s: %w", statementID, err)
	}
	return &st, nil
}

// ListStatements lists statements newest period first. An empty accountID lists every bank account.
func (r *PgxStatementRepository) ListStatements(ctx context.Context, templeID, accountID string) ([]domain.BankStatement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM bank_statements
		WHERE temple_id = $1 AND ($2 = '' OR account_id = $2)
		ORDER BY period_start DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, templeID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query statements for temple %s: %w", templeID, err)
	}
	defer rows.Close()

	statements := []domain.BankStatement{}
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement row: %w", err)
		}
		statements = append(statements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement rows: %w", err)
	}
	return statements, nil
}

// FindStatementEntries returns the rows of a statement in file order.
func (r *PgxStatementRepository) FindStatementEntries(ctx context.Context, statementID string) ([]domain.StatementEntry, error) {
	query := `SELECT ` + statementEntryColumns + ` FROM statement_entries WHERE statement_id = $1 ORDER BY row_no;`
	rows, err := r.Pool.Query(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows of statement %s: %w", statementID, err)
	}
	defer rows.Close()

	entries := []domain.StatementEntry{}
	for rows.Next() {
		e, err := scanStatementEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement entries: %w", err)
	}
	return entries, nil
}

// FindStatementEntryByID retrieves one row of a statement.
func (r *PgxStatementRepository) FindStatementEntryByID(ctx context.Context, statementID, statementEntryID string) (*domain.StatementEntry, error) {
	query := `SELECT ` + statementEntryColumns + ` FROM statement_entries WHERE statement_id = $1 AND statement_entry_id = $2;`
	e, err := scanStatementEntry(r.Pool.QueryRow(ctx, query, statementID, statementEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("statement entry " + statementEntryID)
		}
		return nil, fmt.Errorf("failed to find statement entry %s: %w", statementEntryID, err)
	}
	return &e, nil
}

// FindMatchedLineIDs returns every journal line matched on any statement of the account.
func (r *PgxStatementRepository) FindMatchedLineIDs(ctx context.Context, accountID string) (map[string]bool, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT se.matched_line_id
		FROM statement_entries se
		JOIN bank_statements bs ON bs.statement_id = se.statement_id
		WHERE bs.account_id = $1 AND se.matched_line_id IS NOT NULL;
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matched lines of account %s: %w", accountID, err)
	}
	defer rows.Close()

	matched := make(map[string]bool)
	for rows.Next() {
		var lineID string
		if err := rows.Scan(&lineID); err != nil {
			return nil, fmt.Errorf("failed to scan matched line: %w", err)
		}
		matched[lineID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matched lines: %w", err)
	}
	return matched, nil
}

// MatchEntry pairs a statement row with a journal line. The row is locked so two matchers cannot race,
// and a unique index on matched_line_id keeps a line on at most one row.
func (r *PgxStatementRepository) MatchEntry(ctx context.Context, statementEntryID, lineID, userID string, at time.Time) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		var (
			rowNo   int
			current *string
		)
		err := tx.QueryRow(ctx,
			`SELECT row_no, matched_line_id FROM statement_entries WHERE statement_entry_id = $1 FOR UPDATE;`,
			statementEntryID,
		).Scan(&rowNo, &current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("statement entry " + statementEntryID)
			}
			return fmt.Errorf("failed to lock statement entry %s: %w", statementEntryID, err)
		}
		if current != nil {
			return fmt.Errorf("%w: statement row %d is already matched", apperrors.ErrReconciliationConflict, rowNo)
		}

		_, err = tx.Exec(ctx, `
			UPDATE statement_entries SET matched_line_id = $2, matched_at = $3, matched_by = $4
			WHERE statement_entry_id = $1;
		`, statementEntryID, lineID, at, userID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: line %s is already matched", apperrors.ErrReconciliationConflict, lineID)
			}
			return fmt.Errorf("failed to match statement entry %s: %w", statementEntryID, err)
		}
		return nil
	})
}

// UnmatchEntry clears a pairing.
func (r *PgxStatementRepository) UnmatchEntry(ctx context.Context, statementEntryID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE statement_entries SET matched_line_id = NULL, matched_at = NULL, matched_by = NULL
		WHERE statement_entry_id = $1;
	`, statementEntryID)
	if err != nil {
		return fmt.Errorf("failed to unmatch statement entry %s: %w", statementEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("statement entry " + statementEntryID)
	}
	return nil
}

// UpdateStatementStatus moves a statement to a new status, stamping completion when it completes.
func (r *PgxStatementRepository) UpdateStatementStatus(ctx context.Context, statementID string, status domain.StatementStatus, userID string, at time.Time) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE bank_statements
		SET status = $2, last_updated_at = $3, last_updated_by = $4,
		    completed_at = CASE WHEN $2 = 'COMPLETED' THEN $3 ELSE completed_at END,
		    completed_by = CASE WHEN $2 = 'COMPLETED' THEN $4 ELSE completed_by END
		WHERE statement_id = $1;
	`, statementID, string(status), at, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of statement %s: %w", statementID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("statement " + statementID)
	}
	return nil
}
