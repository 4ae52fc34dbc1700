package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/temple_ledger/internal/models"
	"github.com/SscSPs/temple_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPeriodRepository struct {
	pool *pgxpool.Pool
}

func newPgxPeriodRepository(pool *pgxpool.Pool) *PgxPeriodRepository {
	return &PgxPeriodRepository{pool: pool}
}

var _ portsrepo.PeriodRepository = (*PgxPeriodRepository)(nil)

const closingColumns = `closing_id, temple_id, fiscal_year, closing_type, period_start, closing_date,
	total_income, total_expense, net_surplus, closing_entry_id, status,
	created_at, created_by, last_updated_at, last_updated_by`

func saveClosing(ctx context.Context, db dbtx, closing domain.PeriodClosing) error {
	m := mapping.ToModelPeriodClosing(closing)
	query := `
		INSERT INTO period_closings (` + closingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := db.Exec(ctx, query,
		m.ClosingID,
		m.TempleID,
		m.FiscalYear,
		m.ClosingType,
		m.PeriodStart,
		m.ClosingDate,
		m.TotalIncome,
		m.TotalExpense,
		m.NetSurplus,
		m.ClosingEntryID,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: period ending %s is already closed", apperrors.ErrDuplicate, m.ClosingDate.Format(time.DateOnly))
		}
		return fmt.Errorf("failed to insert period closing %s: %w", m.ClosingID, err)
	}
	return nil
}

func isDateLocked(ctx context.Context, db dbtx, templeID string, date time.Time) (bool, error) {
	var locked bool
	err := db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM period_closings
			WHERE temple_id = $1 AND status = 'CLOSED' AND $2 BETWEEN period_start AND closing_date
		);
	`, templeID, domain.DateOnly(date)).Scan(&locked)
	if err != nil {
		return false, fmt.Errorf("failed to check period lock for %s: %w", date.Format(time.DateOnly), err)
	}
	return locked, nil
}

// SaveClosing persists a closing outside a ledger transaction.
func (r *PgxPeriodRepository) SaveClosing(ctx context.Context, closing domain.PeriodClosing) error {
	return saveClosing(ctx, r.pool, closing)
}

// IsDateLocked reports whether a closed period covers the date.
func (r *PgxPeriodRepository) IsDateLocked(ctx context.Context, templeID string, date time.Time) (bool, error) {
	return isDateLocked(ctx, r.pool, templeID, date)
}

// ListClosings returns closings ordered by date with month-end before year-end on the same day.
func (r *PgxPeriodRepository) ListClosings(ctx context.Context, templeID string, fiscalYear int) ([]domain.PeriodClosing, error) {
	query := `
		SELECT ` + closingColumns + `
		FROM period_closings
		WHERE temple_id = $1 AND ($2 = 0 OR fiscal_year = $2)
		ORDER BY closing_date, CASE closing_type WHEN 'month_end' THEN 0 ELSE 1 END;
	`
	rows, err := r.pool.Query(ctx, query, templeID, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query closings for temple %s: %w", templeID, err)
	}
	defer rows.Close()

	closings := []domain.PeriodClosing{}
	for rows.Next() {
		var m models.PeriodClosing
		err := rows.Scan(
			&m.ClosingID,
			&m.TempleID,
			&m.FiscalYear,
			&m.ClosingType,
			&m.PeriodStart,
			&m.ClosingDate,
			&m.TotalIncome,
			&m.TotalExpense,
			&m.NetSurplus,
			&m.ClosingEntryID,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period closing: %w", err)
		}
		closings = append(closings, mapping.ToDomainPeriodClosing(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period closings: %w", err)
	}
	return closings, nil
}
