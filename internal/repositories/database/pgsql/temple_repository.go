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

type PgxTempleRepository struct {
	pool *pgxpool.Pool
}

func newPgxTempleRepository(pool *pgxpool.Pool) *PgxTempleRepository {
	return &PgxTempleRepository{pool: pool}
}

var _ portsrepo.TempleRepositoryFacade = (*PgxTempleRepository)(nil)

const templeColumns = `temple_id, name, description, fiscal_year_start_month, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTemple(row scanner) (domain.Temple, error) {
	var m models.Temple
	err := row.Scan(
		&m.TempleID,
		&m.Name,
		&m.Description,
		&m.FiscalYearStartMonth,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Temple{}, err
	}
	return mapping.ToDomainTemple(m), nil
}

// SaveTemple inserts a new temple.
func (r *PgxTempleRepository) SaveTemple(ctx context.Context, temple domain.Temple) error {
	m := mapping.ToModelTemple(temple)
	query := `
		INSERT INTO temples (` + templeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.TempleID,
		m.Name,
		m.Description,
		m.FiscalYearStartMonth,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: temple %s", apperrors.ErrDuplicate, m.TempleID)
		}
		return fmt.Errorf("failed to insert temple %s: %w", m.TempleID, err)
	}
	return nil
}

// FindTempleByID retrieves a temple by its ID.
func (r *PgxTempleRepository) FindTempleByID(ctx context.Context, templeID string) (*domain.Temple, error) {
	query := `SELECT ` + templeColumns + ` FROM temples WHERE temple_id = $1;`
	temple, err := scanTemple(r.pool.QueryRow(ctx, query, templeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("temple " + templeID)
		}
		return nil, fmt.Errorf("failed to find temple %s: %w", templeID, err)
	}
	return &temple, nil
}

// ListTemples retrieves every temple ordered by name.
func (r *PgxTempleRepository) ListTemples(ctx context.Context) ([]domain.Temple, error) {
	query := `SELECT ` + templeColumns + ` FROM temples ORDER BY name, temple_id;`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query temples: %w", err)
	}
	defer rows.Close()

	temples := []domain.Temple{}
	for rows.Next() {
		t, err := scanTemple(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan temple row: %w", err)
		}
		temples = append(temples, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating temple rows: %w", err)
	}
	return temples, nil
}
