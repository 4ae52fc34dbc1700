package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/temple_ledger/internal/models"
	"github.com/SscSPs/temple_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReportingRepository reads the posted line stream with SQL filters and aggregates.
type ReportingRepository struct {
	pool *pgxpool.Pool
}

func newReportingRepository(pool *pgxpool.Pool) *ReportingRepository {
	return &ReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

const postedLineColumns = `l.line_id, l.entry_id, l.line_no, l.account_id, l.debit, l.credit, l.description,
	e.temple_id, e.entry_date, e.entry_number, e.fiscal_year, e.chain_seq,
	e.narration, e.reference_type, e.reference_number, e.status`

func scanPostedLine(row scanner) (domain.PostedLine, error) {
	var (
		e models.JournalEntry
		l models.JournalLine
	)
	err := row.Scan(
		&l.LineID, &l.EntryID, &l.LineNo, &l.AccountID, &l.Debit, &l.Credit, &l.Description,
		&e.TempleID, &e.EntryDate, &e.EntryNumber, &e.FiscalYear, &e.ChainSeq,
		&e.Narration, &e.ReferenceType, &e.ReferenceNumber, &e.Status,
	)
	if err != nil {
		return domain.PostedLine{}, err
	}
	return mapping.ToPostedLine(e, l), nil
}

// lineFilterWhere renders the WHERE clause shared by both queries. Zero dates are unbounded.
func lineFilterWhere(templeID string, filter domain.LineFilter) (string, []any) {
	conds := []string{"e.temple_id = $1", "e.status IN ('POSTED', 'REVERSED')"}
	args := []any{templeID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if !filter.From.IsZero() {
		add("e.entry_date >= $%d", domain.DateOnly(filter.From))
	}
	if !filter.To.IsZero() {
		add("e.entry_date <= $%d", domain.DateOnly(filter.To))
	}
	if len(filter.AccountIDs) > 0 {
		add("l.account_id = ANY($%d)", filter.AccountIDs)
	}
	if len(filter.ExcludeReferenceTypes) > 0 {
		add("NOT (e.reference_type = ANY($%d))", filter.ExcludeReferenceTypes)
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ListPostedLines returns matching lines ordered by entry date, chain order and line number.
func (r *ReportingRepository) ListPostedLines(ctx context.Context, templeID string, filter domain.LineFilter) ([]domain.PostedLine, error) {
	where, args := lineFilterWhere(templeID, filter)
	query := `
		SELECT ` + postedLineColumns + `
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		` + where + `
		ORDER BY e.entry_date, e.chain_seq, l.line_no;
	`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted lines for temple %s: %w", templeID, err)
	}
	defer rows.Close()

	lines := []domain.PostedLine{}
	for rows.Next() {
		pl, err := scanPostedLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posted line: %w", err)
		}
		lines = append(lines, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted lines: %w", err)
	}
	return lines, nil
}

// SumByAccount returns debit and credit totals per account, ordered by account ID.
func (r *ReportingRepository) SumByAccount(ctx context.Context, templeID string, filter domain.LineFilter) ([]domain.AccountTotals, error) {
	return sumByAccount(ctx, r.pool, templeID, filter)
}

func sumByAccount(ctx context.Context, db dbtx, templeID string, filter domain.LineFilter) ([]domain.AccountTotals, error) {
	where, args := lineFilterWhere(templeID, filter)
	query := `
		SELECT l.account_id, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		` + where + `
		GROUP BY l.account_id
		ORDER BY l.account_id;
	`
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum lines for temple %s: %w", templeID, err)
	}
	defer rows.Close()

	totals := []domain.AccountTotals{}
	for rows.Next() {
		var (
			t             domain.AccountTotals
			debit, credit decimal.Decimal
		)
		if err := rows.Scan(&t.AccountID, &debit, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan account totals: %w", err)
		}
		t.Debit, t.Credit = debit, credit
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account totals: %w", err)
	}
	return totals, nil
}
