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
	"github.com/SscSPs/temple_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, temple_id, chain_seq, fiscal_year, entry_number, entry_date,
	narration, reference_type, reference_number, status, total_amount, reason,
	integrity_hash, previous_hash,
	reversal_of_entry_id, reversed_by_entry_id, correction_of_entry_id, corrected_by_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_no, account_id, debit, credit, description`

func entryScanTargets(m *models.JournalEntry) []any {
	return []any{
		&m.EntryID,
		&m.TempleID,
		&m.ChainSeq,
		&m.FiscalYear,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Narration,
		&m.ReferenceType,
		&m.ReferenceNumber,
		&m.Status,
		&m.TotalAmount,
		&m.Reason,
		&m.IntegrityHash,
		&m.PreviousHash,
		&m.ReversalOfEntryID,
		&m.ReversedByEntryID,
		&m.CorrectionOfEntryID,
		&m.CorrectedByEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	}
}

func lineScanTargets(m *models.JournalLine) []any {
	return []any{&m.LineID, &m.EntryID, &m.LineNo, &m.AccountID, &m.Debit, &m.Credit, &m.Description}
}

func scanEntry(row scanner) (domain.JournalEntry, error) {
	var m models.JournalEntry
	if err := row.Scan(entryScanTargets(&m)...); err != nil {
		return domain.JournalEntry{}, err
	}
	return mapping.ToDomainJournalEntry(m), nil
}

func collectEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	defer rows.Close()
	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}

func collectLines(rows pgx.Rows) ([]domain.JournalLine, error) {
	defer rows.Close()
	lines := []domain.JournalLine{}
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(lineScanTargets(&m)...); err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}
	return lines, nil
}

func findEntry(ctx context.Context, db dbtx, templeID, entryID string, forUpdate bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE temple_id = $1 AND entry_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	entry, err := scanEntry(db.QueryRow(ctx, query, templeID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry " + entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return &entry, nil
}

func findLines(ctx context.Context, db dbtx, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_no;`
	rows, err := db.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	return collectLines(rows)
}

// FindEntryByID retrieves an entry of a temple by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, templeID, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, r.Pool, templeID, entryID, false)
}

// FindLinesByEntryID retrieves the lines of an entry ordered by line number.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	return findLines(ctx, r.Pool, entryID)
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	res := make(map[string][]domain.JournalLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return res, nil
	}
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_no;`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for %d entries: %w", len(entryIDs), err)
	}
	lines, err := collectLines(rows)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		res[l.EntryID] = append(res[l.EntryID], l)
	}
	return res, nil
}

// FindPostedLineByID retrieves one line of an entry that counts in the ledger.
func (r *PgxJournalRepository) FindPostedLineByID(ctx context.Context, templeID, lineID string) (*domain.PostedLine, error) {
	query := `
		SELECT ` + postedLineColumns + `
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.temple_id = $1 AND l.line_id = $2 AND e.status IN ('POSTED', 'REVERSED');
	`
	pl, err := scanPostedLine(r.Pool.QueryRow(ctx, query, templeID, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal line " + lineID)
		}
		return nil, fmt.Errorf("failed to find journal line %s: %w", lineID, err)
	}
	return &pl, nil
}

// ListEntries retrieves a page of entries, newest entry date first, using keyset pagination.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, templeID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows pgx.Rows
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		curDate, curSeq, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		query := `
			SELECT ` + entryColumns + `
			FROM journal_entries
			WHERE temple_id = $1 AND (entry_date < $2 OR (entry_date = $2 AND chain_seq < $3))
			ORDER BY entry_date DESC, chain_seq DESC
			LIMIT $4;
		`
		rows, err = r.Pool.Query(ctx, query, templeID, curDate, curSeq, limit+1)
	} else {
		query := `
			SELECT ` + entryColumns + `
			FROM journal_entries
			WHERE temple_id = $1
			ORDER BY entry_date DESC, chain_seq DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, templeID, limit+1)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries for temple %s: %w", templeID, err)
	}

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.ChainSeq)
		next = &token
	}
	return entries, next, nil
}

// ListChain retrieves entries after afterSeq in chain order. A non-positive limit returns the rest of the chain.
func (r *PgxJournalRepository) ListChain(ctx context.Context, templeID string, afterSeq int64, limit int) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE temple_id = $1 AND chain_seq > $2
		ORDER BY chain_seq`
	args := []any{templeID, afterSeq}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain of temple %s: %w", templeID, err)
	}
	return collectEntries(rows)
}

// FindLedgerHead returns the chain tail, or nil when the temple has never posted.
func (r *PgxJournalRepository) FindLedgerHead(ctx context.Context, templeID string) (*domain.LedgerHead, error) {
	head := domain.LedgerHead{TempleID: templeID}
	err := r.Pool.QueryRow(ctx,
		`SELECT last_chain_seq, last_hash FROM ledger_heads WHERE temple_id = $1;`, templeID,
	).Scan(&head.LastChainSeq, &head.LastHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ledger head of temple %s: %w", templeID, err)
	}
	return &head, nil
}

// WithinTx runs fn in one database transaction. LockLedgerHead takes a row lock that serializes posting per temple.
func (r *PgxJournalRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxLedgerTx{tx: tx})
	})
}

// pgxLedgerTx implements portsrepo.LedgerTx on an open transaction.
type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func (t *pgxLedgerTx) LockLedgerHead(ctx context.Context, templeID string) (domain.LedgerHead, error) {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO ledger_heads (temple_id, last_chain_seq, last_hash)
		VALUES ($1, 0, '')
		ON CONFLICT (temple_id) DO NOTHING;
	`, templeID)
	if err != nil {
		return domain.LedgerHead{}, fmt.Errorf("failed to create ledger head of temple %s: %w", templeID, err)
	}

	head := domain.LedgerHead{TempleID: templeID}
	err = t.tx.QueryRow(ctx,
		`SELECT last_chain_seq, last_hash FROM ledger_heads WHERE temple_id = $1 FOR UPDATE;`, templeID,
	).Scan(&head.LastChainSeq, &head.LastHash)
	if err != nil {
		return domain.LedgerHead{}, fmt.Errorf("failed to lock ledger head of temple %s: %w", templeID, err)
	}
	return head, nil
}

func (t *pgxLedgerTx) AdvanceLedgerHead(ctx context.Context, head domain.LedgerHead) error {
	cmdTag, err := t.tx.Exec(ctx, `
		UPDATE ledger_heads SET last_chain_seq = $2, last_hash = $3
		WHERE temple_id = $1 AND last_chain_seq = $2 - 1;
	`, head.TempleID, head.LastChainSeq, head.LastHash)
	if err != nil {
		return fmt.Errorf("failed to advance ledger head of temple %s: %w", head.TempleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger head of temple %s is not at %d", apperrors.ErrConflict, head.TempleID, head.LastChainSeq-1)
	}
	return nil
}

func (t *pgxLedgerTx) NextEntryNumber(ctx context.Context, templeID string, fiscalYear int) (int64, error) {
	var next int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO entry_sequences (temple_id, fiscal_year, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (temple_id, fiscal_year) DO UPDATE SET last_number = entry_sequences.last_number + 1
		RETURNING last_number;
	`, templeID, fiscalYear).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate entry number for %s FY%d: %w", templeID, fiscalYear, err)
	}
	return next, nil
}

func (t *pgxLedgerTx) FindEntryForUpdate(ctx context.Context, templeID, entryID string) (*domain.JournalEntry, error) {
	return findEntry(ctx, t.tx, templeID, entryID, true)
}

func (t *pgxLedgerTx) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	return findLines(ctx, t.tx, entryID)
}

func (t *pgxLedgerTx) InsertEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	m := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := t.tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.TempleID,
		m.ChainSeq,
		m.FiscalYear,
		m.EntryNumber,
		m.EntryDate,
		m.Narration,
		m.ReferenceType,
		m.ReferenceNumber,
		m.Status,
		m.TotalAmount,
		m.Reason,
		m.IntegrityHash,
		m.PreviousHash,
		m.ReversalOfEntryID,
		m.ReversedByEntryID,
		m.CorrectionOfEntryID,
		m.CorrectedByEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, m.EntryID)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, l := range lines {
		ml := mapping.ToModelJournalLine(l)
		batch.Queue(lineQuery, ml.LineID, ml.EntryID, ml.LineNo, ml.AccountID, ml.Debit, ml.Credit, ml.Description)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert lines of journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

func (t *pgxLedgerTx) UpdateEntryLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversedBy, correctedBy string, userID string, at time.Time) error {
	cmdTag, err := t.tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, reversed_by_entry_id = $3, corrected_by_entry_id = $4,
		    last_updated_by = $5, last_updated_at = $6
		WHERE entry_id = $1;
	`, entryID, string(status), mapping.NullString(reversedBy), mapping.NullString(correctedBy), userID, at)
	if err != nil {
		return fmt.Errorf("failed to update links of journal entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID)
	}
	return nil
}

func (t *pgxLedgerTx) IsDateLocked(ctx context.Context, templeID string, date time.Time) (bool, error) {
	return isDateLocked(ctx, t.tx, templeID, date)
}

func (t *pgxLedgerTx) SaveClosing(ctx context.Context, closing domain.PeriodClosing) error {
	return saveClosing(ctx, t.tx, closing)
}

func (t *pgxLedgerTx) SumByAccount(ctx context.Context, templeID string, filter domain.LineFilter) ([]domain.AccountTotals, error) {
	return sumByAccount(ctx, t.tx, templeID, filter)
}
