package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

func sqliteMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS audit_log (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at  TEXT NOT NULL,
			temple_id    TEXT NOT NULL,
			user_id      TEXT NOT NULL,
			action       TEXT NOT NULL,
			entry_id     TEXT NOT NULL,
			entry_number INTEGER NOT NULL,
			amount       TEXT NOT NULL,
			narration    TEXT NOT NULL DEFAULT '',
			status       TEXT NOT NULL,
			hash         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_temple ON audit_log(temple_id, seq)`,
		// the artifact is append-only
		`CREATE TRIGGER IF NOT EXISTS audit_log_no_update BEFORE UPDATE ON audit_log
			BEGIN SELECT RAISE(ABORT, 'audit_log is append-only'); END`,
		`CREATE TRIGGER IF NOT EXISTS audit_log_no_delete BEFORE DELETE ON audit_log
			BEGIN SELECT RAISE(ABORT, 'audit_log is append-only'); END`,
	}
}

// SQLiteLog stores audit records in a separate SQLite database file.
type SQLiteLog struct {
	db *sql.DB
}

var _ portsrepo.AuditLog = (*SQLiteLog)(nil)

// OpenSQLite opens the SQLite file at path and creates the audit table.
func OpenSQLite(ctx context.Context, path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit database %s: %w", path, err)
	}
	// one writer keeps appends in order
	db.SetMaxOpenConns(1)

	for _, stmt := range append([]string{`PRAGMA journal_mode=WAL`, `PRAGMA synchronous=FULL`}, sqliteMigrations()...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("preparing audit database: %w", err)
		}
	}
	return &SQLiteLog{db: db}, nil
}

// Append inserts one record.
func (l *SQLiteLog) Append(ctx context.Context, r domain.AuditRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO audit_log (recorded_at, temple_id, user_id, action, entry_id, entry_number, amount, narration, status, hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Timestamp.UTC().Format(timestampForm), r.TempleID, r.User, string(r.Action), r.EntryID,
		r.EntryNumber, r.Amount.StringFixed(2), r.Narration, string(r.Status), r.Hash)
	if err != nil {
		return fmt.Errorf("appending audit record for entry %s: %w", r.EntryID, err)
	}
	return nil
}

// ReadAll returns the temple's records in insertion order.
func (l *SQLiteLog) ReadAll(ctx context.Context, templeID string) ([]domain.AuditRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT recorded_at, temple_id, user_id, action, entry_id, entry_number, amount, narration, status, hash
		 FROM audit_log WHERE temple_id = ? ORDER BY seq`, templeID)
	if err != nil {
		return nil, fmt.Errorf("reading audit records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.AuditRecord, 0)
	for rows.Next() {
		var (
			r              domain.AuditRecord
			ts, amount     string
			action, status string
		)
		if err := rows.Scan(&ts, &r.TempleID, &r.User, &action, &r.EntryID, &r.EntryNumber, &amount, &r.Narration, &status, &r.Hash); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}
		if r.Timestamp, err = time.Parse(timestampForm, ts); err != nil {
			return nil, fmt.Errorf("parsing audit timestamp %q: %w", ts, err)
		}
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parsing audit amount %q: %w", amount, err)
		}
		r.Action = domain.AuditAction(action)
		r.Status = domain.EntryStatus(status)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
