// Package audit implements the append-only audit artifact that mirrors every chained journal
// entry outside the primary database.
package audit

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Header is the first line of the CSV audit file.
const Header = "timestamp,temple_id,user,action,entry_id,entry_number,amount,narration,status,hash"

const (
	numFields     = 10
	colTimestamp  = 0
	colTempleID   = 1
	colUser       = 2
	colAction     = 3
	colEntryID    = 4
	colEntryNo    = 5
	colAmount     = 6
	colNarration  = 7
	colStatus     = 8
	colHash       = 9
	timestampForm = time.RFC3339Nano
)

// CSVLog appends audit records to a CSV file opened in append-only mode.
type CSVLog struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *csv.Writer
}

var _ portsrepo.AuditLog = (*CSVLog)(nil)

// OpenCSV opens or creates the audit file at path, writing the header to a new file.
func OpenCSV(path string) (*CSVLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("opening audit file %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading audit file %s: %w", path, err)
	}

	l := &CSVLog{path: path, file: f, w: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := l.write(strings.Split(Header, ",")); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing audit header: %w", err)
		}
	}
	return l, nil
}

// MarshalRecord renders a record as CSV fields in Header order.
func MarshalRecord(r domain.AuditRecord) []string {
	rec := make([]string, numFields)
	rec[colTimestamp] = r.Timestamp.UTC().Format(timestampForm)
	rec[colTempleID] = r.TempleID
	rec[colUser] = r.User
	rec[colAction] = string(r.Action)
	rec[colEntryID] = r.EntryID
	rec[colEntryNo] = strconv.FormatInt(r.EntryNumber, 10)
	rec[colAmount] = r.Amount.StringFixed(2)
	rec[colNarration] = r.Narration
	rec[colStatus] = string(r.Status)
	rec[colHash] = r.Hash
	return rec
}

// UnmarshalRecord parses CSV fields written by MarshalRecord.
func UnmarshalRecord(rec []string) (domain.AuditRecord, error) {
	if len(rec) != numFields {
		return domain.AuditRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}
	ts, err := time.Parse(timestampForm, rec[colTimestamp])
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("parsing timestamp %q: %w", rec[colTimestamp], err)
	}
	entryNo, err := strconv.ParseInt(rec[colEntryNo], 10, 64)
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("parsing entry number %q: %w", rec[colEntryNo], err)
	}
	amount, err := decimal.NewFromString(rec[colAmount])
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}
	return domain.AuditRecord{
		Timestamp:   ts,
		TempleID:    rec[colTempleID],
		User:        rec[colUser],
		Action:      domain.AuditAction(rec[colAction]),
		EntryID:     rec[colEntryID],
		EntryNumber: entryNo,
		Amount:      amount,
		Narration:   rec[colNarration],
		Status:      domain.EntryStatus(rec[colStatus]),
		Hash:        rec[colHash],
	}, nil
}

func (l *CSVLog) write(rec []string) error {
	if err := l.w.Write(rec); err != nil {
		return err
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return err
	}
	return l.file.Sync()
}

// Append writes one record and syncs the file.
func (l *CSVLog) Append(ctx context.Context, record domain.AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return errors.New("audit file is closed")
	}
	if err := l.write(MarshalRecord(record)); err != nil {
		return fmt.Errorf("appending audit record for entry %s: %w", record.EntryID, err)
	}
	return nil
}

// ReadAll re-reads the file and returns the temple's records in append order.
func (l *CSVLog) ReadAll(ctx context.Context, templeID string) ([]domain.AuditRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening audit file %s: %w", l.path, err)
	}
	defer f.Close()
	return readRecords(f, templeID)
}

func readRecords(r io.Reader, templeID string) ([]domain.AuditRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	records := make([]domain.AuditRecord, 0)

	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading audit CSV: %w", err)
		}
		if line == 1 {
			continue
		}
		if rec[colTempleID] != templeID {
			continue
		}
		record, err := UnmarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("audit line %d: %w", line, err)
		}
		records = append(records, record)
	}
}

// Close flushes and closes the file.
func (l *CSVLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	l.w.Flush()
	err := l.file.Close()
	l.file = nil
	return err
}
