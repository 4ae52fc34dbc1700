package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditAction names the ledger mutation an audit record mirrors.
type AuditAction string

const (
	AuditPost      AuditAction = "POST"
	AuditReverse   AuditAction = "REVERSE"
	AuditCorrect   AuditAction = "CORRECT"
	AuditCloseYear AuditAction = "CLOSE_YEAR"
)

// AuditRecord is one append-only line of the audit artifact. Every chained entry has exactly one.
type AuditRecord struct {
	Timestamp   time.Time       `json:"timestamp"`
	TempleID    string          `json:"templeID"`
	User        string          `json:"user"`
	Action      AuditAction     `json:"action"`
	EntryID     string          `json:"entryID"`
	EntryNumber int64           `json:"entryNumber"`
	Amount      decimal.Decimal `json:"amount"`
	Narration   string          `json:"narration"`
	Status      EntryStatus     `json:"status"`
	Hash        string          `json:"hash"`
}

// NewAuditRecord builds the record mirroring a freshly chained entry.
func NewAuditRecord(action AuditAction, entry JournalEntry, at time.Time) AuditRecord {
	return AuditRecord{
		Timestamp:   at,
		TempleID:    entry.TempleID,
		User:        entry.CreatedBy,
		Action:      action,
		EntryID:     entry.EntryID,
		EntryNumber: entry.EntryNumber,
		Amount:      entry.TotalAmount,
		Narration:   entry.Narration,
		Status:      entry.Status,
		Hash:        entry.IntegrityHash,
	}
}
