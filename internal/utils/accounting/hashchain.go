package accounting

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"golang.org/x/crypto/sha3"
)

// GenesisHash is the previous hash of the first entry in every temple's chain.
var GenesisHash = strings.Repeat("0", 64)

// Supported chain hash algorithms.
const (
	HashSHA256  = "sha256"
	HashSHA3256 = "sha3-256"
)

// ChainHasher computes integrity hashes over the immutable fields of an entry.
type ChainHasher struct {
	algorithm string
	newHash   func() hash.Hash
}

// NewChainHasher returns a hasher for the named algorithm. An empty name selects sha256.
func NewChainHasher(algorithm string) (*ChainHasher, error) {
	switch strings.ToLower(algorithm) {
	case "", HashSHA256:
		return &ChainHasher{algorithm: HashSHA256, newHash: sha256.New}, nil
	case HashSHA3256:
		return &ChainHasher{algorithm: HashSHA3256, newHash: sha3.New256}, nil
	default:
		return nil, fmt.Errorf("unsupported integrity hash algorithm %q", algorithm)
	}
}

// Algorithm returns the configured algorithm name.
func (h *ChainHasher) Algorithm() string {
	return h.algorithm
}

// canonicalLine and canonicalEntry fix the field order and formatting of the hashed payload.
// Status and the reversed-by/corrected-by links are excluded: they change after posting.
type canonicalLine struct {
	LineNo      int    `json:"line_no"`
	AccountID   string `json:"account_id"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	Description string `json:"description"`
}

type canonicalEntry struct {
	EntryID         string          `json:"entry_id"`
	TempleID        string          `json:"temple_id"`
	ChainSeq        int64           `json:"chain_seq"`
	FiscalYear      int             `json:"fiscal_year"`
	EntryNumber     int64           `json:"entry_number"`
	EntryDate       string          `json:"entry_date"`
	Narration       string          `json:"narration"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceNumber string          `json:"reference_number"`
	Reason          string          `json:"reason"`
	TotalAmount     string          `json:"total_amount"`
	ReversalOf      string          `json:"reversal_of"`
	CorrectionOf    string          `json:"correction_of"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       string          `json:"created_at"`
	Lines           []canonicalLine `json:"lines"`
}

// Canonical serializes the hashed fields of an entry deterministically.
func Canonical(entry domain.JournalEntry, lines []domain.JournalLine) ([]byte, error) {
	sorted := make([]domain.JournalLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].LineNo < sorted[j].LineNo })

	c := canonicalEntry{
		EntryID:         entry.EntryID,
		TempleID:        entry.TempleID,
		ChainSeq:        entry.ChainSeq,
		FiscalYear:      entry.FiscalYear,
		EntryNumber:     entry.EntryNumber,
		EntryDate:       domain.DateOnly(entry.EntryDate).Format(time.DateOnly),
		Narration:       entry.Narration,
		ReferenceType:   entry.ReferenceType,
		ReferenceNumber: entry.ReferenceNumber,
		Reason:          entry.Reason,
		TotalAmount:     entry.TotalAmount.StringFixed(2),
		ReversalOf:      entry.ReversalOfEntryID,
		CorrectionOf:    entry.CorrectionOfEntryID,
		CreatedBy:       entry.CreatedBy,
		CreatedAt:       entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		Lines:           make([]canonicalLine, len(sorted)),
	}
	for i, l := range sorted {
		c.Lines[i] = canonicalLine{
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			Debit:       l.Debit.StringFixed(2),
			Credit:      l.Credit.StringFixed(2),
			Description: l.Description,
		}
	}
	return json.Marshal(c)
}

// Hash returns the hex digest of canonical(entry) followed by the previous hash.
func (h *ChainHasher) Hash(entry domain.JournalEntry, lines []domain.JournalLine, previousHash string) (string, error) {
	payload, err := Canonical(entry, lines)
	if err != nil {
		return "", fmt.Errorf("failed to serialize entry %s for hashing: %w", entry.EntryID, err)
	}
	d := h.newHash()
	d.Write(payload)
	d.Write([]byte(previousHash))
	return hex.EncodeToString(d.Sum(nil)), nil
}
