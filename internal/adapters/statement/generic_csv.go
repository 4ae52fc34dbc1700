package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Accepted date layouts, tried in order. Indian bank exports use day-first dates.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "02 Jan 2006", "02-Jan-2006"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// parseAmount accepts thousands separators and a trailing Cr/Dr marker. Blank is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "Cr"), "Dr")
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// columns maps header names to indexes. Names are matched case-insensitively against aliases.
type columns map[string]int

var headerAliases = map[string][]string{
	"date":        {"date", "txn date", "transaction date", "value date"},
	"description": {"description", "narration", "particulars", "details"},
	"reference":   {"reference", "ref no", "ref no./cheque no.", "cheque no", "chq no"},
	"debit":       {"debit", "withdrawal", "withdrawal amt", "withdrawals"},
	"credit":      {"credit", "deposit", "deposit amt", "deposits"},
	"amount":      {"amount"},
	"balance":     {"balance", "closing balance"},
}

func readHeader(header []string, required ...string) (columns, error) {
	cols := columns{}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for key, aliases := range headerAliases {
			for _, a := range aliases {
				if name == a {
					if _, seen := cols[key]; !seen {
						cols[key] = i
					}
				}
			}
		}
	}
	for _, key := range required {
		if _, ok := cols[key]; !ok {
			return nil, fmt.Errorf("missing %q column", key)
		}
	}
	return cols, nil
}

func (c columns) get(rec []string, key string) string {
	i, ok := c[key]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// readCSV reads every record after the header and hands it to fn with its 1-based line number.
func readCSV(r io.Reader, required []string, fn func(line int, cols columns, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return errors.New("file is empty")
	}
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	cols, err := readHeader(header, required...)
	if err != nil {
		return err
	}

	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		if err := fn(line, cols, rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func optionalBalance(cols columns, rec []string) (decimal.NullDecimal, error) {
	raw := cols.get(rec, "balance")
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	b, err := parseAmount(raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(b), nil
}

// GenericCSVParser reads CSV exports with separate debit and credit columns.
// Columns are found by header name, so their order does not matter.
type GenericCSVParser struct{}

// Format returns the parser name.
func (p *GenericCSVParser) Format() string { return "generic" }

// Parse reads the rows.
func (p *GenericCSVParser) Parse(r io.Reader) ([]domain.StatementRow, error) {
	var rows []domain.StatementRow
	err := readCSV(r, []string{"date", "debit", "credit"}, func(_ int, cols columns, rec []string) error {
		date, err := parseDate(cols.get(rec, "date"))
		if err != nil {
			return err
		}
		debit, err := parseAmount(cols.get(rec, "debit"))
		if err != nil {
			return err
		}
		credit, err := parseAmount(cols.get(rec, "credit"))
		if err != nil {
			return err
		}
		balance, err := optionalBalance(cols, rec)
		if err != nil {
			return err
		}
		rows = append(rows, domain.StatementRow{
			Date:        date,
			Description: cols.get(rec, "description"),
			Reference:   cols.get(rec, "reference"),
			Debit:       debit,
			Credit:      credit,
			Balance:     balance,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SignedAmountCSVParser reads exports with a single signed amount column:
// positive amounts are credits to the account, negative amounts debits.
type SignedAmountCSVParser struct{}

// Format returns the parser name.
func (p *SignedAmountCSVParser) Format() string { return "signed" }

// Parse reads the rows.
func (p *SignedAmountCSVParser) Parse(r io.Reader) ([]domain.StatementRow, error) {
	var rows []domain.StatementRow
	err := readCSV(r, []string{"date", "amount"}, func(_ int, cols columns, rec []string) error {
		date, err := parseDate(cols.get(rec, "date"))
		if err != nil {
			return err
		}
		amount, err := parseAmount(cols.get(rec, "amount"))
		if err != nil {
			return err
		}
		balance, err := optionalBalance(cols, rec)
		if err != nil {
			return err
		}
		row := domain.StatementRow{
			Date:        date,
			Description: cols.get(rec, "description"),
			Reference:   cols.get(rec, "reference"),
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Balance:     balance,
		}
		if amount.IsNegative() {
			row.Debit = amount.Neg()
		} else {
			row.Credit = amount
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
