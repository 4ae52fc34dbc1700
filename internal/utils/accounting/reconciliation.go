package accounting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	interestKeywords = []string{"interest", "int.cr", "int cr"}
	chargeKeywords   = []string{"charge", "chrg", "fee", "commission", "gst", "sms alert"}
)

func containsAny(s string, words []string) bool {
	s = strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// InferEntryType classifies a statement row. Credits are deposits unless described as interest;
// debits are withdrawals unless described as a bank charge.
func InferEntryType(row domain.StatementRow) domain.StatementEntryType {
	if row.Credit.IsPositive() {
		if containsAny(row.Description, interestKeywords) {
			return domain.Interest
		}
		return domain.Deposit
	}
	if containsAny(row.Description, chargeKeywords) {
		return domain.Charge
	}
	return domain.Withdrawal
}

// BuildStatementEntries validates the rows and computes the running balance from opening.
// Any invalid row rejects the whole batch. Balance mismatches are recorded on the rows, not returned.
func BuildStatementEntries(statementID string, periodStart, periodEnd time.Time, opening decimal.Decimal, rows []domain.StatementRow) ([]domain.StatementEntry, decimal.Decimal, error) {
	if len(rows) == 0 {
		return nil, opening, fmt.Errorf("%w: statement has no rows", apperrors.ErrValidation)
	}
	start, end := domain.DateOnly(periodStart), domain.DateOnly(periodEnd)

	entries := make([]domain.StatementEntry, 0, len(rows))
	balance := opening
	for i, row := range rows {
		rowNo := i + 1
		if row.Debit.IsNegative() || row.Credit.IsNegative() {
			return nil, opening, fmt.Errorf("%w: row %d: amounts cannot be negative", apperrors.ErrValidation, rowNo)
		}
		if row.Debit.IsPositive() == row.Credit.IsPositive() {
			return nil, opening, fmt.Errorf("%w: row %d: exactly one of debit or credit must be positive", apperrors.ErrValidation, rowNo)
		}
		date := domain.DateOnly(row.Date)
		if date.Before(start) || date.After(end) {
			return nil, opening, fmt.Errorf("%w: row %d: date %s is outside the statement period", apperrors.ErrValidation, rowNo, date.Format(time.DateOnly))
		}

		entry := domain.StatementEntry{
			StatementEntryID: uuid.NewString(),
			StatementID:      statementID,
			RowNo:            rowNo,
			TxnDate:          date,
			Description:      strings.TrimSpace(row.Description),
			Reference:        strings.TrimSpace(row.Reference),
			EntryType:        InferEntryType(row),
			DeclaredBalance:  row.Balance,
		}
		if row.Credit.IsPositive() {
			entry.Amount = row.Credit
		} else {
			entry.Amount = row.Debit
		}
		balance = balance.Add(entry.SignedAmount())
		entry.ComputedBalance = balance
		entry.BalanceMismatch = row.Balance.Valid && !row.Balance.Decimal.Equal(balance)
		entries = append(entries, entry)
	}
	return entries, balance, nil
}

// LineMatchesStatementEntry reports whether a ledger line on the bank account can pair with the row:
// a deposit must be a debit to the bank account, a payment a credit, and the amounts must agree within tolerance.
func LineMatchesStatementEntry(line domain.PostedLine, entry domain.StatementEntry, tolerance decimal.Decimal) error {
	if entry.EntryType.IsInflow() != line.IsDebit() {
		return fmt.Errorf("%w: direction of line %s does not match %s row %d",
			apperrors.ErrReconciliationConflict, line.LineID, entry.EntryType, entry.RowNo)
	}
	diff := line.Amount().Sub(entry.Amount).Abs()
	if diff.GreaterThan(tolerance) {
		return fmt.Errorf("%w: line amount %s differs from row amount %s by more than %s",
			apperrors.ErrReconciliationConflict, line.Amount(), entry.Amount, tolerance)
	}
	return nil
}

// BuildReconciliationSummary compares the book balance of the bank account with the statement's
// declared closing balance. Unmatched statement rows and unmatched book lines within the period
// are listed as reconciling items.
func BuildReconciliationSummary(statement domain.BankStatement, entries []domain.StatementEntry, bookBalance decimal.Decimal, periodLines []domain.PostedLine, matchedLines map[string]bool) domain.ReconciliationSummary {
	summary := domain.ReconciliationSummary{
		StatementID:      statement.StatementID,
		AccountID:        statement.AccountID,
		PeriodEnd:        statement.PeriodEnd,
		BookBalance:      bookBalance,
		BankBalance:      statement.ClosingBalance,
		Difference:       bookBalance.Sub(statement.ClosingBalance),
		TotalCount:       len(entries),
		BalanceMismatch:  statement.BalanceMismatch,
		Status:           statement.Status,
		ReconcilingItems: make([]domain.ReconcilingItem, 0),
	}
	for _, e := range entries {
		if e.IsMatched() {
			summary.MatchedCount++
			continue
		}
		summary.ReconcilingItems = append(summary.ReconcilingItems, domain.ReconcilingItem{
			Source:      "bank",
			ID:          e.StatementEntryID,
			Date:        e.TxnDate,
			Description: e.Description,
			Amount:      e.SignedAmount(),
		})
	}
	for _, l := range periodLines {
		if l.AccountID != statement.AccountID || matchedLines[l.LineID] {
			continue
		}
		description := l.Description
		if description == "" {
			description = l.Narration
		}
		summary.ReconcilingItems = append(summary.ReconcilingItems, domain.ReconcilingItem{
			Source:      "book",
			ID:          l.LineID,
			Date:        l.EntryDate,
			Description: description,
			Amount:      l.Debit.Sub(l.Credit),
		})
	}
	sort.SliceStable(summary.ReconcilingItems, func(i, j int) bool {
		return summary.ReconcilingItems[i].Date.Before(summary.ReconcilingItems[j].Date)
	})
	return summary
}
