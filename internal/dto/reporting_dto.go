package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
)

// DateLayout is the query parameter format for report dates.
const DateLayout = "2006-01-02"

// AsOfParams is the query of point-in-time reports (trial balance, balance sheet).
type AsOfParams struct {
	AsOf string `form:"asOf"` // YYYY-MM-DD, defaults to today
}

// RangeParams is the query of period reports (ledger, day book, cash/bank book, P&L).
type RangeParams struct {
	From      string `form:"from"` // YYYY-MM-DD, defaults to the first day of the current month
	To        string `form:"to"`   // YYYY-MM-DD, defaults to today
	AccountID string `form:"accountID"`
}

// ParseAsOf resolves the asOf date against today.
func (p AsOfParams) ParseAsOf(today time.Time) (time.Time, error) {
	if p.AsOf == "" {
		return today, nil
	}
	return parseDate("asOf", p.AsOf)
}

// ParseRange resolves and validates the from/to dates.
func (p RangeParams) ParseRange(today time.Time) (time.Time, time.Time, error) {
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := today
	var err error
	if p.From != "" {
		if from, err = parseDate("from", p.From); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if p.To != "" {
		if to, err = parseDate("to", p.To); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: 'to' date must not be before 'from' date", apperrors.ErrValidation)
	}
	return from, to, nil
}

func parseDate(name, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid %s date %q, use YYYY-MM-DD", apperrors.ErrValidation, name, value)
	}
	return d, nil
}
