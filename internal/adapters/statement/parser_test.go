package statement_test

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/temple_ledger/internal/adapters/statement"
	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericCSV(t *testing.T) {
	in := "Txn Date,Narration,Ref No,Withdrawal Amt,Deposit Amt,Closing Balance\n" +
		"04/05/2025,CASH DEP BRANCH,,,\"5,000.00\",\"55,000.00\"\n" +
		"\n" +
		"2025-05-11,TNEB BILL PAY,CHQ 451,1800.00,,53200.00\n" +
		"31-05-2025,SMS Alert charges,,59,,\n"

	rows, err := statement.DefaultRegistry().Parse("Generic", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, "CASH DEP BRANCH", rows[0].Description)
	assert.True(t, rows[0].Credit.Equal(decimal.NewFromInt(5000)))
	assert.True(t, rows[0].Debit.IsZero())
	require.True(t, rows[0].Balance.Valid)
	assert.True(t, rows[0].Balance.Decimal.Equal(decimal.NewFromInt(55000)))

	assert.Equal(t, "CHQ 451", rows[1].Reference)
	assert.True(t, rows[1].Debit.Equal(decimal.NewFromInt(1800)))
	assert.False(t, rows[2].Balance.Valid)
}

func TestSignedCSV(t *testing.T) {
	in := "date,description,amount\n" +
		"2025-05-04,NEFT devotee,1001\n" +
		"2025-05-06,Service charge,-11.80\n"

	rows, err := statement.DefaultRegistry().Parse("signed", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Credit.Equal(decimal.NewFromInt(1001)))
	assert.True(t, rows[1].Debit.Equal(decimal.RequireFromString("11.80")))
	assert.True(t, rows[1].Credit.IsZero())
}

func TestRegistry_Errors(t *testing.T) {
	reg := statement.DefaultRegistry()
	assert.Equal(t, []string{"generic", "signed"}, reg.Formats())

	tests := map[string]struct {
		format string
		input  string
		want   string
	}{
		"unknown format": {"mt940", "", "unknown statement format"},
		"empty file":     {"generic", "", "file is empty"},
		"missing column": {"generic", "date,description,amount\n", `missing "debit" column`},
		"bad date":       {"generic", "date,debit,credit\n2025/13/40,1,\n", "line 2: unrecognised date"},
		"bad amount":     {"signed", "date,amount\n2025-05-01,12x\n", "line 2: parsing amount"},
		"bad later line": {"generic", "date,debit,credit\n2025-05-01,1,\n2025-05-02,,abc\n", "line 3"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := reg.Parse(tc.format, strings.NewReader(tc.input))
			require.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	reg := statement.NewRegistry()
	reg.Register(&statement.GenericCSVParser{})
	assert.Panics(t, func() { reg.Register(&statement.GenericCSVParser{}) })
}
