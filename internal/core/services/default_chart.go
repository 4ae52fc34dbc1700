package services

import "github.com/SscSPs/temple_ledger/internal/core/domain"

// chartAccount is one account of a default chart. ParentCode refers to an earlier account in the same chart.
type chartAccount struct {
	Code        string
	Name        string
	Type        domain.AccountType
	Subtype     domain.AccountSubtype
	ParentCode  string
	Description string
	Manual      bool
}

// GeneralFundCode is the code of the fund account year-end closing posts into by default.
const GeneralFundCode = "3100"

// defaultTempleChart returns the chart installed for a new temple. Group accounts (no manual entry)
// carry the hierarchy; leaves accept postings.
func defaultTempleChart() []chartAccount {
	return []chartAccount{
		{Code: "1000", Name: "Assets", Type: domain.Asset, Subtype: domain.SubtypeOther},
		{Code: "1100", Name: "Cash in Hand", Type: domain.Asset, Subtype: domain.SubtypeCash, ParentCode: "1000", Manual: true},
		{Code: "1110", Name: "Hundi Collections", Type: domain.Asset, Subtype: domain.SubtypeCash, ParentCode: "1000", Manual: true, Description: "Cash counted from hundi boxes"},
		{Code: "1200", Name: "Bank - Savings Account", Type: domain.Asset, Subtype: domain.SubtypeBank, ParentCode: "1000", Manual: true},
		{Code: "1210", Name: "Bank - Current Account", Type: domain.Asset, Subtype: domain.SubtypeBank, ParentCode: "1000", Manual: true},
		{Code: "1300", Name: "Prepaid and Advances", Type: domain.Asset, Subtype: domain.SubtypeCurrentAsset, ParentCode: "1000", Manual: true},
		{Code: "1500", Name: "Temple Buildings", Type: domain.Asset, Subtype: domain.SubtypeFixedAsset, ParentCode: "1000", Manual: true},
		{Code: "1510", Name: "Gold and Silver Ornaments", Type: domain.Asset, Subtype: domain.SubtypeFixedAsset, ParentCode: "1000", Manual: true},

		{Code: "2000", Name: "Liabilities", Type: domain.Liability, Subtype: domain.SubtypeOther},
		{Code: "2100", Name: "Sundry Creditors", Type: domain.Liability, Subtype: domain.SubtypeCurrentLiability, ParentCode: "2000", Manual: true},
		{Code: "2110", Name: "Advance Seva Bookings", Type: domain.Liability, Subtype: domain.SubtypeCurrentLiability, ParentCode: "2000", Manual: true},
		{Code: "2500", Name: "Long Term Loans", Type: domain.Liability, Subtype: domain.SubtypeLongTermLiability, ParentCode: "2000", Manual: true},

		{Code: "3000", Name: "Funds", Type: domain.Equity, Subtype: domain.SubtypeOther},
		{Code: GeneralFundCode, Name: "General Fund", Type: domain.Equity, Subtype: domain.SubtypeFund, ParentCode: "3000", Manual: true, Description: "Accumulated surplus of the temple"},
		{Code: "3200", Name: "Corpus Fund", Type: domain.Equity, Subtype: domain.SubtypeFund, ParentCode: "3000", Manual: true},
		{Code: "3300", Name: "Building Fund", Type: domain.Equity, Subtype: domain.SubtypeFund, ParentCode: "3000", Manual: true},

		{Code: "4000", Name: "Income", Type: domain.Income, Subtype: domain.SubtypeOther},
		{Code: "4100", Name: "General Donations", Type: domain.Income, Subtype: domain.SubtypeIncome, ParentCode: "4000", Manual: true},
		{Code: "4110", Name: "Hundi Income", Type: domain.Income, Subtype: domain.SubtypeIncome, ParentCode: "4000", Manual: true},
		{Code: "4200", Name: "Seva and Pooja Income", Type: domain.Income, Subtype: domain.SubtypeIncome, ParentCode: "4000", Manual: true},
		{Code: "4300", Name: "Prasadam Sales", Type: domain.Income, Subtype: domain.SubtypeIncome, ParentCode: "4000", Manual: true},
		{Code: "4400", Name: "Hall and Facility Rent", Type: domain.Income, Subtype: domain.SubtypeIncome, ParentCode: "4000", Manual: true},
		{Code: "4900", Name: "Bank Interest", Type: domain.Income, Subtype: domain.SubtypeIncome, ParentCode: "4000", Manual: true},

		{Code: "5000", Name: "Expenditure", Type: domain.Expense, Subtype: domain.SubtypeOther},
		{Code: "5100", Name: "Pooja Materials", Type: domain.Expense, Subtype: domain.SubtypeExpense, ParentCode: "5000", Manual: true},
		{Code: "5200", Name: "Salaries and Honorarium", Type: domain.Expense, Subtype: domain.SubtypeExpense, ParentCode: "5000", Manual: true},
		{Code: "5300", Name: "Electricity and Water", Type: domain.Expense, Subtype: domain.SubtypeExpense, ParentCode: "5000", Manual: true},
		{Code: "5400", Name: "Annadanam Expenses", Type: domain.Expense, Subtype: domain.SubtypeExpense, ParentCode: "5000", Manual: true},
		{Code: "5500", Name: "Festival Expenses", Type: domain.Expense, Subtype: domain.SubtypeExpense, ParentCode: "5000", Manual: true},
		{Code: "5600", Name: "Repairs and Maintenance", Type: domain.Expense, Subtype: domain.SubtypeExpense, ParentCode: "5000", Manual: true},
		{Code: "5900", Name: "Bank Charges", Type: domain.Expense, Subtype: domain.SubtypeExpense, ParentCode: "5000", Manual: true},
	}
}
