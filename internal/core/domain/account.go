package domain

import "sort"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether the type is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether a debit increases the account's balance.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// AccountSubtype refines an account type for report grouping (cash book, bank book, balance sheet sections).
type AccountSubtype string

const (
	SubtypeCash              AccountSubtype = "cash"
	SubtypeBank              AccountSubtype = "bank"
	SubtypeFixedAsset        AccountSubtype = "fixed_asset"
	SubtypeCurrentAsset      AccountSubtype = "current_asset"
	SubtypeCurrentLiability  AccountSubtype = "current_liability"
	SubtypeLongTermLiability AccountSubtype = "long_term_liability"
	SubtypeFund              AccountSubtype = "fund"
	SubtypeIncome            AccountSubtype = "income"
	SubtypeExpense           AccountSubtype = "expense"
	SubtypeOther             AccountSubtype = "other"
)

var subtypesByType = map[AccountType][]AccountSubtype{
	Asset:     {SubtypeCash, SubtypeBank, SubtypeFixedAsset, SubtypeCurrentAsset, SubtypeOther},
	Liability: {SubtypeCurrentLiability, SubtypeLongTermLiability, SubtypeOther},
	Equity:    {SubtypeFund, SubtypeOther},
	Income:    {SubtypeIncome, SubtypeOther},
	Expense:   {SubtypeExpense, SubtypeOther},
}

// AllowsSubtype reports whether the subtype may be used with the account type.
func (t AccountType) AllowsSubtype(s AccountSubtype) bool {
	for _, allowed := range subtypesByType[t] {
		if allowed == s {
			return true
		}
	}
	return false
}

// DefaultSubtype is used when an account is created without an explicit subtype.
func (t AccountType) DefaultSubtype() AccountSubtype {
	switch t {
	case Asset:
		return SubtypeCurrentAsset
	case Liability:
		return SubtypeCurrentLiability
	case Equity:
		return SubtypeFund
	case Income:
		return SubtypeIncome
	case Expense:
		return SubtypeExpense
	}
	return SubtypeOther
}

// Account represents a ledger account in a temple's chart of accounts.
type Account struct {
	AccountID        string         `json:"accountID"`
	TempleID         string         `json:"templeID"`
	Code             string         `json:"code"` // unique per temple, immutable once used
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	AccountType      AccountType    `json:"accountType"` // immutable once used
	Subtype          AccountSubtype `json:"subtype"`
	ParentAccountID  string         `json:"parentAccountID"` // empty for top level accounts
	IsActive         bool           `json:"isActive"`
	AllowManualEntry bool           `json:"allowManualEntry"`
	AuditFields
}

// AccountNode is an account with its children, assembled on read from flat rows.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children"`
}

// BuildAccountTree assembles the nested hierarchy from a flat account list.
// Siblings are ordered by code. An account whose parent is absent from the list is treated as a root.
func BuildAccountTree(accounts []Account) []*AccountNode {
	sorted := make([]Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })

	nodes := make(map[string]*AccountNode, len(sorted))
	for _, acc := range sorted {
		nodes[acc.AccountID] = &AccountNode{Account: acc, Children: []*AccountNode{}}
	}

	roots := make([]*AccountNode, 0)
	for _, acc := range sorted {
		node := nodes[acc.AccountID]
		parent, ok := nodes[acc.ParentAccountID]
		if acc.ParentAccountID == "" || !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}
