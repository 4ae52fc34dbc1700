package accounting

import (
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetBalance returns an account's balance in its normal sign from its debit and credit totals.
func NetBalance(accountType domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if accountType.IsDebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

func indexAccounts(accounts []domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountID] = a
	}
	return m
}

func sortByCode(rows []domain.AccountAmount) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
}

// BuildTrialBalance nets each account's totals and presents the result in the debit or credit column.
// Accounts whose totals net to zero are omitted.
func BuildTrialBalance(templeID string, asOf time.Time, accounts []domain.Account, totals []domain.AccountTotals) domain.TrialBalance {
	byID := indexAccounts(accounts)
	tb := domain.TrialBalance{
		TempleID:    templeID,
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(totals)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, t := range totals {
		net := t.Debit.Sub(t.Credit)
		if net.IsZero() {
			continue
		}
		acc := byID[t.AccountID]
		row := domain.TrialBalanceRow{
			AccountID:   t.AccountID,
			Code:        acc.Code,
			AccountName: acc.Name,
			AccountType: acc.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if net.IsPositive() {
			row.Debit = net
			tb.TotalDebit = tb.TotalDebit.Add(net)
		} else {
			row.Credit = net.Neg()
			tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		}
		tb.Rows = append(tb.Rows, row)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].Code < tb.Rows[j].Code })
	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.IsBalanced = tb.Difference.IsZero()
	return tb
}

// BuildAccountLedger lists the account's lines in order with a running balance in its normal sign.
func BuildAccountLedger(account domain.Account, from, to time.Time, opening decimal.Decimal, lines []domain.PostedLine) domain.AccountLedger {
	ledger := domain.AccountLedger{
		Account:        account,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Rows:           make([]domain.LedgerRow, 0, len(lines)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}
	balance := opening
	for _, l := range lines {
		if l.AccountID != account.AccountID {
			continue
		}
		balance = balance.Add(NetBalance(account.AccountType, l.Debit, l.Credit))
		ledger.TotalDebit = ledger.TotalDebit.Add(l.Debit)
		ledger.TotalCredit = ledger.TotalCredit.Add(l.Credit)
		ledger.Rows = append(ledger.Rows, domain.LedgerRow{
			EntryID:     l.EntryID,
			EntryNumber: l.EntryNumber,
			EntryDate:   l.EntryDate,
			Narration:   l.Narration,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Balance:     balance,
		})
	}
	ledger.ClosingBalance = balance
	return ledger
}

// BuildDayBook groups every line in the range by day and entry. liquid marks the cash and bank
// accounts whose combined balance is carried from day to day, starting at opening.
func BuildDayBook(from, to time.Time, accounts []domain.Account, liquid map[string]bool, opening decimal.Decimal, lines []domain.PostedLine) domain.DayBook {
	byID := indexAccounts(accounts)
	book := domain.DayBook{
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Days:           make([]domain.DayBookDay, 0),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}

	balance := opening
	var day *domain.DayBookDay
	var entry *domain.DayBookEntry
	closeDay := func() {
		if day != nil {
			day.ClosingBalance = balance
			book.Days = append(book.Days, *day)
		}
	}
	for _, l := range lines {
		date := domain.DateOnly(l.EntryDate)
		if day == nil || !day.Date.Equal(date) {
			if entry != nil {
				day.Entries = append(day.Entries, *entry)
				entry = nil
			}
			closeDay()
			day = &domain.DayBookDay{
				Date:           date,
				OpeningBalance: balance,
				Entries:        make([]domain.DayBookEntry, 0),
				TotalDebit:     decimal.Zero,
				TotalCredit:    decimal.Zero,
			}
		}
		if entry == nil || entry.EntryID != l.EntryID {
			if entry != nil {
				day.Entries = append(day.Entries, *entry)
			}
			entry = &domain.DayBookEntry{
				EntryID:         l.EntryID,
				EntryNumber:     l.EntryNumber,
				Narration:       l.Narration,
				ReferenceType:   l.ReferenceType,
				ReferenceNumber: l.ReferenceNumber,
				Status:          l.Status,
				Lines:           make([]domain.DayBookLine, 0, 2),
			}
		}
		acc := byID[l.AccountID]
		entry.Lines = append(entry.Lines, domain.DayBookLine{
			AccountID:   l.AccountID,
			Code:        acc.Code,
			AccountName: acc.Name,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		})
		day.TotalDebit = day.TotalDebit.Add(l.Debit)
		day.TotalCredit = day.TotalCredit.Add(l.Credit)
		book.TotalDebit = book.TotalDebit.Add(l.Debit)
		book.TotalCredit = book.TotalCredit.Add(l.Credit)
		if liquid[l.AccountID] {
			balance = balance.Add(l.Debit).Sub(l.Credit)
		}
	}
	if entry != nil {
		day.Entries = append(day.Entries, *entry)
	}
	closeDay()
	book.ClosingBalance = balance
	return book
}

// BuildCashBook splits the lines on the book's accounts into receipts (debits) and payments (credits).
// Particulars name the contra accounts of the same entry.
func BuildCashBook(kind domain.AccountSubtype, bookAccounts []domain.Account, allAccounts []domain.Account, from, to time.Time, opening decimal.Decimal, lines []domain.PostedLine) domain.CashBook {
	byID := indexAccounts(allAccounts)
	inBook := make(map[string]bool, len(bookAccounts))
	for _, a := range bookAccounts {
		inBook[a.AccountID] = true
	}

	contras := make(map[string][]string)
	for _, l := range lines {
		if inBook[l.AccountID] {
			continue
		}
		name := byID[l.AccountID].Name
		if name == "" {
			name = l.AccountID
		}
		contras[l.EntryID] = appendUnique(contras[l.EntryID], name)
	}

	book := domain.CashBook{
		Kind:           kind,
		Accounts:       bookAccounts,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Receipts:       make([]domain.CashBookRow, 0),
		Payments:       make([]domain.CashBookRow, 0),
		TotalReceipts:  decimal.Zero,
		TotalPayments:  decimal.Zero,
	}
	for _, l := range lines {
		if !inBook[l.AccountID] {
			continue
		}
		particulars := strings.Join(contras[l.EntryID], ", ")
		if particulars == "" {
			// transfers between accounts of the same book
			particulars = "Contra"
		}
		row := domain.CashBookRow{
			EntryID:     l.EntryID,
			EntryNumber: l.EntryNumber,
			Date:        l.EntryDate,
			AccountID:   l.AccountID,
			Particulars: particulars,
			Narration:   l.Narration,
			Amount:      l.Amount(),
		}
		if l.IsDebit() {
			book.Receipts = append(book.Receipts, row)
			book.TotalReceipts = book.TotalReceipts.Add(row.Amount)
		} else {
			book.Payments = append(book.Payments, row)
			book.TotalPayments = book.TotalPayments.Add(row.Amount)
		}
	}
	book.ClosingBalance = opening.Add(book.TotalReceipts).Sub(book.TotalPayments)
	return book
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// BuildBalanceSheet groups balances by section. Income and expense balances not yet closed into
// a fund appear as the unclosed surplus so the sheet balances before year-end closing.
func BuildBalanceSheet(asOf time.Time, accounts []domain.Account, totals []domain.AccountTotals) domain.BalanceSheet {
	byID := indexAccounts(accounts)
	bs := domain.BalanceSheet{
		AsOf:               asOf,
		FixedAssets:        domain.BalanceSheetSection{Title: "Fixed Assets", Lines: []domain.AccountAmount{}, Total: decimal.Zero},
		CurrentAssets:      domain.BalanceSheetSection{Title: "Current Assets", Lines: []domain.AccountAmount{}, Total: decimal.Zero},
		CurrentLiabilities: domain.BalanceSheetSection{Title: "Current Liabilities", Lines: []domain.AccountAmount{}, Total: decimal.Zero},
		EquityAndFunds:     domain.BalanceSheetSection{Title: "Equity & Funds", Lines: []domain.AccountAmount{}, Total: decimal.Zero},
		UnclosedSurplus:    decimal.Zero,
	}

	add := func(section *domain.BalanceSheetSection, acc domain.Account, amount decimal.Decimal) {
		section.Lines = append(section.Lines, domain.AccountAmount{
			AccountID: acc.AccountID,
			Code:      acc.Code,
			Name:      acc.Name,
			NetAmount: amount,
		})
		section.Total = section.Total.Add(amount)
	}

	for _, t := range totals {
		acc, ok := byID[t.AccountID]
		if !ok {
			continue
		}
		net := NetBalance(acc.AccountType, t.Debit, t.Credit)
		switch acc.AccountType {
		case domain.Income:
			bs.UnclosedSurplus = bs.UnclosedSurplus.Add(net)
			continue
		case domain.Expense:
			bs.UnclosedSurplus = bs.UnclosedSurplus.Sub(net)
			continue
		}
		if net.IsZero() {
			continue
		}
		switch acc.AccountType {
		case domain.Asset:
			if acc.Subtype == domain.SubtypeFixedAsset {
				add(&bs.FixedAssets, acc, net)
			} else {
				add(&bs.CurrentAssets, acc, net)
			}
		case domain.Liability:
			add(&bs.CurrentLiabilities, acc, net)
		case domain.Equity:
			add(&bs.EquityAndFunds, acc, net)
		}
	}
	for _, section := range []*domain.BalanceSheetSection{&bs.FixedAssets, &bs.CurrentAssets, &bs.CurrentLiabilities, &bs.EquityAndFunds} {
		sortByCode(section.Lines)
	}

	bs.TotalAssets = bs.FixedAssets.Total.Add(bs.CurrentAssets.Total)
	bs.TotalLiabilitiesAndFunds = bs.CurrentLiabilities.Total.Add(bs.EquityAndFunds.Total).Add(bs.UnclosedSurplus)
	bs.Difference = bs.TotalAssets.Sub(bs.TotalLiabilitiesAndFunds)
	bs.IsBalanced = bs.Difference.IsZero()
	return bs
}

// BuildProfitAndLoss lists income and expense accounts with activity and the net surplus.
func BuildProfitAndLoss(from, to time.Time, accounts []domain.Account, totals []domain.AccountTotals) domain.ProfitAndLoss {
	byID := indexAccounts(accounts)
	pl := domain.ProfitAndLoss{
		From:         from,
		To:           to,
		Income:       []domain.AccountAmount{},
		Expenses:     []domain.AccountAmount{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range totals {
		acc, ok := byID[t.AccountID]
		if !ok {
			continue
		}
		net := NetBalance(acc.AccountType, t.Debit, t.Credit)
		row := domain.AccountAmount{AccountID: acc.AccountID, Code: acc.Code, Name: acc.Name, NetAmount: net}
		switch acc.AccountType {
		case domain.Income:
			pl.Income = append(pl.Income, row)
			pl.TotalIncome = pl.TotalIncome.Add(net)
		case domain.Expense:
			pl.Expenses = append(pl.Expenses, row)
			pl.TotalExpense = pl.TotalExpense.Add(net)
		}
	}
	sortByCode(pl.Income)
	sortByCode(pl.Expenses)
	pl.NetSurplus = pl.TotalIncome.Sub(pl.TotalExpense)
	return pl
}
