package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountSvc    portssvc.AccountReaderSvc
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, accountSvc portssvc.AccountReaderSvc, options ...ServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		accountSvc:    accountSvc,
	}
	svc.apply(options)
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func dayBefore(t time.Time) time.Time {
	return domain.DateOnly(t).AddDate(0, 0, -1)
}

// sumThrough returns the debit minus credit total of the accounts up to and including the date.
func (s *reportingService) sumThrough(ctx context.Context, templeID string, accountIDs []string, through time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	if len(accountIDs) == 0 {
		return total, nil
	}
	totals, err := s.reportingRepo.SumByAccount(ctx, templeID, domain.LineFilter{To: through, AccountIDs: accountIDs})
	if err != nil {
		return total, fmt.Errorf("failed to sum opening balances: %w", err)
	}
	for _, t := range totals {
		total = total.Add(t.Debit).Sub(t.Credit)
	}
	return total, nil
}

func (s *reportingService) accounts(ctx context.Context, templeID string) ([]domain.Account, error) {
	accounts, err := s.accountSvc.ListAccounts(ctx, templeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for report", slog.String("temple_id", templeID))
		return nil, err
	}
	return accounts, nil
}

// GetTrialBalance nets every account's lines dated on or before asOf.
func (s *reportingService) GetTrialBalance(ctx context.Context, templeID string, asOf time.Time) (*domain.TrialBalance, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	accounts, err := s.accounts(ctx, templeID)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportingRepo.SumByAccount(ctx, templeID, domain.LineFilter{To: domain.DateOnly(asOf)})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("temple_id", templeID),
			slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	tb := accounting.BuildTrialBalance(templeID, domain.DateOnly(asOf), accounts, totals)
	if !tb.IsBalanced {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("temple_id", templeID),
			slog.String("difference", tb.Difference.String()))
	}
	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("temple_id", templeID),
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("row_count", len(tb.Rows)))
	return &tb, nil
}

// GetAccountLedger lists an account's lines in the range with its opening and running balance.
func (s *reportingService) GetAccountLedger(ctx context.Context, templeID, accountID string, from, to time.Time) (*domain.AccountLedger, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	account, err := s.accountSvc.GetAccountByID(ctx, templeID, accountID)
	if err != nil {
		return nil, err
	}

	raw, err := s.sumThrough(ctx, templeID, []string{accountID}, dayBefore(from))
	if err != nil {
		return nil, err
	}
	opening := raw
	if !account.AccountType.IsDebitNormal() {
		opening = raw.Neg()
	}

	lines, err := s.reportingRepo.ListPostedLines(ctx, templeID, domain.LineFilter{
		From:       domain.DateOnly(from),
		To:         domain.DateOnly(to),
		AccountIDs: []string{accountID},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve ledger lines",
			slog.String("temple_id", templeID),
			slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve ledger lines: %w", err)
	}

	ledger := accounting.BuildAccountLedger(*account, domain.DateOnly(from), domain.DateOnly(to), opening, lines)
	s.LogInfo(ctx, "Account ledger generated successfully",
		slog.String("temple_id", templeID),
		slog.String("account_id", accountID),
		slog.Int("row_count", len(ledger.Rows)))
	return &ledger, nil
}

func filterBySubtype(accounts []domain.Account, subtypes ...domain.AccountSubtype) []domain.Account {
	res := make([]domain.Account, 0)
	for _, a := range accounts {
		if a.AccountType != domain.Asset {
			continue
		}
		for _, st := range subtypes {
			if a.Subtype == st {
				res = append(res, a)
				break
			}
		}
	}
	return res
}

func accountIDs(accounts []domain.Account) []string {
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.AccountID
	}
	return ids
}

// GetDayBook lists every entry of the range grouped by day, carrying the combined cash and bank balance.
func (s *reportingService) GetDayBook(ctx context.Context, templeID string, from, to time.Time) (*domain.DayBook, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	accounts, err := s.accounts(ctx, templeID)
	if err != nil {
		return nil, err
	}
	liquidAccounts := filterBySubtype(accounts, domain.SubtypeCash, domain.SubtypeBank)
	liquid := make(map[string]bool, len(liquidAccounts))
	for _, a := range liquidAccounts {
		liquid[a.AccountID] = true
	}

	opening, err := s.sumThrough(ctx, templeID, accountIDs(liquidAccounts), dayBefore(from))
	if err != nil {
		return nil, err
	}
	lines, err := s.reportingRepo.ListPostedLines(ctx, templeID, domain.LineFilter{From: domain.DateOnly(from), To: domain.DateOnly(to)})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve day book lines", slog.String("temple_id", templeID))
		return nil, fmt.Errorf("failed to retrieve day book lines: %w", err)
	}

	book := accounting.BuildDayBook(domain.DateOnly(from), domain.DateOnly(to), accounts, liquid, opening, lines)
	s.LogInfo(ctx, "Day book generated successfully",
		slog.String("temple_id", templeID),
		slog.Int("days", len(book.Days)))
	return &book, nil
}

// GetCashBook lists receipts and payments of the temple's cash accounts.
func (s *reportingService) GetCashBook(ctx context.Context, templeID string, from, to time.Time) (*domain.CashBook, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	accounts, err := s.accounts(ctx, templeID)
	if err != nil {
		return nil, err
	}
	return s.book(ctx, templeID, domain.SubtypeCash, filterBySubtype(accounts, domain.SubtypeCash), accounts, from, to)
}

// GetBankBook lists receipts and payments of one bank account, or of every bank account when accountID is empty.
func (s *reportingService) GetBankBook(ctx context.Context, templeID, accountID string, from, to time.Time) (*domain.CashBook, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	accounts, err := s.accounts(ctx, templeID)
	if err != nil {
		return nil, err
	}
	banks := filterBySubtype(accounts, domain.SubtypeBank)
	if accountID != "" {
		var selected []domain.Account
		for _, a := range banks {
			if a.AccountID == accountID {
				selected = append(selected, a)
			}
		}
		if len(selected) == 0 {
			if _, err := s.accountSvc.GetAccountByID(ctx, templeID, accountID); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: account %s is not a bank account", apperrors.ErrValidation, accountID)
		}
		banks = selected
	}
	return s.book(ctx, templeID, domain.SubtypeBank, banks, accounts, from, to)
}

func (s *reportingService) book(ctx context.Context, templeID string, kind domain.AccountSubtype, bookAccounts, all []domain.Account, from, to time.Time) (*domain.CashBook, error) {
	ids := accountIDs(bookAccounts)
	opening, err := s.sumThrough(ctx, templeID, ids, dayBefore(from))
	if err != nil {
		return nil, err
	}

	var lines []domain.PostedLine
	if len(ids) > 0 {
		// Every line of the touched entries is needed to name the contra accounts.
		bookLines, err := s.reportingRepo.ListPostedLines(ctx, templeID, domain.LineFilter{
			From: domain.DateOnly(from), To: domain.DateOnly(to), AccountIDs: ids,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve %s book lines: %w", kind, err)
		}
		touched := make(map[string]bool, len(bookLines))
		for _, l := range bookLines {
			touched[l.EntryID] = true
		}
		if len(touched) > 0 {
			rangeLines, err := s.reportingRepo.ListPostedLines(ctx, templeID, domain.LineFilter{
				From: domain.DateOnly(from), To: domain.DateOnly(to),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to retrieve %s book lines: %w", kind, err)
			}
			for _, l := range rangeLines {
				if touched[l.EntryID] {
					lines = append(lines, l)
				}
			}
		}
	}

	book := accounting.BuildCashBook(kind, bookAccounts, all, domain.DateOnly(from), domain.DateOnly(to), opening, lines)
	s.LogInfo(ctx, "Cash book generated successfully",
		slog.String("temple_id", templeID),
		slog.String("kind", string(kind)),
		slog.Int("receipts", len(book.Receipts)),
		slog.Int("payments", len(book.Payments)))
	return &book, nil
}

// GetBalanceSheet groups balances as of a date, including income and expense not yet closed.
func (s *reportingService) GetBalanceSheet(ctx context.Context, templeID string, asOf time.Time) (*domain.BalanceSheet, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	accounts, err := s.accounts(ctx, templeID)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportingRepo.SumByAccount(ctx, templeID, domain.LineFilter{To: domain.DateOnly(asOf)})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data",
			slog.String("temple_id", templeID),
			slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	bs := accounting.BuildBalanceSheet(domain.DateOnly(asOf), accounts, totals)
	if !bs.IsBalanced {
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.String("temple_id", templeID),
			slog.String("difference", bs.Difference.String()))
	}
	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("temple_id", templeID),
		slog.String("asOf", asOf.Format(time.DateOnly)))
	return &bs, nil
}

// GetProfitAndLoss reports income against expenditure for the range. Year-end closing entries are
// left out so a closed year still shows its surplus.
func (s *reportingService) GetProfitAndLoss(ctx context.Context, templeID string, from, to time.Time) (*domain.ProfitAndLoss, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	accounts, err := s.accounts(ctx, templeID)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportingRepo.SumByAccount(ctx, templeID, domain.LineFilter{
		From:                  domain.DateOnly(from),
		To:                    domain.DateOnly(to),
		ExcludeReferenceTypes: []string{domain.ReferencePeriodClosing},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve profit and loss data",
			slog.String("temple_id", templeID),
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}

	pl := accounting.BuildProfitAndLoss(domain.DateOnly(from), domain.DateOnly(to), accounts, totals)
	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("temple_id", templeID),
		slog.String("net_surplus", pl.NetSurplus.String()))
	return &pl, nil
}
