package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/SscSPs/temple_ledger/internal/platform/metrics"
	"github.com/SscSPs/temple_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type periodService struct {
	BaseService
	periodRepo  portsrepo.PeriodRepository
	journalRepo portsrepo.JournalRepositoryWithTx
	accountSvc  portssvc.AccountReaderSvc
	poster      *ledgerPoster
}

// NewPeriodService creates the month and year closing service. The year-end closing entry is
// chained with the same hasher and mirrored to the same audit log as every other entry.
func NewPeriodService(
	periodRepo portsrepo.PeriodRepository,
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountSvc portssvc.AccountReaderSvc,
	hasher *accounting.ChainHasher,
	auditLog portsrepo.AuditLog,
	options ...ServiceOption,
) portssvc.PeriodSvcFacade {
	svc := &periodService{
		periodRepo:  periodRepo,
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		poster:      newLedgerPoster(hasher, auditLog),
	}
	svc.apply(options)
	return svc
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func fiscalYearLabel(fy int) string {
	return fmt.Sprintf("%d-%02d", fy, (fy+1)%100)
}

// nominalTotals returns income and expense account totals of the range, excluding closing entries.
// It reads through tx after the ledger head is locked, so no posting can land in the range
// between the snapshot and the closing record.
func nominalTotals(ctx context.Context, tx portsrepo.LedgerTx, templeID string, from, to time.Time, accounts []domain.Account) (domain.ProfitAndLoss, []domain.AccountTotals, error) {
	totals, err := tx.SumByAccount(ctx, templeID, domain.LineFilter{
		From:                  from,
		To:                    to,
		ExcludeReferenceTypes: []string{domain.ReferencePeriodClosing},
	})
	if err != nil {
		return domain.ProfitAndLoss{}, nil, fmt.Errorf("failed to total the period: %w", err)
	}
	return accounting.BuildProfitAndLoss(from, to, accounts, totals), totals, nil
}

// CloseMonth records a month-end snapshot and locks the month against direct postings.
// Nominal accounts are not zeroed.
func (s *periodService) CloseMonth(ctx context.Context, templeID string, req dto.CloseMonthRequest, userID string) (*domain.PeriodClosing, error) {
	temple, err := s.RequireTemple(ctx, templeID)
	if err != nil {
		return nil, err
	}
	closingDate := domain.DateOnly(req.ClosingDate)
	if !domain.IsMonthEnd(closingDate) {
		return nil, fmt.Errorf("%w: closing date %s is not the last day of a month", apperrors.ErrValidation, closingDate.Format(time.DateOnly))
	}
	if closingDate.After(domain.DateOnly(s.Now())) {
		return nil, fmt.Errorf("%w: cannot close a month that has not ended", apperrors.ErrValidation)
	}
	fiscalYear := temple.FiscalYearOf(closingDate)

	existing, err := s.periodRepo.ListClosings(ctx, templeID, fiscalYear)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.ClosingType == domain.YearEnd {
			return nil, fmt.Errorf("%w: fiscal year %s is already closed", apperrors.ErrPeriodClosed, fiscalYearLabel(fiscalYear))
		}
		if c.ClosingType == domain.MonthEnd && c.ClosingDate.Equal(closingDate) {
			return nil, fmt.Errorf("%w: month ending %s is already closed", apperrors.ErrDuplicate, closingDate.Format(time.DateOnly))
		}
	}

	accounts, err := s.accountSvc.ListAccounts(ctx, templeID)
	if err != nil {
		return nil, err
	}

	periodStart := domain.MonthStart(closingDate)
	now := s.Now()
	closing := domain.PeriodClosing{
		ClosingID:   uuid.NewString(),
		TempleID:    templeID,
		FiscalYear:  fiscalYear,
		ClosingType: domain.MonthEnd,
		PeriodStart: periodStart,
		ClosingDate: closingDate,
		Status:      domain.ClosingStatusClosed,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	var pl domain.ProfitAndLoss
	err = s.journalRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := s.poster.lock(ctx, tx, templeID); err != nil {
			return err
		}
		var sumErr error
		pl, _, sumErr = nominalTotals(ctx, tx, templeID, periodStart, closingDate, accounts)
		if sumErr != nil {
			return sumErr
		}
		closing.TotalIncome = pl.TotalIncome
		closing.TotalExpense = pl.TotalExpense
		closing.NetSurplus = pl.NetSurplus
		return tx.SaveClosing(ctx, closing)
	})
	if err != nil {
		if !isBusinessError(err) {
			s.LogError(ctx, err, "Failed to save month closing",
				slog.String("temple_id", templeID),
				slog.String("closing_date", closingDate.Format(time.DateOnly)))
		}
		return nil, err
	}

	metrics.PeriodsClosed.WithLabelValues(string(domain.MonthEnd)).Inc()
	s.LogInfo(ctx, "Month closed",
		slog.String("temple_id", templeID),
		slog.String("closing_date", closingDate.Format(time.DateOnly)),
		slog.String("net_surplus", pl.NetSurplus.String()))
	return &closing, nil
}

// fundAccount resolves the equity account that receives the year's surplus.
func (s *periodService) fundAccount(ctx context.Context, templeID, fundAccountID string, accounts []domain.Account) (*domain.Account, error) {
	if fundAccountID != "" {
		acc, err := s.accountSvc.GetAccountByID(ctx, templeID, fundAccountID)
		if err != nil {
			return nil, err
		}
		if acc.AccountType != domain.Equity || !acc.IsActive {
			return nil, fmt.Errorf("%w: fund account must be an active equity account", apperrors.ErrValidation)
		}
		return acc, nil
	}
	for i := range accounts {
		a := accounts[i]
		if a.AccountType == domain.Equity && a.Subtype == domain.SubtypeFund && a.IsActive {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: no active fund account to close the year into", apperrors.ErrValidation)
}

// closingLines zeroes every income and expense balance against the fund account.
func closingLines(accounts []domain.Account, totals []domain.AccountTotals, fund domain.Account, surplus decimal.Decimal) []domain.JournalLine {
	byID := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.AccountID] = a
	}

	lines := make([]domain.JournalLine, 0, len(totals)+1)
	for _, t := range totals {
		acc, ok := byID[t.AccountID]
		if !ok || (acc.AccountType != domain.Income && acc.AccountType != domain.Expense) {
			continue
		}
		// debit minus credit is what must be credited back to bring the account to zero
		net := t.Debit.Sub(t.Credit)
		if net.IsZero() {
			continue
		}
		line := domain.JournalLine{
			AccountID:   acc.AccountID,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Description: "Closing " + acc.Name,
		}
		if net.IsPositive() {
			line.Credit = net
		} else {
			line.Debit = net.Neg()
		}
		lines = append(lines, line)
	}
	if !surplus.IsZero() {
		line := domain.JournalLine{
			AccountID:   fund.AccountID,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Description: "Surplus transferred to " + fund.Name,
		}
		if surplus.IsPositive() {
			line.Credit = surplus
		} else {
			line.Debit = surplus.Neg()
			line.Description = "Deficit charged to " + fund.Name
		}
		lines = append(lines, line)
	}
	return lines
}

// CloseYear requires all twelve months closed, posts the closing entry that transfers the net surplus
// into the fund account and records the year-end closing in the same transaction.
func (s *periodService) CloseYear(ctx context.Context, templeID string, req dto.CloseYearRequest, userID string) (*domain.PeriodClosing, error) {
	temple, err := s.RequireTemple(ctx, templeID)
	if err != nil {
		return nil, err
	}
	fy := req.FiscalYear
	start, end := temple.FiscalYearBounds(fy)

	existing, err := s.periodRepo.ListClosings(ctx, templeID, fy)
	if err != nil {
		return nil, err
	}
	closedMonths := make(map[time.Time]bool, len(existing))
	for _, c := range existing {
		if c.ClosingType == domain.YearEnd {
			return nil, fmt.Errorf("%w: fiscal year %s is already closed", apperrors.ErrDuplicate, fiscalYearLabel(fy))
		}
		closedMonths[domain.DateOnly(c.ClosingDate)] = true
	}
	var open []string
	for _, monthEnd := range temple.FiscalMonths(fy) {
		if !closedMonths[monthEnd] {
			open = append(open, monthEnd.Format("Jan 2006"))
		}
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPrecedingMonthsOpen, strings.Join(open, ", "))
	}

	accounts, err := s.accountSvc.ListAccounts(ctx, templeID)
	if err != nil {
		return nil, err
	}
	fund, err := s.fundAccount(ctx, templeID, req.FundAccountID, accounts)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	closing := domain.PeriodClosing{
		ClosingID:   uuid.NewString(),
		TempleID:    templeID,
		FiscalYear:  fy,
		ClosingType: domain.YearEnd,
		PeriodStart: start,
		ClosingDate: end,
		Status:      domain.ClosingStatusClosed,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// The closing entry is dated inside the locked year, so it is chained without the lock check.
	var entry *domain.JournalEntry
	var pl domain.ProfitAndLoss
	err = s.journalRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if err := s.poster.lock(ctx, tx, templeID); err != nil {
			return err
		}
		var (
			totals []domain.AccountTotals
			sumErr error
		)
		pl, totals, sumErr = nominalTotals(ctx, tx, templeID, start, end, accounts)
		if sumErr != nil {
			return sumErr
		}
		closing.TotalIncome = pl.TotalIncome
		closing.TotalExpense = pl.TotalExpense
		closing.NetSurplus = pl.NetSurplus

		lines := closingLines(accounts, totals, *fund, pl.NetSurplus)
		if len(lines) > 0 {
			if err := accounting.ValidateBalance(lines); err != nil {
				s.LogError(ctx, err, "Year-end closing lines do not balance", slog.Int("fiscal_year", fy))
				return err
			}
			e, numbered := newEntry(temple, end,
				fmt.Sprintf("Year-end closing FY %s: surplus to %s", fiscalYearLabel(fy), fund.Name),
				domain.ReferencePeriodClosing, "FY"+fiscalYearLabel(fy), userID, now, lines)
			if err := s.poster.chain(ctx, tx, &e, numbered); err != nil {
				return err
			}
			entry = &e
			closing.ClosingEntryID = e.EntryID
		}
		return tx.SaveClosing(ctx, closing)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close fiscal year",
			slog.String("temple_id", templeID),
			slog.Int("fiscal_year", fy))
		return nil, err
	}

	if entry != nil {
		s.poster.mirror(ctx, &s.BaseService, domain.NewAuditRecord(domain.AuditCloseYear, *entry, now))
	}
	metrics.PeriodsClosed.WithLabelValues(string(domain.YearEnd)).Inc()
	s.LogInfo(ctx, "Fiscal year closed",
		slog.String("temple_id", templeID),
		slog.Int("fiscal_year", fy),
		slog.String("fund_account_id", fund.AccountID),
		slog.String("net_surplus", pl.NetSurplus.String()))
	return &closing, nil
}

// ListClosings lists closings of a fiscal year, or all of them when fiscalYear is 0.
func (s *periodService) ListClosings(ctx context.Context, templeID string, fiscalYear int) ([]domain.PeriodClosing, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	closings, err := s.periodRepo.ListClosings(ctx, templeID, fiscalYear)
	if err != nil {
		return nil, err
	}
	if closings == nil {
		closings = []domain.PeriodClosing{}
	}
	return closings, nil
}

// IsDateLocked reports whether a closed period covers the date.
func (s *periodService) IsDateLocked(ctx context.Context, templeID string, date time.Time) (bool, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return false, err
	}
	return s.periodRepo.IsDateLocked(ctx, templeID, domain.DateOnly(date))
}
