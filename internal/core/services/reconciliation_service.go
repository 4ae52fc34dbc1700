package services

import (
	"context"
	"errors"
	"fmt"
	"io"
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

// DefaultStatementFormat is used when an upload does not name its format.
const DefaultStatementFormat = "generic"

// ReconciliationSettings tunes matching.
type ReconciliationSettings struct {
	// Tolerance is the largest absolute amount difference accepted when pairing a row with a line.
	Tolerance decimal.Decimal
	// MatchWindowDays bounds the date distance AutoMatch searches for a candidate line.
	MatchWindowDays int
}

type reconciliationService struct {
	BaseService
	statementRepo portsrepo.StatementRepositoryFacade
	journalRepo   portsrepo.JournalReader
	reportingRepo portsrepo.ReportingRepository
	accountSvc    portssvc.AccountReaderSvc
	parser        portsrepo.StatementParser
	settings      ReconciliationSettings
}

// NewReconciliationService creates the bank reconciliation service.
func NewReconciliationService(
	statementRepo portsrepo.StatementRepositoryFacade,
	journalRepo portsrepo.JournalReader,
	reportingRepo portsrepo.ReportingRepository,
	accountSvc portssvc.AccountReaderSvc,
	parser portsrepo.StatementParser,
	settings ReconciliationSettings,
	options ...ServiceOption,
) portssvc.ReconciliationSvcFacade {
	if settings.Tolerance.IsNegative() {
		settings.Tolerance = decimal.Zero
	}
	if settings.MatchWindowDays < 0 {
		settings.MatchWindowDays = 0
	}
	svc := &reconciliationService{
		statementRepo: statementRepo,
		journalRepo:   journalRepo,
		reportingRepo: reportingRepo,
		accountSvc:    accountSvc,
		parser:        parser,
		settings:      settings,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) bankAccount(ctx context.Context, templeID, accountID string) (*domain.Account, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, templeID, accountID)
	if err != nil {
		return nil, err
	}
	if account.AccountType != domain.Asset || account.Subtype != domain.SubtypeBank {
		return nil, fmt.Errorf("%w: account %s (%s) is not a bank account", apperrors.ErrValidation, account.Code, account.Name)
	}
	return account, nil
}

// ImportStatement stores a statement and all its rows, or nothing when any row is invalid.
func (s *reconciliationService) ImportStatement(ctx context.Context, templeID string, req dto.ImportStatementRequest, userID string) (*domain.StatementWithEntries, error) {
	return s.importRows(ctx, templeID, req.AccountID, req.PeriodStart, req.PeriodEnd,
		req.OpeningBalance, req.ClosingBalance, dto.ToStatementRows(req.Rows), "json", userID)
}

// ImportStatementFile parses an uploaded statement with the registered parser for its format.
func (s *reconciliationService) ImportStatementFile(ctx context.Context, templeID string, req dto.ImportStatementFileRequest, file io.Reader, userID string) (*domain.StatementWithEntries, error) {
	if s.parser == nil {
		return nil, fmt.Errorf("%w: statement uploads are not configured", apperrors.ErrValidation)
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = DefaultStatementFormat
	}

	start, err := time.Parse(dto.DateLayout, req.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid periodStart %q", apperrors.ErrValidation, req.PeriodStart)
	}
	end, err := time.Parse(dto.DateLayout, req.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid periodEnd %q", apperrors.ErrValidation, req.PeriodEnd)
	}
	opening, err := parseOptionalAmount("openingBalance", req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	closing, err := parseOptionalAmount("closingBalance", req.ClosingBalance)
	if err != nil {
		return nil, err
	}

	rows, err := s.parser.Parse(format, file)
	if err != nil {
		s.LogWarn(ctx, "Statement file could not be parsed",
			slog.String("temple_id", templeID),
			slog.String("format", format),
			slog.String("error", err.Error()))
		return nil, err
	}
	return s.importRows(ctx, templeID, req.AccountID, start, end, opening, closing, rows, format, userID)
}

func parseOptionalAmount(name, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid %s %q", apperrors.ErrValidation, name, value)
	}
	return d, nil
}

func (s *reconciliationService) importRows(ctx context.Context, templeID, accountID string, start, end time.Time, opening, closing decimal.Decimal, rows []domain.StatementRow, format, userID string) (*domain.StatementWithEntries, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	if _, err := s.bankAccount(ctx, templeID, accountID); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: periodEnd must not be before periodStart", apperrors.ErrValidation)
	}

	statementID := uuid.NewString()
	entries, computed, err := accounting.BuildStatementEntries(statementID, start, end, opening, rows)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	statement := domain.BankStatement{
		StatementID:            statementID,
		TempleID:               templeID,
		AccountID:              accountID,
		PeriodStart:            domain.DateOnly(start),
		PeriodEnd:              domain.DateOnly(end),
		OpeningBalance:         opening,
		ClosingBalance:         closing,
		ComputedClosingBalance: computed,
		BalanceMismatch:        !computed.Equal(closing),
		Status:                 domain.StatementImported,
		SourceFormat:           format,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for _, e := range entries {
		if e.BalanceMismatch {
			statement.BalanceMismatch = true
			break
		}
	}

	if err := s.statementRepo.SaveStatement(ctx, statement, entries); err != nil {
		s.LogError(ctx, err, "Failed to save bank statement",
			slog.String("temple_id", templeID),
			slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to save bank statement: %w", err)
	}
	metrics.StatementsImported.Inc()

	if statement.BalanceMismatch {
		s.LogWarn(ctx, "Imported statement does not agree with its declared balances",
			slog.String("statement_id", statementID),
			slog.String("declared_closing", closing.String()),
			slog.String("computed_closing", computed.String()))
	}
	s.LogInfo(ctx, "Bank statement imported",
		slog.String("temple_id", templeID),
		slog.String("statement_id", statementID),
		slog.Int("rows", len(entries)))
	return &domain.StatementWithEntries{Statement: statement, Entries: entries}, nil
}

func (s *reconciliationService) statement(ctx context.Context, templeID, statementID string) (*domain.BankStatement, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	st, err := s.statementRepo.FindStatementByID(ctx, templeID, statementID)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// GetStatement returns a statement with its rows.
func (s *reconciliationService) GetStatement(ctx context.Context, templeID, statementID string) (*domain.StatementWithEntries, error) {
	st, err := s.statement(ctx, templeID, statementID)
	if err != nil {
		return nil, err
	}
	entries, err := s.statementRepo.FindStatementEntries(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement rows: %w", err)
	}
	return &domain.StatementWithEntries{Statement: *st, Entries: entries}, nil
}

// ListStatements lists the temple's statements, optionally for one account.
func (s *reconciliationService) ListStatements(ctx context.Context, templeID, accountID string) ([]domain.BankStatement, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	statements, err := s.statementRepo.ListStatements(ctx, templeID, accountID)
	if err != nil {
		return nil, err
	}
	if statements == nil {
		statements = []domain.BankStatement{}
	}
	return statements, nil
}

func ensureOpenStatement(st *domain.BankStatement) error {
	if st.Status == domain.StatementCompleted {
		return fmt.Errorf("%w: statement %s is already completed", apperrors.ErrReconciliationConflict, st.StatementID)
	}
	return nil
}

// Match pairs one statement row with one journal line of the statement's bank account.
func (s *reconciliationService) Match(ctx context.Context, templeID, statementID string, req dto.MatchRequest, userID string) (*domain.StatementEntry, error) {
	st, err := s.statement(ctx, templeID, statementID)
	if err != nil {
		return nil, err
	}
	if err := ensureOpenStatement(st); err != nil {
		return nil, err
	}

	entry, err := s.statementRepo.FindStatementEntryByID(ctx, statementID, req.StatementEntryID)
	if err != nil {
		return nil, err
	}
	if entry.IsMatched() {
		return nil, fmt.Errorf("%w: statement row %d is already matched", apperrors.ErrReconciliationConflict, entry.RowNo)
	}

	line, err := s.journalRepo.FindPostedLineByID(ctx, templeID, req.LineID)
	if err != nil {
		return nil, err
	}
	if line.AccountID != st.AccountID {
		return nil, fmt.Errorf("%w: line %s is not on the statement's bank account", apperrors.ErrReconciliationConflict, line.LineID)
	}
	if err := accounting.LineMatchesStatementEntry(*line, *entry, s.settings.Tolerance); err != nil {
		return nil, err
	}
	matched, err := s.statementRepo.FindMatchedLineIDs(ctx, st.AccountID)
	if err != nil {
		return nil, err
	}
	if matched[line.LineID] {
		return nil, fmt.Errorf("%w: line %s is already matched", apperrors.ErrReconciliationConflict, line.LineID)
	}

	now := s.Now()
	if err := s.statementRepo.MatchEntry(ctx, entry.StatementEntryID, line.LineID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to match statement row",
			slog.String("statement_entry_id", entry.StatementEntryID),
			slog.String("line_id", line.LineID))
		return nil, err
	}
	entry.MatchedLineID = line.LineID
	entry.MatchedAt = &now
	entry.MatchedBy = userID

	s.LogInfo(ctx, "Statement row matched",
		slog.String("statement_id", statementID),
		slog.String("statement_entry_id", entry.StatementEntryID),
		slog.String("line_id", line.LineID))
	return entry, nil
}

// Unmatch clears the pairing of a statement row.
func (s *reconciliationService) Unmatch(ctx context.Context, templeID, statementID, statementEntryID, userID string) error {
	st, err := s.statement(ctx, templeID, statementID)
	if err != nil {
		return err
	}
	if err := ensureOpenStatement(st); err != nil {
		return err
	}
	entry, err := s.statementRepo.FindStatementEntryByID(ctx, statementID, statementEntryID)
	if err != nil {
		return err
	}
	if !entry.IsMatched() {
		return fmt.Errorf("%w: statement row %d is not matched", apperrors.ErrValidation, entry.RowNo)
	}
	if err := s.statementRepo.UnmatchEntry(ctx, statementEntryID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Statement row unmatched",
		slog.String("statement_id", statementID),
		slog.String("statement_entry_id", statementEntryID),
		slog.String("user_id", userID))
	return nil
}

// AutoMatch pairs every unmatched row that has exactly one candidate line: same direction,
// amount within tolerance and dated within the match window.
func (s *reconciliationService) AutoMatch(ctx context.Context, templeID, statementID, userID string) (int, error) {
	st, err := s.statement(ctx, templeID, statementID)
	if err != nil {
		return 0, err
	}
	if err := ensureOpenStatement(st); err != nil {
		return 0, err
	}
	entries, err := s.statementRepo.FindStatementEntries(ctx, statementID)
	if err != nil {
		return 0, err
	}
	window := s.settings.MatchWindowDays
	lines, err := s.reportingRepo.ListPostedLines(ctx, templeID, domain.LineFilter{
		From:       st.PeriodStart.AddDate(0, 0, -window),
		To:         st.PeriodEnd.AddDate(0, 0, window),
		AccountIDs: []string{st.AccountID},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read candidate lines: %w", err)
	}
	used, err := s.statementRepo.FindMatchedLineIDs(ctx, st.AccountID)
	if err != nil {
		return 0, err
	}

	matched := 0
	for _, entry := range entries {
		if entry.IsMatched() {
			continue
		}
		var candidate *domain.PostedLine
		count := 0
		for i := range lines {
			l := lines[i]
			if used[l.LineID] || accounting.LineMatchesStatementEntry(l, entry, s.settings.Tolerance) != nil {
				continue
			}
			days := l.EntryDate.Sub(entry.TxnDate).Hours() / 24
			if days < -float64(window) || days > float64(window) {
				continue
			}
			candidate = &lines[i]
			count++
		}
		if count != 1 {
			continue
		}
		err := s.statementRepo.MatchEntry(ctx, entry.StatementEntryID, candidate.LineID, userID, s.Now())
		if errors.Is(err, apperrors.ErrReconciliationConflict) {
			continue
		}
		if err != nil {
			return matched, err
		}
		used[candidate.LineID] = true
		matched++
	}

	s.LogInfo(ctx, "Auto-match finished",
		slog.String("statement_id", statementID),
		slog.Int("matched", matched))
	return matched, nil
}

// Summary compares the ledger balance of the bank account at the statement's end with its closing balance.
func (s *reconciliationService) Summary(ctx context.Context, templeID, statementID string) (*domain.ReconciliationSummary, error) {
	st, err := s.statement(ctx, templeID, statementID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, templeID, st)
}

func (s *reconciliationService) summarize(ctx context.Context, templeID string, st *domain.BankStatement) (*domain.ReconciliationSummary, error) {
	entries, err := s.statementRepo.FindStatementEntries(ctx, st.StatementID)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportingRepo.SumByAccount(ctx, templeID, domain.LineFilter{
		To:         st.PeriodEnd,
		AccountIDs: []string{st.AccountID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute book balance: %w", err)
	}
	book := decimal.Zero
	for _, t := range totals {
		book = book.Add(t.Debit).Sub(t.Credit)
	}
	periodLines, err := s.reportingRepo.ListPostedLines(ctx, templeID, domain.LineFilter{
		From:       st.PeriodStart,
		To:         st.PeriodEnd,
		AccountIDs: []string{st.AccountID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read book lines: %w", err)
	}
	matched, err := s.statementRepo.FindMatchedLineIDs(ctx, st.AccountID)
	if err != nil {
		return nil, err
	}

	summary := accounting.BuildReconciliationSummary(*st, entries, book, periodLines, matched)
	return &summary, nil
}

// Complete closes the reconciliation when book and bank balances agree. Unmatched items stay listed.
func (s *reconciliationService) Complete(ctx context.Context, templeID, statementID, userID string) (*domain.ReconciliationSummary, error) {
	st, err := s.statement(ctx, templeID, statementID)
	if err != nil {
		return nil, err
	}
	if st.Status == domain.StatementCompleted {
		return nil, fmt.Errorf("%w: statement %s is already completed", apperrors.ErrConflict, statementID)
	}
	summary, err := s.summarize(ctx, templeID, st)
	if err != nil {
		return nil, err
	}
	if !summary.Difference.IsZero() {
		s.LogWarn(ctx, "Reconciliation cannot be completed",
			slog.String("statement_id", statementID),
			slog.String("difference", summary.Difference.String()))
		return summary, fmt.Errorf("%w: book balance %s, bank balance %s, difference %s",
			apperrors.ErrReconciliationMismatch, summary.BookBalance, summary.BankBalance, summary.Difference)
	}

	if err := s.statementRepo.UpdateStatementStatus(ctx, statementID, domain.StatementCompleted, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to complete reconciliation", slog.String("statement_id", statementID))
		return nil, err
	}
	summary.Status = domain.StatementCompleted
	s.LogInfo(ctx, "Reconciliation completed",
		slog.String("statement_id", statementID),
		slog.Int("matched", summary.MatchedCount),
		slog.Int("reconciling_items", len(summary.ReconcilingItems)))
	return summary, nil
}
