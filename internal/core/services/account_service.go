package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/google/uuid"
)

// maxHierarchyDepth bounds the ancestor walk used for cycle detection.
const maxHierarchyDepth = 32

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}
	svc.apply(options)
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, templeID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	subtype := req.Subtype
	if subtype == "" {
		subtype = req.AccountType.DefaultSubtype()
	}
	if !req.AccountType.AllowsSubtype(subtype) {
		return nil, fmt.Errorf("%w: subtype %q is not allowed for %s accounts", apperrors.ErrValidation, subtype, req.AccountType)
	}

	if _, err := s.accountRepo.FindAccountByCode(ctx, templeID, code); err == nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code", slog.String("code", code))
		return nil, err
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		if err := s.validateParent(ctx, templeID, "", req.AccountType, parentID); err != nil {
			return nil, err
		}
	}

	allowManual := true
	if req.AllowManualEntry != nil {
		allowManual = *req.AllowManualEntry
	}

	now := s.Now()
	account := domain.Account{
		AccountID:        uuid.NewString(),
		TempleID:         templeID,
		Code:             code,
		Name:             name,
		Description:      req.Description,
		AccountType:      req.AccountType,
		Subtype:          subtype,
		ParentAccountID:  parentID,
		IsActive:         true,
		AllowManualEntry: allowManual,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("temple_id", templeID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("temple_id", templeID))
	return &account, nil
}

// validateParent checks that the parent exists in the same temple, has the same type,
// and that attaching accountID below it does not create a cycle.
func (s *accountService) validateParent(ctx context.Context, templeID, accountID string, accountType domain.AccountType, parentID string) error {
	if parentID == accountID {
		return fmt.Errorf("%w: an account cannot be its own parent", apperrors.ErrValidation)
	}
	parent, err := s.accountRepo.FindAccountByID(ctx, templeID, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, parentID)
		}
		s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", parentID))
		return err
	}
	if parent.AccountType != accountType {
		return fmt.Errorf("%w: parent account type %s differs from %s", apperrors.ErrValidation, parent.AccountType, accountType)
	}
	if accountID == "" {
		return nil
	}

	// Walk up from the new parent; reaching accountID means the move would close a loop.
	current := parent
	for depth := 0; current.ParentAccountID != ""; depth++ {
		if depth >= maxHierarchyDepth {
			return fmt.Errorf("%w: account hierarchy deeper than %d levels", apperrors.ErrValidation, maxHierarchyDepth)
		}
		if current.ParentAccountID == accountID {
			return fmt.Errorf("%w: moving the account under %s would create a cycle", apperrors.ErrValidation, parentID)
		}
		current, err = s.accountRepo.FindAccountByID(ctx, templeID, current.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (s *accountService) GetAccountByID(ctx context.Context, templeID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, templeID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}

	// Return NotFound to obscure existence from other temples
	if account.TempleID != templeID {
		s.LogDebug(ctx, "Account found but belongs to different temple",
			slog.String("account_id", accountID),
			slog.String("requested_temple", templeID))
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, templeID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, templeID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code",
				slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByIDs(ctx context.Context, templeID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, templeID, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs",
			slog.Int("count", len(accountIDs)))
		return nil, err
	}

	for id, account := range accounts {
		if account.TempleID != templeID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, templeID string) ([]domain.Account, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, templeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("temple_id", templeID))
		return nil, fmt.Errorf("failed to list accounts for temple %s: %w", templeID, err)
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}

	s.LogDebug(ctx, "Accounts listed successfully",
		slog.Int("count", len(accounts)),
		slog.String("temple_id", templeID))
	return accounts, nil
}

func (s *accountService) GetHierarchy(ctx context.Context, templeID string) ([]*domain.AccountNode, error) {
	accounts, err := s.ListAccounts(ctx, templeID)
	if err != nil {
		return nil, err
	}
	return domain.BuildAccountTree(accounts), nil
}

func (s *accountService) HasTransactions(ctx context.Context, templeID string, accountID string) (bool, error) {
	if _, err := s.GetAccountByID(ctx, templeID, accountID); err != nil {
		return false, err
	}
	used, err := s.accountRepo.AccountHasLines(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check account usage",
			slog.String("account_id", accountID))
		return false, err
	}
	return used, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, templeID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, templeID, accountID)
	if err != nil {
		return nil, err
	}

	codeChanged := req.Code != nil && strings.TrimSpace(*req.Code) != account.Code
	typeChanged := req.AccountType != nil && *req.AccountType != account.AccountType
	if codeChanged || typeChanged {
		used, err := s.accountRepo.AccountHasLines(ctx, accountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to check account usage", slog.String("account_id", accountID))
			return nil, err
		}
		if used {
			return nil, fmt.Errorf("%w: code and type of account %s cannot change once it has journal lines",
				apperrors.ErrReferentialIntegrity, account.Code)
		}
	}

	updated := false
	if codeChanged {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: account code cannot be empty", apperrors.ErrValidation)
		}
		if existing, err := s.accountRepo.FindAccountByCode(ctx, templeID, code); err == nil && existing.AccountID != accountID {
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, code)
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		account.Code = code
		updated = true
	}
	if typeChanged {
		if !req.AccountType.IsValid() {
			return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		account.AccountType = *req.AccountType
		if !account.AccountType.AllowsSubtype(account.Subtype) {
			account.Subtype = account.AccountType.DefaultSubtype()
		}
		updated = true
	}
	if req.Subtype != nil {
		if !account.AccountType.AllowsSubtype(*req.Subtype) {
			return nil, fmt.Errorf("%w: subtype %q is not allowed for %s accounts", apperrors.ErrValidation, *req.Subtype, account.AccountType)
		}
		account.Subtype = *req.Subtype
		updated = true
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		account.Name = strings.TrimSpace(*req.Name)
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if req.AllowManualEntry != nil {
		account.AllowManualEntry = *req.AllowManualEntry
		updated = true
	}
	if req.ParentAccountID != nil {
		account.ParentAccountID = *req.ParentAccountID
		updated = true
	}

	// Type or parent changes re-validate the position in the hierarchy.
	if typeChanged || req.ParentAccountID != nil {
		if account.ParentAccountID != "" {
			if err := s.validateParent(ctx, templeID, accountID, account.AccountType, account.ParentAccountID); err != nil {
				return nil, err
			}
		}
		if typeChanged {
			if err := s.ensureChildrenMatchType(ctx, templeID, accountID, account.AccountType); err != nil {
				return nil, err
			}
		}
	}

	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID),
		slog.String("temple_id", templeID))
	return account, nil
}

func (s *accountService) ensureChildrenMatchType(ctx context.Context, templeID, accountID string, accountType domain.AccountType) error {
	accounts, err := s.accountRepo.ListAccounts(ctx, templeID)
	if err != nil {
		return err
	}
	for _, child := range accounts {
		if child.ParentAccountID == accountID && child.AccountType != accountType {
			return fmt.Errorf("%w: child account %s has type %s", apperrors.ErrValidation, child.Code, child.AccountType)
		}
	}
	return nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, templeID string, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, templeID, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, account.Code)
	}

	account.IsActive = false
	account.LastUpdatedAt = s.Now()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated successfully",
		slog.String("account_id", accountID),
		slog.String("temple_id", templeID))
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, templeID string, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, templeID, accountID)
	if err != nil {
		return err
	}

	used, err := s.accountRepo.AccountHasLines(ctx, accountID)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: account %s has journal lines; deactivate it instead", apperrors.ErrReferentialIntegrity, account.Code)
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, templeID)
	if err != nil {
		return err
	}
	for _, other := range accounts {
		if other.ParentAccountID == accountID {
			return fmt.Errorf("%w: account %s has child accounts", apperrors.ErrReferentialIntegrity, account.Code)
		}
	}

	if err := s.accountRepo.DeleteAccount(ctx, templeID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted",
		slog.String("account_id", accountID),
		slog.String("code", account.Code),
		slog.String("deleted_by", userID))
	return nil
}

func (s *accountService) SeedDefaultChart(ctx context.Context, templeID string, userID string) ([]domain.Account, error) {
	if _, err := s.RequireTemple(ctx, templeID); err != nil {
		return nil, err
	}
	existing, err := s.accountRepo.ListAccounts(ctx, templeID)
	if err != nil {
		return nil, err
	}

	idByCode := make(map[string]string, len(existing))
	for _, acc := range existing {
		idByCode[acc.Code] = acc.AccountID
	}

	created := make([]domain.Account, 0)
	now := s.Now()
	for _, ca := range defaultTempleChart() {
		if _, ok := idByCode[ca.Code]; ok {
			continue
		}
		account := domain.Account{
			AccountID:        uuid.NewString(),
			TempleID:         templeID,
			Code:             ca.Code,
			Name:             ca.Name,
			Description:      ca.Description,
			AccountType:      ca.Type,
			Subtype:          ca.Subtype,
			ParentAccountID:  idByCode[ca.ParentCode],
			IsActive:         true,
			AllowManualEntry: ca.Manual,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			s.LogError(ctx, err, "Failed to seed account",
				slog.String("code", ca.Code),
				slog.String("temple_id", templeID))
			return created, err
		}
		idByCode[ca.Code] = account.AccountID
		created = append(created, account)
	}

	s.LogInfo(ctx, "Default chart seeded",
		slog.String("temple_id", templeID),
		slog.Int("created", len(created)))
	return created, nil
}
