package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// generateTestToken creates a signed JWT for the given user.
func generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "temple-ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, templeID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, templeID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByCode(ctx context.Context, templeID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, templeID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByIDs(ctx context.Context, templeID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, templeID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, templeID string) ([]domain.Account, error) {
	args := m.Called(ctx, templeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetHierarchy(ctx context.Context, templeID string) ([]*domain.AccountNode, error) {
	args := m.Called(ctx, templeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}
func (m *MockAccountService) HasTransactions(ctx context.Context, templeID string, accountID string) (bool, error) {
	args := m.Called(ctx, templeID, accountID)
	return args.Bool(0), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, templeID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, templeID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, templeID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, templeID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, templeID string, accountID string, userID string) error {
	args := m.Called(ctx, templeID, accountID, userID)
	return args.Error(0)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, templeID string, accountID string, userID string) error {
	args := m.Called(ctx, templeID, accountID, userID)
	return args.Error(0)
}
func (m *MockAccountService) SeedDefaultChart(ctx context.Context, templeID string, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, templeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntry(ctx context.Context, templeID string, entryID string) (*domain.EntryWithLines, error) {
	args := m.Called(ctx, templeID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryWithLines), args.Error(1)
}
func (m *MockJournalService) ListEntries(ctx context.Context, templeID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, templeID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockJournalService) CreateEntry(ctx context.Context, templeID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.EntryWithLines, error) {
	args := m.Called(ctx, templeID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryWithLines), args.Error(1)
}
func (m *MockJournalService) ReverseEntry(ctx context.Context, templeID string, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.EntryWithLines, error) {
	args := m.Called(ctx, templeID, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryWithLines), args.Error(1)
}
func (m *MockJournalService) CorrectEntry(ctx context.Context, templeID string, entryID string, req dto.CorrectEntryRequest, userID string) (*domain.EntryWithLines, error) {
	args := m.Called(ctx, templeID, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryWithLines), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)
