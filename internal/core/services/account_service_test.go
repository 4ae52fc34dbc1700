package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	"github.com/SscSPs/temple_ledger/internal/core/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

// --- Implement mock methods for AccountRepository ---

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, templeID, accountID string) error {
	args := m.Called(ctx, templeID, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, templeID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, templeID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, templeID, code string) (*domain.Account, error) {
	args := m.Called(ctx, templeID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, templeID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, templeID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, templeID string) ([]domain.Account, error) {
	args := m.Called(ctx, templeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AccountHasLines(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Mock based tests: repository failures and tenant scoping ---

type AccountServiceMockTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	ctx      context.Context
}

func (suite *AccountServiceMockTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.ctx = context.Background()
}

func TestAccountServiceMockTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceMockTestSuite))
}

func (suite *AccountServiceMockTestSuite) TestCreateAccount_Success() {
	service := services.NewAccountService(suite.mockRepo)
	req := dto.CreateAccountRequest{Code: "4150", Name: "Online Donations", AccountType: domain.Income}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, "temple-1", "4150").Return(nil, apperrors.NewNotFoundError("account 4150")).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Code == "4150" &&
			acc.TempleID == "temple-1" &&
			acc.Subtype == domain.SubtypeIncome &&
			acc.IsActive &&
			acc.AllowManualEntry &&
			acc.CreatedBy == testUser
	})).Return(nil).Once()

	account, err := service.CreateAccount(suite.ctx, "temple-1", req, testUser)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal(domain.SubtypeIncome, account.Subtype)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceMockTestSuite) TestCreateAccount_RepositoryError() {
	service := services.NewAccountService(suite.mockRepo)
	req := dto.CreateAccountRequest{Code: "4150", Name: "Online Donations", AccountType: domain.Income}
	dbErr := errors.New("connection reset")

	suite.mockRepo.On("FindAccountByCode", suite.ctx, "temple-1", "4150").Return(nil, apperrors.NewNotFoundError("account 4150")).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(dbErr).Once()

	account, err := service.CreateAccount(suite.ctx, "temple-1", req, testUser)

	suite.Nil(account)
	suite.ErrorIs(err, dbErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceMockTestSuite) TestCreateAccount_InvalidSubtype() {
	service := services.NewAccountService(suite.mockRepo)
	req := dto.CreateAccountRequest{Code: "4150", Name: "Donations", AccountType: domain.Income, Subtype: domain.SubtypeBank}

	_, err := service.CreateAccount(suite.ctx, "temple-1", req, testUser)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceMockTestSuite) TestGetAccountByID_OtherTemple() {
	service := services.NewAccountService(suite.mockRepo)
	foreign := &domain.Account{AccountID: "acc-1", TempleID: "temple-2", Code: "1100"}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "temple-1", "acc-1").Return(foreign, nil).Once()

	account, err := service.GetAccountByID(suite.ctx, "temple-1", "acc-1")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceMockTestSuite) TestGetAccountByIDs_DropsForeignAccounts() {
	service := services.NewAccountService(suite.mockRepo)
	suite.mockRepo.On("FindAccountsByIDs", suite.ctx, "temple-1", []string{"a", "b"}).Return(map[string]domain.Account{
		"a": {AccountID: "a", TempleID: "temple-1"},
		"b": {AccountID: "b", TempleID: "temple-2"},
	}, nil).Once()

	accounts, err := service.GetAccountByIDs(suite.ctx, "temple-1", []string{"a", "b"})

	suite.Require().NoError(err)
	suite.Len(accounts, 1)
	suite.Contains(accounts, "a")
}

// --- Behaviour over the in-memory store ---

type AccountServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	f   *ledgerFixture
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.f = newLedgerFixture(s.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestSeededChart() {
	assert.Len(s.T(), s.f.accounts, 31)
	fund := s.f.accounts[services.GeneralFundCode]
	assert.Equal(s.T(), domain.Equity, fund.AccountType)
	assert.Equal(s.T(), domain.SubtypeFund, fund.Subtype)
	assert.Equal(s.T(), s.f.id("3000"), fund.ParentAccountID)
	assert.False(s.T(), s.f.accounts["3000"].AllowManualEntry, "group accounts do not take postings")

	again, err := s.f.svc.Account.SeedDefaultChart(s.ctx, s.f.templeID, testUser)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), again, "seeding twice adds nothing")
}

func (s *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	_, err := s.f.svc.Account.CreateAccount(s.ctx, s.f.templeID, dto.CreateAccountRequest{
		Code: "1100", Name: "Another cash", AccountType: domain.Asset,
	}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicate)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentMustShareType() {
	parent := s.f.id("4000")
	_, err := s.f.svc.Account.CreateAccount(s.ctx, s.f.templeID, dto.CreateAccountRequest{
		Code: "1120", Name: "Petty Cash", AccountType: domain.Asset, ParentAccountID: &parent,
	}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	assets := s.f.id("1000")
	acc, err := s.f.svc.Account.CreateAccount(s.ctx, s.f.templeID, dto.CreateAccountRequest{
		Code: "1120", Name: "Petty Cash", AccountType: domain.Asset, Subtype: domain.SubtypeCash, ParentAccountID: &assets,
	}, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), assets, acc.ParentAccountID)
}

func (s *AccountServiceTestSuite) TestCreateAccount_UnknownTemple() {
	_, err := s.f.svc.Account.CreateAccount(s.ctx, "missing-temple", dto.CreateAccountRequest{
		Code: "1120", Name: "Petty Cash", AccountType: domain.Asset,
	}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_CodeAndTypeFrozenOnceUsed() {
	s.f.post(s.T(), day(2025, 4, 10), "Electricity bill", "5300", "1100", "900")

	code := "5310"
	_, err := s.f.svc.Account.UpdateAccount(s.ctx, s.f.templeID, s.f.id("5300"), dto.UpdateAccountRequest{Code: &code}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReferentialIntegrity)

	income := domain.Income
	_, err = s.f.svc.Account.UpdateAccount(s.ctx, s.f.templeID, s.f.id("5300"), dto.UpdateAccountRequest{AccountType: &income}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReferentialIntegrity)

	name := "Electricity, Water and Gas"
	updated, err := s.f.svc.Account.UpdateAccount(s.ctx, s.f.templeID, s.f.id("5300"), dto.UpdateAccountRequest{Name: &name}, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), name, updated.Name)
	assert.Equal(s.T(), "5300", updated.Code)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_UnusedCodeCanChange() {
	code := "4410"
	updated, err := s.f.svc.Account.UpdateAccount(s.ctx, s.f.templeID, s.f.id("4400"), dto.UpdateAccountRequest{Code: &code}, testUser)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "4410", updated.Code)

	byCode, err := s.f.svc.Account.GetAccountByCode(s.ctx, s.f.templeID, "4410")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.f.id("4400"), byCode.AccountID)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_RejectsCycle() {
	assets := s.f.id("1000")
	sub, err := s.f.svc.Account.CreateAccount(s.ctx, s.f.templeID, dto.CreateAccountRequest{
		Code: "1050", Name: "Liquid Assets", AccountType: domain.Asset, ParentAccountID: &assets,
	}, testUser)
	require.NoError(s.T(), err)

	_, err = s.f.svc.Account.UpdateAccount(s.ctx, s.f.templeID, assets, dto.UpdateAccountRequest{ParentAccountID: &sub.AccountID}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)

	self := sub.AccountID
	_, err = s.f.svc.Account.UpdateAccount(s.ctx, s.f.templeID, sub.AccountID, dto.UpdateAccountRequest{ParentAccountID: &self}, testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestDeleteAccount() {
	s.f.post(s.T(), day(2025, 4, 10), "Hall rent", "1100", "4400", "5000")

	err := s.f.svc.Account.DeleteAccount(s.ctx, s.f.templeID, s.f.id("4400"), testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReferentialIntegrity, "used accounts are deactivated, not deleted")

	err = s.f.svc.Account.DeleteAccount(s.ctx, s.f.templeID, s.f.id("4000"), testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrReferentialIntegrity, "group with children")

	require.NoError(s.T(), s.f.svc.Account.DeleteAccount(s.ctx, s.f.templeID, s.f.id("2500"), testUser))
	_, err = s.f.svc.Account.GetAccountByID(s.ctx, s.f.templeID, s.f.id("2500"))
	assert.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount() {
	require.NoError(s.T(), s.f.svc.Account.DeactivateAccount(s.ctx, s.f.templeID, s.f.id("1300"), testUser))

	acc, err := s.f.svc.Account.GetAccountByID(s.ctx, s.f.templeID, s.f.id("1300"))
	require.NoError(s.T(), err)
	assert.False(s.T(), acc.IsActive)

	err = s.f.svc.Account.DeactivateAccount(s.ctx, s.f.templeID, s.f.id("1300"), testUser)
	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestHierarchyAndUsage() {
	roots, err := s.f.svc.Account.GetHierarchy(s.ctx, s.f.templeID)
	require.NoError(s.T(), err)
	require.Len(s.T(), roots, 5)
	assert.Equal(s.T(), "1000", roots[0].Code)
	assert.Len(s.T(), roots[0].Children, 7)
	assert.Equal(s.T(), "5000", roots[4].Code)

	used, err := s.f.svc.Account.HasTransactions(s.ctx, s.f.templeID, s.f.id("4900"))
	require.NoError(s.T(), err)
	assert.False(s.T(), used)

	s.f.post(s.T(), day(2025, 4, 30), "Interest credited", "1200", "4900", "312.40")
	used, err = s.f.svc.Account.HasTransactions(s.ctx, s.f.templeID, s.f.id("4900"))
	require.NoError(s.T(), err)
	assert.True(s.T(), used)
}

func TestAccountsAreScopedToTheirTemple(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	other, err := f.svc.Temple.CreateTemple(ctx, dto.CreateTempleRequest{Name: "Sri Meenakshi Temple", SeedDefaultChart: true}, testUser)
	require.NoError(t, err)

	_, err = f.svc.Account.GetAccountByID(ctx, other.TempleID, f.id("1100"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.Journal.CreateEntry(ctx, other.TempleID, f.entryRequest(day(2025, 4, 10), "Cross temple", "1100", "4100", "10"), testUser)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "another temple's account is unknown here")
}
