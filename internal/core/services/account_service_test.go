package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  *services.AccountService
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Main Checking",
		AccountType: domain.Asset,
		Description: "Joint current account",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal(req.Name, account.Name)
	suite.Equal(domain.Asset, account.AccountType)
	suite.False(account.IsSystem, "User-created accounts are not system accounts")
	suite.WithinDuration(time.Now(), account.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:            "Savings Pot",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	}

	suite.mockRepo.On("FindAccountByID", ctx, parentID).
		Return(nil, apperrors.NewNotFoundError("account not found")).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetOrCreateAccount_Existing() {
	ctx := context.Background()
	existing := &domain.Account{AccountID: uuid.NewString(), Name: "Uncategorized Expense", AccountType: domain.Expense}

	suite.mockRepo.On("FindAccountByName", ctx, "Uncategorized Expense").Return(existing, nil).Once()

	account, err := suite.service.GetOrCreateAccount(ctx, "Uncategorized Expense", domain.Expense)

	suite.Require().NoError(err)
	suite.Equal(existing.AccountID, account.AccountID)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetOrCreateAccount_CreatesSystemAccount() {
	ctx := context.Background()

	suite.mockRepo.On("FindAccountByName", ctx, "Uncategorized Income").
		Return(nil, apperrors.NewNotFoundError("account not found")).Once()

	var saved domain.Account
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Account)
		}).Return(nil).Once()

	account, err := suite.service.GetOrCreateAccount(ctx, "Uncategorized Income", domain.Income)

	suite.Require().NoError(err)
	suite.Equal("Uncategorized Income", account.Name)
	suite.Equal(domain.Income, account.AccountType)
	suite.True(saved.IsSystem, "Auto-vivified accounts are system accounts")
	suite.Equal("Auto-created INCOME account", saved.Description)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetOrCreateAccount_LostCreateRace() {
	ctx := context.Background()
	winner := &domain.Account{AccountID: uuid.NewString(), Name: "Mortgage Interest", AccountType: domain.Expense}

	suite.mockRepo.On("FindAccountByName", ctx, "Mortgage Interest").
		Return(nil, apperrors.NewNotFoundError("account not found")).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Return(apperrors.NewAppError(409, "duplicate", apperrors.ErrDuplicate)).Once()
	suite.mockRepo.On("FindAccountByName", ctx, "Mortgage Interest").
		Return(winner, nil).Once()

	account, err := suite.service.GetOrCreateAccount(ctx, "Mortgage Interest", domain.Expense)

	suite.Require().NoError(err)
	suite.Equal(winner.AccountID, account.AccountID, "Race loser resolves to the winner's account")
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
