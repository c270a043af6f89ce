package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/services"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	service         *services.LedgerService
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockJournalRepo, suite.mockAccountRepo)
}

func (suite *LedgerServiceTestSuite) anyAccountExists(ctx context.Context) {
	suite.mockAccountRepo.On("FindAccountByID", ctx, mock.AnythingOfType("string")).
		Return(&domain.Account{AccountID: uuid.NewString(), AccountType: domain.Asset}, nil)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	suite.anyAccountExists(ctx)

	var savedEntry domain.JournalEntry
	var savedPostings []domain.BookEntry
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.BookEntry"), (*domain.TransactionFingerprint)(nil)).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.JournalEntry)
			savedPostings = args.Get(2).([]domain.BookEntry)
		}).Return(nil).Once()

	entryID, err := suite.service.CreateEntry(ctx,
		domain.NewJournalEntry{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Description: "Groceries"},
		[]domain.NewBookEntry{
			{AccountID: "acc-checking", Amount: decimal.RequireFromString("-42.50")},
			{AccountID: "acc-expense", Amount: decimal.RequireFromString("42.50")},
		},
	)

	suite.Require().NoError(err)
	suite.NotEmpty(entryID)
	suite.Equal(entryID, savedEntry.EntryID)
	suite.Equal("Groceries", savedEntry.Description)

	suite.Require().Len(savedPostings, 2)
	for _, p := range savedPostings {
		suite.Equal(savedEntry.EntryID, p.JournalEntryID)
		suite.NotEmpty(p.BookEntryID)
	}
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_RejectsUnbalanced() {
	ctx := context.Background()

	_, err := suite.service.CreateEntry(ctx,
		domain.NewJournalEntry{Date: time.Now(), Description: "Broken"},
		[]domain.NewBookEntry{
			{AccountID: "a", Amount: decimal.RequireFromString("10.00")},
			{AccountID: "b", Amount: decimal.RequireFromString("-9.99")},
		},
	)

	suite.Require().Error(err)
	var unbalanced *apperrors.UnbalancedEntryError
	suite.ErrorAs(err, &unbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_RejectsSinglePosting() {
	ctx := context.Background()

	_, err := suite.service.CreateEntry(ctx,
		domain.NewJournalEntry{Date: time.Now(), Description: "One leg"},
		[]domain.NewBookEntry{{AccountID: "a", Amount: decimal.Zero}},
	)

	suite.Require().Error(err)
	var unbalanced *apperrors.UnbalancedEntryError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.Equal(1, unbalanced.PostingCount)
}

func (suite *LedgerServiceTestSuite) TestCreateEntry_UnknownAccount() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByID", ctx, "missing").
		Return(nil, apperrors.NewNotFoundError("account not found")).Once()

	_, err := suite.service.CreateEntry(ctx,
		domain.NewJournalEntry{Date: time.Now(), Description: "Bad ref"},
		[]domain.NewBookEntry{
			{AccountID: "missing", Amount: decimal.RequireFromString("5.00")},
			{AccountID: "other", Amount: decimal.RequireFromString("-5.00")},
		},
	)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateImportedEntry_WiresFingerprint() {
	ctx := context.Background()
	suite.anyAccountExists(ctx)

	var savedFingerprint *domain.TransactionFingerprint
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.BookEntry"), mock.AnythingOfType("*domain.TransactionFingerprint")).
		Run(func(args mock.Arguments) {
			savedFingerprint = args.Get(3).(*domain.TransactionFingerprint)
		}).Return(nil).Once()

	entryID, err := suite.service.CreateImportedEntry(ctx,
		domain.NewJournalEntry{Date: time.Now(), Description: "TESCO STORES 3297"},
		[]domain.NewBookEntry{
			{AccountID: "acc-checking", Amount: decimal.RequireFromString("-42.50")},
			{AccountID: "acc-counter", Amount: decimal.RequireFromString("42.50")},
		},
		"abc123fingerprint", "acc-checking",
	)

	suite.Require().NoError(err)
	suite.Require().NotNil(savedFingerprint)
	suite.Equal("abc123fingerprint", savedFingerprint.Fingerprint)
	suite.Equal("acc-checking", savedFingerprint.AccountID)
	suite.Equal(entryID, savedFingerprint.JournalEntryID, "Fingerprint points at the entry it guards")
	suite.NotEmpty(savedFingerprint.FingerprintID)
}

func (suite *LedgerServiceTestSuite) TestListPostingsByAccount_UnknownAccount() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByID", ctx, "nope").
		Return(nil, apperrors.NewNotFoundError("account not found")).Once()

	_, _, err := suite.service.ListPostingsByAccount(ctx, "nope", 50, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "ListPostingsByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
