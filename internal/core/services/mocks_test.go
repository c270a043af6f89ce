package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/ai"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock CategoryRepository ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveRule(ctx context.Context, rule domain.CategorizationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockCategoryRepository) ListRules(ctx context.Context) ([]domain.CategorizationRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategorizationRule), args.Error(1)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, postings []domain.BookEntry, fingerprint *domain.TransactionFingerprint) error {
	args := m.Called(ctx, entry, postings, fingerprint)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindBookEntriesByEntryID(ctx context.Context, entryID string) ([]domain.BookEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookEntry), args.Error(1)
}

func (m *MockJournalRepository) UpdateEntryCategory(ctx context.Context, entryID string, categoryID *string) error {
	args := m.Called(ctx, entryID, categoryID)
	return args.Error(0)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, filters domain.EntryFilters) ([]domain.EntrySummary, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntrySummary), args.Error(1)
}

func (m *MockJournalRepository) CountEntries(ctx context.Context, filters domain.EntryFilters) (int, error) {
	args := m.Called(ctx, filters)
	return args.Int(0), args.Error(1)
}

func (m *MockJournalRepository) ListUncategorized(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListPostingsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountPosting, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var postings []domain.AccountPosting
	if args.Get(0) != nil {
		postings = args.Get(0).([]domain.AccountPosting)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return postings, token, args.Error(2)
}

// --- Mock FingerprintRepository ---

type MockFingerprintRepository struct {
	mock.Mock
}

func (m *MockFingerprintRepository) Exists(ctx context.Context, fingerprint string, accountID string) (bool, error) {
	args := m.Called(ctx, fingerprint, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Mock ImportBatchRepository ---

type MockImportBatchRepository struct {
	mock.Mock
}

func (m *MockImportBatchRepository) SaveBatch(ctx context.Context, batch domain.ImportBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockImportBatchRepository) UpdateBatchCounts(ctx context.Context, batchID string, imported, duplicates int) error {
	args := m.Called(ctx, batchID, imported, duplicates)
	return args.Error(0)
}

func (m *MockImportBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportBatch), args.Error(1)
}

func (m *MockImportBatchRepository) ListBatches(ctx context.Context, limit int) ([]domain.ImportBatch, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImportBatch), args.Error(1)
}

// --- Mock PropertyRepository ---

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListProperties(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) SaveOwner(ctx context.Context, owner domain.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockPropertyRepository) FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockPropertyRepository) FindOwnerByName(ctx context.Context, name string) (*domain.Owner, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockPropertyRepository) ListOwners(ctx context.Context) ([]domain.Owner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Owner), args.Error(1)
}

func (m *MockPropertyRepository) SaveOwnership(ctx context.Context, ownership domain.Ownership) error {
	args := m.Called(ctx, ownership)
	return args.Error(0)
}

func (m *MockPropertyRepository) ListOwnership(ctx context.Context, propertyID string) ([]domain.Ownership, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ownership), args.Error(1)
}

func (m *MockPropertyRepository) SaveValuation(ctx context.Context, valuation domain.PropertyValuation) error {
	args := m.Called(ctx, valuation)
	return args.Error(0)
}

func (m *MockPropertyRepository) FindLatestValuation(ctx context.Context, propertyID string) (*domain.PropertyValuation, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertyValuation), args.Error(1)
}

func (m *MockPropertyRepository) ListValuations(ctx context.Context, propertyID string) ([]domain.PropertyValuation, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PropertyValuation), args.Error(1)
}

func (m *MockPropertyRepository) SaveMortgage(ctx context.Context, mortgage domain.Mortgage) error {
	args := m.Called(ctx, mortgage)
	return args.Error(0)
}

func (m *MockPropertyRepository) FindMortgageByID(ctx context.Context, mortgageID string) (*domain.Mortgage, error) {
	args := m.Called(ctx, mortgageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mortgage), args.Error(1)
}

func (m *MockPropertyRepository) ListMortgages(ctx context.Context, propertyID string) ([]domain.Mortgage, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Mortgage), args.Error(1)
}

func (m *MockPropertyRepository) SaveMortgageRate(ctx context.Context, rate domain.MortgageRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockPropertyRepository) ListMortgageRates(ctx context.Context, mortgageID string) ([]domain.MortgageRate, error) {
	args := m.Called(ctx, mortgageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MortgageRate), args.Error(1)
}

func (m *MockPropertyRepository) SaveTransfer(ctx context.Context, transfer domain.PropertyTransfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockPropertyRepository) ListTransfers(ctx context.Context, propertyID, ownerID *string) ([]domain.PropertyTransfer, error) {
	args := m.Called(ctx, propertyID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PropertyTransfer), args.Error(1)
}

func (m *MockPropertyRepository) UpsertAllocationRule(ctx context.Context, rule domain.ExpenseAllocationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPropertyRepository) ListAllocationRules(ctx context.Context, propertyID string) ([]domain.ExpenseAllocationRule, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseAllocationRule), args.Error(1)
}

// --- Mock PlanningRepository ---

type MockPlanningRepository struct {
	mock.Mock
}

func (m *MockPlanningRepository) UpsertBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockPlanningRepository) ListBudgets(ctx context.Context) ([]domain.BudgetSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetSummary), args.Error(1)
}

func (m *MockPlanningRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	args := m.Called(ctx, budgetID)
	return args.Error(0)
}

func (m *MockPlanningRepository) GetBudgetSpending(ctx context.Context, monthStart, monthEnd time.Time) ([]domain.BudgetSpend, error) {
	args := m.Called(ctx, monthStart, monthEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetSpend), args.Error(1)
}

func (m *MockPlanningRepository) SaveGoal(ctx context.Context, goal domain.SavingsGoal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockPlanningRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsGoal), args.Error(1)
}

func (m *MockPlanningRepository) ListGoals(ctx context.Context, status *domain.GoalStatus) ([]domain.SavingsGoal, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavingsGoal), args.Error(1)
}

func (m *MockPlanningRepository) UpdateGoal(ctx context.Context, goal domain.SavingsGoal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockPlanningRepository) DeleteGoal(ctx context.Context, goalID string) error {
	args := m.Called(ctx, goalID)
	return args.Error(0)
}

func (m *MockPlanningRepository) SaveTip(ctx context.Context, tip domain.Tip) error {
	args := m.Called(ctx, tip)
	return args.Error(0)
}

func (m *MockPlanningRepository) ListActiveTips(ctx context.Context) ([]domain.Tip, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tip), args.Error(1)
}

func (m *MockPlanningRepository) DismissTip(ctx context.Context, tipID string, dismissedAt time.Time) error {
	args := m.Called(ctx, tipID, dismissedAt)
	return args.Error(0)
}

func (m *MockPlanningRepository) DeleteOldTips(ctx context.Context, keep int) error {
	args := m.Called(ctx, keep)
	return args.Error(0)
}

// --- Mock ReportingSvc ---

type MockReportingSvc struct {
	mock.Mock
}

func (m *MockReportingSvc) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingSvc) GetBalances(ctx context.Context) ([]domain.AccountBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

func (m *MockReportingSvc) GetMonthlySpending(ctx context.Context) ([]domain.MonthlySpendingRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlySpendingRow), args.Error(1)
}

func (m *MockReportingSvc) GetNetWorth(ctx context.Context) (*domain.NetWorth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NetWorth), args.Error(1)
}

// --- Mock Advisor ---

type MockAdvisor struct {
	mock.Mock
}

func (m *MockAdvisor) SuggestTips(ctx context.Context, financialContext string) ([]ai.TipSuggestion, error) {
	args := m.Called(ctx, financialContext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ai.TipSuggestion), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) GetBalances(ctx context.Context) ([]domain.AccountBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

func (m *MockReportingRepository) GetMonthlySpending(ctx context.Context) ([]domain.MonthlySpendingRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlySpendingRow), args.Error(1)
}

// --- Mock ConversationRepository ---

type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) SaveConversation(ctx context.Context, conversation domain.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *MockConversationRepository) FindConversationByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) ListConversations(ctx context.Context, limit int) ([]domain.Conversation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockConversationRepository) TouchConversation(ctx context.Context, conversationID string, updatedAt time.Time) error {
	args := m.Called(ctx, conversationID, updatedAt)
	return args.Error(0)
}

func (m *MockConversationRepository) SaveMessage(ctx context.Context, message domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

// --- Mock Classifier ---

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) CategorizeBatch(ctx context.Context, descriptions []string, categoryNames []string) (map[string]string, error) {
	args := m.Called(ctx, descriptions, categoryNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}
