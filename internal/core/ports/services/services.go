package services

import (
	"context"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade manages accounts.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByName(ctx context.Context, name string) (*domain.Account, error)
	// GetOrCreateAccount auto-vivifies system accounts like "Uncategorized
	// Expense" or per-owner capital accounts.
	GetOrCreateAccount(ctx context.Context, name string, accountType domain.AccountType) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// CategorySvcFacade manages categories and categorization rules.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	AddRule(ctx context.Context, req dto.CreateRuleRequest) (*domain.CategorizationRule, error)
	ListRules(ctx context.Context) ([]domain.CategorizationRule, error)
}

// LedgerSvcFacade is the single write path for balanced journal entries plus
// the entry read models.
type LedgerSvcFacade interface {
	CreateEntry(ctx context.Context, entry domain.NewJournalEntry, postings []domain.NewBookEntry) (string, error)
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	GetBookEntries(ctx context.Context, entryID string) ([]domain.BookEntry, error)
	UpdateCategory(ctx context.Context, entryID string, categoryID *string) error
	ListEntries(ctx context.Context, filters domain.EntryFilters) ([]domain.EntrySummary, error)
	CountEntries(ctx context.Context, filters domain.EntryFilters) (int, error)
	ListUncategorized(ctx context.Context, limit int) ([]domain.JournalEntry, error)
	ListPostingsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountPosting, *string, error)
}

// ReportingSvcFacade exposes derived balance and aggregation views.
type ReportingSvcFacade interface {
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetBalances(ctx context.Context) ([]domain.AccountBalance, error)
	GetMonthlySpending(ctx context.Context) ([]domain.MonthlySpendingRow, error)
	GetNetWorth(ctx context.Context) (*domain.NetWorth, error)
}

// CategorizerSvcFacade applies rule-based categorization with an optional
// external classifier fallback.
type CategorizerSvcFacade interface {
	CategorizeTransactions(ctx context.Context, txns []domain.RawTransaction) ([]domain.RawTransaction, error)
	AutoCategorize(ctx context.Context) (*dto.AutoCategorizeResult, error)
}

// ImportSvcFacade orchestrates parse, duplicate-check, categorize and post for
// a batch of bank transactions.
type ImportSvcFacade interface {
	PreviewImport(ctx context.Context, csvContent, bankConfigName, accountName string) ([]domain.RawTransaction, error)
	ExecuteImport(ctx context.Context, csvContent, bankConfigName, accountName, filename string) (*domain.ImportResult, error)
	ImportParsed(ctx context.Context, txns []domain.RawTransaction, accountName, bankConfigName, filename string) (*domain.ImportResult, error)
	CheckDuplicates(ctx context.Context, txns []domain.RawTransaction, accountID string) ([]domain.RawTransaction, error)
}

// EquitySvcFacade computes per-owner property equity.
type EquitySvcFacade interface {
	CalculateEquity(ctx context.Context, propertyID string) ([]domain.OwnerEquity, error)
	CalculateAllEquity(ctx context.Context) (map[string][]domain.OwnerEquity, error)
}

// PropertySvcFacade manages properties, owners, mortgages, valuations and the
// structured ledger operations built on them.
type PropertySvcFacade interface {
	CreateProperty(ctx context.Context, req dto.CreatePropertyRequest) (*domain.Property, error)
	GetProperty(ctx context.Context, propertyID string) (*domain.Property, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)

	GetOrCreateOwner(ctx context.Context, name string) (*domain.Owner, error)
	ListOwners(ctx context.Context) ([]domain.Owner, error)

	AddOwnership(ctx context.Context, propertyID, ownerID string) (*domain.Ownership, error)
	GetOwnership(ctx context.Context, propertyID string) ([]domain.Ownership, error)

	AddValuation(ctx context.Context, req dto.AddValuationRequest) (*domain.PropertyValuation, error)
	ListValuations(ctx context.Context, propertyID string) ([]domain.PropertyValuation, error)

	CreateMortgage(ctx context.Context, req dto.CreateMortgageRequest) (*domain.Mortgage, error)
	ListMortgages(ctx context.Context, propertyID string) ([]domain.Mortgage, error)
	AddMortgageRate(ctx context.Context, mortgageID string, req dto.AddMortgageRateRequest) (*domain.MortgageRate, error)
	ListMortgageRates(ctx context.Context, mortgageID string) ([]domain.MortgageRate, error)
	GetMortgageBalance(ctx context.Context, mortgageID string) (decimal.Decimal, error)

	RecordMortgagePayment(ctx context.Context, req dto.RecordPaymentRequest) (string, error)
	TransferEquity(ctx context.Context, req dto.TransferEquityRequest) (string, error)
	ListTransfers(ctx context.Context, propertyID, ownerID *string) ([]domain.PropertyTransfer, error)

	SetAllocationRule(ctx context.Context, req dto.SetAllocationRequest) error
	ListAllocationRules(ctx context.Context, propertyID string) ([]domain.ExpenseAllocationRule, error)
}

// PlanningSvcFacade manages budgets, savings goals and generated tips.
type PlanningSvcFacade interface {
	SetBudget(ctx context.Context, req dto.SetBudgetRequest) (*domain.Budget, error)
	ListBudgets(ctx context.Context) ([]domain.BudgetSummary, error)
	DeleteBudget(ctx context.Context, budgetID string) error
	// GetBudgetStatus reports each budget's standing for the month (YYYY-MM;
	// empty means the current month).
	GetBudgetStatus(ctx context.Context, month string) ([]domain.BudgetStatus, error)

	CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*domain.SavingsGoal, error)
	ListGoals(ctx context.Context, status *domain.GoalStatus) ([]domain.SavingsGoal, error)
	UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest) (*domain.SavingsGoal, error)
	DeleteGoal(ctx context.Context, goalID string) error

	ListTips(ctx context.Context) ([]domain.Tip, error)
	DismissTip(ctx context.Context, tipID string) error
	// GenerateTips builds a financial summary, asks the model for advice and
	// persists the resulting tips.
	GenerateTips(ctx context.Context) ([]domain.Tip, error)
}

// ServiceContainer bundles all service implementations for handler injection.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Category     CategorySvcFacade
	Ledger       LedgerSvcFacade
	Reporting    ReportingSvcFacade
	Categorizer  CategorizerSvcFacade
	Import       ImportSvcFacade
	Equity       EquitySvcFacade
	Property     PropertySvcFacade
	Planning     PlanningSvcFacade
	Conversation ConversationSvcFacade
}

// ConversationSvcFacade manages assistant conversations.
type ConversationSvcFacade interface {
	CreateConversation(ctx context.Context, title *string) (*domain.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, limit int) ([]domain.Conversation, error)
	AppendMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string) (*domain.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
}
