package repositories

import (
	"context"
	"time"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRepositoryFacade persists accounts.
type AccountRepositoryFacade interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	FindAccountByName(ctx context.Context, name string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
}

// CategoryRepositoryFacade persists categories and categorization rules.
type CategoryRepositoryFacade interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	SaveRule(ctx context.Context, rule domain.CategorizationRule) error
	// ListRules returns rules ordered by priority descending, then insertion
	// order. This is the evaluation order of the categorization engine.
	ListRules(ctx context.Context) ([]domain.CategorizationRule, error)
}

// JournalRepositoryFacade persists journal entries and their postings.
type JournalRepositoryFacade interface {
	// SaveEntry inserts the entry header, all its postings and the optional
	// import fingerprint in one database transaction. Callers are expected to
	// have validated the zero-sum invariant already.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, postings []domain.BookEntry, fingerprint *domain.TransactionFingerprint) error
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindBookEntriesByEntryID(ctx context.Context, entryID string) ([]domain.BookEntry, error)
	UpdateEntryCategory(ctx context.Context, entryID string, categoryID *string) error
	ListEntries(ctx context.Context, filters domain.EntryFilters) ([]domain.EntrySummary, error)
	CountEntries(ctx context.Context, filters domain.EntryFilters) (int, error)
	ListUncategorized(ctx context.Context, limit int) ([]domain.JournalEntry, error)
	// ListPostingsByAccount pages postings for one account using a keyset
	// cursor token over (date, created_at).
	ListPostingsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountPosting, *string, error)
}

// FingerprintRepositoryFacade checks persisted duplicate-detection hashes.
// Fingerprint rows are written by JournalRepositoryFacade.SaveEntry so the
// hash lands in the same transaction as the postings it guards.
type FingerprintRepositoryFacade interface {
	Exists(ctx context.Context, fingerprint string, accountID string) (bool, error)
}

// ImportBatchRepositoryFacade persists import batch metadata.
type ImportBatchRepositoryFacade interface {
	SaveBatch(ctx context.Context, batch domain.ImportBatch) error
	UpdateBatchCounts(ctx context.Context, batchID string, imported, duplicates int) error
	FindBatchByID(ctx context.Context, batchID string) (*domain.ImportBatch, error)
	ListBatches(ctx context.Context, limit int) ([]domain.ImportBatch, error)
}

// PropertyRepositoryFacade persists properties, owners, ownership links,
// valuations, mortgages, transfers and allocation rules.
type PropertyRepositoryFacade interface {
	SaveProperty(ctx context.Context, property domain.Property) error
	FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)

	SaveOwner(ctx context.Context, owner domain.Owner) error
	FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error)
	FindOwnerByName(ctx context.Context, name string) (*domain.Owner, error)
	ListOwners(ctx context.Context) ([]domain.Owner, error)

	SaveOwnership(ctx context.Context, ownership domain.Ownership) error
	ListOwnership(ctx context.Context, propertyID string) ([]domain.Ownership, error)

	SaveValuation(ctx context.Context, valuation domain.PropertyValuation) error
	FindLatestValuation(ctx context.Context, propertyID string) (*domain.PropertyValuation, error)
	ListValuations(ctx context.Context, propertyID string) ([]domain.PropertyValuation, error)

	SaveMortgage(ctx context.Context, mortgage domain.Mortgage) error
	FindMortgageByID(ctx context.Context, mortgageID string) (*domain.Mortgage, error)
	ListMortgages(ctx context.Context, propertyID string) ([]domain.Mortgage, error)
	SaveMortgageRate(ctx context.Context, rate domain.MortgageRate) error
	ListMortgageRates(ctx context.Context, mortgageID string) ([]domain.MortgageRate, error)

	SaveTransfer(ctx context.Context, transfer domain.PropertyTransfer) error
	ListTransfers(ctx context.Context, propertyID, ownerID *string) ([]domain.PropertyTransfer, error)

	UpsertAllocationRule(ctx context.Context, rule domain.ExpenseAllocationRule) error
	ListAllocationRules(ctx context.Context, propertyID string) ([]domain.ExpenseAllocationRule, error)
}

// PlanningRepositoryFacade persists budgets, savings goals and generated
// tips.
type PlanningRepositoryFacade interface {
	// UpsertBudget inserts or replaces the single budget for the category.
	UpsertBudget(ctx context.Context, budget domain.Budget) error
	ListBudgets(ctx context.Context) ([]domain.BudgetSummary, error)
	DeleteBudget(ctx context.Context, budgetID string) error
	// GetBudgetSpending aggregates absolute EXPENSE totals per budget over
	// [monthStart, monthEnd).
	GetBudgetSpending(ctx context.Context, monthStart, monthEnd time.Time) ([]domain.BudgetSpend, error)

	SaveGoal(ctx context.Context, goal domain.SavingsGoal) error
	FindGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error)
	ListGoals(ctx context.Context, status *domain.GoalStatus) ([]domain.SavingsGoal, error)
	UpdateGoal(ctx context.Context, goal domain.SavingsGoal) error
	DeleteGoal(ctx context.Context, goalID string) error

	SaveTip(ctx context.Context, tip domain.Tip) error
	ListActiveTips(ctx context.Context) ([]domain.Tip, error)
	DismissTip(ctx context.Context, tipID string, dismissedAt time.Time) error
	// DeleteOldTips keeps only the newest keep tips, dismissed or not.
	DeleteOldTips(ctx context.Context, keep int) error
}

// ReportingRepositoryFacade derives balances and aggregates from the posting
// log. Balances are never stored; every read re-sums current postings.
type ReportingRepositoryFacade interface {
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetBalances(ctx context.Context) ([]domain.AccountBalance, error)
	GetMonthlySpending(ctx context.Context) ([]domain.MonthlySpendingRow, error)
}

// ConversationRepositoryFacade persists assistant conversations and messages.
type ConversationRepositoryFacade interface {
	SaveConversation(ctx context.Context, conversation domain.Conversation) error
	FindConversationByID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, limit int) ([]domain.Conversation, error)
	TouchConversation(ctx context.Context, conversationID string, updatedAt time.Time) error
	SaveMessage(ctx context.Context, message domain.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
}

// RepositoryProvider bundles all repository implementations for injection.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	CategoryRepo     CategoryRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	FingerprintRepo  FingerprintRepositoryFacade
	ImportBatchRepo  ImportBatchRepositoryFacade
	PropertyRepo     PropertyRepositoryFacade
	PlanningRepo     PlanningRepositoryFacade
	ReportingRepo    ReportingRepositoryFacade
	ConversationRepo ConversationRepositoryFacade
}
