package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps one category's EXPENSE spending per calendar month. At most one
// budget exists per category; setting it again replaces the limit.
type Budget struct {
	BudgetID      string          `json:"budgetID"`
	CategoryID    string          `json:"categoryID"`
	MonthlyLimit  decimal.Decimal `json:"monthlyLimit"`
	EffectiveFrom time.Time       `json:"effectiveFrom"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BudgetSummary is a read-model row listing budgets with their category name.
type BudgetSummary struct {
	BudgetID      string          `json:"budgetID"`
	CategoryID    string          `json:"categoryID"`
	CategoryName  string          `json:"categoryName"`
	MonthlyLimit  decimal.Decimal `json:"monthlyLimit"`
	EffectiveFrom time.Time       `json:"effectiveFrom"`
}

// BudgetSpend is the raw per-budget aggregate for one month: the limit and
// the absolute EXPENSE total posted against the budget's category.
type BudgetSpend struct {
	BudgetID     string
	CategoryID   string
	CategoryName string
	MonthlyLimit decimal.Decimal
	Spent        decimal.Decimal
}

// BudgetStatus is one budget's standing for a month.
type BudgetStatus struct {
	BudgetID     string          `json:"budgetID"`
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	MonthlyLimit decimal.Decimal `json:"monthlyLimit"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	OverBudget   bool            `json:"overBudget"`
}

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
)

// SavingsGoal tracks progress toward a named target amount, optionally tied
// to one account.
type SavingsGoal struct {
	GoalID        string          `json:"goalID"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    *time.Time      `json:"targetDate,omitempty"`
	AccountID     *string         `json:"accountID,omitempty"`
	Status        GoalStatus      `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TipType classifies a generated tip.
type TipType string

const (
	TipAdvice  TipType = "tip"
	TipWarning TipType = "warning"
	TipInsight TipType = "insight"
)

// Tip is one model-generated piece of financial advice. Tips stay visible
// until dismissed; old ones are pruned on each generation pass.
type Tip struct {
	TipID       string     `json:"tipID"`
	Content     string     `json:"content"`
	TipType     TipType    `json:"tipType"`
	Priority    int        `json:"priority"`
	DismissedAt *time.Time `json:"dismissedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
