package dto

import (
	"time"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetBudgetRequest upserts the monthly spending limit for one category.
type SetBudgetRequest struct {
	CategoryID    string          `json:"categoryID" binding:"required"`
	MonthlyLimit  decimal.Decimal `json:"monthlyLimit" binding:"required"`
	EffectiveFrom time.Time       `json:"effectiveFrom" binding:"required" time_format:"2006-01-02"`
}

// CreateGoalRequest defines the payload for creating a savings goal.
type CreateGoalRequest struct {
	Name          string           `json:"name" binding:"required"`
	TargetAmount  decimal.Decimal  `json:"targetAmount" binding:"required"`
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
	TargetDate    *time.Time       `json:"targetDate" time_format:"2006-01-02"`
	AccountID     *string          `json:"accountID"`
}

// UpdateGoalRequest patches a savings goal; nil fields stay unchanged.
type UpdateGoalRequest struct {
	Name          *string            `json:"name"`
	TargetAmount  *decimal.Decimal   `json:"targetAmount"`
	CurrentAmount *decimal.Decimal   `json:"currentAmount"`
	TargetDate    *time.Time         `json:"targetDate" time_format:"2006-01-02"`
	AccountID     *string            `json:"accountID"`
	Status        *domain.GoalStatus `json:"status" binding:"omitempty,oneof=active completed cancelled"`
}
