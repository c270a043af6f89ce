package dto

import (
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	ParentAccountID *string            `json:"parentAccountID"`
	Description     string             `json:"description"`
}

// AccountResponse is the API shape of an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID *string            `json:"parentAccountID,omitempty"`
	Description     string             `json:"description,omitempty"`
	IsSystem        bool               `json:"isSystem"`
}

// BalanceResponse pairs an account with its derived balance. The balance is
// serialized as a numeric string to avoid floating-point loss.
type BalanceResponse struct {
	AccountID   string             `json:"accountID"`
	Name        string             `json:"name"`
	AccountType domain.AccountType `json:"accountType"`
	Balance     string             `json:"balance"`
}

// ToAccountResponse converts a domain.Account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Name:            a.Name,
		AccountType:     a.AccountType,
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		IsSystem:        a.IsSystem,
	}
}

// ToBalanceResponse converts a derived balance row to its API shape.
func ToBalanceResponse(b domain.AccountBalance) BalanceResponse {
	return BalanceResponse{
		AccountID:   b.AccountID,
		Name:        b.Name,
		AccountType: b.AccountType,
		Balance:     b.Balance.StringFixed(2),
	}
}

// ToBalanceResponses converts a slice of balance rows.
func ToBalanceResponses(bs []domain.AccountBalance) []BalanceResponse {
	out := make([]BalanceResponse, len(bs))
	for i, b := range bs {
		out[i] = ToBalanceResponse(b)
	}
	return out
}

// FormatAmount renders a decimal as the fixed 2-decimal string used across
// the API.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
