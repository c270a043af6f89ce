package domain

import "time"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account represents a named ledger bucket. Balances are never stored on the
// account; they are always derived from the posting log.
type Account struct {
	AccountID       string      `json:"accountID"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"`
	Description     string      `json:"description,omitempty"`
	IsSystem        bool        `json:"isSystem"`
	CreatedAt       time.Time   `json:"createdAt"`
}
