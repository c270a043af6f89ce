package domain

import "github.com/shopspring/decimal"

// AccountBalance is the derived balance of one account: the signed sum of all
// its postings, full history.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Balance     decimal.Decimal `json:"balance"`
}

// MonthlySpendingRow aggregates EXPENSE-account postings by calendar month and
// category.
type MonthlySpendingRow struct {
	Month        string          `json:"month"` // YYYY-MM
	CategoryID   *string         `json:"categoryID,omitempty"`
	CategoryName *string         `json:"categoryName,omitempty"`
	AccountType  AccountType     `json:"accountType"`
	Total        decimal.Decimal `json:"total"`
}

// NetWorth is the asset/liability roll-up for the dashboard.
type NetWorth struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	NetWorth    decimal.Decimal `json:"netWorth"`
}
