package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property is a real-estate asset with N owners.
type Property struct {
	PropertyID    string           `json:"propertyID"`
	Name          string           `json:"name"`
	Address       *string          `json:"address,omitempty"`
	PurchaseDate  *time.Time       `json:"purchaseDate,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// Owner is a person holding equity in one or more properties.
type Owner struct {
	OwnerID   string    `json:"ownerID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Ownership links an owner to a property through a dedicated capital account:
// an EQUITY account tracking that owner's contributions to that property.
// One link and one capital account per (property, owner) pair.
type Ownership struct {
	OwnershipID        string    `json:"ownershipID"`
	PropertyID         string    `json:"propertyID"`
	OwnerID            string    `json:"ownerID"`
	CapitalAccountID   string    `json:"capitalAccountID"`
	OwnerName          string    `json:"ownerName"`
	CapitalAccountName string    `json:"capitalAccountName"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Mortgage is a liability attached to a property.
type Mortgage struct {
	MortgageID         string          `json:"mortgageID"`
	PropertyID         string          `json:"propertyID"`
	Lender             string          `json:"lender"`
	OriginalAmount     decimal.Decimal `json:"originalAmount"`
	StartDate          time.Time       `json:"startDate"`
	TermMonths         int             `json:"termMonths"`
	LiabilityAccountID string          `json:"liabilityAccountID"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// MortgageRate is one interest-rate change in a mortgage's history.
type MortgageRate struct {
	RateID        string          `json:"rateID"`
	MortgageID    string          `json:"mortgageID"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PropertyValuation is a dated market-value estimate. The most recent by date
// is authoritative for equity calculations.
type PropertyValuation struct {
	ValuationID   string          `json:"valuationID"`
	PropertyID    string          `json:"propertyID"`
	Valuation     decimal.Decimal `json:"valuation"`
	ValuationDate time.Time       `json:"valuationDate"`
	Source        string          `json:"source"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PropertyTransfer records equity moved between two properties for one owner,
// always backed by exactly one balanced journal entry.
type PropertyTransfer struct {
	TransferID     string          `json:"transferID"`
	FromPropertyID string          `json:"fromPropertyID"`
	ToPropertyID   string          `json:"toPropertyID"`
	OwnerID        string          `json:"ownerID"`
	Amount         decimal.Decimal `json:"amount"`
	JournalEntryID string          `json:"journalEntryID"`
	TransferDate   time.Time       `json:"transferDate"`
	Description    *string         `json:"description,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ExpenseAllocationRule is a per-property, per-owner percentage split for a
// named expense type.
type ExpenseAllocationRule struct {
	RuleID        string          `json:"ruleID"`
	PropertyID    string          `json:"propertyID"`
	OwnerID       string          `json:"ownerID"`
	AllocationPct decimal.Decimal `json:"allocationPct"`
	ExpenseType   string          `json:"expenseType"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OwnerEquity is one owner's share of a property's net equity.
type OwnerEquity struct {
	OwnerID          string          `json:"ownerID"`
	Name             string          `json:"name"`
	CapitalAccountID string          `json:"capitalAccountID"`
	CapitalBalance   decimal.Decimal `json:"capitalBalance"`
	EquityPct        decimal.Decimal `json:"equityPct"`
	EquityAmount     decimal.Decimal `json:"equityAmount"`
}
