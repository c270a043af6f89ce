package dto

import (
	"time"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest defines the payload for creating a property.
type CreatePropertyRequest struct {
	Name          string           `json:"name" binding:"required"`
	Address       *string          `json:"address"`
	PurchaseDate  *time.Time       `json:"purchaseDate" time_format:"2006-01-02"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
}

// AddOwnershipRequest links an owner (by name, created on demand) to a
// property.
type AddOwnershipRequest struct {
	OwnerName string `json:"ownerName" binding:"required"`
}

// AddValuationRequest records a dated market-value estimate.
type AddValuationRequest struct {
	PropertyID    string          `json:"propertyID" binding:"required"`
	Valuation     decimal.Decimal `json:"valuation" binding:"required"`
	ValuationDate time.Time       `json:"valuationDate" binding:"required" time_format:"2006-01-02"`
	Source        string          `json:"source"`
}

// CreateMortgageRequest defines the payload for attaching a mortgage to a
// property. The liability account is created on demand from the lender name.
type CreateMortgageRequest struct {
	PropertyID     string          `json:"propertyID" binding:"required"`
	Lender         string          `json:"lender" binding:"required"`
	OriginalAmount decimal.Decimal `json:"originalAmount" binding:"required"`
	StartDate      time.Time       `json:"startDate" binding:"required" time_format:"2006-01-02"`
	TermMonths     int             `json:"termMonths" binding:"required,gt=0"`
	InitialRate    decimal.Decimal `json:"initialRate"`
}

// AddMortgageRateRequest appends a rate change to a mortgage's history.
type AddMortgageRateRequest struct {
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	EffectiveDate time.Time       `json:"effectiveDate" binding:"required" time_format:"2006-01-02"`
}

// RecordPaymentRequest records one mortgage payment. The caller is
// responsible for principal + interest == total.
type RecordPaymentRequest struct {
	MortgageID      string          `json:"mortgageID" binding:"required"`
	PaymentDate     time.Time       `json:"paymentDate" binding:"required" time_format:"2006-01-02"`
	TotalAmount     decimal.Decimal `json:"totalAmount" binding:"required"`
	PrincipalAmount decimal.Decimal `json:"principalAmount" binding:"required"`
	InterestAmount  decimal.Decimal `json:"interestAmount" binding:"required"`
	PayerOwnerID    string          `json:"payerOwnerID" binding:"required"`
	FromAccountID   string          `json:"fromAccountID" binding:"required"`
}

// TransferEquityRequest moves equity between two properties for one owner.
type TransferEquityRequest struct {
	FromPropertyID string          `json:"fromPropertyID" binding:"required"`
	ToPropertyID   string          `json:"toPropertyID" binding:"required"`
	OwnerID        string          `json:"ownerID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	TransferDate   time.Time       `json:"transferDate" binding:"required" time_format:"2006-01-02"`
	Description    *string         `json:"description"`
}

// SetAllocationRequest upserts a per-owner expense split percentage.
type SetAllocationRequest struct {
	PropertyID    string          `json:"propertyID" binding:"required"`
	OwnerID       string          `json:"ownerID" binding:"required"`
	AllocationPct decimal.Decimal `json:"allocationPct" binding:"required"`
	ExpenseType   string          `json:"expenseType"`
}

// OwnerEquityResponse is one owner's equity share with amounts as numeric
// strings.
type OwnerEquityResponse struct {
	OwnerID          string `json:"ownerID"`
	Name             string `json:"name"`
	CapitalAccountID string `json:"capitalAccountID"`
	CapitalBalance   string `json:"capitalBalance"`
	EquityPct        string `json:"equityPct"`
	EquityAmount     string `json:"equityAmount"`
}

// ToOwnerEquityResponse converts one equity share to its API shape.
func ToOwnerEquityResponse(e domain.OwnerEquity) OwnerEquityResponse {
	return OwnerEquityResponse{
		OwnerID:          e.OwnerID,
		Name:             e.Name,
		CapitalAccountID: e.CapitalAccountID,
		CapitalBalance:   e.CapitalBalance.StringFixed(2),
		EquityPct:        e.EquityPct.StringFixed(2),
		EquityAmount:     e.EquityAmount.StringFixed(2),
	}
}

// ToOwnerEquityResponses converts a property's full equity breakdown.
func ToOwnerEquityResponses(equity []domain.OwnerEquity) []OwnerEquityResponse {
	out := make([]OwnerEquityResponse, len(equity))
	for i, e := range equity {
		out[i] = ToOwnerEquityResponse(e)
	}
	return out
}
