package services

import (
	"context"
	"errors"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// EquityService implements services.EquitySvcFacade. Equity is derived on
// every call from the latest valuation, the mortgage liability balances and
// the owners' capital account balances; nothing is cached or stored.
type EquityService struct {
	propertyRepo  repositories.PropertyRepositoryFacade
	reportingRepo repositories.ReportingRepositoryFacade
}

var _ portssvc.EquitySvcFacade = (*EquityService)(nil)

// NewEquityService creates a new EquityService.
func NewEquityService(propertyRepo repositories.PropertyRepositoryFacade, reportingRepo repositories.ReportingRepositoryFacade) *EquityService {
	return &EquityService{propertyRepo: propertyRepo, reportingRepo: reportingRepo}
}

// CalculateEquity computes each owner's share of one property's net equity.
//
// Net equity is the latest valuation (zero when none is recorded) minus the
// outstanding mortgage debt. Two mortgages backed by the same liability
// account count that debt once. Shares are pro-rata on capital balances; if
// the capital total is not positive every owner gets an equal split.
func (s *EquityService) CalculateEquity(ctx context.Context, propertyID string) ([]domain.OwnerEquity, error) {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, err
	}

	ownership, err := s.propertyRepo.ListOwnership(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if len(ownership) == 0 {
		return []domain.OwnerEquity{}, nil
	}

	marketValue := decimal.Zero
	valuation, err := s.propertyRepo.FindLatestValuation(ctx, propertyID)
	if err == nil {
		marketValue = valuation.Valuation
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	mortgages, err := s.propertyRepo.ListMortgages(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	totalDebt := decimal.Zero
	seenAccounts := make(map[string]struct{}, len(mortgages))
	for _, m := range mortgages {
		if _, seen := seenAccounts[m.LiabilityAccountID]; seen {
			continue
		}
		seenAccounts[m.LiabilityAccountID] = struct{}{}
		balance, err := s.reportingRepo.GetBalance(ctx, m.LiabilityAccountID)
		if err != nil {
			return nil, err
		}
		totalDebt = totalDebt.Add(balance.Abs())
	}

	netEquity := marketValue.Sub(totalDebt)

	owners := make([]domain.OwnerEquity, len(ownership))
	totalCapital := decimal.Zero
	for i, own := range ownership {
		capital, err := s.reportingRepo.GetBalance(ctx, own.CapitalAccountID)
		if err != nil {
			return nil, err
		}
		totalCapital = totalCapital.Add(capital)
		owners[i] = domain.OwnerEquity{
			OwnerID:          own.OwnerID,
			Name:             own.OwnerName,
			CapitalAccountID: own.CapitalAccountID,
			CapitalBalance:   capital,
		}
	}

	equalSplit := oneHundred.Div(decimal.NewFromInt(int64(len(owners))))
	for i := range owners {
		if totalCapital.IsPositive() {
			owners[i].EquityPct = owners[i].CapitalBalance.Div(totalCapital).Mul(oneHundred)
		} else {
			owners[i].EquityPct = equalSplit
		}
		owners[i].EquityAmount = netEquity.Mul(owners[i].EquityPct).Div(oneHundred)
	}
	return owners, nil
}

// CalculateAllEquity computes the equity breakdown for every property, keyed
// by property ID.
func (s *EquityService) CalculateAllEquity(ctx context.Context) (map[string][]domain.OwnerEquity, error) {
	properties, err := s.propertyRepo.ListProperties(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]domain.OwnerEquity, len(properties))
	for _, p := range properties {
		equity, err := s.CalculateEquity(ctx, p.PropertyID)
		if err != nil {
			return nil, err
		}
		result[p.PropertyID] = equity
	}
	return result, nil
}
