package services

import (
	"context"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ReportingService implements services.ReportingSvcFacade.
type ReportingService struct {
	reportingRepo repositories.ReportingRepositoryFacade
	accountRepo   repositories.AccountRepositoryFacade
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo repositories.ReportingRepositoryFacade, accountRepo repositories.AccountRepositoryFacade) *ReportingService {
	return &ReportingService{reportingRepo: reportingRepo, accountRepo: accountRepo}
}

// GetBalance returns one account's derived balance. The account must exist;
// an account with no postings reports zero.
func (s *ReportingService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	return s.reportingRepo.GetBalance(ctx, accountID)
}

// GetBalances returns every account's derived balance.
func (s *ReportingService) GetBalances(ctx context.Context) ([]domain.AccountBalance, error) {
	return s.reportingRepo.GetBalances(ctx)
}

// GetMonthlySpending returns expense totals grouped by month and category.
func (s *ReportingService) GetMonthlySpending(ctx context.Context) ([]domain.MonthlySpendingRow, error) {
	return s.reportingRepo.GetMonthlySpending(ctx)
}

// GetNetWorth rolls asset and liability balances up into the dashboard
// net-worth figure. Liability balances are negative in the signed convention,
// so the total is reported as an absolute owed amount.
func (s *ReportingService) GetNetWorth(ctx context.Context) (*domain.NetWorth, error) {
	balances, err := s.reportingRepo.GetBalances(ctx)
	if err != nil {
		return nil, err
	}

	assets := decimal.Zero
	liabilities := decimal.Zero
	for _, b := range balances {
		switch b.AccountType {
		case domain.Asset:
			assets = assets.Add(b.Balance)
		case domain.Liability:
			liabilities = liabilities.Add(b.Balance.Abs())
		}
	}

	return &domain.NetWorth{
		Assets:      assets,
		Liabilities: liabilities,
		NetWorth:    assets.Sub(liabilities),
	}, nil
}
