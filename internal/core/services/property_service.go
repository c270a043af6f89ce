package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// PropertyService implements services.PropertySvcFacade. The structured
// money-moving operations (mortgage payments, equity transfers) go through
// the ledger service so they carry the same zero-sum guarantee as every
// other entry.
type PropertyService struct {
	propertyRepo  repositories.PropertyRepositoryFacade
	reportingRepo repositories.ReportingRepositoryFacade
	accountSvc    portssvc.AccountSvcFacade
	ledgerSvc     portssvc.LedgerSvcFacade
}

var _ portssvc.PropertySvcFacade = (*PropertyService)(nil)

// NewPropertyService creates a new PropertyService.
func NewPropertyService(
	propertyRepo repositories.PropertyRepositoryFacade,
	reportingRepo repositories.ReportingRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
) *PropertyService {
	return &PropertyService{
		propertyRepo:  propertyRepo,
		reportingRepo: reportingRepo,
		accountSvc:    accountSvc,
		ledgerSvc:     ledgerSvc,
	}
}

// CreateProperty creates a new property.
func (s *PropertyService) CreateProperty(ctx context.Context, req dto.CreatePropertyRequest) (*domain.Property, error) {
	property := domain.Property{
		PropertyID:    uuid.NewString(),
		Name:          req.Name,
		Address:       req.Address,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.propertyRepo.SaveProperty(ctx, property); err != nil {
		return nil, err
	}
	middleware.GetLoggerFromCtx(ctx).Info("property created", "propertyID", property.PropertyID, "name", property.Name)
	return &property, nil
}

// GetProperty retrieves a property by ID.
func (s *PropertyService) GetProperty(ctx context.Context, propertyID string) (*domain.Property, error) {
	return s.propertyRepo.FindPropertyByID(ctx, propertyID)
}

// ListProperties retrieves all properties.
func (s *PropertyService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.propertyRepo.ListProperties(ctx)
}

// GetOrCreateOwner returns the owner with the given name, creating them when
// absent.
func (s *PropertyService) GetOrCreateOwner(ctx context.Context, name string) (*domain.Owner, error) {
	owner, err := s.propertyRepo.FindOwnerByName(ctx, name)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	created := domain.Owner{
		OwnerID:   uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.propertyRepo.SaveOwner(ctx, created); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.propertyRepo.FindOwnerByName(ctx, name)
		}
		return nil, err
	}
	return &created, nil
}

// ListOwners retrieves all owners.
func (s *PropertyService) ListOwners(ctx context.Context) ([]domain.Owner, error) {
	return s.propertyRepo.ListOwners(ctx)
}

// AddOwnership links an owner to a property and auto-vivifies the dedicated
// capital account that tracks this owner's contributions to this property.
func (s *PropertyService) AddOwnership(ctx context.Context, propertyID, ownerID string) (*domain.Ownership, error) {
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	owner, err := s.propertyRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	capitalName := fmt.Sprintf("%s Capital - %s", owner.Name, property.Name)
	capital, err := s.accountSvc.GetOrCreateAccount(ctx, capitalName, domain.Equity)
	if err != nil {
		return nil, err
	}

	ownership := domain.Ownership{
		OwnershipID:        uuid.NewString(),
		PropertyID:         propertyID,
		OwnerID:            ownerID,
		CapitalAccountID:   capital.AccountID,
		OwnerName:          owner.Name,
		CapitalAccountName: capital.Name,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.propertyRepo.SaveOwnership(ctx, ownership); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("ownership added",
		"propertyID", propertyID, "ownerID", ownerID, "capitalAccountID", capital.AccountID)
	return &ownership, nil
}

// GetOwnership retrieves a property's ownership links.
func (s *PropertyService) GetOwnership(ctx context.Context, propertyID string) ([]domain.Ownership, error) {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.propertyRepo.ListOwnership(ctx, propertyID)
}

// AddValuation records a dated market-value estimate.
func (s *PropertyService) AddValuation(ctx context.Context, req dto.AddValuationRequest) (*domain.PropertyValuation, error) {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}
	valuation := domain.PropertyValuation{
		ValuationID:   uuid.NewString(),
		PropertyID:    req.PropertyID,
		Valuation:     req.Valuation,
		ValuationDate: req.ValuationDate,
		Source:        source,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.propertyRepo.SaveValuation(ctx, valuation); err != nil {
		return nil, err
	}
	return &valuation, nil
}

// ListValuations retrieves a property's valuation history.
func (s *PropertyService) ListValuations(ctx context.Context, propertyID string) ([]domain.PropertyValuation, error) {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.propertyRepo.ListValuations(ctx, propertyID)
}

// CreateMortgage attaches a mortgage to a property, auto-vivifying its
// liability account from the lender and property names. A non-zero initial
// rate opens the rate history at the start date.
func (s *PropertyService) CreateMortgage(ctx context.Context, req dto.CreateMortgageRequest) (*domain.Mortgage, error) {
	property, err := s.propertyRepo.FindPropertyByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	liabilityName := fmt.Sprintf("Mortgage - %s - %s", req.Lender, property.Name)
	liability, err := s.accountSvc.GetOrCreateAccount(ctx, liabilityName, domain.Liability)
	if err != nil {
		return nil, err
	}

	mortgage := domain.Mortgage{
		MortgageID:         uuid.NewString(),
		PropertyID:         req.PropertyID,
		Lender:             req.Lender,
		OriginalAmount:     req.OriginalAmount,
		StartDate:          req.StartDate,
		TermMonths:         req.TermMonths,
		LiabilityAccountID: liability.AccountID,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.propertyRepo.SaveMortgage(ctx, mortgage); err != nil {
		return nil, err
	}

	if !req.InitialRate.IsZero() {
		rate := domain.MortgageRate{
			RateID:        uuid.NewString(),
			MortgageID:    mortgage.MortgageID,
			Rate:          req.InitialRate,
			EffectiveDate: req.StartDate,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.propertyRepo.SaveMortgageRate(ctx, rate); err != nil {
			return nil, err
		}
	}

	middleware.GetLoggerFromCtx(ctx).Info("mortgage created",
		"mortgageID", mortgage.MortgageID, "propertyID", req.PropertyID, "lender", req.Lender)
	return &mortgage, nil
}

// ListMortgages retrieves a property's mortgages.
func (s *PropertyService) ListMortgages(ctx context.Context, propertyID string) ([]domain.Mortgage, error) {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.propertyRepo.ListMortgages(ctx, propertyID)
}

// AddMortgageRate appends a rate change to a mortgage's history.
func (s *PropertyService) AddMortgageRate(ctx context.Context, mortgageID string, req dto.AddMortgageRateRequest) (*domain.MortgageRate, error) {
	if _, err := s.propertyRepo.FindMortgageByID(ctx, mortgageID); err != nil {
		return nil, err
	}

	rate := domain.MortgageRate{
		RateID:        uuid.NewString(),
		MortgageID:    mortgageID,
		Rate:          req.Rate,
		EffectiveDate: req.EffectiveDate,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.propertyRepo.SaveMortgageRate(ctx, rate); err != nil {
		return nil, err
	}
	return &rate, nil
}

// ListMortgageRates retrieves a mortgage's rate history.
func (s *PropertyService) ListMortgageRates(ctx context.Context, mortgageID string) ([]domain.MortgageRate, error) {
	if _, err := s.propertyRepo.FindMortgageByID(ctx, mortgageID); err != nil {
		return nil, err
	}
	return s.propertyRepo.ListMortgageRates(ctx, mortgageID)
}

// GetMortgageBalance returns the outstanding debt on a mortgage as a positive
// amount, derived from its liability account's postings.
func (s *PropertyService) GetMortgageBalance(ctx context.Context, mortgageID string) (decimal.Decimal, error) {
	mortgage, err := s.propertyRepo.FindMortgageByID(ctx, mortgageID)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := s.reportingRepo.GetBalance(ctx, mortgage.LiabilityAccountID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Abs(), nil
}

// RecordMortgagePayment posts one mortgage payment as two balanced entries:
// the payment itself (cash out, principal against the liability, interest to
// expense) and the payer's capital contribution for the principal portion.
// Returns the payment entry's ID. The zero-sum check rejects any request
// where principal plus interest differs from the total.
func (s *PropertyService) RecordMortgagePayment(ctx context.Context, req dto.RecordPaymentRequest) (string, error) {
	mortgage, err := s.propertyRepo.FindMortgageByID(ctx, req.MortgageID)
	if err != nil {
		return "", err
	}
	if _, err := s.accountSvc.GetAccountByID(ctx, req.FromAccountID); err != nil {
		return "", err
	}

	capitalAccountID, err := s.findCapitalAccount(ctx, mortgage.PropertyID, req.PayerOwnerID)
	if err != nil {
		return "", err
	}

	interestAccount, err := s.accountSvc.GetOrCreateAccount(ctx, "Mortgage Interest", domain.Expense)
	if err != nil {
		return "", err
	}

	paymentEntryID, err := s.ledgerSvc.CreateEntry(ctx,
		domain.NewJournalEntry{
			Date:        req.PaymentDate,
			Description: fmt.Sprintf("Mortgage payment - %s", mortgage.Lender),
		},
		[]domain.NewBookEntry{
			{AccountID: req.FromAccountID, Amount: req.TotalAmount.Neg()},
			{AccountID: mortgage.LiabilityAccountID, Amount: req.PrincipalAmount},
			{AccountID: interestAccount.AccountID, Amount: req.InterestAmount},
		},
	)
	if err != nil {
		return "", err
	}

	equityTracking, err := s.accountSvc.GetOrCreateAccount(ctx,
		fmt.Sprintf("Equity Contributions - %s", mortgage.Lender), domain.Equity)
	if err != nil {
		return "", err
	}

	if _, err := s.ledgerSvc.CreateEntry(ctx,
		domain.NewJournalEntry{
			Date:        req.PaymentDate,
			Description: fmt.Sprintf("Capital contribution via mortgage principal - %s", mortgage.Lender),
		},
		[]domain.NewBookEntry{
			{AccountID: capitalAccountID, Amount: req.PrincipalAmount},
			{AccountID: equityTracking.AccountID, Amount: req.PrincipalAmount.Neg()},
		},
	); err != nil {
		return "", err
	}

	middleware.GetLoggerFromCtx(ctx).Info("mortgage payment recorded",
		"mortgageID", req.MortgageID, "entryID", paymentEntryID,
		"total", req.TotalAmount.StringFixed(2), "principal", req.PrincipalAmount.StringFixed(2))
	return paymentEntryID, nil
}

// TransferEquity moves equity from one property's capital account to
// another's for the same owner: one balanced two-leg entry plus a transfer
// record pointing at it. The owner must hold both properties and the source
// capital balance must cover the amount.
func (s *PropertyService) TransferEquity(ctx context.Context, req dto.TransferEquityRequest) (string, error) {
	fromCapitalID, err := s.findCapitalAccount(ctx, req.FromPropertyID, req.OwnerID)
	if err != nil {
		return "", err
	}
	toCapitalID, err := s.findCapitalAccount(ctx, req.ToPropertyID, req.OwnerID)
	if err != nil {
		return "", err
	}

	available, err := s.reportingRepo.GetBalance(ctx, fromCapitalID)
	if err != nil {
		return "", err
	}
	if available.LessThan(req.Amount) {
		return "", &apperrors.InsufficientEquityError{Available: available, Requested: req.Amount}
	}

	fromProperty, err := s.propertyRepo.FindPropertyByID(ctx, req.FromPropertyID)
	if err != nil {
		return "", err
	}
	toProperty, err := s.propertyRepo.FindPropertyByID(ctx, req.ToPropertyID)
	if err != nil {
		return "", err
	}

	description := fmt.Sprintf("Equity transfer: %s -> %s", fromProperty.Name, toProperty.Name)
	if req.Description != nil && *req.Description != "" {
		description = *req.Description
	}

	entryID, err := s.ledgerSvc.CreateEntry(ctx,
		domain.NewJournalEntry{Date: req.TransferDate, Description: description},
		[]domain.NewBookEntry{
			{AccountID: fromCapitalID, Amount: req.Amount.Neg()},
			{AccountID: toCapitalID, Amount: req.Amount},
		},
	)
	if err != nil {
		return "", err
	}

	transfer := domain.PropertyTransfer{
		TransferID:     uuid.NewString(),
		FromPropertyID: req.FromPropertyID,
		ToPropertyID:   req.ToPropertyID,
		OwnerID:        req.OwnerID,
		Amount:         req.Amount,
		JournalEntryID: entryID,
		TransferDate:   req.TransferDate,
		Description:    &description,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.propertyRepo.SaveTransfer(ctx, transfer); err != nil {
		return "", err
	}

	middleware.GetLoggerFromCtx(ctx).Info("equity transferred",
		"transferID", transfer.TransferID, "entryID", entryID,
		"ownerID", req.OwnerID, "amount", req.Amount.StringFixed(2))
	return entryID, nil
}

// ListTransfers retrieves transfer records, optionally filtered.
func (s *PropertyService) ListTransfers(ctx context.Context, propertyID, ownerID *string) ([]domain.PropertyTransfer, error) {
	return s.propertyRepo.ListTransfers(ctx, propertyID, ownerID)
}

// SetAllocationRule upserts the expense split percentage for one
// (property, owner, expense type) triple.
func (s *PropertyService) SetAllocationRule(ctx context.Context, req dto.SetAllocationRequest) error {
	if _, err := s.findCapitalAccount(ctx, req.PropertyID, req.OwnerID); err != nil {
		return err
	}

	expenseType := req.ExpenseType
	if expenseType == "" {
		expenseType = "general"
	}
	rule := domain.ExpenseAllocationRule{
		RuleID:        uuid.NewString(),
		PropertyID:    req.PropertyID,
		OwnerID:       req.OwnerID,
		AllocationPct: req.AllocationPct,
		ExpenseType:   expenseType,
		CreatedAt:     time.Now().UTC(),
	}
	return s.propertyRepo.UpsertAllocationRule(ctx, rule)
}

// ListAllocationRules retrieves a property's expense allocation rules.
func (s *PropertyService) ListAllocationRules(ctx context.Context, propertyID string) ([]domain.ExpenseAllocationRule, error) {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.propertyRepo.ListAllocationRules(ctx, propertyID)
}

// findCapitalAccount resolves the capital account linking an owner to a
// property, or fails with OwnerNotOnPropertyError.
func (s *PropertyService) findCapitalAccount(ctx context.Context, propertyID, ownerID string) (string, error) {
	ownership, err := s.propertyRepo.ListOwnership(ctx, propertyID)
	if err != nil {
		return "", err
	}
	for _, own := range ownership {
		if own.OwnerID == ownerID {
			return own.CapitalAccountID, nil
		}
	}
	return "", &apperrors.OwnerNotOnPropertyError{OwnerID: ownerID, PropertyID: propertyID}
}
