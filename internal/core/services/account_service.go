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
)

// AccountService implements services.AccountSvcFacade.
type AccountService struct {
	accountRepo repositories.AccountRepositoryFacade
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo repositories.AccountRepositoryFacade) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// CreateAccount creates a new user-defined account.
func (s *AccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.ParentAccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID); err != nil {
			return nil, err
		}
	}

	account := domain.Account{
		AccountID:       uuid.NewString(),
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsSystem:        false,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	logger.Info("account created", "accountID", account.AccountID, "name", account.Name, "type", account.AccountType)
	return &account, nil
}

// GetAccountByID retrieves an account by ID.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByName retrieves an account by its unique name.
func (s *AccountService) GetAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByName(ctx, name)
}

// GetOrCreateAccount returns the account with the given name, creating it as a
// system account of the given type when absent. Used by the import pipeline
// and property operations to auto-vivify accounts like "Uncategorized Expense"
// or per-owner capital accounts.
func (s *AccountService) GetOrCreateAccount(ctx context.Context, name string, accountType domain.AccountType) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByName(ctx, name)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	created := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        name,
		AccountType: accountType,
		Description: fmt.Sprintf("Auto-created %s account", accountType),
		IsSystem:    true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.accountRepo.SaveAccount(ctx, created); err != nil {
		// Lost a create race: someone else inserted the same name first.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.accountRepo.FindAccountByName(ctx, name)
		}
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("account auto-created", "accountID", created.AccountID, "name", name, "type", accountType)
	return &created, nil
}

// ListAccounts retrieves all accounts.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

// ListAccountsByType retrieves all accounts of one type.
func (s *AccountService) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByType(ctx, accountType)
}
