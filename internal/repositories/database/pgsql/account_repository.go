package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository implements repositories.AccountRepositoryFacade using PostgreSQL.
type AccountRepository struct {
	BaseRepository
}

var _ repositories.AccountRepositoryFacade = (*AccountRepository)(nil)

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

const accountColumns = `account_id, name, account_type, parent_account_id, description, is_system, created_at`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.Name,
		&a.AccountType,
		&a.ParentAccountID,
		&a.Description,
		&a.IsSystem,
		&a.CreatedAt,
	)
	return a, err
}

// SaveAccount persists a new account.
func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, name, account_type, parent_account_id, description, is_system, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.AccountType,
		account.ParentAccountID,
		account.Description,
		account.IsSystem,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, fmt.Sprintf("account with name %q already exists", account.Name), apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save account", err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_id = $1`, accountColumns)
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("account with ID %s not found", accountID))
		}
		return nil, apperrors.NewAppError(500, "failed to find account", err)
	}
	return &account, nil
}

// FindAccountByName retrieves an account by its unique name.
func (r *AccountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE name = $1`, accountColumns)
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("account with name %q not found", name))
		}
		return nil, apperrors.NewAppError(500, "failed to find account by name", err)
	}
	return &account, nil
}

// ListAccounts retrieves all accounts ordered by name.
func (r *AccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts ORDER BY name`, accountColumns)
	return r.queryAccounts(ctx, query)
}

// ListAccountsByType retrieves all accounts of the given type ordered by name.
func (r *AccountRepository) ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE account_type = $1 ORDER BY name`, accountColumns)
	return r.queryAccounts(ctx, query, accountType)
}

func (r *AccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read accounts", err)
	}
	return accounts, nil
}
