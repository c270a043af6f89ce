package pgsql

import (
	"context"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReportingRepository implements repositories.ReportingRepositoryFacade using
// PostgreSQL. All balances are computed by summing postings at read time;
// nothing here ever writes.
type ReportingRepository struct {
	BaseRepository
}

var _ repositories.ReportingRepositoryFacade = (*ReportingRepository)(nil)

// NewReportingRepository creates a new ReportingRepository.
func NewReportingRepository(pool *pgxpool.Pool) *ReportingRepository {
	return &ReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// GetBalance returns the signed sum of all postings against one account.
// An account with no postings has a zero balance.
func (r *ReportingRepository) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM book_entries WHERE account_id = $1`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute account balance", err)
	}
	return balance, nil
}

// GetBalances returns the derived balance of every account, including
// accounts with no postings.
func (r *ReportingRepository) GetBalances(ctx context.Context) ([]domain.AccountBalance, error) {
	query := `
		SELECT a.account_id, a.name, a.account_type, COALESCE(SUM(be.amount), 0)
		FROM accounts a
		LEFT JOIN book_entries be ON be.account_id = a.account_id
		GROUP BY a.account_id, a.name, a.account_type
		ORDER BY a.name`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute account balances", err)
	}
	defer rows.Close()

	balances := make([]domain.AccountBalance, 0)
	for rows.Next() {
		var b domain.AccountBalance
		if err := rows.Scan(&b.AccountID, &b.Name, &b.AccountType, &b.Balance); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account balance", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read account balances", err)
	}
	return balances, nil
}

// GetMonthlySpending aggregates expense-account postings by calendar month of
// the journal entry date and by the entry's category.
func (r *ReportingRepository) GetMonthlySpending(ctx context.Context) ([]domain.MonthlySpendingRow, error) {
	query := `
		SELECT to_char(je.entry_date, 'YYYY-MM') AS month,
		       je.category_id,
		       c.name,
		       a.account_type,
		       SUM(be.amount)
		FROM book_entries be
		JOIN journal_entries je ON je.entry_id = be.journal_entry_id
		JOIN accounts a ON a.account_id = be.account_id
		LEFT JOIN categories c ON c.category_id = je.category_id
		WHERE a.account_type = 'EXPENSE'
		GROUP BY month, je.category_id, c.name, a.account_type
		ORDER BY month DESC, c.name NULLS LAST`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute monthly spending", err)
	}
	defer rows.Close()

	spending := make([]domain.MonthlySpendingRow, 0)
	for rows.Next() {
		var row domain.MonthlySpendingRow
		if err := rows.Scan(&row.Month, &row.CategoryID, &row.CategoryName, &row.AccountType, &row.Total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan monthly spending row", err)
		}
		spending = append(spending, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read monthly spending", err)
	}
	return spending, nil
}
