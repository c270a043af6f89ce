package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanningRepository implements repositories.PlanningRepositoryFacade using PostgreSQL.
type PlanningRepository struct {
	BaseRepository
}

var _ repositories.PlanningRepositoryFacade = (*PlanningRepository)(nil)

// NewPlanningRepository creates a new PlanningRepository.
func NewPlanningRepository(pool *pgxpool.Pool) *PlanningRepository {
	return &PlanningRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// UpsertBudget inserts or replaces the single budget for the category.
func (r *PlanningRepository) UpsertBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		INSERT INTO budgets (budget_id, category_id, monthly_limit, effective_from, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (category_id)
		DO UPDATE SET monthly_limit = EXCLUDED.monthly_limit,
		              effective_from = EXCLUDED.effective_from,
		              updated_at = EXCLUDED.updated_at`
	_, err := r.Pool.Exec(ctx, query,
		budget.BudgetID,
		budget.CategoryID,
		budget.MonthlyLimit,
		budget.EffectiveFrom,
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert budget", err)
	}
	return nil
}

// ListBudgets retrieves all budgets joined with their category name.
func (r *PlanningRepository) ListBudgets(ctx context.Context) ([]domain.BudgetSummary, error) {
	query := `
		SELECT b.budget_id, b.category_id, c.name, b.monthly_limit, b.effective_from
		FROM budgets b
		JOIN categories c ON c.category_id = b.category_id
		ORDER BY c.name`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list budgets", err)
	}
	defer rows.Close()

	budgets := make([]domain.BudgetSummary, 0)
	for rows.Next() {
		var b domain.BudgetSummary
		if err := rows.Scan(&b.BudgetID, &b.CategoryID, &b.CategoryName, &b.MonthlyLimit, &b.EffectiveFrom); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan budget", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read budgets", err)
	}
	return budgets, nil
}

// DeleteBudget removes a budget.
func (r *PlanningRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1`, budgetID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete budget", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("budget with ID %s not found", budgetID))
	}
	return nil
}

// GetBudgetSpending aggregates absolute EXPENSE-account totals per budget over
// [monthStart, monthEnd). Budgets with no postings in the window come back
// with a zero spent amount.
func (r *PlanningRepository) GetBudgetSpending(ctx context.Context, monthStart, monthEnd time.Time) ([]domain.BudgetSpend, error) {
	query := `
		SELECT b.budget_id, b.category_id, c.name, b.monthly_limit,
		       COALESCE(ABS(SUM(be.amount)), 0)
		FROM budgets b
		JOIN categories c ON c.category_id = b.category_id
		LEFT JOIN journal_entries je
		       ON je.category_id = b.category_id
		      AND je.entry_date >= $1 AND je.entry_date < $2
		LEFT JOIN book_entries be
		       ON be.journal_entry_id = je.entry_id
		      AND be.account_id IN (SELECT account_id FROM accounts WHERE account_type = 'EXPENSE')
		GROUP BY b.budget_id, b.category_id, c.name, b.monthly_limit
		ORDER BY c.name`
	rows, err := r.Pool.Query(ctx, query, monthStart, monthEnd)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate budget spending", err)
	}
	defer rows.Close()

	spends := make([]domain.BudgetSpend, 0)
	for rows.Next() {
		var s domain.BudgetSpend
		if err := rows.Scan(&s.BudgetID, &s.CategoryID, &s.CategoryName, &s.MonthlyLimit, &s.Spent); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan budget spending", err)
		}
		spends = append(spends, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read budget spending", err)
	}
	return spends, nil
}

const goalColumns = `goal_id, name, target_amount, current_amount, target_date, account_id, status, created_at, updated_at`

func scanGoal(row pgx.Row) (domain.SavingsGoal, error) {
	var g domain.SavingsGoal
	err := row.Scan(&g.GoalID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate, &g.AccountID, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

// SaveGoal persists a new savings goal.
func (r *PlanningRepository) SaveGoal(ctx context.Context, goal domain.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (goal_id, name, target_amount, current_amount, target_date, account_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.Pool.Exec(ctx, query,
		goal.GoalID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.TargetDate,
		goal.AccountID,
		goal.Status,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save savings goal", err)
	}
	return nil
}

// FindGoalByID retrieves a savings goal by its ID.
func (r *PlanningRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.SavingsGoal, error) {
	query := fmt.Sprintf(`SELECT %s FROM savings_goals WHERE goal_id = $1`, goalColumns)
	goal, err := scanGoal(r.Pool.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("savings goal with ID %s not found", goalID))
		}
		return nil, apperrors.NewAppError(500, "failed to find savings goal", err)
	}
	return &goal, nil
}

// ListGoals retrieves savings goals in creation order, optionally filtered by
// status.
func (r *PlanningRepository) ListGoals(ctx context.Context, status *domain.GoalStatus) ([]domain.SavingsGoal, error) {
	query := fmt.Sprintf(`SELECT %s FROM savings_goals`, goalColumns)
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at ASC, goal_id ASC`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list savings goals", err)
	}
	defer rows.Close()

	goals := make([]domain.SavingsGoal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan savings goal", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read savings goals", err)
	}
	return goals, nil
}

// UpdateGoal replaces all mutable fields of a savings goal.
func (r *PlanningRepository) UpdateGoal(ctx context.Context, goal domain.SavingsGoal) error {
	query := `
		UPDATE savings_goals
		SET name = $2, target_amount = $3, current_amount = $4, target_date = $5,
		    account_id = $6, status = $7, updated_at = $8
		WHERE goal_id = $1`
	tag, err := r.Pool.Exec(ctx, query,
		goal.GoalID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.TargetDate,
		goal.AccountID,
		goal.Status,
		goal.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update savings goal", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("savings goal with ID %s not found", goal.GoalID))
	}
	return nil
}

// DeleteGoal removes a savings goal.
func (r *PlanningRepository) DeleteGoal(ctx context.Context, goalID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM savings_goals WHERE goal_id = $1`, goalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete savings goal", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("savings goal with ID %s not found", goalID))
	}
	return nil
}

// SaveTip persists a generated tip.
func (r *PlanningRepository) SaveTip(ctx context.Context, tip domain.Tip) error {
	query := `
		INSERT INTO tips (tip_id, content, tip_type, priority, dismissed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.Pool.Exec(ctx, query,
		tip.TipID,
		tip.Content,
		tip.TipType,
		tip.Priority,
		tip.DismissedAt,
		tip.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save tip", err)
	}
	return nil
}

// ListActiveTips retrieves undismissed tips, highest priority first.
func (r *PlanningRepository) ListActiveTips(ctx context.Context) ([]domain.Tip, error) {
	query := `
		SELECT tip_id, content, tip_type, priority, dismissed_at, created_at
		FROM tips
		WHERE dismissed_at IS NULL
		ORDER BY priority DESC, created_at ASC, tip_id ASC`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list tips", err)
	}
	defer rows.Close()

	tips := make([]domain.Tip, 0)
	for rows.Next() {
		var t domain.Tip
		if err := rows.Scan(&t.TipID, &t.Content, &t.TipType, &t.Priority, &t.DismissedAt, &t.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan tip", err)
		}
		tips = append(tips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read tips", err)
	}
	return tips, nil
}

// DismissTip marks a tip as dismissed.
func (r *PlanningRepository) DismissTip(ctx context.Context, tipID string, dismissedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE tips SET dismissed_at = $2 WHERE tip_id = $1`, tipID, dismissedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to dismiss tip", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("tip with ID %s not found", tipID))
	}
	return nil
}

// DeleteOldTips keeps only the newest keep tips.
func (r *PlanningRepository) DeleteOldTips(ctx context.Context, keep int) error {
	query := `
		DELETE FROM tips
		WHERE tip_id NOT IN (
			SELECT tip_id FROM tips ORDER BY created_at DESC, tip_id DESC LIMIT $1
		)`
	if _, err := r.Pool.Exec(ctx, query, keep); err != nil {
		return apperrors.NewAppError(500, "failed to prune old tips", err)
	}
	return nil
}
