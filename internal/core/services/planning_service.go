package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/ai"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// keepTipCount caps the tips table; each generation pass prunes beyond it.
const keepTipCount = 20

// PlanningService implements services.PlanningSvcFacade: budgets, savings
// goals and model-generated tips. The advisor is optional; with a nil advisor
// tip generation is unavailable while budgets and goals keep working.
type PlanningService struct {
	planningRepo repositories.PlanningRepositoryFacade
	categoryRepo repositories.CategoryRepositoryFacade
	accountRepo  repositories.AccountRepositoryFacade
	reporting    portssvc.ReportingSvcFacade
	advisor      ai.Advisor
}

var _ portssvc.PlanningSvcFacade = (*PlanningService)(nil)

// NewPlanningService creates a new PlanningService. advisor may be nil.
func NewPlanningService(
	planningRepo repositories.PlanningRepositoryFacade,
	categoryRepo repositories.CategoryRepositoryFacade,
	accountRepo repositories.AccountRepositoryFacade,
	reporting portssvc.ReportingSvcFacade,
	advisor ai.Advisor,
) *PlanningService {
	return &PlanningService{
		planningRepo: planningRepo,
		categoryRepo: categoryRepo,
		accountRepo:  accountRepo,
		reporting:    reporting,
		advisor:      advisor,
	}
}

// SetBudget upserts the monthly limit for one category after verifying the
// category exists.
func (s *PlanningService) SetBudget(ctx context.Context, req dto.SetBudgetRequest) (*domain.Budget, error) {
	if req.MonthlyLimit.IsNegative() || req.MonthlyLimit.IsZero() {
		return nil, apperrors.NewAppError(400, "monthly limit must be positive", apperrors.ErrValidation)
	}
	if _, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID:      uuid.NewString(),
		CategoryID:    req.CategoryID,
		MonthlyLimit:  req.MonthlyLimit,
		EffectiveFrom: req.EffectiveFrom,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.planningRepo.UpsertBudget(ctx, budget); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("budget set",
		"categoryID", budget.CategoryID, "monthlyLimit", budget.MonthlyLimit.String())
	return &budget, nil
}

// ListBudgets retrieves all budgets with their category names.
func (s *PlanningService) ListBudgets(ctx context.Context) ([]domain.BudgetSummary, error) {
	return s.planningRepo.ListBudgets(ctx)
}

// DeleteBudget removes a budget.
func (s *PlanningService) DeleteBudget(ctx context.Context, budgetID string) error {
	return s.planningRepo.DeleteBudget(ctx, budgetID)
}

// GetBudgetStatus reports each budget's standing for the month. An empty
// month means the current calendar month; otherwise YYYY-MM.
func (s *PlanningService) GetBudgetStatus(ctx context.Context, month string) ([]domain.BudgetStatus, error) {
	monthStart, err := resolveMonth(month)
	if err != nil {
		return nil, err
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	spends, err := s.planningRepo.GetBudgetSpending(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.BudgetStatus, len(spends))
	for i, spend := range spends {
		remaining := spend.MonthlyLimit.Sub(spend.Spent)
		statuses[i] = domain.BudgetStatus{
			BudgetID:     spend.BudgetID,
			CategoryID:   spend.CategoryID,
			CategoryName: spend.CategoryName,
			MonthlyLimit: spend.MonthlyLimit,
			Spent:        spend.Spent,
			Remaining:    remaining,
			OverBudget:   remaining.IsNegative(),
		}
	}
	return statuses, nil
}

func resolveMonth(month string) (time.Time, error) {
	if month == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, apperrors.NewAppError(400, fmt.Sprintf("invalid month %q, expected YYYY-MM", month), apperrors.ErrValidation)
	}
	return parsed, nil
}

// CreateGoal creates a savings goal in the active state. A linked account is
// verified to exist.
func (s *PlanningService) CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*domain.SavingsGoal, error) {
	if req.AccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.AccountID); err != nil {
			return nil, err
		}
	}

	current := decimal.Zero
	if req.CurrentAmount != nil {
		current = *req.CurrentAmount
	}

	now := time.Now().UTC()
	goal := domain.SavingsGoal{
		GoalID:        uuid.NewString(),
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: current,
		TargetDate:    req.TargetDate,
		AccountID:     req.AccountID,
		Status:        domain.GoalActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.planningRepo.SaveGoal(ctx, goal); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("savings goal created",
		"goalID", goal.GoalID, "name", goal.Name, "target", goal.TargetAmount.String())
	return &goal, nil
}

// ListGoals retrieves savings goals, optionally filtered by status.
func (s *PlanningService) ListGoals(ctx context.Context, status *domain.GoalStatus) ([]domain.SavingsGoal, error) {
	return s.planningRepo.ListGoals(ctx, status)
}

// UpdateGoal patches a savings goal. A goal whose current amount reaches its
// target is marked completed unless the request sets a status explicitly.
func (s *PlanningService) UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest) (*domain.SavingsGoal, error) {
	goal, err := s.planningRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		goal.CurrentAmount = *req.CurrentAmount
	}
	if req.TargetDate != nil {
		goal.TargetDate = req.TargetDate
	}
	if req.AccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.AccountID); err != nil {
			return nil, err
		}
		goal.AccountID = req.AccountID
	}
	switch {
	case req.Status != nil:
		goal.Status = *req.Status
	case goal.Status == domain.GoalActive && goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount):
		goal.Status = domain.GoalCompleted
	}
	goal.UpdatedAt = time.Now().UTC()

	if err := s.planningRepo.UpdateGoal(ctx, *goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a savings goal.
func (s *PlanningService) DeleteGoal(ctx context.Context, goalID string) error {
	return s.planningRepo.DeleteGoal(ctx, goalID)
}

// ListTips retrieves undismissed tips, highest priority first.
func (s *PlanningService) ListTips(ctx context.Context) ([]domain.Tip, error) {
	return s.planningRepo.ListActiveTips(ctx)
}

// DismissTip hides a tip from future listings.
func (s *PlanningService) DismissTip(ctx context.Context, tipID string) error {
	return s.planningRepo.DismissTip(ctx, tipID, time.Now().UTC())
}

// GenerateTips summarizes balances, spending and budget standing, asks the
// model for advice and persists each suggestion. Old tips beyond the cap are
// pruned afterwards.
func (s *PlanningService) GenerateTips(ctx context.Context) ([]domain.Tip, error) {
	if s.advisor == nil {
		return nil, apperrors.NewAppError(503, "tip generation is not configured", apperrors.ErrUnavailable)
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	summary, err := s.buildFinancialSummary(ctx)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.advisor.SuggestTips(ctx, summary)
	if err != nil {
		return nil, err
	}

	tips := make([]domain.Tip, 0, len(suggestions))
	now := time.Now().UTC()
	for _, suggestion := range suggestions {
		content := strings.TrimSpace(suggestion.Content)
		if content == "" {
			continue
		}
		tip := domain.Tip{
			TipID:     uuid.NewString(),
			Content:   content,
			TipType:   normalizeTipType(suggestion.TipType),
			Priority:  clampPriority(suggestion.Priority),
			CreatedAt: now,
		}
		if err := s.planningRepo.SaveTip(ctx, tip); err != nil {
			return nil, err
		}
		tips = append(tips, tip)
	}

	if err := s.planningRepo.DeleteOldTips(ctx, keepTipCount); err != nil {
		// Pruning is best effort; the new tips are already saved.
		logger.Warn("failed to prune old tips", "error", err)
	}

	logger.Info("tips generated", "count", len(tips))
	return tips, nil
}

func normalizeTipType(t string) domain.TipType {
	switch domain.TipType(strings.ToLower(t)) {
	case domain.TipWarning:
		return domain.TipWarning
	case domain.TipInsight:
		return domain.TipInsight
	default:
		return domain.TipAdvice
	}
}

func clampPriority(p int) int {
	if p < 0 {
		return 0
	}
	if p > 10 {
		return 10
	}
	return p
}

// buildFinancialSummary renders the model-facing context: account balances,
// recent monthly spending and current budget standing.
func (s *PlanningService) buildFinancialSummary(ctx context.Context) (string, error) {
	var b strings.Builder

	balances, err := s.reporting.GetBalances(ctx)
	if err != nil {
		return "", err
	}
	if len(balances) == 0 {
		b.WriteString("ACCOUNT BALANCES: No accounts set up yet.\n")
	} else {
		b.WriteString("ACCOUNT BALANCES:\n")
		for _, bal := range balances {
			fmt.Fprintf(&b, "  %s (%s): %s\n", bal.Name, bal.AccountType, bal.Balance.StringFixed(2))
		}
	}

	spending, err := s.reporting.GetMonthlySpending(ctx)
	if err != nil {
		return "", err
	}
	if len(spending) > 0 {
		b.WriteString("\nMONTHLY SPENDING BY CATEGORY:\n")
		for _, row := range spending {
			name := "Uncategorized"
			if row.CategoryName != nil {
				name = *row.CategoryName
			}
			fmt.Fprintf(&b, "  %s %s: %s\n", row.Month, name, row.Total.Abs().StringFixed(2))
		}
	}

	statuses, err := s.GetBudgetStatus(ctx, "")
	if err != nil {
		return "", err
	}
	if len(statuses) > 0 {
		b.WriteString("\nBUDGETS THIS MONTH:\n")
		for _, st := range statuses {
			state := "within budget"
			if st.OverBudget {
				state = "OVER BUDGET"
			}
			fmt.Fprintf(&b, "  %s: spent %s of %s (%s)\n",
				st.CategoryName, st.Spent.StringFixed(2), st.MonthlyLimit.StringFixed(2), state)
		}
	}

	return b.String(), nil
}
