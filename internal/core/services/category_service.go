package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// CategoryService implements services.CategorySvcFacade.
type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryFacade
}

var _ portssvc.CategorySvcFacade = (*CategoryService)(nil)

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repositories.CategoryRepositoryFacade) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*domain.Category, error) {
	if req.ParentCategoryID != nil {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, *req.ParentCategoryID); err != nil {
			return nil, err
		}
	}

	category := domain.Category{
		CategoryID:       uuid.NewString(),
		Name:             req.Name,
		ParentCategoryID: req.ParentCategoryID,
		IsSystem:         req.IsSystem,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("category created", "categoryID", category.CategoryID, "name", category.Name)
	return &category, nil
}

// GetCategoryByName retrieves a category by name.
func (s *CategoryService) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return s.categoryRepo.FindCategoryByName(ctx, name)
}

// ListCategories retrieves all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

// AddRule creates a categorization rule after verifying the target category
// exists. MatchType defaults to contains and Source to user.
func (s *CategoryService) AddRule(ctx context.Context, req dto.CreateRuleRequest) (*domain.CategorizationRule, error) {
	if _, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	matchType := req.MatchType
	if matchType == "" {
		matchType = domain.MatchContains
	}
	source := req.Source
	if source == "" {
		source = domain.RuleSourceUser
	}

	rule := domain.CategorizationRule{
		RuleID:     uuid.NewString(),
		Pattern:    req.Pattern,
		CategoryID: req.CategoryID,
		MatchType:  matchType,
		Priority:   req.Priority,
		Source:     source,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.categoryRepo.SaveRule(ctx, rule); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("categorization rule created",
		"ruleID", rule.RuleID, "pattern", rule.Pattern, "matchType", rule.MatchType, "source", rule.Source)
	return &rule, nil
}

// ListRules retrieves all rules in evaluation order.
func (s *CategoryService) ListRules(ctx context.Context) ([]domain.CategorizationRule, error) {
	return s.categoryRepo.ListRules(ctx)
}
