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

// CategoryRepository implements repositories.CategoryRepositoryFacade using PostgreSQL.
type CategoryRepository struct {
	BaseRepository
}

var _ repositories.CategoryRepositoryFacade = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

const categoryColumns = `category_id, name, parent_category_id, is_system, created_at`

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.CategoryID, &c.Name, &c.ParentCategoryID, &c.IsSystem, &c.CreatedAt)
	return c, err
}

// SaveCategory persists a new category.
func (r *CategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (category_id, name, parent_category_id, is_system, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.ParentCategoryID,
		category.IsSystem,
		category.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, fmt.Sprintf("category %q already exists under the same parent", category.Name), apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save category", err)
	}
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *CategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE category_id = $1`, categoryColumns)
	category, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("category with ID %s not found", categoryID))
		}
		return nil, apperrors.NewAppError(500, "failed to find category", err)
	}
	return &category, nil
}

// FindCategoryByName retrieves a category by name. Names are matched
// case-sensitively; the first match by creation order wins when the same name
// exists under different parents.
func (r *CategoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE name = $1 ORDER BY created_at LIMIT 1`, categoryColumns)
	category, err := scanCategory(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("category with name %q not found", name))
		}
		return nil, apperrors.NewAppError(500, "failed to find category by name", err)
	}
	return &category, nil
}

// ListCategories retrieves all categories ordered by name.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories ORDER BY name`, categoryColumns)
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list categories", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read categories", err)
	}
	return categories, nil
}

// SaveRule persists a new categorization rule.
func (r *CategoryRepository) SaveRule(ctx context.Context, rule domain.CategorizationRule) error {
	query := `
		INSERT INTO categorization_rules (rule_id, pattern, category_id, match_type, priority, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.Pool.Exec(ctx, query,
		rule.RuleID,
		rule.Pattern,
		rule.CategoryID,
		rule.MatchType,
		rule.Priority,
		rule.Source,
		rule.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save categorization rule", err)
	}
	return nil
}

// ListRules retrieves all categorization rules in evaluation order: highest
// priority first, insertion order within equal priority.
func (r *CategoryRepository) ListRules(ctx context.Context) ([]domain.CategorizationRule, error) {
	query := `
		SELECT rule_id, pattern, category_id, match_type, priority, source, created_at
		FROM categorization_rules
		ORDER BY priority DESC, created_at ASC, rule_id ASC`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list categorization rules", err)
	}
	defer rows.Close()

	rules := make([]domain.CategorizationRule, 0)
	for rows.Next() {
		var rule domain.CategorizationRule
		if err := rows.Scan(
			&rule.RuleID,
			&rule.Pattern,
			&rule.CategoryID,
			&rule.MatchType,
			&rule.Priority,
			&rule.Source,
			&rule.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan categorization rule", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read categorization rules", err)
	}
	return rules, nil
}
