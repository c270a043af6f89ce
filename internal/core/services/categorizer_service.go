package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/ai"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

const autoCategorizeBatchLimit = 200

// CategorizerService implements services.CategorizerSvcFacade: rule-based
// matching first, external classifier as the fallback. The classifier is
// optional; with a nil classifier everything unmatched stays uncategorized.
type CategorizerService struct {
	categoryRepo repositories.CategoryRepositoryFacade
	journalRepo  repositories.JournalRepositoryFacade
	classifier   ai.Classifier
}

var _ portssvc.CategorizerSvcFacade = (*CategorizerService)(nil)

// NewCategorizerService creates a new CategorizerService. classifier may be nil.
func NewCategorizerService(categoryRepo repositories.CategoryRepositoryFacade, journalRepo repositories.JournalRepositoryFacade, classifier ai.Classifier) *CategorizerService {
	return &CategorizerService{categoryRepo: categoryRepo, journalRepo: journalRepo, classifier: classifier}
}

// MatchRule returns the category ID of the first rule matching the
// description, or nil. Rules must already be in evaluation order. The
// contains/startswith/exact types compare lowercased pattern against
// lowercased description; regex compiles case-insensitively against the raw
// description, and a pattern that fails to compile skips its rule.
func MatchRule(description string, rules []domain.CategorizationRule) *string {
	descLower := strings.ToLower(description)

	for _, rule := range rules {
		pattern := strings.ToLower(rule.Pattern)

		switch rule.MatchType {
		case domain.MatchExact:
			if descLower == pattern {
				return &rule.CategoryID
			}
		case domain.MatchStartsWith:
			if strings.HasPrefix(descLower, pattern) {
				return &rule.CategoryID
			}
		case domain.MatchRegex:
			re, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				continue
			}
			if re.MatchString(description) {
				return &rule.CategoryID
			}
		default: // contains
			if strings.Contains(descLower, pattern) {
				return &rule.CategoryID
			}
		}
	}
	return nil
}

// CategorizeTransactions annotates non-duplicate rows with the category
// suggested by the first matching rule. Rows are modified in place and the
// same slice is returned.
func (s *CategorizerService) CategorizeTransactions(ctx context.Context, txns []domain.RawTransaction) ([]domain.RawTransaction, error) {
	rules, err := s.categoryRepo.ListRules(ctx)
	if err != nil {
		return nil, err
	}

	for i := range txns {
		if txns[i].IsDuplicate {
			continue
		}
		txns[i].SuggestedCategoryID = MatchRule(txns[i].Description, rules)
	}
	return txns, nil
}

// AutoCategorize sweeps uncategorized journal entries: rules first, then the
// classifier for the remainder. Every classifier hit also writes back an
// ai-sourced contains rule so the next sweep resolves the same description
// without a model call.
func (s *CategorizerService) AutoCategorize(ctx context.Context) (*dto.AutoCategorizeResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	uncategorized, err := s.journalRepo.ListUncategorized(ctx, autoCategorizeBatchLimit)
	if err != nil {
		return nil, err
	}
	result := &dto.AutoCategorizeResult{Processed: len(uncategorized)}
	if len(uncategorized) == 0 {
		return result, nil
	}

	rules, err := s.categoryRepo.ListRules(ctx)
	if err != nil {
		return nil, err
	}

	unmatched := make([]domain.JournalEntry, 0)
	for _, entry := range uncategorized {
		if categoryID := MatchRule(entry.Description, rules); categoryID != nil {
			if err := s.journalRepo.UpdateEntryCategory(ctx, entry.EntryID, categoryID); err != nil {
				return nil, err
			}
			result.RuleMatched++
		} else {
			unmatched = append(unmatched, entry)
		}
	}

	if len(unmatched) > 0 && s.classifier != nil {
		if err := s.classifyRemainder(ctx, unmatched, result); err != nil {
			// Classifier failures degrade to leaving entries uncategorized.
			logger.Warn("classifier pass failed", "error", err)
		}
	}

	result.Uncategorized = result.Processed - result.RuleMatched - result.AIMatched
	logger.Info("auto-categorize sweep finished",
		"processed", result.Processed, "ruleMatched", result.RuleMatched,
		"aiMatched", result.AIMatched, "rulesCreated", result.RulesCreated,
		"uncategorized", result.Uncategorized)
	return result, nil
}

func (s *CategorizerService) classifyRemainder(ctx context.Context, unmatched []domain.JournalEntry, result *dto.AutoCategorizeResult) error {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return nil
	}

	names := make([]string, len(categories))
	nameToID := make(map[string]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
		nameToID[strings.ToLower(c.Name)] = c.CategoryID
	}

	descriptions := make([]string, len(unmatched))
	for i, e := range unmatched {
		descriptions[i] = e.Description
	}

	suggestions, err := s.classifier.CategorizeBatch(ctx, descriptions, names)
	if err != nil {
		return err
	}

	for _, entry := range unmatched {
		suggestedName, ok := suggestions[entry.Description]
		if !ok {
			continue
		}
		categoryID, ok := nameToID[strings.ToLower(suggestedName)]
		if !ok {
			continue
		}
		if err := s.journalRepo.UpdateEntryCategory(ctx, entry.EntryID, &categoryID); err != nil {
			return err
		}
		result.AIMatched++

		rule := domain.CategorizationRule{
			RuleID:     uuid.NewString(),
			Pattern:    entry.Description,
			CategoryID: categoryID,
			MatchType:  domain.MatchContains,
			Priority:   0,
			Source:     domain.RuleSourceAI,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.categoryRepo.SaveRule(ctx, rule); err != nil {
			return err
		}
		result.RulesCreated++
	}
	return nil
}
