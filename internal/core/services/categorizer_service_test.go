package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/services"
)

func rule(pattern string, matchType domain.MatchType, categoryID string, priority int) domain.CategorizationRule {
	return domain.CategorizationRule{
		RuleID:     uuid.NewString(),
		Pattern:    pattern,
		CategoryID: categoryID,
		MatchType:  matchType,
		Priority:   priority,
		Source:     domain.RuleSourceUser,
	}
}

func TestMatchRule(t *testing.T) {
	tests := []struct {
		name        string
		description string
		rules       []domain.CategorizationRule
		want        *string
	}{
		{
			name:        "contains matches case-insensitively",
			description: "TESCO STORES 3297",
			rules:       []domain.CategorizationRule{rule("tesco", domain.MatchContains, "cat-groceries", 0)},
			want:        ptr("cat-groceries"),
		},
		{
			name:        "startswith anchors at the front",
			description: "TFL TRAVEL CH",
			rules:       []domain.CategorizationRule{rule("tfl", domain.MatchStartsWith, "cat-transport", 0)},
			want:        ptr("cat-transport"),
		},
		{
			name:        "startswith does not match mid-string",
			description: "PAYMENT TO TFL",
			rules:       []domain.CategorizationRule{rule("tfl", domain.MatchStartsWith, "cat-transport", 0)},
			want:        nil,
		},
		{
			name:        "exact requires the full description",
			description: "RENT",
			rules:       []domain.CategorizationRule{rule("rent", domain.MatchExact, "cat-housing", 0)},
			want:        ptr("cat-housing"),
		},
		{
			name:        "exact rejects partial",
			description: "RENT PAYMENT",
			rules:       []domain.CategorizationRule{rule("rent", domain.MatchExact, "cat-housing", 0)},
			want:        nil,
		},
		{
			name:        "regex matches case-insensitively against raw description",
			description: "AMZN Mktp UK AB12CD",
			rules:       []domain.CategorizationRule{rule(`amzn\s+mktp`, domain.MatchRegex, "cat-shopping", 0)},
			want:        ptr("cat-shopping"),
		},
		{
			name:        "invalid regex skips the rule instead of failing",
			description: "ANYTHING",
			rules: []domain.CategorizationRule{
				rule("[unclosed", domain.MatchRegex, "cat-broken", 10),
				rule("anything", domain.MatchContains, "cat-fallback", 0),
			},
			want: ptr("cat-fallback"),
		},
		{
			name:        "first match in evaluation order wins",
			description: "TESCO PETROL",
			rules: []domain.CategorizationRule{
				rule("tesco petrol", domain.MatchContains, "cat-fuel", 10),
				rule("tesco", domain.MatchContains, "cat-groceries", 0),
			},
			want: ptr("cat-fuel"),
		},
		{
			name:        "no rules yields nil",
			description: "MYSTERY PAYMENT",
			rules:       nil,
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.MatchRule(tt.description, tt.rules)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func ptr(s string) *string { return &s }

type CategorizerServiceTestSuite struct {
	suite.Suite
	mockCategoryRepo *MockCategoryRepository
	mockJournalRepo  *MockJournalRepository
	mockClassifier   *MockClassifier
}

func (suite *CategorizerServiceTestSuite) SetupTest() {
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockClassifier = new(MockClassifier)
}

func (suite *CategorizerServiceTestSuite) TestCategorizeTransactions_SkipsDuplicates() {
	ctx := context.Background()
	service := services.NewCategorizerService(suite.mockCategoryRepo, suite.mockJournalRepo, nil)

	suite.mockCategoryRepo.On("ListRules", ctx).Return([]domain.CategorizationRule{
		rule("tesco", domain.MatchContains, "cat-groceries", 0),
	}, nil).Once()

	txns := []domain.RawTransaction{
		{Description: "TESCO STORES 3297"},
		{Description: "TESCO STORES 3297", IsDuplicate: true},
		{Description: "UNKNOWN VENDOR"},
	}

	result, err := service.CategorizeTransactions(ctx, txns)

	suite.Require().NoError(err)
	suite.Require().NotNil(result[0].SuggestedCategoryID)
	suite.Equal("cat-groceries", *result[0].SuggestedCategoryID)
	suite.Nil(result[1].SuggestedCategoryID, "Duplicates are not categorized")
	suite.Nil(result[2].SuggestedCategoryID)
}

func (suite *CategorizerServiceTestSuite) TestAutoCategorize_RulesOnly() {
	ctx := context.Background()
	service := services.NewCategorizerService(suite.mockCategoryRepo, suite.mockJournalRepo, nil)

	entries := []domain.JournalEntry{
		{EntryID: "e1", Description: "TESCO STORES 3297"},
		{EntryID: "e2", Description: "MYSTERY PAYMENT"},
	}
	suite.mockJournalRepo.On("ListUncategorized", ctx, mock.AnythingOfType("int")).Return(entries, nil).Once()
	suite.mockCategoryRepo.On("ListRules", ctx).Return([]domain.CategorizationRule{
		rule("tesco", domain.MatchContains, "cat-groceries", 0),
	}, nil).Once()
	suite.mockJournalRepo.On("UpdateEntryCategory", ctx, "e1", mock.AnythingOfType("*string")).Return(nil).Once()

	result, err := service.AutoCategorize(ctx)

	suite.Require().NoError(err)
	suite.Equal(2, result.Processed)
	suite.Equal(1, result.RuleMatched)
	suite.Equal(0, result.AIMatched)
	suite.Equal(1, result.Uncategorized, "Without a classifier the remainder stays uncategorized")
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *CategorizerServiceTestSuite) TestAutoCategorize_ClassifierWritesBackRule() {
	ctx := context.Background()
	service := services.NewCategorizerService(suite.mockCategoryRepo, suite.mockJournalRepo, suite.mockClassifier)

	entries := []domain.JournalEntry{{EntryID: "e1", Description: "PRET A MANGER 123"}}
	suite.mockJournalRepo.On("ListUncategorized", ctx, mock.AnythingOfType("int")).Return(entries, nil).Once()
	suite.mockCategoryRepo.On("ListRules", ctx).Return([]domain.CategorizationRule{}, nil).Once()
	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{
		{CategoryID: "cat-eating-out", Name: "Eating Out"},
	}, nil).Once()
	suite.mockClassifier.On("CategorizeBatch", ctx, []string{"PRET A MANGER 123"}, []string{"Eating Out"}).
		Return(map[string]string{"PRET A MANGER 123": "eating out"}, nil).Once()
	suite.mockJournalRepo.On("UpdateEntryCategory", ctx, "e1", mock.AnythingOfType("*string")).Return(nil).Once()

	var savedRule domain.CategorizationRule
	suite.mockCategoryRepo.On("SaveRule", ctx, mock.AnythingOfType("domain.CategorizationRule")).
		Run(func(args mock.Arguments) {
			savedRule = args.Get(1).(domain.CategorizationRule)
		}).Return(nil).Once()

	result, err := service.AutoCategorize(ctx)

	suite.Require().NoError(err)
	suite.Equal(1, result.AIMatched)
	suite.Equal(1, result.RulesCreated)
	suite.Equal(0, result.Uncategorized)

	suite.Equal("PRET A MANGER 123", savedRule.Pattern)
	suite.Equal("cat-eating-out", savedRule.CategoryID)
	suite.Equal(domain.MatchContains, savedRule.MatchType)
	suite.Equal(domain.RuleSourceAI, savedRule.Source)
}

func (suite *CategorizerServiceTestSuite) TestAutoCategorize_ClassifierFailureDegrades() {
	ctx := context.Background()
	service := services.NewCategorizerService(suite.mockCategoryRepo, suite.mockJournalRepo, suite.mockClassifier)

	entries := []domain.JournalEntry{{EntryID: "e1", Description: "MYSTERY PAYMENT"}}
	suite.mockJournalRepo.On("ListUncategorized", ctx, mock.AnythingOfType("int")).Return(entries, nil).Once()
	suite.mockCategoryRepo.On("ListRules", ctx).Return([]domain.CategorizationRule{}, nil).Once()
	suite.mockCategoryRepo.On("ListCategories", ctx).Return([]domain.Category{
		{CategoryID: "cat-misc", Name: "Misc"},
	}, nil).Once()
	suite.mockClassifier.On("CategorizeBatch", ctx, mock.Anything, mock.Anything).
		Return(nil, errors.New("model unavailable")).Once()

	result, err := service.AutoCategorize(ctx)

	suite.Require().NoError(err, "Classifier failure must not fail the sweep")
	suite.Equal(1, result.Processed)
	suite.Equal(0, result.AIMatched)
	suite.Equal(1, result.Uncategorized)
}

func (suite *CategorizerServiceTestSuite) TestAutoCategorize_NothingToDo() {
	ctx := context.Background()
	service := services.NewCategorizerService(suite.mockCategoryRepo, suite.mockJournalRepo, suite.mockClassifier)

	suite.mockJournalRepo.On("ListUncategorized", ctx, mock.AnythingOfType("int")).Return([]domain.JournalEntry{}, nil).Once()

	result, err := service.AutoCategorize(ctx)

	suite.Require().NoError(err)
	suite.Equal(0, result.Processed)
	suite.mockCategoryRepo.AssertNotCalled(suite.T(), "ListRules", mock.Anything)
	suite.mockClassifier.AssertNotCalled(suite.T(), "CategorizeBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestCategorizerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategorizerServiceTestSuite))
}
