package dto

import "github.com/hearthfin/hearth_backend/internal/core/domain"

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name             string  `json:"name" binding:"required"`
	ParentCategoryID *string `json:"parentCategoryID"`
	IsSystem         bool    `json:"isSystem"`
}

// CreateRuleRequest defines the payload for creating a categorization rule.
type CreateRuleRequest struct {
	Pattern    string            `json:"pattern" binding:"required"`
	CategoryID string            `json:"categoryID" binding:"required"`
	MatchType  domain.MatchType  `json:"matchType" binding:"omitempty,oneof=contains startswith exact regex"`
	Priority   int               `json:"priority"`
	Source     domain.RuleSource `json:"source" binding:"omitempty,oneof=user ai system"`
}

// AutoCategorizeResult summarizes one auto-categorization pass.
type AutoCategorizeResult struct {
	Processed     int `json:"processed"`
	RuleMatched   int `json:"ruleMatched"`
	AIMatched     int `json:"aiMatched"`
	RulesCreated  int `json:"rulesCreated"`
	Uncategorized int `json:"uncategorized"`
}
