package domain

import "time"

// MatchType defines how a categorization rule pattern is compared against a
// transaction description.
type MatchType string

const (
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "startswith"
	MatchExact      MatchType = "exact"
	MatchRegex      MatchType = "regex"
)

// RuleSource records the provenance of a categorization rule.
type RuleSource string

const (
	RuleSourceUser   RuleSource = "user"
	RuleSourceAI     RuleSource = "ai"
	RuleSourceSystem RuleSource = "system"
)

// Category is a label for classifying transactions, optionally hierarchical.
// Distinct from Account.
type Category struct {
	CategoryID       string    `json:"categoryID"`
	Name             string    `json:"name"`
	ParentCategoryID *string   `json:"parentCategoryID,omitempty"`
	IsSystem         bool      `json:"isSystem"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CategorizationRule maps a description pattern to a category. Rules are
// evaluated in priority order (ties broken by insertion order); first match
// wins.
type CategorizationRule struct {
	RuleID     string     `json:"ruleID"`
	Pattern    string     `json:"pattern"`
	CategoryID string     `json:"categoryID"`
	MatchType  MatchType  `json:"matchType"`
	Priority   int        `json:"priority"`
	Source     RuleSource `json:"source"`
	CreatedAt  time.Time  `json:"createdAt"`
}
