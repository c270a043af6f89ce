package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
)

// RegisterFinanceTools wires the standard tool set over the application
// services. Amounts cross the boundary as fixed 2-decimal strings.
func RegisterFinanceTools(
	registry *Registry,
	reportingSvc portssvc.ReportingSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	categorySvc portssvc.CategorySvcFacade,
	categorizerSvc portssvc.CategorizerSvcFacade,
	propertySvc portssvc.PropertySvcFacade,
	equitySvc portssvc.EquitySvcFacade,
) error {
	tools := []Tool{
		{
			Name: "get_account_balances",
			Description: "Get current balances for all financial accounts. Returns assets, liabilities, equity, " +
				"income and expense accounts with their balances.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					"account_type": {"type": "string", "enum": ["ASSET", "LIABILITY", "EQUITY", "INCOME", "EXPENSE"], "description": "Optional filter by account type."}
				},
				"required": []
			}`),
			Handler: getAccountBalances(reportingSvc),
		},
		{
			Name: "search_transactions",
			Description: "Search and filter journal entries. Returns date, description, category and amounts. " +
				"Use for analysing spending patterns or finding specific transactions.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "Text to match against descriptions."},
					"start_date": {"type": "string", "description": "Start date YYYY-MM-DD."},
					"end_date": {"type": "string", "description": "End date YYYY-MM-DD."},
					"category_id": {"type": "string", "description": "Filter by category ID."},
					"limit": {"type": "integer", "description": "Max results (default 25)."}
				},
				"required": []
			}`),
			Handler: searchTransactions(ledgerSvc),
		},
		{
			Name:        "get_monthly_spending",
			Description: "Get monthly spending broken down by category. Useful for trend analysis and budget reviews.",
			InputSchema: emptySchema,
			Handler:     getMonthlySpending(reportingSvc),
		},
		{
			Name:        "get_categories",
			Description: "List all transaction categories with their IDs. Needed before categorising a transaction or creating a rule.",
			InputSchema: emptySchema,
			Handler:     getCategories(categorySvc),
		},
		{
			Name:        "get_property_summary",
			Description: "Get property details including valuations, mortgages and owner equity breakdowns.",
			InputSchema: emptySchema,
			Handler:     getPropertySummary(propertySvc, equitySvc),
		},
		{
			Name:        "categorize_transaction",
			Description: "Set the category of a specific journal entry.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					"entry_id": {"type": "string", "description": "The journal entry ID."},
					"category_id": {"type": "string", "description": "The category ID to assign."}
				},
				"required": ["entry_id", "category_id"]
			}`),
			Handler: categorizeTransaction(ledgerSvc),
		},
		{
			Name:        "auto_categorize",
			Description: "Bulk auto-categorise all uncategorised transactions using rules and AI. Returns a summary of how many were categorised.",
			InputSchema: emptySchema,
			Handler:     autoCategorize(categorizerSvc),
		},
		{
			Name:        "create_category",
			Description: "Create a new transaction category.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "Category name."}
				},
				"required": ["name"]
			}`),
			Handler: createCategory(categorySvc),
		},
		{
			Name:        "add_categorization_rule",
			Description: "Create a rule that automatically categorises future transactions whose description matches the given pattern.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					"pattern": {"type": "string", "description": "Text pattern to match."},
					"category_id": {"type": "string", "description": "Category ID to assign on match."},
					"match_type": {"type": "string", "enum": ["contains", "startswith", "exact", "regex"], "description": "How to match (default: contains)."}
				},
				"required": ["pattern", "category_id"]
			}`),
			Handler: addCategorizationRule(categorySvc),
		},
	}

	for _, tool := range tools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

var emptySchema = schema(`{"type": "object", "properties": {}, "required": []}`)

func schema(raw string) json.RawMessage {
	return json.RawMessage(raw)
}

func getAccountBalances(reportingSvc portssvc.ReportingSvcFacade) Handler {
	type input struct {
		AccountType string `json:"account_type"`
	}
	type row struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Type    string `json:"type"`
		Balance string `json:"balance"`
	}
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in input
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, fmt.Errorf("invalid input: %w", err)
			}
		}

		balances, err := reportingSvc.GetBalances(ctx)
		if err != nil {
			return nil, err
		}

		rows := make([]row, 0, len(balances))
		for _, b := range balances {
			if in.AccountType != "" && string(b.AccountType) != in.AccountType {
				continue
			}
			rows = append(rows, row{
				ID:      b.AccountID,
				Name:    b.Name,
				Type:    string(b.AccountType),
				Balance: dto.FormatAmount(b.Balance),
			})
		}
		return rows, nil
	}
}

func searchTransactions(ledgerSvc portssvc.LedgerSvcFacade) Handler {
	type input struct {
		Query      string  `json:"query"`
		StartDate  string  `json:"start_date"`
		EndDate    string  `json:"end_date"`
		CategoryID *string `json:"category_id"`
		Limit      int     `json:"limit"`
	}
	type row struct {
		ID          string `json:"id"`
		Date        string `json:"date"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Amounts     string `json:"amounts"`
	}
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in input
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, fmt.Errorf("invalid input: %w", err)
			}
		}

		filters := domain.EntryFilters{
			Query:      in.Query,
			CategoryID: in.CategoryID,
			Limit:      in.Limit,
		}
		if filters.Limit <= 0 {
			filters.Limit = 25
		}
		if in.StartDate != "" {
			start, err := time.Parse("2006-01-02", in.StartDate)
			if err != nil {
				return nil, fmt.Errorf("invalid start_date: %w", err)
			}
			filters.StartDate = &start
		}
		if in.EndDate != "" {
			end, err := time.Parse("2006-01-02", in.EndDate)
			if err != nil {
				return nil, fmt.Errorf("invalid end_date: %w", err)
			}
			filters.EndDate = &end
		}

		entries, err := ledgerSvc.ListEntries(ctx, filters)
		if err != nil {
			return nil, err
		}

		rows := make([]row, len(entries))
		for i, e := range entries {
			category := "Uncategorized"
			if e.CategoryName != nil {
				category = *e.CategoryName
			}
			rows[i] = row{
				ID:          e.EntryID,
				Date:        e.Date.Format("2006-01-02"),
				Description: e.Description,
				Category:    category,
				Amounts:     e.EntriesSummary,
			}
		}
		return rows, nil
	}
}

func getMonthlySpending(reportingSvc portssvc.ReportingSvcFacade) Handler {
	type row struct {
		Category string `json:"category"`
		Total    string `json:"total"`
	}
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		spending, err := reportingSvc.GetMonthlySpending(ctx)
		if err != nil {
			return nil, err
		}

		byMonth := make(map[string][]row)
		for _, s := range spending {
			category := "Uncategorized"
			if s.CategoryName != nil {
				category = *s.CategoryName
			}
			byMonth[s.Month] = append(byMonth[s.Month], row{
				Category: category,
				Total:    dto.FormatAmount(s.Total.Abs()),
			})
		}
		return byMonth, nil
	}
}

func getCategories(categorySvc portssvc.CategorySvcFacade) Handler {
	type row struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		categories, err := categorySvc.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]row, len(categories))
		for i, c := range categories {
			rows[i] = row{ID: c.CategoryID, Name: c.Name}
		}
		return rows, nil
	}
}

func getPropertySummary(propertySvc portssvc.PropertySvcFacade, equitySvc portssvc.EquitySvcFacade) Handler {
	type mortgageRow struct {
		Lender  string `json:"lender"`
		Balance string `json:"balance"`
	}
	type equityRow struct {
		Owner      string `json:"owner"`
		Amount     string `json:"amount"`
		Percentage string `json:"percentage"`
	}
	type propertyRow struct {
		ID          string        `json:"id"`
		Name        string        `json:"name"`
		Address     *string       `json:"address,omitempty"`
		Mortgages   []mortgageRow `json:"mortgages"`
		OwnerEquity []equityRow   `json:"ownerEquity"`
	}
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		properties, err := propertySvc.ListProperties(ctx)
		if err != nil {
			return nil, err
		}

		rows := make([]propertyRow, 0, len(properties))
		for _, p := range properties {
			mortgages, err := propertySvc.ListMortgages(ctx, p.PropertyID)
			if err != nil {
				return nil, err
			}
			mortgageRows := make([]mortgageRow, len(mortgages))
			for i, m := range mortgages {
				balance, err := propertySvc.GetMortgageBalance(ctx, m.MortgageID)
				if err != nil {
					return nil, err
				}
				mortgageRows[i] = mortgageRow{Lender: m.Lender, Balance: dto.FormatAmount(balance)}
			}

			equity, err := equitySvc.CalculateEquity(ctx, p.PropertyID)
			if err != nil {
				return nil, err
			}
			equityRows := make([]equityRow, len(equity))
			for i, e := range equity {
				equityRows[i] = equityRow{
					Owner:      e.Name,
					Amount:     dto.FormatAmount(e.EquityAmount),
					Percentage: e.EquityPct.StringFixed(1) + "%",
				}
			}

			rows = append(rows, propertyRow{
				ID:          p.PropertyID,
				Name:        p.Name,
				Address:     p.Address,
				Mortgages:   mortgageRows,
				OwnerEquity: equityRows,
			})
		}
		return rows, nil
	}
}

func categorizeTransaction(ledgerSvc portssvc.LedgerSvcFacade) Handler {
	type input struct {
		EntryID    string `json:"entry_id"`
		CategoryID string `json:"category_id"`
	}
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in input
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
		if in.EntryID == "" || in.CategoryID == "" {
			return nil, fmt.Errorf("entry_id and category_id are required")
		}
		if err := ledgerSvc.UpdateCategory(ctx, in.EntryID, &in.CategoryID); err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "entryID": in.EntryID, "categoryID": in.CategoryID}, nil
	}
}

func autoCategorize(categorizerSvc portssvc.CategorizerSvcFacade) Handler {
	return func(ctx context.Context, _ json.RawMessage) (any, error) {
		return categorizerSvc.AutoCategorize(ctx)
	}
}

func createCategory(categorySvc portssvc.CategorySvcFacade) Handler {
	type input struct {
		Name string `json:"name"`
	}
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in input
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
		if in.Name == "" {
			return nil, fmt.Errorf("name is required")
		}

		if existing, err := categorySvc.GetCategoryByName(ctx, in.Name); err == nil {
			return map[string]any{"id": existing.CategoryID, "name": existing.Name, "alreadyExisted": true}, nil
		}

		category, err := categorySvc.CreateCategory(ctx, dto.CreateCategoryRequest{Name: in.Name})
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": category.CategoryID, "name": category.Name, "alreadyExisted": false}, nil
	}
}

func addCategorizationRule(categorySvc portssvc.CategorySvcFacade) Handler {
	type input struct {
		Pattern    string `json:"pattern"`
		CategoryID string `json:"category_id"`
		MatchType  string `json:"match_type"`
	}
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in input
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
		if in.Pattern == "" || in.CategoryID == "" {
			return nil, fmt.Errorf("pattern and category_id are required")
		}

		rule, err := categorySvc.AddRule(ctx, dto.CreateRuleRequest{
			Pattern:    in.Pattern,
			CategoryID: in.CategoryID,
			MatchType:  domain.MatchType(in.MatchType),
			Source:     domain.RuleSourceAI,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": rule.RuleID, "pattern": rule.Pattern}, nil
	}
}
