package accounting

import (
	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateBalanced is the single zero-sum check for the whole system. Every
// money-moving write path must pass its postings through here before
// persisting. The sum is compared at 2-decimal fixed point.
func ValidateBalanced(postings []domain.NewBookEntry) error {
	if len(postings) < 2 {
		return &apperrors.UnbalancedEntryError{PostingCount: len(postings)}
	}

	sum := decimal.Zero
	for _, p := range postings {
		sum = sum.Add(p.Amount)
	}

	if !sum.Round(2).IsZero() {
		return &apperrors.UnbalancedEntryError{Sum: sum, PostingCount: len(postings)}
	}
	return nil
}
