package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
)

func posting(accountID, amount string) domain.NewBookEntry {
	return domain.NewBookEntry{AccountID: accountID, Amount: decimal.RequireFromString(amount)}
}

func TestValidateBalanced(t *testing.T) {
	err := ValidateBalanced([]domain.NewBookEntry{
		posting("a", "100.00"),
		posting("b", "-100.00"),
	})
	assert.NoError(t, err)

	// Multi-leg entries balance as a whole, not pairwise.
	err = ValidateBalanced([]domain.NewBookEntry{
		posting("a", "-1200.00"),
		posting("b", "1000.00"),
		posting("c", "200.00"),
	})
	assert.NoError(t, err)
}

func TestValidateBalancedRejectsNonZeroSum(t *testing.T) {
	err := ValidateBalanced([]domain.NewBookEntry{
		posting("a", "100.00"),
		posting("b", "-99.99"),
	})
	require.Error(t, err)

	var unbalanced *apperrors.UnbalancedEntryError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, 2, unbalanced.PostingCount)
	assert.True(t, unbalanced.Sum.Equal(decimal.RequireFromString("0.01")))
}

func TestValidateBalancedRejectsTooFewPostings(t *testing.T) {
	var unbalanced *apperrors.UnbalancedEntryError

	err := ValidateBalanced(nil)
	require.ErrorAs(t, err, &unbalanced)

	err = ValidateBalanced([]domain.NewBookEntry{posting("a", "0.00")})
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, 1, unbalanced.PostingCount)
}

func TestValidateBalancedRoundsAtTwoDecimals(t *testing.T) {
	// Sub-cent residue rounds away at 2dp.
	err := ValidateBalanced([]domain.NewBookEntry{
		posting("a", "33.333"),
		posting("b", "-33.33"),
	})
	assert.NoError(t, err)

	// A full cent does not.
	err = ValidateBalanced([]domain.NewBookEntry{
		posting("a", "33.34"),
		posting("b", "-33.33"),
	})
	assert.Error(t, err)
}
