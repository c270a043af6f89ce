package dto

import (
	"time"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBookEntryRequest is one caller-supplied posting. Amount is a signed
// decimal carried as a string on the wire.
type CreateBookEntryRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// CreateEntryRequest defines the payload for creating a manual journal entry.
type CreateEntryRequest struct {
	Date        time.Time                `json:"date" binding:"required" time_format:"2006-01-02"`
	Description string                   `json:"description" binding:"required"`
	Reference   *string                  `json:"reference"`
	CategoryID  *string                  `json:"categoryID"`
	BookEntries []CreateBookEntryRequest `json:"bookEntries" binding:"required,min=2,dive"`
}

// UpdateEntryCategoryRequest reassigns (or clears) an entry's category.
type UpdateEntryCategoryRequest struct {
	CategoryID *string `json:"categoryID"`
}

// BookEntryResponse is the API shape of one posting.
type BookEntryResponse struct {
	BookEntryID string `json:"bookEntryID"`
	AccountID   string `json:"accountID"`
	Amount      string `json:"amount"`
}

// EntryResponse is the API shape of a journal entry with its postings.
type EntryResponse struct {
	EntryID     string              `json:"entryID"`
	Date        string              `json:"date"`
	Description string              `json:"description"`
	Reference   *string             `json:"reference,omitempty"`
	CategoryID  *string             `json:"categoryID,omitempty"`
	BookEntries []BookEntryResponse `json:"bookEntries"`
}

// ListEntriesResponse pages entry summaries together with the total match
// count for offset paging.
type ListEntriesResponse struct {
	Entries []domain.EntrySummary `json:"entries"`
	Total   int                   `json:"total"`
}

// ListPostingsResponse pages per-account postings with a cursor token.
type ListPostingsResponse struct {
	Postings  []domain.AccountPosting `json:"postings"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// ToEntryResponse combines an entry header and its postings.
func ToEntryResponse(e *domain.JournalEntry, postings []domain.BookEntry) EntryResponse {
	out := EntryResponse{
		EntryID:     e.EntryID,
		Date:        e.Date.Format("2006-01-02"),
		Description: e.Description,
		Reference:   e.Reference,
		CategoryID:  e.CategoryID,
		BookEntries: make([]BookEntryResponse, len(postings)),
	}
	for i, p := range postings {
		out.BookEntries[i] = BookEntryResponse{
			BookEntryID: p.BookEntryID,
			AccountID:   p.AccountID,
			Amount:      p.Amount.StringFixed(2),
		}
	}
	return out
}
