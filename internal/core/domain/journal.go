package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents one real-world financial event. Immutable once
// created except for category reassignment.
type JournalEntry struct {
	EntryID       string    `json:"entryID"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description"`
	Reference     *string   `json:"reference,omitempty"`
	CategoryID    *string   `json:"categoryID,omitempty"`
	ImportBatchID *string   `json:"importBatchID,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BookEntry is one leg of a journal entry: a signed amount against one
// account. For any journal entry the amounts of its book entries sum to zero.
type BookEntry struct {
	BookEntryID    string          `json:"bookEntryID"`
	JournalEntryID string          `json:"journalEntryID"`
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewBookEntry is the caller-supplied leg of a journal entry to be created.
type NewBookEntry struct {
	AccountID string
	Amount    decimal.Decimal
}

// NewJournalEntry is the caller-supplied header of a journal entry to be created.
type NewJournalEntry struct {
	Date          time.Time
	Description   string
	Reference     *string
	CategoryID    *string
	ImportBatchID *string
}

// EntrySummary is a read-model row for listing journal entries together with
// the category name and a compact rendering of the entry's postings.
type EntrySummary struct {
	EntryID        string    `json:"entryID"`
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	Reference      *string   `json:"reference,omitempty"`
	CategoryID     *string   `json:"categoryID,omitempty"`
	CategoryName   *string   `json:"categoryName,omitempty"`
	EntriesSummary string    `json:"entriesSummary"`
}

// AccountPosting is one posting against a specific account joined with its
// journal header, for per-account statement views.
type AccountPosting struct {
	BookEntryID    string          `json:"bookEntryID"`
	JournalEntryID string          `json:"journalEntryID"`
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// EntryFilters narrows ListEntries / CountEntries results.
type EntryFilters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *string
	AccountID  *string
	Query      string
	Limit      int
	Offset     int
}
