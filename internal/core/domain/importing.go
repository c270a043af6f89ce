package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is one parsed bank statement row flowing through the import
// pipeline. IsDuplicate and SuggestedCategoryID are annotated by the
// duplicate detector and categorizer stages.
type RawTransaction struct {
	Date                time.Time       `json:"date"`
	Description         string          `json:"description"`
	Amount              decimal.Decimal `json:"amount"`
	Reference           *string         `json:"reference,omitempty"`
	Fingerprint         string          `json:"fingerprint"`
	IsDuplicate         bool            `json:"isDuplicate"`
	SuggestedCategoryID *string         `json:"suggestedCategoryID,omitempty"`
}

// ImportBatch records metadata for one import operation.
type ImportBatch struct {
	BatchID        string    `json:"batchID"`
	Filename       string    `json:"filename"`
	BankConfig     string    `json:"bankConfig"`
	AccountID      string    `json:"accountID"`
	RowCount       int       `json:"rowCount"`
	ImportedCount  int       `json:"importedCount"`
	DuplicateCount int       `json:"duplicateCount"`
	ImportedAt     time.Time `json:"importedAt"`
}

// ImportResult summarizes one executed import batch.
type ImportResult struct {
	BatchID        string `json:"batchID"`
	ImportedCount  int    `json:"importedCount"`
	DuplicateCount int    `json:"duplicateCount"`
	TotalCount     int    `json:"totalCount"`
}

// TransactionFingerprint ties a deterministic transaction hash to the account
// it was imported into and the journal entry it produced. Unique per
// (fingerprint, account).
type TransactionFingerprint struct {
	FingerprintID  string    `json:"fingerprintID"`
	Fingerprint    string    `json:"fingerprint"`
	AccountID      string    `json:"accountID"`
	JournalEntryID string    `json:"journalEntryID"`
	CreatedAt      time.Time `json:"createdAt"`
}
