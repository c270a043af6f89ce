package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/middleware"
	"github.com/hearthfin/hearth_backend/internal/utils/accounting"
)

// LedgerService implements services.LedgerSvcFacade. It is the only write
// path for journal entries: every posting set is validated against the
// zero-sum invariant before it reaches the database.
type LedgerService struct {
	journalRepo repositories.JournalRepositoryFacade
	accountRepo repositories.AccountRepositoryFacade
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// NewLedgerService creates a new LedgerService.
func NewLedgerService(journalRepo repositories.JournalRepositoryFacade, accountRepo repositories.AccountRepositoryFacade) *LedgerService {
	return &LedgerService{journalRepo: journalRepo, accountRepo: accountRepo}
}

// CreateEntry validates and persists a balanced journal entry, returning the
// new entry ID.
func (s *LedgerService) CreateEntry(ctx context.Context, entry domain.NewJournalEntry, postings []domain.NewBookEntry) (string, error) {
	return s.createEntry(ctx, entry, postings, nil)
}

// CreateImportedEntry is CreateEntry plus an import fingerprint persisted in
// the same transaction as the postings. Only the import pipeline calls this.
func (s *LedgerService) CreateImportedEntry(ctx context.Context, entry domain.NewJournalEntry, postings []domain.NewBookEntry, fingerprint string, accountID string) (string, error) {
	fp := &domain.TransactionFingerprint{
		FingerprintID: uuid.NewString(),
		Fingerprint:   fingerprint,
		AccountID:     accountID,
		CreatedAt:     time.Now().UTC(),
	}
	return s.createEntry(ctx, entry, postings, fp)
}

func (s *LedgerService) createEntry(ctx context.Context, entry domain.NewJournalEntry, postings []domain.NewBookEntry, fingerprint *domain.TransactionFingerprint) (string, error) {
	if err := accounting.ValidateBalanced(postings); err != nil {
		return "", err
	}
	for _, p := range postings {
		if _, err := s.accountRepo.FindAccountByID(ctx, p.AccountID); err != nil {
			return "", err
		}
	}

	now := time.Now().UTC()
	journalEntry := domain.JournalEntry{
		EntryID:       uuid.NewString(),
		Date:          entry.Date,
		Description:   entry.Description,
		Reference:     entry.Reference,
		CategoryID:    entry.CategoryID,
		ImportBatchID: entry.ImportBatchID,
		CreatedAt:     now,
	}

	bookEntries := make([]domain.BookEntry, len(postings))
	for i, p := range postings {
		bookEntries[i] = domain.BookEntry{
			BookEntryID:    uuid.NewString(),
			JournalEntryID: journalEntry.EntryID,
			AccountID:      p.AccountID,
			Amount:         p.Amount,
			CreatedAt:      now,
		}
	}

	if fingerprint != nil {
		fingerprint.JournalEntryID = journalEntry.EntryID
	}

	if err := s.journalRepo.SaveEntry(ctx, journalEntry, bookEntries, fingerprint); err != nil {
		return "", err
	}

	middleware.GetLoggerFromCtx(ctx).Info("journal entry created",
		"entryID", journalEntry.EntryID, "postings", len(bookEntries), "description", journalEntry.Description)
	return journalEntry.EntryID, nil
}

// GetEntry retrieves a journal entry header.
func (s *LedgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, entryID)
}

// GetBookEntries retrieves the postings of one journal entry.
func (s *LedgerService) GetBookEntries(ctx context.Context, entryID string) ([]domain.BookEntry, error) {
	return s.journalRepo.FindBookEntriesByEntryID(ctx, entryID)
}

// UpdateCategory reassigns or clears an entry's category after verifying the
// entry exists. Postings are never touched.
func (s *LedgerService) UpdateCategory(ctx context.Context, entryID string, categoryID *string) error {
	return s.journalRepo.UpdateEntryCategory(ctx, entryID, categoryID)
}

// ListEntries retrieves entry summaries matching the filters.
func (s *LedgerService) ListEntries(ctx context.Context, filters domain.EntryFilters) ([]domain.EntrySummary, error) {
	return s.journalRepo.ListEntries(ctx, filters)
}

// CountEntries counts entries matching the filters, ignoring paging.
func (s *LedgerService) CountEntries(ctx context.Context, filters domain.EntryFilters) (int, error) {
	return s.journalRepo.CountEntries(ctx, filters)
}

// ListUncategorized retrieves entries without a category.
func (s *LedgerService) ListUncategorized(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	return s.journalRepo.ListUncategorized(ctx, limit)
}

// ListPostingsByAccount pages one account's postings with a cursor token.
func (s *LedgerService) ListPostingsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountPosting, *string, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, nil, err
	}
	return s.journalRepo.ListPostingsByAccount(ctx, accountID, limit, nextToken)
}
