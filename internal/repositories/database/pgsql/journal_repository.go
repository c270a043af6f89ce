package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	"github.com/hearthfin/hearth_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JournalRepository implements repositories.JournalRepositoryFacade using PostgreSQL.
type JournalRepository struct {
	BaseRepository
}

var _ repositories.JournalRepositoryFacade = (*JournalRepository)(nil)

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// SaveEntry inserts the journal header, all postings and the optional import
// fingerprint in one transaction. Postings go through a batch so the round
// trip count stays flat regardless of leg count.
func (r *JournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, postings []domain.BookEntry, fingerprint *domain.TransactionFingerprint) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	entryQuery := `
		INSERT INTO journal_entries (entry_id, entry_date, description, reference, category_id, import_batch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.Date,
		entry.Description,
		entry.Reference,
		entry.CategoryID,
		entry.ImportBatchID,
		entry.CreatedAt,
	); err != nil {
		return apperrors.NewAppError(500, "failed to save journal entry", err)
	}

	batch := &pgx.Batch{}
	postingQuery := `
		INSERT INTO book_entries (book_entry_id, journal_entry_id, account_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	for _, posting := range postings {
		batch.Queue(postingQuery,
			posting.BookEntryID,
			posting.JournalEntryID,
			posting.AccountID,
			posting.Amount,
			posting.CreatedAt,
		)
	}
	if fingerprint != nil {
		batch.Queue(`
			INSERT INTO transaction_fingerprints (fingerprint_id, fingerprint, account_id, journal_entry_id, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			fingerprint.FingerprintID,
			fingerprint.Fingerprint,
			fingerprint.AccountID,
			fingerprint.JournalEntryID,
			fingerprint.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil && batchErr == nil {
			batchErr = err
		}
	}
	if err := results.Close(); err != nil && batchErr == nil {
		batchErr = err
	}
	if batchErr != nil {
		if isUniqueViolation(batchErr) {
			return apperrors.NewAppError(409, "transaction fingerprint already recorded for this account", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save book entries", batchErr)
	}

	return r.Commit(ctx, tx)
}

const journalColumns = `entry_id, entry_date, description, reference, category_id, import_batch_id, created_at`

func scanJournalEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.Date,
		&e.Description,
		&e.Reference,
		&e.CategoryID,
		&e.ImportBatchID,
		&e.CreatedAt,
	)
	return e, err
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *JournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM journal_entries WHERE entry_id = $1`, journalColumns)
	entry, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal entry with ID %s not found", entryID))
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry", err)
	}
	return &entry, nil
}

// FindBookEntriesByEntryID retrieves all postings belonging to one journal entry.
func (r *JournalRepository) FindBookEntriesByEntryID(ctx context.Context, entryID string) ([]domain.BookEntry, error) {
	query := `
		SELECT book_entry_id, journal_entry_id, account_id, amount, created_at
		FROM book_entries
		WHERE journal_entry_id = $1
		ORDER BY created_at, book_entry_id`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find book entries", err)
	}
	defer rows.Close()

	bookEntries := make([]domain.BookEntry, 0)
	for rows.Next() {
		var be domain.BookEntry
		if err := rows.Scan(&be.BookEntryID, &be.JournalEntryID, &be.AccountID, &be.Amount, &be.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan book entry", err)
		}
		bookEntries = append(bookEntries, be)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read book entries", err)
	}
	return bookEntries, nil
}

// UpdateEntryCategory sets or clears the category of a journal entry. The
// postings stay untouched.
func (r *JournalRepository) UpdateEntryCategory(ctx context.Context, entryID string, categoryID *string) error {
	query := `UPDATE journal_entries SET category_id = $2 WHERE entry_id = $1`
	tag, err := r.Pool.Exec(ctx, query, entryID, categoryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update entry category", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal entry with ID %s not found", entryID))
	}
	return nil
}

// buildEntryFilter renders the WHERE clause and args shared by ListEntries and
// CountEntries so both always agree on which rows qualify.
func buildEntryFilter(filters domain.EntryFilters) (string, []any) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)

	if filters.StartDate != nil {
		args = append(args, *filters.StartDate)
		conditions = append(conditions, fmt.Sprintf("je.entry_date >= $%d", len(args)))
	}
	if filters.EndDate != nil {
		args = append(args, *filters.EndDate)
		conditions = append(conditions, fmt.Sprintf("je.entry_date <= $%d", len(args)))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		conditions = append(conditions, fmt.Sprintf("je.category_id = $%d", len(args)))
	}
	if filters.AccountID != nil {
		args = append(args, *filters.AccountID)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM book_entries be WHERE be.journal_entry_id = je.entry_id AND be.account_id = $%d)", len(args)))
	}
	if filters.Query != "" {
		args = append(args, "%"+filters.Query+"%")
		conditions = append(conditions, fmt.Sprintf("je.description ILIKE $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListEntries retrieves journal entry summaries matching the filters, newest
// first, with limit/offset paging.
func (r *JournalRepository) ListEntries(ctx context.Context, filters domain.EntryFilters) ([]domain.EntrySummary, error) {
	where, args := buildEntryFilter(filters)

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	limitClause := fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filters.Offset)
	offsetClause := fmt.Sprintf(" OFFSET $%d", len(args))

	query := `
		SELECT je.entry_id, je.entry_date, je.description, je.reference, je.category_id, c.name,
		       COALESCE(string_agg(a.name || ': ' || be.amount::text, ', ' ORDER BY be.created_at, be.book_entry_id), '')
		FROM journal_entries je
		LEFT JOIN categories c ON c.category_id = je.category_id
		JOIN book_entries be ON be.journal_entry_id = je.entry_id
		JOIN accounts a ON a.account_id = be.account_id` + where + `
		GROUP BY je.entry_id, je.entry_date, je.description, je.reference, je.category_id, c.name, je.created_at
		ORDER BY je.entry_date DESC, je.created_at DESC` + limitClause + offsetClause

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list journal entries", err)
	}
	defer rows.Close()

	summaries := make([]domain.EntrySummary, 0)
	for rows.Next() {
		var s domain.EntrySummary
		if err := rows.Scan(&s.EntryID, &s.Date, &s.Description, &s.Reference, &s.CategoryID, &s.CategoryName, &s.EntriesSummary); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry summary", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read journal entries", err)
	}
	return summaries, nil
}

// CountEntries returns how many journal entries match the filters, ignoring
// limit and offset.
func (r *JournalRepository) CountEntries(ctx context.Context, filters domain.EntryFilters) (int, error) {
	where, args := buildEntryFilter(filters)
	query := `SELECT COUNT(*) FROM journal_entries je` + where

	var count int
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count journal entries", err)
	}
	return count, nil
}

// ListUncategorized retrieves the oldest journal entries without a category.
func (r *JournalRepository) ListUncategorized(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT %s FROM journal_entries
		WHERE category_id IS NULL
		ORDER BY entry_date ASC, created_at ASC
		LIMIT $1`, journalColumns)
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list uncategorized entries", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read journal entries", err)
	}
	return entries, nil
}

// ListPostingsByAccount pages one account's postings newest first using a
// keyset cursor over (entry_date, created_at). Fetches limit+1 rows to decide
// whether another page exists.
func (r *JournalRepository) ListPostingsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountPosting, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT be.book_entry_id, be.journal_entry_id, be.account_id, be.amount, je.entry_date, je.description, be.created_at
		FROM book_entries be
		JOIN journal_entries je ON je.entry_id = be.journal_entry_id
		WHERE be.account_id = $1`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", errors.Join(apperrors.ErrValidation, err))
		}
		args = append(args, entryDate, createdAt)
		query += fmt.Sprintf(" AND (je.entry_date, be.created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY je.entry_date DESC, be.created_at DESC LIMIT $%d", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list account postings", err)
	}
	defer rows.Close()

	postings := make([]domain.AccountPosting, 0, limit+1)
	for rows.Next() {
		var p domain.AccountPosting
		if err := rows.Scan(&p.BookEntryID, &p.JournalEntryID, &p.AccountID, &p.Amount, &p.Date, &p.Description, &p.CreatedAt); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan account posting", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to read account postings", err)
	}

	var token *string
	if len(postings) > limit {
		postings = postings[:limit]
		last := postings[len(postings)-1]
		t := pagination.EncodeToken(last.Date, last.CreatedAt)
		token = &t
	}
	return postings, token, nil
}
