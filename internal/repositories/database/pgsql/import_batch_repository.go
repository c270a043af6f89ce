package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImportBatchRepository implements repositories.ImportBatchRepositoryFacade
// using PostgreSQL.
type ImportBatchRepository struct {
	BaseRepository
}

var _ repositories.ImportBatchRepositoryFacade = (*ImportBatchRepository)(nil)

// NewImportBatchRepository creates a new ImportBatchRepository.
func NewImportBatchRepository(pool *pgxpool.Pool) *ImportBatchRepository {
	return &ImportBatchRepository{BaseRepository: BaseRepository{Pool: pool}}
}

const importBatchColumns = `batch_id, filename, bank_config, account_id, row_count, imported_count, duplicate_count, imported_at`

func scanImportBatch(row pgx.Row) (domain.ImportBatch, error) {
	var b domain.ImportBatch
	err := row.Scan(
		&b.BatchID,
		&b.Filename,
		&b.BankConfig,
		&b.AccountID,
		&b.RowCount,
		&b.ImportedCount,
		&b.DuplicateCount,
		&b.ImportedAt,
	)
	return b, err
}

// SaveBatch persists a new import batch record.
func (r *ImportBatchRepository) SaveBatch(ctx context.Context, batch domain.ImportBatch) error {
	query := `
		INSERT INTO import_batches (batch_id, filename, bank_config, account_id, row_count, imported_count, duplicate_count, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.Pool.Exec(ctx, query,
		batch.BatchID,
		batch.Filename,
		batch.BankConfig,
		batch.AccountID,
		batch.RowCount,
		batch.ImportedCount,
		batch.DuplicateCount,
		batch.ImportedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save import batch", err)
	}
	return nil
}

// UpdateBatchCounts records the final imported/duplicate tallies of a batch.
func (r *ImportBatchRepository) UpdateBatchCounts(ctx context.Context, batchID string, imported, duplicates int) error {
	query := `UPDATE import_batches SET imported_count = $2, duplicate_count = $3 WHERE batch_id = $1`
	tag, err := r.Pool.Exec(ctx, query, batchID, imported, duplicates)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update import batch counts", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("import batch with ID %s not found", batchID))
	}
	return nil
}

// FindBatchByID retrieves an import batch by its ID.
func (r *ImportBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.ImportBatch, error) {
	query := fmt.Sprintf(`SELECT %s FROM import_batches WHERE batch_id = $1`, importBatchColumns)
	batch, err := scanImportBatch(r.Pool.QueryRow(ctx, query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("import batch with ID %s not found", batchID))
		}
		return nil, apperrors.NewAppError(500, "failed to find import batch", err)
	}
	return &batch, nil
}

// ListBatches retrieves the most recent import batches.
func (r *ImportBatchRepository) ListBatches(ctx context.Context, limit int) ([]domain.ImportBatch, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM import_batches ORDER BY imported_at DESC LIMIT $1`, importBatchColumns)
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list import batches", err)
	}
	defer rows.Close()

	batches := make([]domain.ImportBatch, 0)
	for rows.Next() {
		batch, err := scanImportBatch(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan import batch", err)
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read import batches", err)
	}
	return batches, nil
}
