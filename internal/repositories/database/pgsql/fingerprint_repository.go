package pgsql

import (
	"context"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FingerprintRepository implements repositories.FingerprintRepositoryFacade
// using PostgreSQL. Writes happen inside JournalRepository.SaveEntry; this
// repository only answers existence checks for the duplicate detector.
type FingerprintRepository struct {
	BaseRepository
}

var _ repositories.FingerprintRepositoryFacade = (*FingerprintRepository)(nil)

// NewFingerprintRepository creates a new FingerprintRepository.
func NewFingerprintRepository(pool *pgxpool.Pool) *FingerprintRepository {
	return &FingerprintRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Exists reports whether the fingerprint has already been recorded for the
// given account. Fingerprints are scoped per account so the same transaction
// can legitimately appear in two different accounts.
func (r *FingerprintRepository) Exists(ctx context.Context, fingerprint string, accountID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM transaction_fingerprints WHERE fingerprint = $1 AND account_id = $2)`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, fingerprint, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check transaction fingerprint", err)
	}
	return exists, nil
}
