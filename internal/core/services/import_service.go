package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/middleware"
	"github.com/hearthfin/hearth_backend/internal/platform/bankfile"
	"github.com/shopspring/decimal"
)

// ImportService implements services.ImportSvcFacade: parse, duplicate-check,
// categorize, post. Atomicity is per row; one bad row never rolls back its
// batch siblings.
type ImportService struct {
	accountSvc      portssvc.AccountSvcFacade
	categorizerSvc  portssvc.CategorizerSvcFacade
	ledger          *LedgerService
	fingerprintRepo repositories.FingerprintRepositoryFacade
	importBatchRepo repositories.ImportBatchRepositoryFacade
	bankConfigs     *bankfile.Registry
}

var _ portssvc.ImportSvcFacade = (*ImportService)(nil)

// NewImportService creates a new ImportService.
func NewImportService(
	accountSvc portssvc.AccountSvcFacade,
	categorizerSvc portssvc.CategorizerSvcFacade,
	ledger *LedgerService,
	fingerprintRepo repositories.FingerprintRepositoryFacade,
	importBatchRepo repositories.ImportBatchRepositoryFacade,
	bankConfigs *bankfile.Registry,
) *ImportService {
	return &ImportService{
		accountSvc:      accountSvc,
		categorizerSvc:  categorizerSvc,
		ledger:          ledger,
		fingerprintRepo: fingerprintRepo,
		importBatchRepo: importBatchRepo,
		bankConfigs:     bankConfigs,
	}
}

// PreviewImport runs the pipeline without writing anything: parsed rows come
// back annotated with duplicate flags and suggested categories. When the
// target account does not exist yet, the persisted duplicate check is skipped
// because nothing can have been imported into it.
func (s *ImportService) PreviewImport(ctx context.Context, csvContent, bankConfigName, accountName string) ([]domain.RawTransaction, error) {
	cfg := s.bankConfigs.Get(bankConfigName)
	if cfg == nil {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unknown bank config: %s", bankConfigName), apperrors.ErrValidation)
	}

	txns, err := bankfile.ParseCSV(csvContent, cfg)
	if err != nil {
		return nil, apperrors.NewAppError(400, "failed to parse CSV", errors.Join(apperrors.ErrValidation, err))
	}

	accountID := ""
	account, err := s.accountSvc.GetAccountByName(ctx, accountName)
	if err == nil {
		accountID = account.AccountID
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	txns, err = s.CheckDuplicates(ctx, txns, accountID)
	if err != nil {
		return nil, err
	}
	return s.categorizerSvc.CategorizeTransactions(ctx, txns)
}

// ExecuteImport runs the full pipeline and posts the surviving rows.
func (s *ImportService) ExecuteImport(ctx context.Context, csvContent, bankConfigName, accountName, filename string) (*domain.ImportResult, error) {
	cfg := s.bankConfigs.Get(bankConfigName)
	if cfg == nil {
		return nil, apperrors.NewAppError(400, fmt.Sprintf("unknown bank config: %s", bankConfigName), apperrors.ErrValidation)
	}

	txns, err := bankfile.ParseCSV(csvContent, cfg)
	if err != nil {
		return nil, apperrors.NewAppError(400, "failed to parse CSV", errors.Join(apperrors.ErrValidation, err))
	}

	return s.ImportParsed(ctx, txns, accountName, bankConfigName, filename)
}

// ImportParsed posts already-parsed rows: the entry point for alternative
// parsers that produce RawTransactions outside the CSV path.
func (s *ImportService) ImportParsed(ctx context.Context, txns []domain.RawTransaction, accountName, bankConfigName, filename string) (*domain.ImportResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountSvc.GetOrCreateAccount(ctx, accountName, domain.Asset)
	if err != nil {
		return nil, err
	}

	txns, err = s.CheckDuplicates(ctx, txns, account.AccountID)
	if err != nil {
		return nil, err
	}
	txns, err = s.categorizerSvc.CategorizeTransactions(ctx, txns)
	if err != nil {
		return nil, err
	}

	if filename == "" {
		filename = "upload.csv"
	}
	batch := domain.ImportBatch{
		BatchID:    uuid.NewString(),
		Filename:   filename,
		BankConfig: bankConfigName,
		AccountID:  account.AccountID,
		RowCount:   len(txns),
		ImportedAt: time.Now().UTC(),
	}
	if err := s.importBatchRepo.SaveBatch(ctx, batch); err != nil {
		return nil, err
	}

	imported := 0
	duplicates := 0
	for _, txn := range txns {
		if txn.IsDuplicate {
			duplicates++
			continue
		}
		if err := s.postTransaction(ctx, txn, account.AccountID, batch.BatchID); err != nil {
			// Racing a concurrent import of the same file lands here.
			if errors.Is(err, apperrors.ErrDuplicate) {
				duplicates++
				continue
			}
			logger.Warn("import row failed", "batchID", batch.BatchID, "description", txn.Description, "error", err)
			continue
		}
		imported++
	}

	if err := s.importBatchRepo.UpdateBatchCounts(ctx, batch.BatchID, imported, duplicates); err != nil {
		return nil, err
	}

	logger.Info("import batch finished",
		"batchID", batch.BatchID, "account", accountName,
		"total", len(txns), "imported", imported, "duplicates", duplicates)
	return &domain.ImportResult{
		BatchID:        batch.BatchID,
		ImportedCount:  imported,
		DuplicateCount: duplicates,
		TotalCount:     len(txns),
	}, nil
}

// postTransaction turns one bank row into a balanced two-leg entry. Positive
// amounts offset against Uncategorized Income, negative against Uncategorized
// Expense; both counter accounts are auto-vivified.
func (s *ImportService) postTransaction(ctx context.Context, txn domain.RawTransaction, accountID, batchID string) error {
	counterName := "Uncategorized Expense"
	counterType := domain.Expense
	if txn.Amount.GreaterThanOrEqual(decimal.Zero) {
		counterName = "Uncategorized Income"
		counterType = domain.Income
	}
	counter, err := s.accountSvc.GetOrCreateAccount(ctx, counterName, counterType)
	if err != nil {
		return err
	}

	entry := domain.NewJournalEntry{
		Date:          txn.Date,
		Description:   txn.Description,
		Reference:     txn.Reference,
		CategoryID:    txn.SuggestedCategoryID,
		ImportBatchID: &batchID,
	}
	postings := []domain.NewBookEntry{
		{AccountID: accountID, Amount: txn.Amount},
		{AccountID: counter.AccountID, Amount: txn.Amount.Neg()},
	}

	_, err = s.ledger.CreateImportedEntry(ctx, entry, postings, txn.Fingerprint, accountID)
	return err
}

// CheckDuplicates flags rows whose fingerprint is already persisted for the
// account or already seen earlier in the same batch. First occurrence wins
// within a batch. An empty accountID skips the persisted check.
func (s *ImportService) CheckDuplicates(ctx context.Context, txns []domain.RawTransaction, accountID string) ([]domain.RawTransaction, error) {
	seen := make(map[string]struct{}, len(txns))

	for i := range txns {
		if accountID != "" {
			exists, err := s.fingerprintRepo.Exists(ctx, txns[i].Fingerprint, accountID)
			if err != nil {
				return nil, err
			}
			if exists {
				txns[i].IsDuplicate = true
				continue
			}
		}
		if _, dup := seen[txns[i].Fingerprint]; dup {
			txns[i].IsDuplicate = true
			continue
		}
		seen[txns[i].Fingerprint] = struct{}{}
		txns[i].IsDuplicate = false
	}
	return txns, nil
}
