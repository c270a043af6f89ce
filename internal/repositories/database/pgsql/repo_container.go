package pgsql

import (
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every PostgreSQL repository over one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *repositories.RepositoryProvider {
	return &repositories.RepositoryProvider{
		AccountRepo:      NewAccountRepository(pool),
		CategoryRepo:     NewCategoryRepository(pool),
		JournalRepo:      NewJournalRepository(pool),
		FingerprintRepo:  NewFingerprintRepository(pool),
		ImportBatchRepo:  NewImportBatchRepository(pool),
		PropertyRepo:     NewPropertyRepository(pool),
		PlanningRepo:     NewPlanningRepository(pool),
		ReportingRepo:    NewReportingRepository(pool),
		ConversationRepo: NewConversationRepository(pool),
	}
}
