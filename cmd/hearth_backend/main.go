package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hearthfin/hearth_backend/internal/ai"
	"github.com/hearthfin/hearth_backend/internal/ai/anthropic"
	aiport "github.com/hearthfin/hearth_backend/internal/core/ports/ai"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/core/services"
	"github.com/hearthfin/hearth_backend/internal/handlers"
	"github.com/hearthfin/hearth_backend/internal/middleware"
	"github.com/hearthfin/hearth_backend/internal/platform/bankfile"
	"github.com/hearthfin/hearth_backend/internal/platform/config"
	"github.com/hearthfin/hearth_backend/internal/repositories/database/pgsql"
	"github.com/hearthfin/hearth_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	bankConfigs, err := bankfile.NewRegistry(cfg.BankConfigDir)
	if err != nil {
		logger.Error("Failed to load bank configs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	// The assistant, classifier and adviser share one API client; without a
	// key the app runs rule-only categorization, no chat and no tips.
	var chatClient aiport.ChatClient
	var classifier aiport.Classifier
	var advisor aiport.Advisor
	if cfg.ClassifierAPIKey != "" {
		client := anthropic.NewClient(cfg.ClassifierAPIKey)
		chatClient = client
		classifier = client
		advisor = client
	} else {
		logger.Info("No classifier API key configured; assistant and AI categorization disabled.")
	}

	accountSvc := services.NewAccountService(repos.AccountRepo)
	categorySvc := services.NewCategoryService(repos.CategoryRepo)
	ledgerSvc := services.NewLedgerService(repos.JournalRepo, repos.AccountRepo)
	reportingSvc := services.NewReportingService(repos.ReportingRepo, repos.AccountRepo)
	categorizerSvc := services.NewCategorizerService(repos.CategoryRepo, repos.JournalRepo, classifier)
	importSvc := services.NewImportService(accountSvc, categorizerSvc, ledgerSvc, repos.FingerprintRepo, repos.ImportBatchRepo, bankConfigs)
	equitySvc := services.NewEquityService(repos.PropertyRepo, repos.ReportingRepo)
	propertySvc := services.NewPropertyService(repos.PropertyRepo, repos.ReportingRepo, accountSvc, ledgerSvc)
	planningSvc := services.NewPlanningService(repos.PlanningRepo, repos.CategoryRepo, repos.AccountRepo, reportingSvc, advisor)
	conversationSvc := services.NewConversationService(repos.ConversationRepo)

	serviceContainer := &portssvc.ServiceContainer{
		Account:      accountSvc,
		Category:     categorySvc,
		Ledger:       ledgerSvc,
		Reporting:    reportingSvc,
		Categorizer:  categorizerSvc,
		Import:       importSvc,
		Equity:       equitySvc,
		Property:     propertySvc,
		Planning:     planningSvc,
		Conversation: conversationSvc,
	}

	var assistant *ai.Assistant
	if chatClient != nil {
		registry := ai.NewRegistry()
		if err := ai.RegisterFinanceTools(registry, reportingSvc, ledgerSvc, categorySvc, categorizerSvc, propertySvc, equitySvc); err != nil {
			logger.Error("Failed to register assistant tools", slog.String("error", err.Error()))
			os.Exit(1)
		}
		assistant = ai.NewAssistant(chatClient, registry, conversationSvc, cfg.MaxToolRounds, time.Duration(cfg.ChatTimeoutSecs)*time.Second)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rateLimit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	rateLimiter := limiter.New(memory.NewStore(), rate)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, assistant, bankConfigs, rateLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending up migrations over a temporary
// database/sql connection. Using the pgx stdlib driver keeps it compatible
// with the main pool.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
