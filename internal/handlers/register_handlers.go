package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/hearthfin/hearth_backend/internal/ai"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/middleware"
	"github.com/hearthfin/hearth_backend/internal/platform/bankfile"
	"github.com/hearthfin/hearth_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	assistant *ai.Assistant,
	bankConfigs *bankfile.Registry,
	rateLimiter *limiter.Limiter,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, assistant, bankConfigs, rateLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	assistant *ai.Assistant,
	bankConfigs *bankfile.Registry,
	rateLimiter *limiter.Limiter,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	RegisterAccountRoutes(v1, services.Account, services.Reporting, services.Ledger)
	registerCategoryRoutes(v1, services.Category, services.Categorizer)
	registerJournalRoutes(v1, services.Ledger)
	registerReportingRoutes(v1, services.Reporting)
	registerPropertyRoutes(v1, services.Property, services.Equity)
	registerExportRoutes(v1, services.Ledger, services.Reporting, services.Category, services.Property)

	// Import, chat and tip generation fan out into parsing and model calls,
	// so they carry an additional per-IP rate limit.
	limited := v1.Group("", middleware.RateLimit(rateLimiter))
	registerPlanningRoutes(v1, limited, services.Planning)
	registerImportRoutes(limited, services.Import, bankConfigs)
	registerChatRoutes(limited, services.Conversation, assistant)
}
