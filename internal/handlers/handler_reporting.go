package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// reportingHandler serves the derived aggregation views.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// registerReportingRoutes registers the reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: rs}

	reports := rg.Group("/reports")
	{
		reports.GET("/monthly-spending", h.monthlySpending)
		reports.GET("/net-worth", h.netWorth)
	}
}

func (h *reportingHandler) monthlySpending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.GetMonthlySpending(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute monthly spending")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *reportingHandler) netWorth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	netWorth, err := h.reportingService.GetNetWorth(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute net worth")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"assets":      dto.FormatAmount(netWorth.Assets),
		"liabilities": dto.FormatAmount(netWorth.Liabilities),
		"netWorth":    dto.FormatAmount(netWorth.NetWorth),
	})
}
