package handlers

import (
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// exportEntryLimit bounds a single export; the UI has no pagination here.
const exportEntryLimit = 10000

// exportHandler serves full-ledger downloads.
type exportHandler struct {
	ledgerService    portssvc.LedgerSvcFacade
	reportingService portssvc.ReportingSvcFacade
	categoryService  portssvc.CategorySvcFacade
	propertyService  portssvc.PropertySvcFacade
}

// registerExportRoutes registers the CSV and JSON export routes.
func registerExportRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade, rs portssvc.ReportingSvcFacade, cs portssvc.CategorySvcFacade, ps portssvc.PropertySvcFacade) {
	h := &exportHandler{ledgerService: ls, reportingService: rs, categoryService: cs, propertyService: ps}

	export := rg.Group("/export")
	{
		export.GET("/csv", h.exportCSV)
		export.GET("/json", h.exportJSON)
	}
}

func (h *exportHandler) exportCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), domain.EntryFilters{Limit: exportEntryLimit})
	if err != nil {
		respondError(c, logger, err, "Failed to export entries")
		return
	}

	body, err := renderEntriesCSV(entries)
	if err != nil {
		respondError(c, logger, err, "Failed to render CSV")
		return
	}

	c.Header("Content-Disposition", `attachment; filename=hearth-export.csv`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}

// renderEntriesCSV writes one row per journal entry with its category name
// and the compact posting summary.
func renderEntriesCSV(entries []domain.EntrySummary) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"Date", "Description", "Category", "Reference", "Entries"}); err != nil {
		return "", err
	}
	for _, entry := range entries {
		category := "Uncategorized"
		if entry.CategoryName != nil {
			category = *entry.CategoryName
		}
		reference := ""
		if entry.Reference != nil {
			reference = *entry.Reference
		}
		record := []string{
			entry.Date.Format("2006-01-02"),
			entry.Description,
			category,
			reference,
			entry.EntriesSummary,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}

func (h *exportHandler) exportJSON(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, err := h.ledgerService.ListEntries(ctx, domain.EntryFilters{Limit: exportEntryLimit})
	if err != nil {
		respondError(c, logger, err, "Failed to export entries")
		return
	}
	balances, err := h.reportingService.GetBalances(ctx)
	if err != nil {
		respondError(c, logger, err, "Failed to export balances")
		return
	}
	categories, err := h.categoryService.ListCategories(ctx)
	if err != nil {
		respondError(c, logger, err, "Failed to export categories")
		return
	}
	properties, err := h.propertyService.ListProperties(ctx)
	if err != nil {
		respondError(c, logger, err, "Failed to export properties")
		return
	}

	c.Header("Content-Disposition", `attachment; filename=hearth-export.json`)
	c.JSON(http.StatusOK, gin.H{
		"exportDate":   time.Now().UTC().Format(time.RFC3339),
		"accounts":     balances,
		"categories":   categories,
		"transactions": entries,
		"properties":   properties,
	})
}
