package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newJournalHandler(ls portssvc.LedgerSvcFacade) *journalHandler {
	return &journalHandler{ledgerService: ls}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade) {
	h := newJournalHandler(ls)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id/category", h.updateCategory)
	}
}

func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	postings := make([]domain.NewBookEntry, len(req.BookEntries))
	for i, be := range req.BookEntries {
		postings[i] = domain.NewBookEntry{AccountID: be.AccountID, Amount: be.Amount}
	}
	entry := domain.NewJournalEntry{
		Date:        req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		CategoryID:  req.CategoryID,
	}

	entryID, err := h.ledgerService.CreateEntry(c.Request.Context(), entry, postings)
	if err != nil {
		respondError(c, logger, err, "Failed to create entry")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entryID": entryID})
}

func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve entry")
		return
	}
	postings, err := h.ledgerService.GetBookEntries(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve entry postings")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry, postings))
}

func (h *journalHandler) updateCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateEntryCategoryRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	if err := h.ledgerService.UpdateCategory(c.Request.Context(), c.Param("id"), req.CategoryID); err != nil {
		respondError(c, logger, err, "Failed to update entry category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filters, ok := parseEntryFilters(c)
	if !ok {
		return
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), filters)
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}
	total, err := h.ledgerService.CountEntries(c.Request.Context(), filters)
	if err != nil {
		respondError(c, logger, err, "Failed to count entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{Entries: entries, Total: total})
}

func parseEntryFilters(c *gin.Context) (domain.EntryFilters, bool) {
	filters := domain.EntryFilters{Query: c.Query("q")}

	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	if v := c.Query("categoryID"); v != "" {
		filters.CategoryID = &v
	}
	if v := c.Query("accountID"); v != "" {
		filters.AccountID = &v
	}
	if v := c.Query("startDate"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
			return filters, false
		}
		filters.StartDate = &start
	}
	if v := c.Query("endDate"); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate, expected YYYY-MM-DD"})
			return filters, false
		}
		filters.EndDate = &end
	}
	return filters, true
}
