package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// propertyHandler handles HTTP requests for properties, owners, mortgages,
// valuations, transfers and equity.
type propertyHandler struct {
	propertyService portssvc.PropertySvcFacade
	equityService   portssvc.EquitySvcFacade
}

// registerPropertyRoutes registers the property routes.
func registerPropertyRoutes(rg *gin.RouterGroup, ps portssvc.PropertySvcFacade, es portssvc.EquitySvcFacade) {
	h := &propertyHandler{propertyService: ps, equityService: es}

	properties := rg.Group("/properties")
	{
		properties.POST("", h.createProperty)
		properties.GET("", h.listProperties)
		properties.GET("/equity", h.allEquity)
		properties.GET("/transfers", h.listTransfers)
		properties.POST("/transfers", h.transferEquity)
		properties.GET("/:id", h.getProperty)
		properties.POST("/:id/ownership", h.addOwnership)
		properties.GET("/:id/ownership", h.getOwnership)
		properties.POST("/:id/valuations", h.addValuation)
		properties.GET("/:id/valuations", h.listValuations)
		properties.POST("/:id/mortgages", h.createMortgage)
		properties.GET("/:id/mortgages", h.listMortgages)
		properties.GET("/:id/equity", h.equity)
		properties.POST("/:id/allocations", h.setAllocation)
		properties.GET("/:id/allocations", h.listAllocations)
	}

	mortgages := rg.Group("/mortgages")
	{
		mortgages.POST("/:id/rates", h.addMortgageRate)
		mortgages.GET("/:id/rates", h.listMortgageRates)
		mortgages.GET("/:id/balance", h.mortgageBalance)
		mortgages.POST("/:id/payments", h.recordPayment)
	}

	owners := rg.Group("/owners")
	{
		owners.GET("", h.listOwners)
	}
}

func (h *propertyHandler) createProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePropertyRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create property")
		return
	}
	c.JSON(http.StatusCreated, property)
}

func (h *propertyHandler) getProperty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	property, err := h.propertyService.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve property")
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *propertyHandler) listProperties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	properties, err := h.propertyService.ListProperties(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list properties")
		return
	}
	c.JSON(http.StatusOK, properties)
}

func (h *propertyHandler) listOwners(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	owners, err := h.propertyService.ListOwners(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list owners")
		return
	}
	c.JSON(http.StatusOK, owners)
}

func (h *propertyHandler) addOwnership(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddOwnershipRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	owner, err := h.propertyService.GetOrCreateOwner(c.Request.Context(), req.OwnerName)
	if err != nil {
		respondError(c, logger, err, "Failed to resolve owner")
		return
	}
	ownership, err := h.propertyService.AddOwnership(c.Request.Context(), c.Param("id"), owner.OwnerID)
	if err != nil {
		respondError(c, logger, err, "Failed to add ownership")
		return
	}
	c.JSON(http.StatusCreated, ownership)
}

func (h *propertyHandler) getOwnership(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownership, err := h.propertyService.GetOwnership(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve ownership")
		return
	}
	c.JSON(http.StatusOK, ownership)
}

func (h *propertyHandler) addValuation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddValuationRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	req.PropertyID = c.Param("id")

	valuation, err := h.propertyService.AddValuation(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to add valuation")
		return
	}
	c.JSON(http.StatusCreated, valuation)
}

func (h *propertyHandler) listValuations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	valuations, err := h.propertyService.ListValuations(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list valuations")
		return
	}
	c.JSON(http.StatusOK, valuations)
}

func (h *propertyHandler) createMortgage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMortgageRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	req.PropertyID = c.Param("id")

	mortgage, err := h.propertyService.CreateMortgage(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create mortgage")
		return
	}
	c.JSON(http.StatusCreated, mortgage)
}

func (h *propertyHandler) listMortgages(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	mortgages, err := h.propertyService.ListMortgages(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list mortgages")
		return
	}
	c.JSON(http.StatusOK, mortgages)
}

func (h *propertyHandler) addMortgageRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddMortgageRateRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	rate, err := h.propertyService.AddMortgageRate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to add mortgage rate")
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (h *propertyHandler) listMortgageRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.propertyService.ListMortgageRates(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list mortgage rates")
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *propertyHandler) mortgageBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	mortgageID := c.Param("id")

	balance, err := h.propertyService.GetMortgageBalance(c.Request.Context(), mortgageID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute mortgage balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mortgageID": mortgageID, "balance": dto.FormatAmount(balance)})
}

func (h *propertyHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordPaymentRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	req.MortgageID = c.Param("id")

	entryID, err := h.propertyService.RecordMortgagePayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record mortgage payment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entryID": entryID})
}

func (h *propertyHandler) transferEquity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferEquityRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	entryID, err := h.propertyService.TransferEquity(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to transfer equity")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entryID": entryID})
}

func (h *propertyHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var propertyID, ownerID *string
	if v := c.Query("propertyID"); v != "" {
		propertyID = &v
	}
	if v := c.Query("ownerID"); v != "" {
		ownerID = &v
	}

	transfers, err := h.propertyService.ListTransfers(c.Request.Context(), propertyID, ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to list transfers")
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func (h *propertyHandler) equity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	equity, err := h.equityService.CalculateEquity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to calculate equity")
		return
	}
	c.JSON(http.StatusOK, dto.ToOwnerEquityResponses(equity))
}

func (h *propertyHandler) allEquity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	all, err := h.equityService.CalculateAllEquity(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to calculate equity")
		return
	}

	response := make(map[string][]dto.OwnerEquityResponse, len(all))
	for propertyID, equity := range all {
		response[propertyID] = dto.ToOwnerEquityResponses(equity)
	}
	c.JSON(http.StatusOK, response)
}

func (h *propertyHandler) setAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetAllocationRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	req.PropertyID = c.Param("id")

	if err := h.propertyService.SetAllocationRule(c.Request.Context(), req); err != nil {
		respondError(c, logger, err, "Failed to set allocation rule")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *propertyHandler) listAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rules, err := h.propertyService.ListAllocationRules(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list allocation rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}
