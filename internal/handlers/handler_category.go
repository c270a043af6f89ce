package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// categoryHandler handles HTTP requests related to categories and rules.
type categoryHandler struct {
	categoryService    portssvc.CategorySvcFacade
	categorizerService portssvc.CategorizerSvcFacade
}

func newCategoryHandler(cs portssvc.CategorySvcFacade, czs portssvc.CategorizerSvcFacade) *categoryHandler {
	return &categoryHandler{categoryService: cs, categorizerService: czs}
}

// registerCategoryRoutes registers routes related to categories and
// categorization rules.
func registerCategoryRoutes(rg *gin.RouterGroup, cs portssvc.CategorySvcFacade, czs portssvc.CategorizerSvcFacade) {
	h := newCategoryHandler(cs, czs)

	categories := rg.Group("/categories")
	{
		categories.POST("", h.createCategory)
		categories.GET("", h.listCategories)
		categories.POST("/rules", h.addRule)
		categories.GET("/rules", h.listRules)
		categories.POST("/auto-categorize", h.autoCategorize)
	}
}

func (h *categoryHandler) createCategory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCategoryRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *categoryHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *categoryHandler) addRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRuleRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	rule, err := h.categoryService.AddRule(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create rule")
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *categoryHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rules, err := h.categoryService.ListRules(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *categoryHandler) autoCategorize(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.categorizerService.AutoCategorize(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to auto-categorize")
		return
	}
	c.JSON(http.StatusOK, result)
}
