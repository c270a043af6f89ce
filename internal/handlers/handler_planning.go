package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// planningHandler handles HTTP requests for budgets, savings goals and tips.
type planningHandler struct {
	planningService portssvc.PlanningSvcFacade
}

// registerPlanningRoutes registers budget, savings goal and tip routes. Tip
// generation calls the model, so it goes on the rate-limited group.
func registerPlanningRoutes(rg, limited *gin.RouterGroup, ps portssvc.PlanningSvcFacade) {
	h := &planningHandler{planningService: ps}

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.setBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/status", h.budgetStatus)
		budgets.DELETE("/:id", h.deleteBudget)
	}

	goals := rg.Group("/savings-goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.PATCH("/:id", h.updateGoal)
		goals.DELETE("/:id", h.deleteGoal)
	}

	rg.GET("/tips", h.listTips)
	rg.PATCH("/tips/:id/dismiss", h.dismissTip)
	limited.POST("/tips/generate", h.generateTips)
}

func (h *planningHandler) setBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetBudgetRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	budget, err := h.planningService.SetBudget(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to set budget")
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *planningHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	budgets, err := h.planningService.ListBudgets(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *planningHandler) budgetStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	statuses, err := h.planningService.GetBudgetStatus(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute budget status")
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (h *planningHandler) deleteBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.planningService.DeleteBudget(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *planningHandler) createGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateGoalRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	goal, err := h.planningService.CreateGoal(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create savings goal")
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *planningHandler) listGoals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var status *domain.GoalStatus
	if s := c.Query("status"); s != "" {
		gs := domain.GoalStatus(s)
		status = &gs
	}

	goals, err := h.planningService.ListGoals(c.Request.Context(), status)
	if err != nil {
		respondError(c, logger, err, "Failed to list savings goals")
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *planningHandler) updateGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateGoalRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	goal, err := h.planningService.UpdateGoal(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update savings goal")
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *planningHandler) deleteGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.planningService.DeleteGoal(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete savings goal")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *planningHandler) listTips(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tips, err := h.planningService.ListTips(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list tips")
		return
	}
	c.JSON(http.StatusOK, tips)
}

func (h *planningHandler) dismissTip(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.planningService.DismissTip(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to dismiss tip")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *planningHandler) generateTips(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tips, err := h.planningService.GenerateTips(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to generate tips")
		return
	}
	c.JSON(http.StatusOK, tips)
}
