package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
	"github.com/hearthfin/hearth_backend/internal/platform/bankfile"
)

// importHandler handles bank statement import requests.
type importHandler struct {
	importService portssvc.ImportSvcFacade
	bankConfigs   *bankfile.Registry
}

// registerImportRoutes registers the import pipeline routes.
func registerImportRoutes(rg *gin.RouterGroup, is portssvc.ImportSvcFacade, bankConfigs *bankfile.Registry) {
	h := &importHandler{importService: is, bankConfigs: bankConfigs}

	imports := rg.Group("/import")
	{
		imports.GET("/configs", h.listConfigs)
		imports.POST("/preview", h.preview)
		imports.POST("/execute", h.execute)
	}
}

func (h *importHandler) listConfigs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"configs": h.bankConfigs.Names()})
}

func (h *importHandler) preview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PreviewImportRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	txns, err := h.importService.PreviewImport(c.Request.Context(), req.CSVContent, req.BankConfig, req.AccountName)
	if err != nil {
		respondError(c, logger, err, "Failed to preview import")
		return
	}
	c.JSON(http.StatusOK, dto.PreviewImportResponse{Transactions: txns})
}

func (h *importHandler) execute(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ExecuteImportRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	result, err := h.importService.ExecuteImport(c.Request.Context(), req.CSVContent, req.BankConfig, req.AccountName, req.Filename)
	if err != nil {
		respondError(c, logger, err, "Failed to execute import")
		return
	}
	c.JSON(http.StatusOK, result)
}
