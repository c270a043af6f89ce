package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	reportingService portssvc.ReportingSvcFacade
	ledgerService    portssvc.LedgerSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade, rs portssvc.ReportingSvcFacade, ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{accountService: as, reportingService: rs, ledgerService: ls}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade, rs portssvc.ReportingSvcFacade, ls portssvc.LedgerSvcFacade) {
	h := newAccountHandler(as, rs, ls)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/balances", h.listBalances)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getBalance)
		accounts.GET("/:id/postings", h.listPostings)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var (
		accounts []domain.Account
		err      error
	)
	if accountType := c.Query("type"); accountType != "" {
		accounts, err = h.accountService.ListAccountsByType(c.Request.Context(), domain.AccountType(accountType))
	} else {
		accounts, err = h.accountService.ListAccounts(c.Request.Context())
	}
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	responses := make([]dto.AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = dto.ToAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	balance, err := h.reportingService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accountID": accountID, "balance": dto.FormatAmount(balance)})
}

func (h *accountHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	balances, err := h.reportingService.GetBalances(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponses(balances))
}

func (h *accountHandler) listPostings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	postings, next, err := h.ledgerService.ListPostingsByAccount(c.Request.Context(), c.Param("id"), limit, nextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list postings")
		return
	}
	c.JSON(http.StatusOK, dto.ListPostingsResponse{Postings: postings, NextToken: next})
}
