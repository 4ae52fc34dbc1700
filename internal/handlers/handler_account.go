package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/SscSPs/temple_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers account routes under a temple-scoped group.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	registerValidators()
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/hierarchy", h.getHierarchy)
		accounts.POST("/seed", h.seedDefaultChart)
		accounts.GET("/by-code/:code", h.getAccountByCode)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/has-transactions", h.hasTransactions)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.POST("/:accountID/deactivate", h.deactivateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the temple's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Duplicate account code"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /temples/{templeID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templeID := c.Param("templeID")
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req, "create account") {
		return
	}
	creatorUserID, ok := requireUser(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("temple_id", templeID), slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("account_type", string(req.AccountType)))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), templeID, req, creatorUserID)
	if err != nil {
		respondError(c, err, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /temples/{templeID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("templeID"), c.Param("accountID"))
	if err != nil {
		respondError(c, err, "get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByCode godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /temples/{templeID}/accounts/by-code/{code} [get]
func (h *accountHandler) getAccountByCode(c *gin.Context) {
	account, err := h.accountService.GetAccountByCode(c.Request.Context(), c.Param("templeID"), c.Param("code"))
	if err != nil {
		respondError(c, err, "get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Description Flat list ordered by code
// @Tags accounts
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /temples/{templeID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("templeID"))
	if err != nil {
		respondError(c, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getHierarchy godoc
// @Summary Get the account hierarchy
// @Description Nested chart of accounts, siblings ordered by code
// @Tags accounts
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Success 200 {array} dto.AccountTreeResponse
// @Security BearerAuth
// @Router /temples/{templeID}/accounts/hierarchy [get]
func (h *accountHandler) getHierarchy(c *gin.Context) {
	tree, err := h.accountService.GetHierarchy(c.Request.Context(), c.Param("templeID"))
	if err != nil {
		respondError(c, err, "get account hierarchy")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountTreeResponse(tree))
}

// hasTransactions godoc
// @Summary Check whether an account has been used
// @Tags accounts
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.HasTransactionsResponse
// @Security BearerAuth
// @Router /temples/{templeID}/accounts/{accountID}/has-transactions [get]
func (h *accountHandler) hasTransactions(c *gin.Context) {
	accountID := c.Param("accountID")
	used, err := h.accountService.HasTransactions(c.Request.Context(), c.Param("templeID"), accountID)
	if err != nil {
		respondError(c, err, "check account usage")
		return
	}
	c.JSON(http.StatusOK, dto.HasTransactionsResponse{AccountID: accountID, HasTransactions: used})
}

// updateAccount godoc
// @Summary Update an account
// @Description Code and type can only change while no line references the account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   accountID path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account already used"
// @Security BearerAuth
// @Router /temples/{templeID}/accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req, "update account") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	updated, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("templeID"), accountID, req, userID)
	if err != nil {
		respondError(c, err, "update account")
		return
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Tags accounts
// @Param   templeID path string true "Temple ID"
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /temples/{templeID}/accounts/{accountID}/deactivate [post]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.accountService.DeactivateAccount(c.Request.Context(), c.Param("templeID"), c.Param("accountID"), userID); err != nil {
		respondError(c, err, "deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteAccount godoc
// @Summary Delete an unused account
// @Tags accounts
// @Param   templeID path string true "Temple ID"
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account has transactions"
// @Security BearerAuth
// @Router /temples/{templeID}/accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("templeID"), c.Param("accountID"), userID); err != nil {
		respondError(c, err, "delete account")
		return
	}
	c.Status(http.StatusNoContent)
}

// seedDefaultChart godoc
// @Summary Install the default chart of accounts
// @Description Existing codes are left untouched
// @Tags accounts
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Success 201 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /temples/{templeID}/accounts/seed [post]
func (h *accountHandler) seedDefaultChart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	created, err := h.accountService.SeedDefaultChart(c.Request.Context(), c.Param("templeID"), userID)
	if err != nil {
		respondError(c, err, "seed chart of accounts")
		return
	}
	c.JSON(http.StatusCreated, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(created)})
}
