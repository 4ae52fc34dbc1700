package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the read-only report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/ledger/:accountID", h.getAccountLedger)
		reports.GET("/day-book", h.getDayBook)
		reports.GET("/cash-book", h.getCashBook)
		reports.GET("/bank-book", h.getBankBook)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
	}
}

// asOf binds and resolves the asOf query parameter.
func asOf(c *gin.Context, action string) (dto.AsOfParams, bool) {
	var params dto.AsOfParams
	if !bindQuery(c, &params, action) {
		return params, false
	}
	return params, true
}

// getTrialBalance godoc
// @Summary Trial balance
// @Description Net balance of every account as of a date. Imbalance is reported, not rejected.
// @Tags reports
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   asOf query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} map[string]string "Invalid date"
// @Security BearerAuth
// @Router /temples/{templeID}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	params, ok := asOf(c, "get trial balance")
	if !ok {
		return
	}
	date, err := params.ParseAsOf(today())
	if err != nil {
		respondError(c, err, "get trial balance")
		return
	}
	tb, err := h.reportingService.GetTrialBalance(c.Request.Context(), c.Param("templeID"), date)
	if err != nil {
		respondError(c, err, "get trial balance")
		return
	}
	c.JSON(http.StatusOK, tb)
}

// getAccountLedger godoc
// @Summary Account ledger
// @Tags reports
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   accountID path string true "Account ID"
// @Param   from query string false "YYYY-MM-DD, defaults to the first of the month"
// @Param   to query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} domain.AccountLedger
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /temples/{templeID}/reports/ledger/{accountID} [get]
func (h *reportingHandler) getAccountLedger(c *gin.Context) {
	from, to, ok := dateRange(c, "get account ledger")
	if !ok {
		return
	}
	ledger, err := h.reportingService.GetAccountLedger(c.Request.Context(), c.Param("templeID"), c.Param("accountID"), from, to)
	if err != nil {
		respondError(c, err, "get account ledger")
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// getDayBook godoc
// @Summary Day book
// @Tags reports
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   from query string false "YYYY-MM-DD"
// @Param   to query string false "YYYY-MM-DD"
// @Success 200 {object} domain.DayBook
// @Security BearerAuth
// @Router /temples/{templeID}/reports/day-book [get]
func (h *reportingHandler) getDayBook(c *gin.Context) {
	from, to, ok := dateRange(c, "get day book")
	if !ok {
		return
	}
	book, err := h.reportingService.GetDayBook(c.Request.Context(), c.Param("templeID"), from, to)
	if err != nil {
		respondError(c, err, "get day book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// getCashBook godoc
// @Summary Cash book
// @Tags reports
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   from query string false "YYYY-MM-DD"
// @Param   to query string false "YYYY-MM-DD"
// @Success 200 {object} domain.CashBook
// @Security BearerAuth
// @Router /temples/{templeID}/reports/cash-book [get]
func (h *reportingHandler) getCashBook(c *gin.Context) {
	from, to, ok := dateRange(c, "get cash book")
	if !ok {
		return
	}
	book, err := h.reportingService.GetCashBook(c.Request.Context(), c.Param("templeID"), from, to)
	if err != nil {
		respondError(c, err, "get cash book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// getBankBook godoc
// @Summary Bank book
// @Description All bank accounts, or one when accountID is given
// @Tags reports
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   accountID query string false "Bank account ID"
// @Param   from query string false "YYYY-MM-DD"
// @Param   to query string false "YYYY-MM-DD"
// @Success 200 {object} domain.CashBook
// @Security BearerAuth
// @Router /temples/{templeID}/reports/bank-book [get]
func (h *reportingHandler) getBankBook(c *gin.Context) {
	var params dto.RangeParams
	if !bindQuery(c, &params, "get bank book") {
		return
	}
	from, to, err := params.ParseRange(today())
	if err != nil {
		respondError(c, err, "get bank book")
		return
	}
	book, err := h.reportingService.GetBankBook(c.Request.Context(), c.Param("templeID"), params.AccountID, from, to)
	if err != nil {
		respondError(c, err, "get bank book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// getBalanceSheet godoc
// @Summary Balance sheet
// @Tags reports
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   asOf query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} domain.BalanceSheet
// @Security BearerAuth
// @Router /temples/{templeID}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	params, ok := asOf(c, "get balance sheet")
	if !ok {
		return
	}
	date, err := params.ParseAsOf(today())
	if err != nil {
		respondError(c, err, "get balance sheet")
		return
	}
	bs, err := h.reportingService.GetBalanceSheet(c.Request.Context(), c.Param("templeID"), date)
	if err != nil {
		respondError(c, err, "get balance sheet")
		return
	}
	c.JSON(http.StatusOK, bs)
}

// getProfitAndLoss godoc
// @Summary Income and expenditure statement
// @Tags reports
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   from query string false "YYYY-MM-DD"
// @Param   to query string false "YYYY-MM-DD"
// @Success 200 {object} domain.ProfitAndLoss
// @Security BearerAuth
// @Router /temples/{templeID}/reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	from, to, ok := dateRange(c, "get profit and loss")
	if !ok {
		return
	}
	pl, err := h.reportingService.GetProfitAndLoss(c.Request.Context(), c.Param("templeID"), from, to)
	if err != nil {
		respondError(c, err, "get profit and loss")
		return
	}
	c.JSON(http.StatusOK, pl)
}

// dateRange binds and resolves the from/to query parameters.
func dateRange(c *gin.Context, action string) (time.Time, time.Time, bool) {
	var params dto.RangeParams
	if !bindQuery(c, &params, action) {
		return time.Time{}, time.Time{}, false
	}
	from, to, err := params.ParseRange(today())
	if err != nil {
		respondError(c, err, action)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
