package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/SscSPs/temple_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: ps}
}

func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.POST("/close-month", h.closeMonth)
		periods.POST("/close-year", h.closeYear)
		periods.GET("/closings", h.listClosings)
	}
}

// closeMonth godoc
// @Summary Close a month
// @Description Locks the month against further postings and records its income and expenditure
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   closing body dto.CloseMonthRequest true "Last day of the month"
// @Success 201 {object} domain.PeriodClosing
// @Failure 400 {object} map[string]string "Not a month end, or month not over"
// @Failure 409 {object} map[string]string "Month already closed"
// @Security BearerAuth
// @Router /temples/{templeID}/periods/close-month [post]
func (h *periodHandler) closeMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CloseMonthRequest
	if !bindJSON(c, &req, "close month") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	closing, err := h.periodService.CloseMonth(c.Request.Context(), c.Param("templeID"), req, userID)
	if err != nil {
		respondError(c, err, "close month")
		return
	}

	logger.Info("Month closed", slog.String("closing_id", closing.ClosingID), slog.Time("closing_date", closing.ClosingDate))
	c.JSON(http.StatusCreated, closing)
}

// closeYear godoc
// @Summary Close a fiscal year
// @Description Requires every month of the year to be closed. Transfers the surplus or deficit to the fund account.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   closing body dto.CloseYearRequest true "Fiscal year"
// @Success 201 {object} domain.PeriodClosing
// @Failure 409 {object} map[string]string "Months still open, or year already closed"
// @Security BearerAuth
// @Router /temples/{templeID}/periods/close-year [post]
func (h *periodHandler) closeYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CloseYearRequest
	if !bindJSON(c, &req, "close year") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	closing, err := h.periodService.CloseYear(c.Request.Context(), c.Param("templeID"), req, userID)
	if err != nil {
		respondError(c, err, "close year")
		return
	}

	logger.Info("Fiscal year closed", slog.Int("fiscal_year", closing.FiscalYear), slog.String("closing_entry_id", closing.ClosingEntryID))
	c.JSON(http.StatusCreated, closing)
}

// listClosings godoc
// @Summary List period closings
// @Tags periods
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   fiscalYear query int false "Fiscal year, all when omitted"
// @Success 200 {object} dto.ListClosingsResponse
// @Security BearerAuth
// @Router /temples/{templeID}/periods/closings [get]
func (h *periodHandler) listClosings(c *gin.Context) {
	var params dto.ListClosingsParams
	if !bindQuery(c, &params, "list closings") {
		return
	}
	closings, err := h.periodService.ListClosings(c.Request.Context(), c.Param("templeID"), params.FiscalYear)
	if err != nil {
		respondError(c, err, "list closings")
		return
	}
	c.JSON(http.StatusOK, dto.ListClosingsResponse{Closings: closings})
}
