package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/SscSPs/temple_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles bank statement import and matching.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	statements := rg.Group("/statements")
	{
		statements.POST("", h.importStatement)
		statements.POST("/upload", h.uploadStatement)
		statements.GET("", h.listStatements)
		statements.GET("/:statementID", h.getStatement)
		statements.POST("/:statementID/match", h.match)
		statements.POST("/:statementID/unmatch", h.unmatch)
		statements.POST("/:statementID/auto-match", h.autoMatch)
		statements.GET("/:statementID/summary", h.summary)
		statements.POST("/:statementID/complete", h.complete)
	}
}

// importStatement godoc
// @Summary Import a bank statement
// @Description Stores the statement rows for a bank account and recomputes running balances
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   statement body dto.ImportStatementRequest true "Statement rows"
// @Success 201 {object} domain.StatementWithEntries
// @Failure 400 {object} map[string]string "Invalid statement"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /temples/{templeID}/statements [post]
func (h *reconciliationHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ImportStatementRequest
	if !bindJSON(c, &req, "import statement") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to import statement", slog.String("account_id", req.AccountID), slog.Int("row_count", len(req.Rows)))
	stmt, err := h.reconciliationService.ImportStatement(c.Request.Context(), c.Param("templeID"), req, userID)
	if err != nil {
		respondError(c, err, "import statement")
		return
	}

	logger.Info("Statement imported", slog.String("statement_id", stmt.Statement.StatementID), slog.Bool("balance_mismatch", stmt.Statement.BalanceMismatch))
	c.JSON(http.StatusCreated, stmt)
}

// uploadStatement godoc
// @Summary Upload a bank statement file
// @Description Parses a CSV export in the given format and imports its rows
// @Tags reconciliation
// @Accept  multipart/form-data
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   file formData file true "Statement file"
// @Param   accountID formData string true "Bank account ID"
// @Param   format formData string false "Parser name" default(generic)
// @Param   periodStart formData string true "YYYY-MM-DD"
// @Param   periodEnd formData string true "YYYY-MM-DD"
// @Param   openingBalance formData string false "Opening balance"
// @Param   closingBalance formData string false "Closing balance"
// @Success 201 {object} domain.StatementWithEntries
// @Failure 400 {object} map[string]string "Invalid file or form"
// @Security BearerAuth
// @Router /temples/{templeID}/statements/upload [post]
func (h *reconciliationHandler) uploadStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ImportStatementFileRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Failed to bind statement upload form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Statement upload without file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A statement file is required"})
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err, "read statement file")
		return
	}
	defer file.Close()

	logger.Info("Received statement file", slog.String("filename", fileHeader.Filename), slog.Int64("size", fileHeader.Size), slog.String("format", req.Format))
	stmt, err := h.reconciliationService.ImportStatementFile(c.Request.Context(), c.Param("templeID"), req, file, userID)
	if err != nil {
		respondError(c, err, "import statement")
		return
	}
	c.JSON(http.StatusCreated, stmt)
}

// listStatements godoc
// @Summary List imported statements
// @Tags reconciliation
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   accountID query string false "Restrict to one bank account"
// @Success 200 {object} dto.ListStatementsResponse
// @Security BearerAuth
// @Router /temples/{templeID}/statements [get]
func (h *reconciliationHandler) listStatements(c *gin.Context) {
	statements, err := h.reconciliationService.ListStatements(c.Request.Context(), c.Param("templeID"), c.Query("accountID"))
	if err != nil {
		respondError(c, err, "list statements")
		return
	}
	c.JSON(http.StatusOK, dto.ListStatementsResponse{Statements: statements})
}

// getStatement godoc
// @Summary Get a statement with its rows
// @Tags reconciliation
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   statementID path string true "Statement ID"
// @Success 200 {object} domain.StatementWithEntries
// @Failure 404 {object} map[string]string "Statement not found"
// @Security BearerAuth
// @Router /temples/{templeID}/statements/{statementID} [get]
func (h *reconciliationHandler) getStatement(c *gin.Context) {
	stmt, err := h.reconciliationService.GetStatement(c.Request.Context(), c.Param("templeID"), c.Param("statementID"))
	if err != nil {
		respondError(c, err, "get statement")
		return
	}
	c.JSON(http.StatusOK, stmt)
}

// match godoc
// @Summary Match a statement row to a journal line
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   statementID path string true "Statement ID"
// @Param   match body dto.MatchRequest true "Row and line"
// @Success 200 {object} domain.StatementEntry
// @Failure 409 {object} map[string]string "Already matched or amounts differ"
// @Security BearerAuth
// @Router /temples/{templeID}/statements/{statementID}/match [post]
func (h *reconciliationHandler) match(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MatchRequest
	if !bindJSON(c, &req, "match statement entry") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entry, err := h.reconciliationService.Match(c.Request.Context(), c.Param("templeID"), c.Param("statementID"), req, userID)
	if err != nil {
		respondError(c, err, "match statement entry")
		return
	}

	logger.Info("Statement entry matched", slog.String("statement_entry_id", req.StatementEntryID), slog.String("line_id", req.LineID))
	c.JSON(http.StatusOK, entry)
}

// unmatch godoc
// @Summary Clear a match
// @Tags reconciliation
// @Accept  json
// @Param   templeID path string true "Temple ID"
// @Param   statementID path string true "Statement ID"
// @Param   unmatch body dto.UnmatchRequest true "Row to clear"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Statement already completed"
// @Security BearerAuth
// @Router /temples/{templeID}/statements/{statementID}/unmatch [post]
func (h *reconciliationHandler) unmatch(c *gin.Context) {
	var req dto.UnmatchRequest
	if !bindJSON(c, &req, "unmatch statement entry") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.reconciliationService.Unmatch(c.Request.Context(), c.Param("templeID"), c.Param("statementID"), req.StatementEntryID, userID); err != nil {
		respondError(c, err, "unmatch statement entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// autoMatch godoc
// @Summary Auto-match a statement
// @Description Pairs unmatched rows with unreconciled lines of equal amount and side inside the date window
// @Tags reconciliation
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   statementID path string true "Statement ID"
// @Success 200 {object} dto.AutoMatchResponse
// @Security BearerAuth
// @Router /temples/{templeID}/statements/{statementID}/auto-match [post]
func (h *reconciliationHandler) autoMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	statementID := c.Param("statementID")
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	matched, err := h.reconciliationService.AutoMatch(c.Request.Context(), c.Param("templeID"), statementID, userID)
	if err != nil {
		respondError(c, err, "auto-match statement")
		return
	}
	logger.Info("Auto-match finished", slog.String("statement_id", statementID), slog.Int("matched", matched))
	c.JSON(http.StatusOK, dto.AutoMatchResponse{StatementID: statementID, Matched: matched})
}

// summary godoc
// @Summary Reconciliation summary
// @Description Book balance against bank balance with the reconciling items
// @Tags reconciliation
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   statementID path string true "Statement ID"
// @Success 200 {object} domain.ReconciliationSummary
// @Security BearerAuth
// @Router /temples/{templeID}/statements/{statementID}/summary [get]
func (h *reconciliationHandler) summary(c *gin.Context) {
	sum, err := h.reconciliationService.Summary(c.Request.Context(), c.Param("templeID"), c.Param("statementID"))
	if err != nil {
		respondError(c, err, "summarize reconciliation")
		return
	}
	c.JSON(http.StatusOK, sum)
}

// complete godoc
// @Summary Complete a reconciliation
// @Tags reconciliation
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   statementID path string true "Statement ID"
// @Success 200 {object} domain.ReconciliationSummary
// @Failure 409 {object} map[string]string "Difference is outside the tolerance"
// @Security BearerAuth
// @Router /temples/{templeID}/statements/{statementID}/complete [post]
func (h *reconciliationHandler) complete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sum, err := h.reconciliationService.Complete(c.Request.Context(), c.Param("templeID"), c.Param("statementID"), userID)
	if err != nil {
		respondError(c, err, "complete reconciliation")
		return
	}
	logger.Info("Reconciliation completed", slog.String("statement_id", sum.StatementID))
	c.JSON(http.StatusOK, sum)
}
