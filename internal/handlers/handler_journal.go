package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/SscSPs/temple_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// RegisterJournalRoutes registers routes related to journal entries.
// Entries are never updated or deleted in place; reverse and correct post new entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
		entries.POST("/:entryID/correct", h.correctEntry)
	}
}

// createEntry godoc
// @Summary Post a journal entry
// @Description Posts a balanced double-entry voucher and links it into the temple's hash chain
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   entry body dto.CreateEntryRequest true "Entry with its lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid or unbalanced entry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Entry date falls in a closed period"
// @Failure 500 {object} map[string]string "Failed to create entry"
// @Security BearerAuth
// @Router /temples/{templeID}/entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templeID := c.Param("templeID")
	var req dto.CreateEntryRequest
	if !bindJSON(c, &req, "create entry") {
		return
	}
	creatorUserID, ok := requireUser(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("temple_id", templeID), slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create journal entry", slog.Int("line_count", len(req.Lines)), slog.String("reference_type", req.ReferenceType))

	entry, err := h.journalService.CreateEntry(c.Request.Context(), templeID, req, creatorUserID)
	if err != nil {
		respondError(c, err, "create entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entry.Entry.EntryID), slog.Int64("entry_number", entry.Entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryWithLinesResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags entries
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /temples/{templeID}/entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("templeID"), c.Param("entryID"))
	if err != nil {
		respondError(c, err, "get entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryWithLinesResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Newest first, paginated with nextToken
// @Tags entries
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Security BearerAuth
// @Router /temples/{templeID}/entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if !bindQuery(c, &params, "list entries") {
		return
	}
	resp, err := h.journalService.ListEntries(c.Request.Context(), c.Param("templeID"), params)
	if err != nil {
		respondError(c, err, "list entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Posts a mirrored entry and marks the original as reversed
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   entryID path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest true "Reversal reason and date"
// @Success 201 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed or period closed"
// @Security BearerAuth
// @Router /temples/{templeID}/entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	var req dto.ReverseEntryRequest
	if !bindJSON(c, &req, "reverse entry") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to reverse journal entry", slog.String("entry_id", entryID), slog.String("user_id", userID))
	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), c.Param("templeID"), entryID, req, userID)
	if err != nil {
		respondError(c, err, "reverse entry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversal_entry_id", reversal.Entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryWithLinesResponse(reversal))
}

// correctEntry godoc
// @Summary Correct a journal entry
// @Description Reverses the entry and posts the corrected replacement atomically
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Param   entryID path string true "Entry ID"
// @Param   correction body dto.CorrectEntryRequest true "Replacement lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid or unbalanced entry"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed or period closed"
// @Security BearerAuth
// @Router /temples/{templeID}/entries/{entryID}/correct [post]
func (h *journalHandler) correctEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	var req dto.CorrectEntryRequest
	if !bindJSON(c, &req, "correct entry") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	logger.Info("Received request to correct journal entry", slog.String("entry_id", entryID), slog.String("user_id", userID))
	corrected, err := h.journalService.CorrectEntry(c.Request.Context(), c.Param("templeID"), entryID, req, userID)
	if err != nil {
		respondError(c, err, "correct entry")
		return
	}

	logger.Info("Journal entry corrected", slog.String("entry_id", entryID), slog.String("correction_entry_id", corrected.Entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryWithLinesResponse(corrected))
}
