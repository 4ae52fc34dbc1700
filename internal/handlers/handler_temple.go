package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/dto"
	"github.com/SscSPs/temple_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// templeHandler handles HTTP requests related to temples.
type templeHandler struct {
	templeService portssvc.TempleSvcFacade
}

func newTempleHandler(ts portssvc.TempleSvcFacade) *templeHandler {
	return &templeHandler{templeService: ts}
}

// registerTempleRoutes registers the top level temple routes.
func registerTempleRoutes(rg *gin.RouterGroup, templeService portssvc.TempleSvcFacade) {
	h := newTempleHandler(templeService)

	temples := rg.Group("/temples")
	{
		temples.POST("", h.createTemple)
		temples.GET("", h.listTemples)
		temples.GET("/:templeID", h.getTemple)
	}
}

// createTemple godoc
// @Summary Register a temple
// @Description Creates a temple (tenant) and optionally seeds the default chart of accounts
// @Tags temples
// @Accept  json
// @Produce  json
// @Param   temple body dto.CreateTempleRequest true "Temple details"
// @Success 201 {object} dto.TempleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create temple"
// @Security BearerAuth
// @Router /temples [post]
func (h *templeHandler) createTemple(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTempleRequest
	if !bindJSON(c, &req, "create temple") {
		return
	}
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	temple, err := h.templeService.CreateTemple(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create temple")
		return
	}

	logger.Info("Temple created", slog.String("temple_id", temple.TempleID), slog.Bool("seeded", req.SeedDefaultChart))
	c.JSON(http.StatusCreated, dto.ToTempleResponse(temple))
}

// listTemples godoc
// @Summary List temples
// @Tags temples
// @Produce  json
// @Success 200 {object} dto.ListTemplesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /temples [get]
func (h *templeHandler) listTemples(c *gin.Context) {
	temples, err := h.templeService.ListTemples(c.Request.Context())
	if err != nil {
		respondError(c, err, "list temples")
		return
	}
	resp := dto.ListTemplesResponse{Temples: make([]dto.TempleResponse, len(temples))}
	for i := range temples {
		resp.Temples[i] = dto.ToTempleResponse(&temples[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getTemple godoc
// @Summary Get a temple
// @Tags temples
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Success 200 {object} dto.TempleResponse
// @Failure 404 {object} map[string]string "Temple not found"
// @Security BearerAuth
// @Router /temples/{templeID} [get]
func (h *templeHandler) getTemple(c *gin.Context) {
	temple, err := h.templeService.GetTempleByID(c.Request.Context(), c.Param("templeID"))
	if err != nil {
		respondError(c, err, "get temple")
		return
	}
	c.JSON(http.StatusOK, dto.ToTempleResponse(temple))
}
