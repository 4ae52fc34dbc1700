package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type integrityHandler struct {
	integrityService portssvc.IntegritySvcFacade
}

func newIntegrityHandler(is portssvc.IntegritySvcFacade) *integrityHandler {
	return &integrityHandler{integrityService: is}
}

func registerIntegrityRoutes(rg *gin.RouterGroup, integrityService portssvc.IntegritySvcFacade) {
	h := newIntegrityHandler(integrityService)

	integrity := rg.Group("/integrity")
	{
		integrity.GET("/verify", h.verifyChain)
		integrity.GET("/verify-audit", h.verifyAuditMirror)
	}
}

// verifyChain godoc
// @Summary Verify the hash chain
// @Description Recomputes every entry hash in chain order. A break is reported in the body, not as an error status.
// @Tags integrity
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Success 200 {object} dto.ChainVerificationResponse
// @Security BearerAuth
// @Router /temples/{templeID}/integrity/verify [get]
func (h *integrityHandler) verifyChain(c *gin.Context) {
	res, err := h.integrityService.VerifyChain(c.Request.Context(), c.Param("templeID"))
	if err != nil {
		respondError(c, err, "verify chain")
		return
	}
	if !res.Valid {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Hash chain verification failed",
			slog.String("temple_id", res.TempleID), slog.Int("entries_checked", res.EntriesChecked))
	}
	c.JSON(http.StatusOK, res)
}

// verifyAuditMirror godoc
// @Summary Verify the audit mirror
// @Description Compares the audit log copy of each entry hash against the ledger
// @Tags integrity
// @Produce  json
// @Param   templeID path string true "Temple ID"
// @Success 200 {object} dto.ChainVerificationResponse
// @Security BearerAuth
// @Router /temples/{templeID}/integrity/verify-audit [get]
func (h *integrityHandler) verifyAuditMirror(c *gin.Context) {
	res, err := h.integrityService.VerifyAuditMirror(c.Request.Context(), c.Param("templeID"))
	if err != nil {
		respondError(c, err, "verify audit mirror")
		return
	}
	c.JSON(http.StatusOK, res)
}
