package handlers

import (
	"net/http"

	"github.com/SscSPs/temple_ledger/cmd/docs"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/middleware"
	"github.com/SscSPs/temple_ledger/internal/platform/config"
	"github.com/SscSPs/temple_ledger/internal/platform/metrics"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes registers all API routes on the engine.
// Every temple-scoped route lives under /api/v1/temples/:templeID and requires a bearer token.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", metrics.Handler())

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	registerTempleRoutes(v1, services.Temple)

	temple := v1.Group("/temples/:templeID")
	{
		RegisterAccountRoutes(temple, services.Account)
		RegisterJournalRoutes(temple, services.Journal)
		registerReportingRoutes(temple, services.Reporting)
		registerReconciliationRoutes(temple, services.Reconciliation)
		registerPeriodRoutes(temple, services.Period)
		registerIntegrityRoutes(temple, services.Integrity)
	}

	setupSwaggerRoutes(r, cfg)
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
