package handlers

import (
	"time"

	"github.com/SscSPs/erp_lite/cmd/docs"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/middleware"
	"github.com/SscSPs/erp_lite/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/", getHome)
	r.GET("/health", getHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterAPIRoutes(v1, services, cfg.Location)

	setupSwaggerRoutes(r, cfg)
}

// RegisterAPIRoutes delegates route registration to the entity handlers. The group is expected
// to carry the authentication middleware.
func RegisterAPIRoutes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer, location *time.Location) {
	registerUserRoutes(v1, services.User)
	registerClientRoutes(v1, services.Client, services.Quote, services.Invoice)
	registerQuoteRoutes(v1, services.Quote, services.Conversion)
	registerInvoiceRoutes(v1, services.Invoice)
	registerDashboardRoutes(v1, services.Reporting, location)
	registerAdminRoutes(v1, services.Sweeper)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
