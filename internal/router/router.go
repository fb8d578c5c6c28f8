package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "propintel/docs" // swagger docs registration

	"propintel/internal/config"
	"propintel/internal/handler"
	"propintel/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	batchH *handler.BatchHandler,
	extractH *handler.ExtractHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics())

	// Health checks and operational endpoints
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Batch routes
	batches := v1.Group("/batches")
	batches.POST("", batchH.Submit)
	batches.GET("", batchH.List)
	batches.GET("/:id", batchH.GetByID)
	batches.DELETE("/:id", batchH.Delete)
	batches.GET("/:id/export", batchH.Export)

	// Synchronous single-document extraction
	v1.POST("/extract", extractH.Extract)

	return r
}
