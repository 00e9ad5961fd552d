package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lecternhq/lectern/internal/api/middleware"
	"github.com/lecternhq/lectern/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	queryService *service.QueryService,
	ingestService *service.IngestService,
	catalogService *service.CatalogService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Course materials API (API key optional; "" disables auth)
	handler := NewHandler(queryService, ingestService, catalogService)
	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.Auth(cfg.APIKey))
	handler.RegisterRoutes(apiGroup)

	return r
}
