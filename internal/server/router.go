package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/featurestore-backend/internal/handlers"
)

type RouterConfig struct {
	ServiceName     string
	AllowedOrigins  []string
	RawTableHandler *handlers.RawTableHandler
	FeatureHandler  *handlers.FeatureHandler
	VectorHandler   *handlers.VectorHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Raw tables + ingestion
		api.POST("/raw-tables", cfg.RawTableHandler.Register)
		api.GET("/raw-tables", cfg.RawTableHandler.List)
		api.GET("/raw-tables/:id", cfg.RawTableHandler.Get)
		api.POST("/ingest", cfg.RawTableHandler.Ingest)

		// Features + versions
		api.POST("/features", cfg.FeatureHandler.Create)
		api.GET("/features", cfg.FeatureHandler.List)
		api.GET("/features/:id", cfg.FeatureHandler.Get)
		api.POST("/features/:id/versions", cfg.FeatureHandler.CreateVersion)
		api.GET("/features/:id/versions", cfg.FeatureHandler.ListVersions)
		api.POST("/features/:id/versions/:version_id/activate", cfg.FeatureHandler.ActivateVersion)
		api.POST("/features/:id/versions/:version_id/deprecate", cfg.FeatureHandler.DeprecateVersion)
		api.POST("/features/:id/compute", cfg.FeatureHandler.Compute)

		// Serving
		api.GET("/feature-vectors", cfg.VectorHandler.Get)
	}

	return router
}
