package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "geoaddr/docs"
	"geoaddr/internal/config"
	"geoaddr/internal/handler"
	"geoaddr/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log *zap.Logger,
	extractH *handler.ExtractHandler,
	channelH *handler.ChannelMessageHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Extraction
	v1.POST("/extract", extractH.Extract)
	v1.POST("/extract/batch", extractH.Batch)
	v1.GET("/backends", extractH.Backends)

	// Map points
	v1.GET("/points", channelH.Points)

	// Channel messages - webhook secret required
	channels := v1.Group("/channel-messages")
	channels.Use(middleware.WebhookSecret(cfg.Webhook.Secret))
	channels.POST("", channelH.Ingest)
	channels.GET("", channelH.List)
	channels.POST("/reprocess", channelH.Reprocess)

	return r
}
