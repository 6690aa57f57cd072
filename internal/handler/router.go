package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vclear/resolver-service/internal/service"
)

// NewRouter 组装路由
func NewRouter(resolver *service.ResolverService, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(logger), RequestLogger(logger), CORS())

	resolveHandler := NewResolveHandler(resolver, logger)

	router.GET("/health", Health)

	api := router.Group("/api")
	{
		api.POST("/parse", resolveHandler.Resolve)
		api.POST("/validate", resolveHandler.Validate)
	}

	return router
}
