package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/service"
)

// ResolveRequest 解析请求体
type ResolveRequest struct {
	URL       string `json:"url" binding:"required"`
	SkipCache bool   `json:"skip_cache"`
}

// ResolveHandler 解析接口处理器
type ResolveHandler struct {
	resolver *service.ResolverService
	logger   *zap.Logger
}

// NewResolveHandler 创建解析处理器
func NewResolveHandler(resolver *service.ResolverService, logger *zap.Logger) *ResolveHandler {
	return &ResolveHandler{
		resolver: resolver,
		logger:   logger,
	}
}

// Resolve 解析分享链接
// 成功返回200, 解析失败返回400, body始终是 ParseResult 形态
func (h *ResolveHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ParseResult{
			Success: false,
			Message: "invalid request: " + err.Error(),
		})
		return
	}

	result := h.resolver.Resolve(c.Request.Context(), req.URL, req.SkipCache)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// Validate 只校验链接, 不触发解析
func (h *ResolveHandler) Validate(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "invalid request: " + err.Error()})
		return
	}

	valid, platform, message := h.resolver.ValidateURL(req.URL)
	c.JSON(http.StatusOK, gin.H{
		"valid":    valid,
		"platform": platform,
		"message":  message,
	})
}

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
