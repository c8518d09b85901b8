// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"

	"github.com/haierkeys/microdoc-service/internal/app"
	"github.com/haierkeys/microdoc-service/internal/middleware"
	"github.com/haierkeys/microdoc-service/internal/service"
	"github.com/haierkeys/microdoc-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError 记录错误日志，包含 Trace ID
func (h *Handler) logError(ctx context.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
	)
}

// credential 读取 NoteCredential 中间件提取的凭证
func credential(c *gin.Context) service.Credential {
	secret, token := middleware.GetNoteCredential(c)
	return service.Credential{Secret: secret, Token: token}
}
