package api_router

import (
	"time"

	"github.com/haierkeys/microdoc-service/internal/app"
	"github.com/haierkeys/microdoc-service/internal/dto"
	pkgapp "github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态，包括数据库连接
// @Tags 系统
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.HealthDTO}
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	health := dto.HealthDTO{
		Status:   "ok",
		Database: "ok",
		Uptime:   h.App.Uptime().Round(time.Second).String(),
	}

	if wq := h.App.WriteQueue(); wq != nil {
		m := wq.GetMetrics()
		health.WriteQueue = &dto.WriteQueueDTO{
			Capacity: m.QueueCapacity,
			Pending:  m.Pending,
			Executed: m.Executed,
			Failed:   m.Failed,
			Skipped:  m.Skipped,
			Closed:   m.IsClosed,
		}
	}

	if h.App.IsShuttingDown() {
		health.Status = "stopping"
		pkgapp.NewResponse(c).ToResponse(code.ErrorServiceStopping.WithData(health))
		return
	}

	// 检查数据库连接
	if err := h.App.Ping(c.Request.Context()); err != nil {
		h.App.Logger().Warn("health check: database ping failed", zap.Error(err))
		health.Status = "degraded"
		health.Database = err.Error()
		pkgapp.NewResponse(c).ToResponse(code.ErrorServerInternal.WithData(health))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(health))
}
