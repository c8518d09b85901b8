package api_router

import (
	"os"
	"runtime"
	"time"

	"github.com/haierkeys/microdoc-service/internal/app"
	"github.com/haierkeys/microdoc-service/internal/dto"
	pkgapp "github.com/haierkeys/microdoc-service/pkg/app"
	"github.com/haierkeys/microdoc-service/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// SystemHandler 主机状态处理器，仅挂在私有路由上
type SystemHandler struct {
	*Handler
}

// NewSystemHandler 创建 SystemHandler 实例
func NewSystemHandler(a *app.App) *SystemHandler {
	return &SystemHandler{Handler: NewHandler(a)}
}

// Info 获取主机与进程状态
// 采集失败的项保持零值
func (h *SystemHandler) Info(c *gin.Context) {
	ctx := c.Request.Context()
	data := dto.SystemDTO{Goroutines: runtime.NumGoroutine()}

	if hInfo, err := host.InfoWithContext(ctx); err == nil {
		data.Hostname = hInfo.Hostname
		data.OS = hInfo.OS
		data.Platform = hInfo.Platform
		data.KernelVersion = hInfo.KernelVersion
		data.Uptime = hInfo.Uptime
	}

	data.CPUCount, _ = cpu.CountsWithContext(ctx, true)
	if percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(percents) > 0 {
		data.CPUPercent = percents[0]
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		data.Load1 = avg.Load1
	}

	if vMem, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		data.MemTotal = vMem.Total
		data.MemUsed = vMem.Used
		data.MemPercent = vMem.UsedPercent
	}

	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfoWithContext(ctx); err == nil {
			data.ProcessRSS = info.RSS
		}
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(data))
}
