package api_router

import (
	"time"

	"github.com/haierkeys/start-page-service/internal/app"
	"github.com/haierkeys/start-page-service/internal/updater"
	pkgapp "github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status      string        `json:"status"`      // "healthy" 或 "restarting"
	Version     string        `json:"version"`     // 服务版本号
	Uptime      float64       `json:"uptime"`      // 运行时间（秒）
	UpdateState updater.State `json:"updateState"` // 更新流程当前阶段
	Deployed    string        `json:"deployed"`    // 部署清单中的版本
}

// Check 健康检查接口
// 重启交接期间返回 restarting，便于负载均衡摘除旧进程
//
// @Summary Health check
// @Description Returns "restarting" while a restart handoff is in progress
// @Tags System
// @Produce json
// @Success 200 {object} pkgapp.Res{data=HealthResponse} "Success"
// @Router /api/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	state := h.App.Updater.State()
	response := HealthResponse{
		Status:      "healthy",
		Version:     h.App.Version().Version,
		Uptime:      time.Since(h.App.StartTime).Seconds(),
		UpdateState: state,
		Deployed:    h.App.Updater.CurrentVersion().Version,
	}

	if state == updater.StateRestarting || h.App.IsShuttingDown() {
		response.Status = "restarting"
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.Clone().WithData(response))
}
