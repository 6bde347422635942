package api_router

import (
	"github.com/haierkeys/start-page-service/internal/app"
	pkgapp "github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionHandler version info API router handler
// VersionHandler 版本信息 API 路由处理器
type VersionHandler struct {
	*Handler
}

// NewVersionHandler creates VersionHandler instance
// NewVersionHandler 创建 VersionHandler 实例
func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{
		Handler: NewHandler(a),
	}
}

// VersionResponse server build info plus the cached result of the periodic update check
// VersionResponse 服务构建信息以及后台检查更新的缓存结果
type VersionResponse struct {
	Version        string `json:"version"`
	GitTag         string `json:"gitTag"`
	BuildTime      string `json:"buildTime"`
	Deployed       string `json:"deployed"`
	DeployedPatch  int    `json:"deployedPatch"`
	VersionIsNew   bool   `json:"versionIsNew"`
	VersionNewName string `json:"versionNewName"`
	VersionNewLink string `json:"versionNewLink"`
	PatchNew       int    `json:"patchNew"`
	FrontendOnly   bool   `json:"frontendOnly"`
}

// ServerVersion retrieves server version information
// ServerVersion 获取服务版本信息，不会触发对上游的请求
//
// @Summary Get server version
// @Description Build info, deployed manifest version and the cached result of the last update check
// @Tags System
// @Produce json
// @Success 200 {object} pkgapp.Res{data=VersionResponse} "Success"
// @Router /api/version [get]
func (h *VersionHandler) ServerVersion(c *gin.Context) {
	versionInfo := h.App.Version()
	checkInfo := h.App.CheckVersion()
	deployed := h.App.Updater.CurrentVersion()

	pkgapp.NewResponse(c).ToResponse(code.Success.Clone().WithData(VersionResponse{
		Version:        versionInfo.Version,
		GitTag:         versionInfo.GitTag,
		BuildTime:      versionInfo.BuildTime,
		Deployed:       deployed.Version,
		DeployedPatch:  deployed.Patch,
		VersionIsNew:   checkInfo.VersionIsNew,
		VersionNewName: checkInfo.VersionNewName,
		VersionNewLink: checkInfo.VersionNewLink,
		PatchNew:       checkInfo.PatchNew,
		FrontendOnly:   checkInfo.FrontendOnly,
	}))
}
