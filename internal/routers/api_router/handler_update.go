package api_router

import (
	"context"
	"errors"

	"github.com/haierkeys/start-page-service/internal/app"
	"github.com/haierkeys/start-page-service/internal/updater"
	pkgapp "github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// UpdateHandler self-update API router handler
// UpdateHandler 自更新 API 路由处理器
// Operations run detached from the request context; a client disconnect does not abort them
// 操作与请求 context 解绑，客户端断开不会中止正在进行的更新
type UpdateHandler struct {
	*Handler
}

// NewUpdateHandler creates UpdateHandler instance
// NewUpdateHandler 创建 UpdateHandler 实例
func NewUpdateHandler(a *app.App) *UpdateHandler {
	return &UpdateHandler{
		Handler: NewHandler(a),
	}
}

// FullUpdateRequest body of the full update request, absent fields default to false
// FullUpdateRequest 完整更新请求体，缺省字段为 false
type FullUpdateRequest struct {
	NeedsDeps    bool `json:"needsDeps" form:"needsDeps"`
	NeedsRestart bool `json:"needsRestart" form:"needsRestart"`
}

// PullResponse raw output of the source synchronization
// PullResponse 源码同步的原始输出
type PullResponse struct {
	Output string `json:"output"`
}

// Check compares the deployed version with the latest release
// Check 对比当前部署版本与最新发布版本
//
// @Summary Check for updates
// @Description Compare the deployed version with the latest upstream release and classify the changes. Does not modify the deployment.
// @Tags Update
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=updater.UpdatePlan} "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/update/check [get]
func (h *UpdateHandler) Check(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	done := h.App.TrackOperation()
	defer done()

	plan, err := h.App.Updater.Check(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.App.Logger().Error("apiRouter.Update.Check err", zap.Error(err))
		response.ToResponse(code.ErrorUpdateCheck.Clone().WithDetails(err.Error()))
		return
	}

	// 手动检查的结果同样刷新 /api/version 的缓存
	h.App.SetCheckVersion(plan)
	response.ToResponse(code.Success.Clone().WithData(plan))
}

// Pull synchronizes the deployment directory with upstream
// Pull 同步部署目录
//
// @Summary Pull source
// @Description Synchronize the deployment directory with upstream through git; the raw output is returned in data.output
// @Tags Update
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=PullResponse} "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/update/pull [post]
func (h *UpdateHandler) Pull(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	done := h.App.TrackOperation()
	defer done()

	out, err := h.App.Updater.Pull(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		response.ToResponse(pullFailure(out, err))
		return
	}
	response.ToResponse(code.SuccessPull.Clone().WithData(PullResponse{Output: out}))
}

// Install installs backend and frontend dependencies
// Install 安装后端与前端依赖
//
// @Summary Install dependencies
// @Description Install backend and frontend dependencies; failures of each root are listed in details
// @Tags Update
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/update/install [post]
func (h *UpdateHandler) Install(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	done := h.App.TrackOperation()
	defer done()

	if err := h.App.Updater.InstallDependencies(context.WithoutCancel(c.Request.Context())); err != nil {
		response.ToResponse(installFailure(err))
		return
	}
	response.ToResponse(code.SuccessInstall)
}

// Restart replies immediately and replaces the process afterwards
// Restart 立即回复，随后替换当前进程
//
// @Summary Restart service
// @Description Reply first, then spawn a replacement process; the current process exits once the replacement is running
// @Tags Update
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/update/restart [post]
func (h *UpdateHandler) Restart(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	h.App.Updater.Restart(func() {
		response.ToResponse(code.SuccessRestart)
		response.Flush()
	})
}

// Full runs pull, optional install and optional restart in one request
// Full 一次请求完成拉取、可选的依赖安装与可选的重启
//
// @Summary Full update
// @Description Pull, then optionally install dependencies and restart, in one request
// @Tags Update
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Accept json
// @Produce json
// @Param params body FullUpdateRequest false "Update Options"
// @Success 200 {object} pkgapp.Res{data=updater.FullUpdateResult} "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/update/full [post]
func (h *UpdateHandler) Full(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	params := &FullUpdateRequest{}
	if c.Request.ContentLength != 0 {
		valid, errs := pkgapp.BindAndValid(c, params)
		if !valid {
			h.App.Logger().Error("apiRouter.Update.Full.BindAndValid errs", zap.Error(errs))
			response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
			return
		}
	}

	done := h.App.TrackOperation()
	defer done()

	opts := updater.FullUpdateOptions{NeedsDeps: params.NeedsDeps, NeedsRestart: params.NeedsRestart}
	h.App.Updater.FullUpdate(context.WithoutCancel(c.Request.Context()), opts, func(res updater.FullUpdateResult, err error) {
		switch {
		case err != nil && res.FailedStage == updater.StateInstalling:
			response.ToResponse(installFailure(err))
		case err != nil:
			response.ToResponse(pullFailure(res.Output, err))
		case res.Restarting:
			response.ToResponse(code.SuccessRestarting.Clone().WithData(res))
			response.Flush()
		default:
			response.ToResponse(code.SuccessNoRestart.Clone().WithData(res))
		}
	})
}

func pullFailure(out string, err error) *code.Code {
	if errors.Is(err, updater.ErrNoVersionControl) {
		return code.ErrorNoVersionControl
	}
	return code.ErrorUpdatePull.Clone().WithData(PullResponse{Output: out}).WithDetails(err.Error())
}

func installFailure(err error) *code.Code {
	var details []string
	for _, e := range multierr.Errors(err) {
		details = append(details, e.Error())
	}
	return code.ErrorUpdateInstall.Clone().WithDetails(details...)
}
