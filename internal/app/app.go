// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/start-page-service/internal/updater"
	pkgapp "github.com/haierkeys/start-page-service/pkg/app"

	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger

	// 更新服务
	Updater *updater.Service

	// 基础设施组件
	TokenManager pkgapp.TokenManager

	// StartTime 进程启动时间
	StartTime time.Time

	// 关闭控制
	shutdownCh chan struct{}
	restartCh  chan struct{}
	restartMu  sync.Once
	wg         sync.WaitGroup

	// 版本检查信息
	checkVersionMu sync.RWMutex
	checkVersion   *updater.UpdatePlan
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// opts: 更新服务的可选项，测试中用于替换仓库、命令执行器与重启器
func NewApp(cfg *AppConfig, logger *zap.Logger, opts ...updater.Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
		restartCh:  make(chan struct{}),
	}

	// 初始化 TokenManager
	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    pkgapp.DefaultTokenIssuer,
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 初始化更新服务，新进程就绪后通过 restartCh 通知主循环退出
	updCfg, err := cfg.GetUpdaterConfig()
	if err != nil {
		return nil, err
	}
	opts = append([]updater.Option{updater.WithRestartFunc(a.requestRestart)}, opts...)
	a.Updater, err = updater.NewService(updCfg, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("init updater: %w", err)
	}

	logger.Info("App container initialized successfully",
		zap.String("deployDir", updCfg.DeployDir),
		zap.String("repository", updCfg.Repository))

	return a, nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// CheckVersion 获取后台任务缓存的版本检查结果
func (a *App) CheckVersion() pkgapp.CheckVersionInfo {
	a.checkVersionMu.RLock()
	plan := a.checkVersion
	a.checkVersionMu.RUnlock()

	var cv pkgapp.CheckVersionInfo
	if plan == nil || !plan.HasUpdate {
		return cv
	}

	cv.VersionIsNew = true
	// 返回给客户端的版本号不带 v 前缀
	cv.VersionNewName = strings.TrimPrefix(plan.LatestVersion, "v")
	cv.PatchNew = plan.LatestPatch
	cv.FrontendOnly = plan.FrontendOnly
	if plan.LatestTag != "" && a.config.Update.Repository != "" {
		cv.VersionNewLink = "https://github.com/" + a.config.Update.Repository + "/releases/tag/" + plan.LatestTag
	}
	return cv
}

// SetCheckVersion 缓存最近一次检查结果
func (a *App) SetCheckVersion(plan *updater.UpdatePlan) {
	a.checkVersionMu.Lock()
	defer a.checkVersionMu.Unlock()
	a.checkVersion = plan
}

// LastCheck 最近一次缓存的检查结果，可能为 nil
func (a *App) LastCheck() *updater.UpdatePlan {
	a.checkVersionMu.RLock()
	defer a.checkVersionMu.RUnlock()
	return a.checkVersion
}

// Validator 获取验证器
func (a *App) Validator() pkgapp.ValidatorInterface {
	if binding.Validator == nil {
		return nil
	}
	if v, ok := binding.Validator.(pkgapp.ValidatorInterface); ok {
		return v
	}
	return nil
}

// IsReturnSuccess 是否返回成功响应
func (a *App) IsReturnSuccess() bool {
	return a.config.App.IsReturnSussess
}

// GetAuthTokenKey 获取 Token 密钥
func (a *App) GetAuthTokenKey() string {
	return a.config.Security.AuthTokenKey
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// requestRestart 新进程已就绪，通知主循环优雅退出
func (a *App) requestRestart() {
	a.restartMu.Do(func() {
		close(a.restartCh)
	})
}

// RestartSignal 返回重启信号通道，关闭时表示替代进程已经启动
func (a *App) RestartSignal() <-chan struct{} {
	return a.restartCh
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器，等待所有跟踪中的后台操作完成
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		// 已经关闭
		return nil
	default:
		close(a.shutdownCh)
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		return fmt.Errorf("background operations timeout: %w", ctx.Err())
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道（用于监听关闭事件）
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
