package routers

import (
	"time"

	_ "github.com/haierkeys/start-page-service/docs"
	"github.com/haierkeys/start-page-service/internal/app"
	"github.com/haierkeys/start-page-service/internal/middleware"
	"github.com/haierkeys/start-page-service/internal/routers/api_router"
	"github.com/haierkeys/start-page-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SwaggerPrefix 接口文档路径，仅 debug 模式挂载
const SwaggerPrefix = "/docs"

// UpdatePrefix 自更新接口前缀
const UpdatePrefix = "/api/admin/update"

func newMethodLimiter() limiter.Face {
	return limiter.NewMethodLimiter().AddBuckets(
		limiter.BucketRule{
			Key:          UpdatePrefix,
			FillInterval: time.Minute,
			Capacity:     10,
			Quantum:      10,
		},
	)
}

func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		versionHandler := api_router.NewVersionHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)
		systemHandler := api_router.NewSystemHandler(appContainer)
		updateHandler := api_router.NewUpdateHandler(appContainer)

		// 公开接口（无需认证）
		public := api.Group("", middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout)*time.Second))
		public.GET("/version", versionHandler.ServerVersion)
		public.GET("/health", healthHandler.Check)

		admin := api.Group("/admin",
			middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey),
			middleware.AdminOnly(int64(cfg.User.AdminUID)),
		)
		admin.GET("/system", middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout)*time.Second), systemHandler.GetSystemInfo)

		// 更新接口可能持续数分钟（依赖安装），不套用默认的请求超时
		// 限流放在认证之后，匿名请求不会消耗管理员的配额
		update := admin.Group("/update", middleware.RateLimiter(newMethodLimiter()))
		update.GET("/check", updateHandler.Check)
		update.POST("/pull", updateHandler.Pull)
		update.POST("/install", updateHandler.Install)
		update.POST("/restart", updateHandler.Restart)
		update.POST("/full", updateHandler.Full)
	}

	if cfg.Server.RunMode == gin.DebugMode {
		r.GET(SwaggerPrefix+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
