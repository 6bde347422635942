package routers

import (
	"expvar"
	"net/http/pprof"

	"github.com/haierkeys/start-page-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// DefaultPrefix url prefix of pprof
const DefaultPrefix = "/debug/pprof"

// profiles served through pprof.Handler
var profiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// NewPrivateRouterWithLogger builds the router of the private listener: /metrics, /debug/vars and, in debug mode, pprof
// NewPrivateRouterWithLogger 创建私有监听的路由：/metrics、/debug/vars，debug 模式下额外挂载 pprof
// authToken 非空时所有私有路由都需要携带该令牌
func NewPrivateRouterWithLogger(runMode string, authToken string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RecoveryWithLogger(logger))

	if authToken != "" {
		r.Use(middleware.SimpleAuthTokenWithConfig(authToken))
	}

	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if runMode != "debug" {
		return r
	}

	p := r.Group(DefaultPrefix)
	p.GET("/", gin.WrapF(pprof.Index))
	p.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	p.GET("/profile", gin.WrapF(pprof.Profile))
	p.Any("/symbol", gin.WrapF(pprof.Symbol))
	p.GET("/trace", gin.WrapF(pprof.Trace))
	for _, name := range profiles {
		p.GET("/"+name, gin.WrapH(pprof.Handler(name)))
	}

	return r
}
