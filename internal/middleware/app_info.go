package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	AppNameHeader    = "X-App-Name"
	AppVersionHeader = "X-App-Version"
)

// AppInfoWithConfig stamps every response with the name and version of the serving process,
// which tells a client whether a restart handoff already reached the new binary
// AppInfoWithConfig 在响应头中写入当前进程的应用名与版本，客户端据此判断重启交接是否已切换到新进程
func AppInfoWithConfig(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(AppNameHeader, name)
		c.Header(AppVersionHeader, version)
		c.Next()
	}
}
