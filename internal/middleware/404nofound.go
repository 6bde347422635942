package middleware

import (
	"github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound answers unknown routes with ErrorNotFoundAPI, the method and path go into details
// NoFound 未知路由返回 ErrorNotFoundAPI，details 中带上请求方法与路径
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI.Clone().WithDetails(c.Request.Method + " " + c.Request.URL.Path))
		c.Abort()
	}
}
