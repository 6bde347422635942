package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// SimpleAuthTokenWithConfig guards the private listener with a static token
// SimpleAuthTokenWithConfig 使用静态令牌保护私有监听；authToken 为空时不校验
// The token is read from ?authorization= or the Authorization header, with or without "Bearer "
// 令牌取自 ?authorization= 或 Authorization 请求头，可带 "Bearer " 前缀
func SimpleAuthTokenWithConfig(authToken string) gin.HandlerFunc {
	want := []byte(authToken)

	return func(c *gin.Context) {
		if authToken == "" {
			c.Next()
			return
		}

		token := c.Query("authorization")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if subtle.ConstantTimeCompare([]byte(token), want) != 1 {
			app.NewResponse(c).ToResponse(code.ErrorInvalidAuthToken)
			c.Abort()
			return
		}
		c.Next()
	}
}
