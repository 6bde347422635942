package middleware

import (
	"strings"

	"github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// UserAuthTokenWithConfig requires a valid operator JWT signed with secretKey
// UserAuthTokenWithConfig 要求请求携带使用 secretKey 签名的有效操作员 JWT
func UserAuthTokenWithConfig(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := operatorToken(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		if err := app.SetTokenToContextWithKey(c, token, secretKey); err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}

		c.Next()
	}
}

// operatorToken looks at the Authorization and Token headers, then the authorization and token query params
func operatorToken(c *gin.Context) string {
	for _, s := range []string{
		c.GetHeader("Authorization"),
		c.GetHeader("Token"),
		c.Query("authorization"),
		c.Query("token"),
	} {
		if s = strings.TrimSpace(strings.TrimPrefix(s, "Bearer ")); s != "" {
			return s
		}
	}
	return ""
}
