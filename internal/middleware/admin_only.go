package middleware

import (
	"github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AdminOnly 只允许管理员 UID 访问，必须放在 UserAuthTokenWithConfig 之后
// adminUID 为 0 时任何已认证用户都视为管理员
func AdminOnly(adminUID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := app.GetUser(c)
		if user == nil {
			app.NewResponse(c).ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		if adminUID != 0 && user.UID != adminUID {
			app.NewResponse(c).ToResponse(code.ErrorUserNotAdmin)
			c.Abort()
			return
		}

		c.Next()
	}
}
