package middleware

import (
	"math"
	"strconv"

	"github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"
	"github.com/haierkeys/start-page-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter takes one token per request from the bucket matching the route;
// routes without a bucket are not limited
// RateLimiter 每个请求从匹配路由的令牌桶中取一个令牌；未配置令牌桶的路由不限流
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		bucket, ok := l.GetBucket(key)
		if !ok {
			c.Next()
			return
		}

		taken := bucket.TakeAvailable(1)
		c.Header("X-RateLimit-Limit", strconv.FormatInt(bucket.Capacity(), 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(bucket.Available(), 10))

		if taken == 0 {
			// 令牌按 FillInterval 整批补充，最迟一个间隔后可重试
			if rule, ok := l.GetRule(key); ok && rule.FillInterval > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rule.FillInterval.Seconds()))))
			}
			app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
